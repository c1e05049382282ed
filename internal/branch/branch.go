// Package branch implements the work-branch naming contract.
//
// Branch names follow the fixed grammar {prefix}-{project}-{identity}
// where identity is either a decimal task index or an 8-hex-char task
// hash. Parse is the exact inverse of Format for all valid inputs;
// branches that do not match the grammar parse to no-match rather than
// erroring, since they are either unrelated tooling or malformed and
// must not block task discovery.
package branch

import (
	"fmt"
	"strings"

	"github.com/p-blackswan/claudechain/internal/spec"
)

// Format renders the branch name for a project task.
func Format(prefix, project string, id spec.Identity) string {
	return fmt.Sprintf("%s-%s-%s", prefix, project, id)
}

// Parse extracts the project and task identity from a branch name
// created by Format with the same prefix. Returns ok=false for any
// branch that does not match the grammar.
func Parse(prefix, name string) (project string, id spec.Identity, ok bool) {
	rest, found := strings.CutPrefix(name, prefix+"-")
	if !found {
		return "", spec.Identity{}, false
	}
	// Project names may contain hyphens; the identity is always the
	// final component.
	cut := strings.LastIndex(rest, "-")
	if cut <= 0 || cut == len(rest)-1 {
		return "", spec.Identity{}, false
	}
	id, ok = spec.ParseIdentity(rest[cut+1:])
	if !ok {
		return "", spec.Identity{}, false
	}
	return rest[:cut], id, true
}
