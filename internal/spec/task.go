// Package spec parses markdown task checklists and tracks task state.
//
// A spec file is a markdown document whose checklist lines
// ("- [ ] description" / "- [x] description") form an ordered task
// list. The document is re-parsed from the raw text on every read and
// never mutated in place; completing a task rewrites the underlying
// markdown line.
package spec

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Scheme selects how a task's stable identity is computed.
type Scheme int

const (
	// SchemeHash identifies tasks by a digest of their description.
	// Stable under reordering and whitespace edits. The default.
	SchemeHash Scheme = iota
	// SchemeIndex identifies tasks by their 1-based checklist position.
	// Legacy compatibility mode only: reordering tasks changes identity.
	SchemeIndex
)

// ParseScheme converts a config string into a Scheme.
func ParseScheme(s string) (Scheme, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hash":
		return SchemeHash, nil
	case "index":
		return SchemeIndex, nil
	default:
		return SchemeHash, fmt.Errorf("unknown identity scheme %q (want hash or index)", s)
	}
}

// IdentityKind distinguishes the two identity encodings.
type IdentityKind int

const (
	IdentityHash IdentityKind = iota
	IdentityIndex
)

// Identity is the stable key correlating a checklist entry with its
// in-flight PR: either a 1-based index (legacy) or an 8-hex-character
// digest of the normalized description.
type Identity struct {
	Kind  IdentityKind
	Index int
	Hash  string
}

// IndexIdentity builds an index-based identity.
func IndexIdentity(index int) Identity {
	return Identity{Kind: IdentityIndex, Index: index}
}

// HashIdentity builds a hash-based identity.
func HashIdentity(hash string) Identity {
	return Identity{Kind: IdentityHash, Hash: hash}
}

// String renders the identity as it appears in branch names: a decimal
// index or an 8-hex-char hash.
func (id Identity) String() string {
	if id.Kind == IdentityIndex {
		return strconv.Itoa(id.Index)
	}
	return id.Hash
}

var hashRe = regexp.MustCompile(`^[0-9a-f]{8}$`)

// ParseIdentity parses a branch-name identity component. An 8-character
// all-lowercase-hex token is a hash; any other all-decimal token is an
// index. Anything else does not parse.
func ParseIdentity(s string) (Identity, bool) {
	if hashRe.MatchString(s) {
		return HashIdentity(s), true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return Identity{}, false
	}
	return IndexIdentity(n), true
}

// Task is one checklist entry. Index is recomputed on every parse and
// never persisted; Hash is reproducible from the description alone.
type Task struct {
	Index       int
	Description string
	Completed   bool
	Hash        string
}

// Identity returns the task's identity under the given scheme.
func (t Task) Identity(scheme Scheme) Identity {
	if scheme == SchemeIndex {
		return IndexIdentity(t.Index)
	}
	return HashIdentity(t.Hash)
}

// HashDescription computes the stable 8-hex-char task hash: SHA-256
// over the description with leading/trailing whitespace stripped and
// internal whitespace collapsed to single spaces. The same
// normalization is applied everywhere a hash is computed, so the hash
// is reproducible from the description independent of surrounding
// markdown.
func HashDescription(description string) string {
	normalized := strings.Join(strings.Fields(description), " ")
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])[:8]
}
