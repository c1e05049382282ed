// Package progress derives the set of in-progress task identities from
// open pull requests. Branch names are the single source of truth: a
// task is in progress iff a currently open PR's branch name references
// its identity for the project.
package progress

import (
	"github.com/rs/zerolog"

	"github.com/p-blackswan/claudechain/internal/branch"
	"github.com/p-blackswan/claudechain/internal/github"
	"github.com/p-blackswan/claudechain/internal/spec"
)

// InProgress returns the identities referenced by open PRs whose
// branch names parse to the given project. PRs whose branches fail to
// parse are excluded silently: they are unrelated tooling or malformed
// and must not block task discovery.
func InProgress(openPRs []github.PullRequestRef, prefix, project string, logger zerolog.Logger) map[spec.Identity]bool {
	ids := make(map[spec.Identity]bool)
	for _, pr := range openPRs {
		prProject, id, ok := branch.Parse(prefix, pr.Branch)
		if !ok || prProject != project {
			continue
		}
		logger.Debug().
			Int("pr", pr.Number).
			Str("identity", id.String()).
			Msg("task in progress")
		ids[id] = true
	}
	return ids
}

// Orphaned returns open PRs for the project whose referenced task
// identity no longer exists in the current document: the task was
// removed or edited after the PR was opened. Orphans are reported, not
// auto-closed.
func Orphaned(openPRs []github.PullRequestRef, doc *spec.Document, scheme spec.Scheme, prefix, project string) []github.PullRequestRef {
	var orphans []github.PullRequestRef
	for _, pr := range openPRs {
		prProject, id, ok := branch.Parse(prefix, pr.Branch)
		if !ok || prProject != project {
			continue
		}
		if _, found := doc.FindByIdentity(scheme, id); !found {
			orphans = append(orphans, pr)
		}
	}
	return orphans
}
