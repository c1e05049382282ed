package github

import (
	"testing"
	"time"

	gh "github.com/google/go-github/v60/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitRepository(t *testing.T) {
	owner, repo, err := splitRepository("acme/widgets")
	require.NoError(t, err)
	assert.Equal(t, "acme", owner)
	assert.Equal(t, "widgets", repo)

	for _, bad := range []string{"", "acme", "acme/", "/widgets"} {
		_, _, err := splitRepository(bad)
		assert.Error(t, err, "repository %q should be rejected", bad)
	}
}

func TestConvertPR(t *testing.T) {
	created := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	pr := &gh.PullRequest{
		Number:    gh.Int(42),
		Title:     gh.String("Add invoice export"),
		State:     gh.String("open"),
		HTMLURL:   gh.String("https://github.com/acme/widgets/pull/42"),
		CreatedAt: &gh.Timestamp{Time: created},
		User:      &gh.User{Login: gh.String("claudechain-bot")},
		Head:      &gh.PullRequestBranch{Ref: gh.String("claudechain-billing-a1b2c3d4")},
		Assignees: []*gh.User{{Login: gh.String("alice")}, {Login: gh.String("bob")}},
		Labels:    []*gh.Label{{Name: gh.String("claudechain")}},
	}

	ref := convertPR(pr)
	assert.Equal(t, 42, ref.Number)
	assert.Equal(t, "claudechain-billing-a1b2c3d4", ref.Branch)
	assert.Equal(t, "open", ref.State)
	assert.Equal(t, "claudechain-bot", ref.Author)
	assert.Equal(t, "alice", ref.Reviewer, "first assignee is the reviewer")
	assert.Equal(t, created, ref.CreatedAt)
	assert.True(t, ref.HasLabel("claudechain"))
	assert.False(t, ref.HasLabel("other"))
}

func TestConvertPR_Merged(t *testing.T) {
	merged := time.Date(2026, 8, 2, 9, 0, 0, 0, time.UTC)
	pr := &gh.PullRequest{
		Number:   gh.Int(7),
		State:    gh.String("closed"),
		MergedAt: &gh.Timestamp{Time: merged},
	}

	ref := convertPR(pr)
	assert.Equal(t, "merged", ref.State)
	assert.Equal(t, merged, ref.MergedAt)
}

func TestPullRequestRef_Age(t *testing.T) {
	now := time.Date(2026, 8, 27, 0, 0, 0, 0, time.UTC)
	ref := PullRequestRef{CreatedAt: now.Add(-72 * time.Hour)}
	assert.Equal(t, 72*time.Hour, ref.Age(now))
}
