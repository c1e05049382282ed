package github

import "time"

// PullRequestRef is the subset of a GitHub PR the automation cares
// about. Reviewer is the recorded reviewer the automation assigned at
// creation time (the PR assignee field), not GitHub's native review
// request. Capacity attribution matches on this field.
type PullRequestRef struct {
	Number    int
	Title     string
	Branch    string
	State     string // open | closed | merged
	Author    string
	Reviewer  string
	Labels    []string
	CreatedAt time.Time
	MergedAt  time.Time
	URL       string
}

// HasLabel reports whether the PR carries the given label.
func (pr PullRequestRef) HasLabel(label string) bool {
	for _, l := range pr.Labels {
		if l == label {
			return true
		}
	}
	return false
}

// Age returns how long the PR has been open relative to now.
func (pr PullRequestRef) Age(now time.Time) time.Duration {
	return now.Sub(pr.CreatedAt)
}
