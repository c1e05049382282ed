// Package capacity decides whether a new PR may be created for a
// project, under either a single project-level open-PR limit or
// per-reviewer limits. Both modes produce a Result with a
// human-readable summary; hitting the limit is a legitimate
// nothing-to-do outcome, not an error.
package capacity

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/p-blackswan/claudechain/internal/config"
	"github.com/p-blackswan/claudechain/internal/github"
)

// ReviewerLoad is one reviewer's current open-PR count against its limit.
type ReviewerLoad struct {
	Username string
	Open     int
	Max      int
}

// Result is the outcome of a capacity check. When HasCapacity is true
// a concrete identity is always present (the selected reviewer, the
// project assignee, or explicitly "no assignee"); when false,
// SelectedReviewer is always empty.
type Result struct {
	HasCapacity      bool
	SelectedReviewer string
	Assignee         string
	AllAtCapacity    bool
	OpenCount        int
	Limit            int
	Blocking         []github.PullRequestRef
	Reviewers        []ReviewerLoad
}

// AssigneeLabel names who the next PR would be assigned to.
func (r Result) AssigneeLabel() string {
	switch {
	case r.SelectedReviewer != "":
		return r.SelectedReviewer
	case r.Assignee != "":
		return r.Assignee
	default:
		return "no assignee"
	}
}

// Summary renders the decision for logs and workflow annotations.
func (r Result) Summary() string {
	var b strings.Builder
	if len(r.Reviewers) > 0 {
		for _, rl := range r.Reviewers {
			fmt.Fprintf(&b, "%s: %d/%d open", rl.Username, rl.Open, rl.Max)
			b.WriteString("; ")
		}
		if r.HasCapacity {
			fmt.Fprintf(&b, "selected %s", r.SelectedReviewer)
		} else {
			b.WriteString("all reviewers at capacity")
		}
		return b.String()
	}
	fmt.Fprintf(&b, "%d/%d open PRs", r.OpenCount, r.Limit)
	if r.HasCapacity {
		fmt.Fprintf(&b, "; capacity available (%s)", r.AssigneeLabel())
	} else {
		b.WriteString("; at capacity")
	}
	return b.String()
}

// Policy decides capacity for a set of currently open project PRs.
type Policy interface {
	Check(openPRs []github.PullRequestRef) Result
}

// PolicyFor selects the policy a project's configuration implies:
// per-reviewer limits when reviewers are configured, a single
// project-level limit otherwise.
func PolicyFor(cfg *config.Project, logger zerolog.Logger) Policy {
	if len(cfg.Reviewers) > 0 {
		return &PerReviewerPolicy{Reviewers: cfg.Reviewers, logger: logger}
	}
	return &ProjectLimitPolicy{Limit: cfg.MaxOpenPRs, Assignee: cfg.Assignee}
}

// ProjectLimitPolicy applies one global limit to all open PRs for the
// project regardless of assignee. No reviewer is ever selected in this
// mode; the result's Assignee reflects the project's optional assignee
// field independent of capacity.
type ProjectLimitPolicy struct {
	Limit    int
	Assignee string
}

func (p *ProjectLimitPolicy) Check(openPRs []github.PullRequestRef) Result {
	limit := p.Limit
	if limit < 1 {
		limit = 1
	}
	r := Result{
		Assignee:  p.Assignee,
		OpenCount: len(openPRs),
		Limit:     limit,
	}
	if len(openPRs) < limit {
		r.HasCapacity = true
	} else {
		r.AllAtCapacity = true
		r.Blocking = openPRs
	}
	return r
}

// PerReviewerPolicy counts each reviewer's assigned open PRs (matched
// by the recorded reviewer field) against their individual limit and
// selects the first reviewer in configuration order with remaining
// capacity. A PR whose recorded reviewer is not in the configured list
// is logged and excluded from every reviewer's count.
type PerReviewerPolicy struct {
	Reviewers []config.Reviewer
	logger    zerolog.Logger
}

func (p *PerReviewerPolicy) Check(openPRs []github.PullRequestRef) Result {
	configured := make(map[string]bool, len(p.Reviewers))
	for _, rv := range p.Reviewers {
		configured[rv.Username] = true
	}

	counts := make(map[string]int, len(p.Reviewers))
	var blocking []github.PullRequestRef
	for _, pr := range openPRs {
		if pr.Reviewer == "" || !configured[pr.Reviewer] {
			p.logger.Warn().
				Int("pr", pr.Number).
				Str("reviewer", pr.Reviewer).
				Msg("open PR attributed to unknown reviewer, excluded from counts")
			continue
		}
		counts[pr.Reviewer]++
		blocking = append(blocking, pr)
	}

	r := Result{OpenCount: len(openPRs)}
	for _, rv := range p.Reviewers {
		load := ReviewerLoad{Username: rv.Username, Open: counts[rv.Username], Max: rv.MaxOpenPRs}
		r.Reviewers = append(r.Reviewers, load)
		if !r.HasCapacity && load.Open < load.Max {
			r.HasCapacity = true
			r.SelectedReviewer = rv.Username
		}
	}
	if !r.HasCapacity {
		r.AllAtCapacity = true
		r.Blocking = blocking
	}
	return r
}
