// Package report renders project status for the two sinks the
// automation writes to: the workflow step summary (markdown) and
// Slack (Block Kit).
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/p-blackswan/claudechain/internal/cost"
)

// ProjectStatus is one project's aggregated state for reporting.
type ProjectStatus struct {
	Project        string
	TotalTasks     int
	CompletedTasks int
	PendingTasks   int
	OpenPRs        int
	MergedPRs      int
	AwaitingMerge  []int // open PR numbers whose branch already has the task checked
	Orphaned       []int // open PR numbers referencing removed tasks
	Stale          []int // open PR numbers older than the project's stale threshold
	Capacity       string
	NextTask       string
	Cost           cost.Cost
	Err            string // per-project processing error, if any
}

// Markdown renders a step-summary report for all projects.
func Markdown(statuses []ProjectStatus, runID string, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Task automation status\n\n")
	fmt.Fprintf(&b, "_Run `%s` at %s_\n\n", runID, now.UTC().Format(time.RFC3339))
	b.WriteString("| Project | Tasks | Open PRs | Merged | Capacity | Next task |\n")
	b.WriteString("|---------|-------|----------|--------|----------|-----------|\n")
	for _, s := range statuses {
		if s.Err != "" {
			fmt.Fprintf(&b, "| %s | — | — | — | — | ⚠️ %s |\n", s.Project, s.Err)
			continue
		}
		next := s.NextTask
		if next == "" {
			next = "_none_"
		}
		fmt.Fprintf(&b, "| %s | %d/%d done | %d | %d | %s | %s |\n",
			s.Project, s.CompletedTasks, s.TotalTasks, s.OpenPRs, s.MergedPRs, s.Capacity, next)
	}

	for _, s := range statuses {
		var notes []string
		if len(s.AwaitingMerge) > 0 {
			notes = append(notes, fmt.Sprintf("awaiting merge: %s", prList(s.AwaitingMerge)))
		}
		if len(s.Orphaned) > 0 {
			notes = append(notes, fmt.Sprintf("orphaned: %s", prList(s.Orphaned)))
		}
		if len(s.Stale) > 0 {
			notes = append(notes, fmt.Sprintf("stale: %s", prList(s.Stale)))
		}
		if s.Cost.TotalUSD > 0 {
			notes = append(notes, fmt.Sprintf("spend $%.2f (%d in / %d out tokens)",
				s.Cost.TotalUSD, s.Cost.InputTokens, s.Cost.OutputTokens))
		}
		if len(notes) > 0 {
			fmt.Fprintf(&b, "\n**%s** — %s\n", s.Project, strings.Join(notes, "; "))
		}
	}
	return b.String()
}

func prList(numbers []int) string {
	parts := make([]string, len(numbers))
	for i, n := range numbers {
		parts[i] = fmt.Sprintf("#%d", n)
	}
	return strings.Join(parts, ", ")
}
