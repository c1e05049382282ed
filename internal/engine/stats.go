package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/p-blackswan/claudechain/internal/branch"
	"github.com/p-blackswan/claudechain/internal/cost"
	"github.com/p-blackswan/claudechain/internal/report"
	"github.com/p-blackswan/claudechain/internal/spec"
)

// Statistics aggregates per-project status: task counts, open and
// merged PR counts, orphaned/stale PRs, branch-side completion state,
// and recorded spend. Per-project errors are folded into the status
// rather than aborting the report.
func (e *Engine) Statistics(ctx context.Context) ([]report.ProjectStatus, error) {
	projects, err := e.Projects()
	if err != nil {
		return nil, err
	}

	var mergedPRs []prBranchRef
	if merged, err := e.gh.ListPullRequests(ctx, "merged", e.cfg.PRLabel, 100); err != nil {
		e.logger.Warn().Err(err).Msg("listing merged PRs failed, merged counts omitted")
	} else {
		for _, pr := range merged {
			if project, _, ok := branch.Parse(e.cfg.ToolPrefix, pr.Branch); ok {
				mergedPRs = append(mergedPRs, prBranchRef{project: project, number: pr.Number})
			}
		}
	}

	now := time.Now()
	var statuses []report.ProjectStatus
	for _, project := range projects {
		status := report.ProjectStatus{Project: project}
		ev, err := e.Evaluate(ctx, project)
		if err != nil {
			status.Err = err.Error()
			statuses = append(statuses, status)
			if !errProjectFatal(err) {
				e.logger.Error().Err(err).Str("project", project).Msg("statistics evaluation failed")
			}
			continue
		}

		status.TotalTasks = ev.Doc.Total()
		status.CompletedTasks = ev.Doc.Completed()
		status.PendingTasks = ev.Doc.Pending()
		status.OpenPRs = len(ev.OpenPRs)
		status.Capacity = ev.Capacity.Summary()
		if ev.Next != nil {
			status.NextTask = ev.Next.Description
		}
		for _, pr := range ev.Orphans {
			status.Orphaned = append(status.Orphaned, pr.Number)
		}
		for _, ref := range mergedPRs {
			if ref.project == project {
				status.MergedPRs++
			}
		}

		staleAfter := time.Duration(ev.Config.StalePRDays) * 24 * time.Hour
		for _, pr := range ev.OpenPRs {
			if ev.Config.StalePRDays > 0 && pr.Age(now) > staleAfter {
				status.Stale = append(status.Stale, pr.Number)
			}
			if e.branchTaskDone(ctx, project, pr.Branch) {
				status.AwaitingMerge = append(status.AwaitingMerge, pr.Number)
			}
		}

		if e.cfg.CostLogDir != "" {
			c, parsed, err := cost.SumDir(filepath.Join(e.cfg.CostLogDir, project))
			if err != nil {
				e.logger.Warn().Err(err).Str("project", project).Msg("cost aggregation failed")
			} else if parsed > 0 {
				status.Cost = c
			}
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

type prBranchRef struct {
	project string
	number  int
}

// branchTaskDone reports whether the work branch's copy of the spec
// already has the PR's task checked, meaning the PR is finished and awaiting
// merge. Branch reads are cached per run.
func (e *Engine) branchTaskDone(ctx context.Context, project, branchName string) bool {
	_, id, ok := branch.Parse(e.cfg.ToolPrefix, branchName)
	if !ok {
		return false
	}

	raw, cached := e.branchSpecs.Get(branchName)
	if !cached {
		content, err := e.gh.GetFileFromBranch(ctx, branchName, e.specPath(project))
		if err != nil {
			return false
		}
		e.branchSpecs.Put(branchName, content)
		raw = content
	}

	task, found := spec.Parse(raw).FindByIdentity(e.scheme, id)
	return found && task.Completed
}

// WriteSummary appends the markdown report to the workflow step
// summary file when one is configured.
func (e *Engine) WriteSummary(statuses []report.ProjectStatus) error {
	if e.cfg.SummaryPath == "" {
		return nil
	}
	f, err := os.OpenFile(e.cfg.SummaryPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening step summary: %w", err)
	}
	defer f.Close()
	_, err = f.WriteString(report.Markdown(statuses, e.runID, time.Now()))
	return err
}
