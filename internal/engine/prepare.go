package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/p-blackswan/claudechain/internal/branch"
	perrors "github.com/p-blackswan/claudechain/internal/errors"
	"github.com/p-blackswan/claudechain/internal/script"
	"github.com/p-blackswan/claudechain/internal/spec"
)

// Prepared is the output of a prepare cycle: the created branch and
// the prompt the coding agent will be run with.
type Prepared struct {
	Project  string
	Task     spec.Task
	Branch   string
	Base     string
	Assignee string
	Prompt   string
}

// Prepare resolves the next available task for the project, creates
// its work branch, runs the optional pre-hook, and emits the agent
// prompt. No capacity or no available task are legitimate no-op
// outcomes (ErrNoCapacity / ErrNoTasks); everything else is fatal.
func (e *Engine) Prepare(ctx context.Context, project string) (*Prepared, error) {
	ev, err := e.Evaluate(ctx, project)
	if err != nil {
		return nil, err
	}
	if !ev.Capacity.HasCapacity {
		return nil, fmt.Errorf("%w: %s", perrors.ErrNoCapacity, ev.Capacity.Summary())
	}
	if ev.Next == nil {
		if ev.Doc.Pending() == 0 {
			return nil, fmt.Errorf("%w: all %d tasks complete", perrors.ErrNoTasks, ev.Doc.Total())
		}
		return nil, fmt.Errorf("%w: all %d pending tasks in progress", perrors.ErrNoTasks, ev.Doc.Pending())
	}

	task := *ev.Next
	name := branch.Format(e.cfg.ToolPrefix, project, task.Identity(e.scheme))
	base := ev.Config.ResolveBaseBranch(e.cfg.BaseBranch)

	if hook := e.hookPath(project, "prepare.sh"); script.Exists(hook) {
		if _, err := e.scripts.Run(ctx, hook, []string{
			"PROJECT=" + project,
			"BRANCH=" + name,
			"TASK_DESCRIPTION=" + task.Description,
		}); err != nil {
			return nil, err
		}
	}

	if err := e.createBranch(ctx, name, base); err != nil {
		return nil, err
	}

	assignee := ev.Capacity.SelectedReviewer
	if assignee == "" {
		assignee = ev.Capacity.Assignee
	}
	prepared := &Prepared{
		Project:  project,
		Task:     task,
		Branch:   name,
		Base:     base,
		Assignee: assignee,
		Prompt:   buildPrompt(project, task, ev.Config.AllowedTools),
	}
	e.logger.Info().
		Str("project", project).
		Str("branch", name).
		Int("task_index", task.Index).
		Str("assignee", ev.Capacity.AssigneeLabel()).
		Msg("prepared next task")
	return prepared, nil
}

func (e *Engine) createBranch(ctx context.Context, name, base string) error {
	if e.git != nil {
		if err := e.git.CreateBranch(ctx, name, base); err != nil {
			return err
		}
		return e.git.Push(ctx, name)
	}
	return e.gh.CreateBranch(ctx, name, base)
}

func (e *Engine) hookPath(project, name string) string {
	return filepath.Join(e.projectDir(project), "hooks", name)
}

func buildPrompt(project string, task spec.Task, allowedTools []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Work on the following task for project %q:\n\n%s\n", project, task.Description)
	if len(allowedTools) > 0 {
		fmt.Fprintf(&b, "\nAllowed tools: %s\n", strings.Join(allowedTools, ", "))
	}
	b.WriteString("\nWhen the task is done, commit your changes to the current branch.\n")
	return b.String()
}

// Complete rewrites the project's checklist line for description from
// unchecked to checked and runs the optional post-hook. Returns false
// when the line was already checked (or absent): calling Complete
// twice is a no-op by design. The spec file write is atomic so a
// killed process cannot leave it half-rewritten.
func (e *Engine) Complete(ctx context.Context, project, description string) (bool, error) {
	path := e.specPath(project)
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, &perrors.ValidationError{Path: path, Message: "spec file missing"}
		}
		return false, err
	}

	updated, changed := spec.MarkComplete(string(raw), description)
	if !changed {
		e.logger.Info().
			Str("project", project).
			Str("description", description).
			Msg("no unchecked line matched; already complete or description edited")
		return false, nil
	}

	if err := writeFileAtomic(path, []byte(updated)); err != nil {
		return false, err
	}
	e.logger.Info().Str("project", project).Str("description", description).Msg("task marked complete")

	if hook := e.hookPath(project, "complete.sh"); script.Exists(hook) {
		if _, err := e.scripts.Run(ctx, hook, []string{
			"PROJECT=" + project,
			"TASK_DESCRIPTION=" + description,
		}); err != nil {
			return true, err
		}
	}
	return true, nil
}

// writeFileAtomic writes content to a temp file in the target
// directory and renames it into place.
func writeFileAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
