// Package engine orchestrates one stateless read-decide-write cycle
// per CLI invocation: discover projects, gate on capacity, pick the
// next task, create the work branch, and rewrite the checklist when a
// PR merges.
//
// There is no cross-invocation locking: two concurrent workflow runs
// for the same project can both observe capacity and both open a PR.
// The open-PR limit is best effort under concurrent triggers; the
// enclosing workflow schedule is the retry mechanism.
package engine

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/p-blackswan/claudechain/internal/branch"
	"github.com/p-blackswan/claudechain/internal/cache"
	"github.com/p-blackswan/claudechain/internal/capacity"
	"github.com/p-blackswan/claudechain/internal/config"
	perrors "github.com/p-blackswan/claudechain/internal/errors"
	"github.com/p-blackswan/claudechain/internal/github"
	"github.com/p-blackswan/claudechain/internal/progress"
	"github.com/p-blackswan/claudechain/internal/script"
	"github.com/p-blackswan/claudechain/internal/spec"
)

// GitHubAPI is the GitHub collaborator surface the engine depends on.
type GitHubAPI interface {
	ListPullRequests(ctx context.Context, state, label string, limit int) ([]github.PullRequestRef, error)
	GetFileFromBranch(ctx context.Context, branch, path string) (string, error)
	CreateBranch(ctx context.Context, name, base string) error
}

// Git is the local git surface used when the invocation runs inside a
// checkout. When nil, branches are created through the GitHub API.
type Git interface {
	CreateBranch(ctx context.Context, name, base string) error
	Push(ctx context.Context, name string) error
}

// Engine runs the automation's lifecycle operations.
type Engine struct {
	cfg     *config.Runtime
	scheme  spec.Scheme
	gh      GitHubAPI
	git     Git
	scripts *script.Runner
	runID   string
	logger  zerolog.Logger

	// branchSpecs memoizes branch-scoped spec reads within one stats run.
	branchSpecs *cache.LRU[string, string]
}

// New creates an engine. gitRunner may be nil when no local checkout
// is available.
func New(cfg *config.Runtime, gh GitHubAPI, gitRunner Git, logger zerolog.Logger) (*Engine, error) {
	scheme, err := spec.ParseScheme(cfg.IdentityScheme)
	if err != nil {
		return nil, err
	}
	runID := uuid.New().String()[:8]
	return &Engine{
		cfg:         cfg,
		scheme:      scheme,
		gh:          gh,
		git:         gitRunner,
		scripts:     script.NewRunner(cfg.ScriptTimeout, logger),
		runID:       runID,
		logger:      logger.With().Str("component", "engine").Str("run_id", runID).Logger(),
		branchSpecs: cache.NewLRU[string, string](64),
	}, nil
}

// RunID identifies this invocation in logs and reports.
func (e *Engine) RunID() string { return e.runID }

// Scheme returns the configured identity scheme.
func (e *Engine) Scheme() spec.Scheme { return e.scheme }

func (e *Engine) projectDir(project string) string {
	return filepath.Join(e.cfg.ToolRoot, project)
}

func (e *Engine) specPath(project string) string {
	return filepath.Join(e.projectDir(project), "spec.md")
}

func (e *Engine) configPath(project string) string {
	return filepath.Join(e.projectDir(project), "configuration.yml")
}

// Projects lists all projects under the tool root: every directory
// containing a spec.md, in sorted order.
func (e *Engine) Projects() ([]string, error) {
	entries, err := os.ReadDir(e.cfg.ToolRoot)
	if err != nil {
		return nil, err
	}
	var projects []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(e.specPath(entry.Name())); err == nil {
			projects = append(projects, entry.Name())
		}
	}
	sort.Strings(projects)
	return projects, nil
}

// Evaluation is the full per-project decision state one cycle computes.
type Evaluation struct {
	Project    string
	Config     *config.Project
	Doc        *spec.Document
	OpenPRs    []github.PullRequestRef
	InProgress map[spec.Identity]bool
	Capacity   capacity.Result
	Orphans    []github.PullRequestRef
	Next       *spec.Task // nil when nothing is available
}

// Ready reports whether the project both has capacity and has an
// available task.
func (ev *Evaluation) Ready() bool {
	return ev.Capacity.HasCapacity && ev.Next != nil
}

// Evaluate runs the read-and-decide half of the cycle for one project:
// load config, parse the spec, derive the in-progress set from open
// PRs, and gate on capacity. Config and spec errors are fatal to the
// project; PR-listing failures degrade to zero open PRs with a warning
// since the listing is advisory.
func (e *Engine) Evaluate(ctx context.Context, project string) (*Evaluation, error) {
	logger := e.logger.With().Str("project", project).Logger()

	projCfg, err := config.LoadProject(e.configPath(project), project)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(e.specPath(project))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &perrors.ValidationError{Path: e.specPath(project), Message: "spec file missing"}
		}
		return nil, err
	}
	if err := spec.Validate(string(raw)); err != nil {
		return nil, err
	}
	doc := spec.Parse(string(raw))

	openPRs, err := e.gh.ListPullRequests(ctx, "open", e.cfg.PRLabel, 100)
	if err != nil {
		logger.Warn().Err(err).Msg("listing open PRs failed, assuming none found")
		openPRs = nil
	}

	inProgress := progress.InProgress(openPRs, e.cfg.ToolPrefix, project, logger)
	projectPRs := filterProjectPRs(openPRs, e.cfg.ToolPrefix, project)

	ev := &Evaluation{
		Project:    project,
		Config:     projCfg,
		Doc:        doc,
		OpenPRs:    projectPRs,
		InProgress: inProgress,
		Capacity:   capacity.PolicyFor(projCfg, logger).Check(projectPRs),
		Orphans:    progress.Orphaned(openPRs, doc, e.scheme, e.cfg.ToolPrefix, project),
	}
	for _, orphan := range ev.Orphans {
		logger.Warn().Int("pr", orphan.Number).Str("branch", orphan.Branch).
			Msg("orphaned PR: referenced task no longer in spec")
	}

	if next, ok := spec.NextAvailable(doc, e.scheme, inProgress, logger); ok {
		ev.Next = &next
	}
	return ev, nil
}

// DiscoverReady evaluates every project and returns those with both
// capacity and an available task. Per-project errors are logged and
// skipped so one broken project does not block others.
func (e *Engine) DiscoverReady(ctx context.Context) ([]*Evaluation, error) {
	projects, err := e.Projects()
	if err != nil {
		return nil, err
	}
	var ready []*Evaluation
	for _, project := range projects {
		ev, err := e.Evaluate(ctx, project)
		if err != nil {
			e.logger.Error().Err(err).Str("project", project).Msg("skipping project")
			continue
		}
		if ev.Ready() {
			ready = append(ready, ev)
		}
	}
	return ready, nil
}

func filterProjectPRs(prs []github.PullRequestRef, prefix, project string) []github.PullRequestRef {
	var out []github.PullRequestRef
	for _, pr := range prs {
		if prProject, _, ok := branch.Parse(prefix, pr.Branch); ok && prProject == project {
			out = append(out, pr)
		}
	}
	return out
}

// errProjectFatal reports whether the error kind is fatal to a single
// project (as opposed to the whole invocation).
func errProjectFatal(err error) bool {
	var cfgErr *perrors.ConfigError
	var valErr *perrors.ValidationError
	return errors.As(err, &cfgErr) || errors.As(err, &valErr)
}
