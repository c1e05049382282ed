// Package git shells out to the git binary in a working directory.
package git

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

// Runner executes git commands in a fixed working directory.
type Runner struct {
	dir    string
	logger zerolog.Logger
}

// NewRunner creates a runner rooted at dir.
func NewRunner(dir string, logger zerolog.Logger) *Runner {
	return &Runner{
		dir:    dir,
		logger: logger.With().Str("component", "git").Logger(),
	}
}

// Run executes git with the given arguments and returns trimmed
// stdout. A non-zero exit returns a GitError with the captured stderr.
func (r *Runner) Run(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Debug().Strs("args", args).Msg("running git")
	if err := cmd.Run(); err != nil {
		return "", &perrors.GitError{
			Args:   args,
			Stderr: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return strings.TrimSpace(stdout.String()), nil
}

// CurrentBranch returns the name of the checked-out branch.
func (r *Runner) CurrentBranch(ctx context.Context) (string, error) {
	return r.Run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
}

// CreateBranch creates and checks out a branch from base.
func (r *Runner) CreateBranch(ctx context.Context, name, base string) error {
	_, err := r.Run(ctx, "checkout", "-b", name, base)
	return err
}

// HasChanges reports whether the working tree has uncommitted changes.
func (r *Runner) HasChanges(ctx context.Context) (bool, error) {
	out, err := r.Run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Push pushes a branch to origin.
func (r *Runner) Push(ctx context.Context, name string) error {
	_, err := r.Run(ctx, "push", "-u", "origin", name)
	return err
}
