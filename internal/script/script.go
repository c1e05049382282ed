// Package script runs project hook scripts (pre-prepare and
// post-complete) with a hard timeout.
package script

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"time"

	"github.com/rs/zerolog"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

// Runner executes hook scripts.
type Runner struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewRunner creates a runner with the given per-script timeout.
func NewRunner(timeout time.Duration, logger zerolog.Logger) *Runner {
	return &Runner{
		timeout: timeout,
		logger:  logger.With().Str("component", "script").Logger(),
	}
}

// Exists reports whether a hook script is present at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Run executes the script at path with the given extra environment,
// capturing stdout and stderr. A non-zero exit or a timeout returns a
// ScriptError preserving the exit code and output.
func (r *Runner) Run(ctx context.Context, path string, env []string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, path)
	cmd.Env = append(os.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.logger.Info().Str("script", path).Msg("running hook script")
	err := cmd.Run()
	if err == nil {
		return stdout.String(), nil
	}

	scriptErr := &perrors.ScriptError{
		Path:   path,
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		scriptErr.TimedOut = true
		scriptErr.ExitCode = -1
		return stdout.String(), scriptErr
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		scriptErr.ExitCode = exitErr.ExitCode()
		return stdout.String(), scriptErr
	}
	scriptErr.ExitCode = -1
	scriptErr.Stderr = err.Error()
	return stdout.String(), scriptErr
}
