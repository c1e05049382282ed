// Package errors provides structured error types for the automation.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrNoCapacity    = errors.New("no capacity available")
	ErrNoTasks       = errors.New("no available tasks")
	ErrTimeout       = errors.New("operation timed out")
	ErrRateLimit     = errors.New("rate limit exceeded")
	ErrUnavailable   = errors.New("service unavailable")
)

// IsNoOp reports whether err is a legitimate nothing-to-do outcome
// (no capacity this cycle, or no task left to pick). These map to a
// zero process exit with a notice annotation, not an error.
func IsNoOp(err error) bool {
	return errors.Is(err, ErrNoCapacity) || errors.Is(err, ErrNoTasks)
}

// ConfigError reports a malformed or disallowed project configuration.
// Fatal to the current project only.
type ConfigError struct {
	Project string
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config error in project %q, field %q: %s", e.Project, e.Field, e.Message)
	}
	return fmt.Sprintf("config error in project %q: %s", e.Project, e.Message)
}

// NewConfigError creates a config error for a project field.
func NewConfigError(project, field, message string) *ConfigError {
	return &ConfigError{Project: project, Field: field, Message: message}
}

// ValidationError reports a spec file that exists but is not a valid
// checklist (or is missing entirely). Fatal to the current project only.
type ValidationError struct {
	Path    string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invalid spec %s: %s", e.Path, e.Message)
	}
	return "invalid spec: " + e.Message
}

// GitError reports a non-zero exit from a git subprocess, with the
// captured stderr. Fatal to the current invocation.
type GitError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *GitError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("git %v: %v: %s", e.Args, e.Err, e.Stderr)
	}
	return fmt.Sprintf("git %v: %v", e.Args, e.Err)
}

func (e *GitError) Unwrap() error { return e.Err }

// APIError represents a failure from the GitHub API. Whether it is
// fatal depends on the call site: advisory calls (PR listing for
// capacity or in-progress detection) degrade to zero results, required
// calls propagate.
type APIError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("github %s (status %d): %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("github %s: %v", e.Operation, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// NewAPIError wraps a GitHub API failure.
func NewAPIError(operation string, statusCode int, err error) *APIError {
	return &APIError{Operation: operation, StatusCode: statusCode, Err: err}
}

// ScriptError reports a project hook script that exited non-zero or
// timed out. Exit code and captured output are preserved.
type ScriptError struct {
	Path     string
	ExitCode int
	Stdout   string
	Stderr   string
	TimedOut bool
}

func (e *ScriptError) Error() string {
	if e.TimedOut {
		return fmt.Sprintf("script %s timed out", e.Path)
	}
	return fmt.Sprintf("script %s exited with code %d: %s", e.Path, e.ExitCode, e.Stderr)
}

// IsRetryable returns true if the error is likely transient and worth retrying.
func IsRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 429, 500, 502, 503, 504:
			return true
		}
	}
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrRateLimit) || errors.Is(err, ErrUnavailable)
}
