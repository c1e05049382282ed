// Package config loads the process-level runtime configuration from
// environment variables and the optional per-project YAML files.
//
// The Runtime struct is assembled once at process entry and passed
// into the core; none of the core packages read ambient environment
// state directly.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Runtime holds all process configuration loaded from environment
// variables, most of which the enclosing workflow provides.
type Runtime struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Repository is the "owner/name" the automation operates on.
	Repository string `envconfig:"GITHUB_REPOSITORY"`

	// Token auth (the Actions GITHUB_TOKEN), or GitHub App auth.
	Token          string `envconfig:"GITHUB_TOKEN"`
	AppID          int64  `envconfig:"GITHUB_APP_ID"`
	InstallationID int64  `envconfig:"GITHUB_INSTALLATION_ID"`
	PrivateKeyPath string `envconfig:"GITHUB_PRIVATE_KEY_PATH"`

	// ToolRoot is the directory holding one subdirectory per project,
	// each with a spec.md and an optional configuration.yml.
	ToolRoot string `envconfig:"TOOL_ROOT" default:"projects"`

	// ToolPrefix is the branch-name prefix for work branches.
	ToolPrefix string `envconfig:"TOOL_PREFIX" default:"claudechain"`

	// BaseBranch is the global default base branch; projects may
	// override it in their configuration file.
	BaseBranch string `envconfig:"BASE_BRANCH" default:"main"`

	// IdentityScheme selects task identity: "hash" (default) or
	// "index" (legacy compatibility).
	IdentityScheme string `envconfig:"IDENTITY_SCHEME" default:"hash"`

	// PRLabel filters the automation's own PRs when listing.
	PRLabel string `envconfig:"PR_LABEL" default:"claudechain"`

	// ScriptTimeout bounds project hook script execution.
	ScriptTimeout time.Duration `envconfig:"SCRIPT_TIMEOUT" default:"600s"`

	// SummaryPath is the workflow step summary file, when present.
	SummaryPath string `envconfig:"GITHUB_STEP_SUMMARY"`

	// CostLogDir holds downloaded agent execution logs for cost
	// reporting. Reporting-only; never a correctness input.
	CostLogDir string `envconfig:"COST_LOG_DIR"`

	// Slack (optional; stats reports are posted when configured).
	SlackToken   string `envconfig:"SLACK_BOT_TOKEN"`
	SlackChannel string `envconfig:"SLACK_CHANNEL"`
}

// Load reads the runtime configuration from environment variables.
func Load() (*Runtime, error) {
	var cfg Runtime
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// GitHubAppEnabled returns true if GitHub App credentials are configured.
func (c *Runtime) GitHubAppEnabled() bool {
	return c.AppID > 0 && c.InstallationID > 0 && c.PrivateKeyPath != ""
}

// SlackEnabled returns true if Slack posting is configured.
func (c *Runtime) SlackEnabled() bool {
	return c.SlackToken != "" && c.SlackChannel != ""
}
