package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

// Reviewer is one configured reviewer with its own open-PR limit.
type Reviewer struct {
	Username   string `yaml:"username"`
	MaxOpenPRs int    `yaml:"maxOpenPRs"`
}

// Project holds per-project settings from configuration.yml. A project
// with no configuration file uses the documented defaults: no
// assignee, the global base branch, capacity of one open PR.
type Project struct {
	Reviewers    []Reviewer `yaml:"reviewers"`
	Assignee     string     `yaml:"assignee"`
	MaxOpenPRs   int        `yaml:"maxOpenPRs"`
	BaseBranch   string     `yaml:"baseBranch"`
	AllowedTools []string   `yaml:"allowedTools"`
	StalePRDays  int        `yaml:"stalePRDays"`
}

// projectKeys are the recognized configuration.yml keys.
var projectKeys = map[string]bool{
	"reviewers":    true,
	"assignee":     true,
	"maxOpenPRs":   true,
	"baseBranch":   true,
	"allowedTools": true,
	"stalePRDays":  true,
}

// DefaultProject returns the configuration used when no file exists.
func DefaultProject() *Project {
	return &Project{MaxOpenPRs: 1}
}

// LoadProject reads and validates a project's configuration.yml. A
// missing file is not an error: defaults apply. A malformed or
// disallowed file is a ConfigError, fatal to this project only.
func LoadProject(path, project string) (*Project, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultProject(), nil
	}
	if err != nil {
		return nil, perrors.NewConfigError(project, "", err.Error())
	}
	return parseProject(data, project)
}

func parseProject(data []byte, project string) (*Project, error) {
	// First pass over raw keys: one exhaustive error path for unknown
	// and deprecated keys, with a migration message for branchPrefix.
	var raw map[string]yaml.Node
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, perrors.NewConfigError(project, "", fmt.Sprintf("invalid YAML: %v", err))
	}
	for key := range raw {
		if key == "branchPrefix" {
			return nil, perrors.NewConfigError(project, "branchPrefix",
				"branchPrefix is no longer supported; branch names are derived from TOOL_PREFIX — remove this key")
		}
		if !projectKeys[key] {
			return nil, perrors.NewConfigError(project, key, "unrecognized configuration key")
		}
	}

	cfg := DefaultProject()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, perrors.NewConfigError(project, "", fmt.Sprintf("invalid YAML: %v", err))
	}
	if err := cfg.validate(project); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Project) validate(project string) error {
	if len(c.Reviewers) > 0 && c.Assignee != "" {
		return perrors.NewConfigError(project, "reviewers",
			"reviewers and assignee are mutually exclusive")
	}
	seen := make(map[string]bool, len(c.Reviewers))
	for i, r := range c.Reviewers {
		if r.Username == "" {
			return perrors.NewConfigError(project, fmt.Sprintf("reviewers[%d].username", i), "username is required")
		}
		if r.MaxOpenPRs < 1 {
			return perrors.NewConfigError(project, fmt.Sprintf("reviewers[%d].maxOpenPRs", i), "must be at least 1")
		}
		if seen[r.Username] {
			return perrors.NewConfigError(project, fmt.Sprintf("reviewers[%d].username", i), "duplicate reviewer "+r.Username)
		}
		seen[r.Username] = true
	}
	if c.MaxOpenPRs < 1 {
		return perrors.NewConfigError(project, "maxOpenPRs", "must be at least 1")
	}
	if c.StalePRDays < 0 {
		return perrors.NewConfigError(project, "stalePRDays", "must not be negative")
	}
	return nil
}

// ResolveBaseBranch returns the project's base branch, falling back to
// the global default.
func (c *Project) ResolveBaseBranch(globalDefault string) string {
	if c.BaseBranch != "" {
		return c.BaseBranch
	}
	return globalDefault
}
