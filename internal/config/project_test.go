package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "configuration.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProject_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadProject(filepath.Join(t.TempDir(), "configuration.yml"), "billing")
	require.NoError(t, err)
	assert.Empty(t, cfg.Assignee)
	assert.Empty(t, cfg.Reviewers)
	assert.Equal(t, 1, cfg.MaxOpenPRs)
	assert.Equal(t, "develop", cfg.ResolveBaseBranch("develop"))
}

func TestLoadProject_Reviewers(t *testing.T) {
	path := writeConfig(t, `
reviewers:
  - username: alice
    maxOpenPRs: 1
  - username: bob
    maxOpenPRs: 2
stalePRDays: 7
`)
	cfg, err := LoadProject(path, "billing")
	require.NoError(t, err)
	require.Len(t, cfg.Reviewers, 2)
	assert.Equal(t, "alice", cfg.Reviewers[0].Username)
	assert.Equal(t, 2, cfg.Reviewers[1].MaxOpenPRs)
	assert.Equal(t, 7, cfg.StalePRDays)
}

func TestLoadProject_Assignee(t *testing.T) {
	path := writeConfig(t, "assignee: carol\nbaseBranch: develop\nallowedTools: [Edit, Bash]\n")
	cfg, err := LoadProject(path, "billing")
	require.NoError(t, err)
	assert.Equal(t, "carol", cfg.Assignee)
	assert.Equal(t, "develop", cfg.ResolveBaseBranch("main"))
	assert.Equal(t, []string{"Edit", "Bash"}, cfg.AllowedTools)
}

func TestLoadProject_BranchPrefixMigrationError(t *testing.T) {
	path := writeConfig(t, "branchPrefix: legacy\n")
	_, err := LoadProject(path, "billing")
	require.Error(t, err)
	var cfgErr *perrors.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "branchPrefix", cfgErr.Field)
	assert.Contains(t, err.Error(), "no longer supported")
}

func TestLoadProject_UnknownKey(t *testing.T) {
	path := writeConfig(t, "surpriseKey: 1\n")
	_, err := LoadProject(path, "billing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unrecognized configuration key")
}

func TestLoadProject_ReviewersAndAssigneeExclusive(t *testing.T) {
	path := writeConfig(t, `
assignee: carol
reviewers:
  - username: alice
    maxOpenPRs: 1
`)
	_, err := LoadProject(path, "billing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mutually exclusive")
}

func TestLoadProject_ReviewerValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"missing username", "reviewers:\n  - maxOpenPRs: 1\n", "username is required"},
		{"zero limit", "reviewers:\n  - username: alice\n    maxOpenPRs: 0\n", "at least 1"},
		{"duplicate", "reviewers:\n  - username: alice\n    maxOpenPRs: 1\n  - username: alice\n    maxOpenPRs: 2\n", "duplicate reviewer"},
		{"negative stale", "stalePRDays: -1\n", "must not be negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadProject(writeConfig(t, tt.content), "billing")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadProject_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "reviewers: [unclosed\n")
	_, err := LoadProject(path, "billing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid YAML")
}
