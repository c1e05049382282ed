package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

func initRepo(t *testing.T) *Runner {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git binary not available")
	}
	dir := t.TempDir()
	r := NewRunner(dir, zerolog.Nop())
	ctx := context.Background()

	_, err := r.Run(ctx, "init", "--initial-branch=main")
	require.NoError(t, err)
	_, err = r.Run(ctx, "config", "user.email", "test@example.com")
	require.NoError(t, err)
	_, err = r.Run(ctx, "config", "user.name", "Test")
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "spec.md"), []byte("- [ ] first task\n"), 0o644))
	_, err = r.Run(ctx, "add", ".")
	require.NoError(t, err)
	_, err = r.Run(ctx, "commit", "-m", "initial")
	require.NoError(t, err)
	return r
}

func TestCurrentBranch(t *testing.T) {
	r := initRepo(t)
	branch, err := r.CurrentBranch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestCreateBranch(t *testing.T) {
	r := initRepo(t)
	ctx := context.Background()
	require.NoError(t, r.CreateBranch(ctx, "claudechain-billing-a1b2c3d4", "main"))

	branch, err := r.CurrentBranch(ctx)
	require.NoError(t, err)
	assert.Equal(t, "claudechain-billing-a1b2c3d4", branch)
}

func TestHasChanges(t *testing.T) {
	r := initRepo(t)
	ctx := context.Background()

	dirty, err := r.HasChanges(ctx)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(r.dir, "spec.md"), []byte("- [x] first task\n"), 0o644))
	dirty, err = r.HasChanges(ctx)
	require.NoError(t, err)
	assert.True(t, dirty)
}

func TestRun_ErrorCapturesStderr(t *testing.T) {
	r := initRepo(t)
	_, err := r.Run(context.Background(), "checkout", "no-such-branch")
	var gitErr *perrors.GitError
	require.ErrorAs(t, err, &gitErr)
	assert.NotEmpty(t, gitErr.Stderr)
}
