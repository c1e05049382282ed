package script

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	perrors "github.com/p-blackswan/claudechain/internal/errors"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("hook scripts require a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "hook.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755))
	return path
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	assert.False(t, Exists(filepath.Join(dir, "missing.sh")))
	assert.False(t, Exists(dir))

	path := filepath.Join(dir, "hook.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))
	assert.True(t, Exists(path))
}

func TestRun_Success(t *testing.T) {
	path := writeScript(t, `echo "branch is $BRANCH"`)
	r := NewRunner(10*time.Second, zerolog.Nop())

	out, err := r.Run(context.Background(), path, []string{"BRANCH=claudechain-billing-a1b2c3d4"})
	require.NoError(t, err)
	assert.Contains(t, out, "branch is claudechain-billing-a1b2c3d4")
}

func TestRun_NonZeroExit(t *testing.T) {
	path := writeScript(t, "echo oops >&2\nexit 3")
	r := NewRunner(10*time.Second, zerolog.Nop())

	_, err := r.Run(context.Background(), path, nil)
	var scriptErr *perrors.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.Equal(t, 3, scriptErr.ExitCode)
	assert.Contains(t, scriptErr.Stderr, "oops")
	assert.False(t, scriptErr.TimedOut)
}

func TestRun_Timeout(t *testing.T) {
	path := writeScript(t, "sleep 5")
	r := NewRunner(100*time.Millisecond, zerolog.Nop())

	_, err := r.Run(context.Background(), path, nil)
	var scriptErr *perrors.ScriptError
	require.ErrorAs(t, err, &scriptErr)
	assert.True(t, scriptErr.TimedOut)
}
