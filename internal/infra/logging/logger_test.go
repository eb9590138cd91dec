package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_WritesGlobalAndSessionFiles(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, slog.LevelInfo)
	defer func() { require.NoError(t, l.Close()) }()

	l.Info("session-abc", "lock", "acquired write lock")
	l.Info("global", "worktree", "created worktree")

	global, err := os.ReadFile(filepath.Join(dir, "agents.log"))
	require.NoError(t, err)
	assert.Contains(t, string(global), "[INFO] [session-abc] [lock] acquired write lock")
	assert.Contains(t, string(global), "[INFO] [global] [worktree] created worktree")

	session, err := os.ReadFile(filepath.Join(dir, "session-abc.log"))
	require.NoError(t, err)
	assert.Contains(t, string(session), "acquired write lock")
	assert.NotContains(t, string(session), "created worktree")
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	l := New(dir, slog.LevelWarn)
	defer func() { require.NoError(t, l.Close()) }()

	l.Debug("global", "lock", "noise")
	l.Info("global", "lock", "still noise")
	l.Warn("global", "lock", "kept")

	global, err := os.ReadFile(filepath.Join(dir, "agents.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(global), "noise")
	assert.Contains(t, string(global), "[WARN] [global] [lock] kept")
}

func TestLogger_DisabledWithoutDir(t *testing.T) {
	l := New("", slog.LevelDebug)
	assert.NotPanics(t, func() {
		l.Info("global", "lock", "dropped")
	})
	require.NoError(t, l.Close())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
