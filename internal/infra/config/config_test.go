package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	configDir := filepath.Join(dir, ConfigDirName)
	require.NoError(t, os.MkdirAll(configDir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(configDir, ConfigFileName), []byte(content), 0o600))
}

func TestLoader_Defaults(t *testing.T) {
	cfg, err := NewLoader(t.TempDir()).Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Locks.DefaultTimeout())
	assert.Equal(t, 5*time.Second, cfg.Locks.SharedReadTimeout())
	assert.Equal(t, 10*time.Second, cfg.Locks.SweepInterval())
	assert.Contains(t, cfg.Locks.SharedFiles, "package.json")
	assert.Equal(t, 7*24*time.Hour, cfg.Snapshots.Retention())
	assert.Equal(t, time.Hour, cfg.Snapshots.SweepInterval())
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoader_RepoOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[locks]
default_timeout_seconds = 60
shared_files = ["schema.prisma"]

[snapshots]
retention_days = 14

[log]
level = "debug"
`)

	cfg, err := NewLoader(dir).Load()
	require.NoError(t, err)

	assert.Equal(t, time.Minute, cfg.Locks.DefaultTimeout())
	assert.Equal(t, 5*time.Second, cfg.Locks.SharedReadTimeout(), "unset values keep defaults")
	assert.Contains(t, cfg.Locks.SharedFiles, "schema.prisma", "repo entries extend the list")
	assert.Contains(t, cfg.Locks.SharedFiles, "package.json", "defaults survive the merge")
	assert.Equal(t, 14*24*time.Hour, cfg.Snapshots.Retention())
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "locks = not valid")

	_, err := NewLoader(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}
