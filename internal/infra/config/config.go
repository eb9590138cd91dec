// Package config provides TOML configuration loading.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFileName is the repo-local configuration file, relative to the
// project root.
const ConfigFileName = "agents.toml"

// ConfigDirName is the directory under the project root holding
// configuration and logs.
const ConfigDirName = ".vcode"

// Config is the application configuration.
type Config struct {
	Locks     LocksConfig     `toml:"locks"`
	Snapshots SnapshotsConfig `toml:"snapshots"`
	Log       LogConfig       `toml:"log"`
}

// LocksConfig holds lock manager settings from the [locks] section.
type LocksConfig struct {
	DefaultTimeoutSeconds    int      `toml:"default_timeout_seconds"`
	SharedReadTimeoutSeconds int      `toml:"shared_read_timeout_seconds"`
	SweepIntervalSeconds     int      `toml:"sweep_interval_seconds"`
	SharedFiles              []string `toml:"shared_files"`
}

// SnapshotsConfig holds snapshot store settings from the [snapshots] section.
type SnapshotsConfig struct {
	RetentionDays        int `toml:"retention_days"`
	SweepIntervalMinutes int `toml:"sweep_interval_minutes"`
}

// LogConfig holds logging settings from the [log] section.
type LogConfig struct {
	Level string `toml:"level"`
}

// DefaultTimeout returns the default lock timeout as a duration.
func (c LocksConfig) DefaultTimeout() time.Duration {
	return time.Duration(c.DefaultTimeoutSeconds) * time.Second
}

// SharedReadTimeout returns the shortened read timeout for shared
// config-like files.
func (c LocksConfig) SharedReadTimeout() time.Duration {
	return time.Duration(c.SharedReadTimeoutSeconds) * time.Second
}

// SweepInterval returns the lock sweep interval.
func (c LocksConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalSeconds) * time.Second
}

// Retention returns the snapshot retention window.
func (c SnapshotsConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// SweepInterval returns the snapshot sweep interval.
func (c SnapshotsConfig) SweepInterval() time.Duration {
	return time.Duration(c.SweepIntervalMinutes) * time.Minute
}

// NewDefault returns the built-in configuration. The shared-files list
// covers config-like filenames commonly read across sessions; a project
// config may extend it but cannot weaken write exclusivity.
func NewDefault() *Config {
	return &Config{
		Locks: LocksConfig{
			DefaultTimeoutSeconds:    30,
			SharedReadTimeoutSeconds: 5,
			SweepIntervalSeconds:     10,
			SharedFiles: []string{
				"package.json",
				"package-lock.json",
				"tsconfig.json",
				"go.mod",
				"go.sum",
				"Cargo.toml",
				"pyproject.toml",
				".gitignore",
				"README.md",
			},
		},
		Snapshots: SnapshotsConfig{
			RetentionDays:        7,
			SweepIntervalMinutes: 60,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Loader loads configuration from the project's .vcode directory.
type Loader struct {
	projectPath string
}

// NewLoader creates a Loader for the given project root.
func NewLoader(projectPath string) *Loader {
	return &Loader{projectPath: projectPath}
}

// Load returns the built-in defaults merged with the repo config, when one
// exists. Repo values take precedence; the shared-files list is appended,
// not replaced.
func (l *Loader) Load() (*Config, error) {
	base := NewDefault()

	path := filepath.Join(l.projectPath, ConfigDirName, ConfigFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return base, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var repo Config
	if err := toml.Unmarshal(data, &repo); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return merge(base, &repo), nil
}

func merge(base, repo *Config) *Config {
	out := *base

	if repo.Locks.DefaultTimeoutSeconds > 0 {
		out.Locks.DefaultTimeoutSeconds = repo.Locks.DefaultTimeoutSeconds
	}
	if repo.Locks.SharedReadTimeoutSeconds > 0 {
		out.Locks.SharedReadTimeoutSeconds = repo.Locks.SharedReadTimeoutSeconds
	}
	if repo.Locks.SweepIntervalSeconds > 0 {
		out.Locks.SweepIntervalSeconds = repo.Locks.SweepIntervalSeconds
	}
	if len(repo.Locks.SharedFiles) > 0 {
		out.Locks.SharedFiles = append(out.Locks.SharedFiles, repo.Locks.SharedFiles...)
	}
	if repo.Snapshots.RetentionDays > 0 {
		out.Snapshots.RetentionDays = repo.Snapshots.RetentionDays
	}
	if repo.Snapshots.SweepIntervalMinutes > 0 {
		out.Snapshots.SweepIntervalMinutes = repo.Snapshots.SweepIntervalMinutes
	}
	if repo.Log.Level != "" {
		out.Log.Level = repo.Log.Level
	}

	return &out
}
