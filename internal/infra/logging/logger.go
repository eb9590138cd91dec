// Package logging provides file-based logging. It outputs logs to a
// global log file (.vcode/logs/agents.log) and session-specific log files
// (.vcode/logs/session-<id>.log).
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// Ensure Logger implements domain.Logger.
var _ domain.Logger = (*Logger)(nil)

// Logger writes scoped log lines to files.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile   *os.File
	sessionFiles map[string]*os.File
	logDir       string
	mu           sync.Mutex
	level        slog.Level
}

// New creates a Logger writing under logDir. If logDir is empty, logging
// is disabled.
func New(logDir string, level slog.Level) *Logger {
	return &Logger{
		logDir:       logDir,
		level:        level,
		sessionFiles: make(map[string]*os.File),
	}
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.sessionFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.sessionFiles, id)
	}
	return lastErr
}

func (l *Logger) ensureGlobalFile() (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile != nil {
		return l.globalFile, nil
	}

	if err := os.MkdirAll(l.logDir, 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(l.logDir, "agents.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open global log file: %w", err)
	}
	l.globalFile = f
	return f, nil
}

// ensureSessionFile opens the per-scope log file. The scope is already
// the file base name, e.g. "session-abc".
func (l *Logger) ensureSessionFile(scope string) (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.sessionFiles[scope]; ok {
		return f, nil
	}

	if err := os.MkdirAll(l.logDir, 0o750); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}

	path := filepath.Join(l.logDir, scope+".log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open session log file: %w", err)
	}
	l.sessionFiles[scope] = f
	return f, nil
}

// formatLog formats a log entry.
// Format: [2025-12-30 09:32:51] [INFO] [session-abc] [category] message
func formatLog(t time.Time, level slog.Level, scope, category, msg string) string {
	if scope == "" {
		scope = "global"
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelInfo:
		return "INFO"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes a log entry. If scope names a session, the entry goes to both
// the global and the session log.
func (l *Logger) log(level slog.Level, scope, category, msg string) {
	if l.logDir == "" {
		return // Logging disabled
	}
	if level < l.level {
		return
	}

	entry := formatLog(time.Now(), level, scope, category, msg)

	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}

	if scope != "" && scope != "global" {
		if sf, err := l.ensureSessionFile(scope); err == nil {
			_, _ = io.WriteString(sf, entry)
		}
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(scope, category, msg string) {
	l.log(slog.LevelDebug, scope, category, msg)
}

// Info logs an info message.
func (l *Logger) Info(scope, category, msg string) {
	l.log(slog.LevelInfo, scope, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(scope, category, msg string) {
	l.log(slog.LevelWarn, scope, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(scope, category, msg string) {
	l.log(slog.LevelError, scope, category, msg)
}
