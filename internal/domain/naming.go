package domain

import (
	"path/filepath"
	"strings"
)

const worktreeDirSep = "-wt-"

// WorktreePath returns the deterministic worktree directory for a task.
// Worktrees are placed as siblings of the project directory so the git
// object store is shared: /parent/myproject -> /parent/myproject-wt-<taskID>.
func WorktreePath(projectPath, taskID string) string {
	base := filepath.Base(projectPath)
	return filepath.Join(filepath.Dir(projectPath), base+worktreeDirSep+taskID)
}

// ParseWorktreeTaskID extracts the task ID from a worktree path that
// follows the task naming convention. Returns "" and false otherwise.
func ParseWorktreeTaskID(projectPath, worktreePath string) (string, bool) {
	prefix := filepath.Base(projectPath) + worktreeDirSep
	name := filepath.Base(worktreePath)
	if !strings.HasPrefix(name, prefix) {
		return "", false
	}
	id := strings.TrimPrefix(name, prefix)
	if id == "" {
		return "", false
	}
	return id, true
}

// SessionLogScope returns the logger scope for a session.
func SessionLogScope(sessionID string) string {
	if sessionID == "" {
		return "global"
	}
	return "session-" + sessionID
}
