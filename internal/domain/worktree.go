package domain

import "github.com/vibe-stack/vcode-agents/internal/domain/timeutil"

// Worktree is a tracked isolated working copy for one task.
// Invariants: at most one worktree per task; at most one active worktree
// globally; unique path.
type Worktree struct {
	Created    timeutil.TimeStamp `json:"created"`
	TaskID     string             `json:"taskId"`
	Path       string             `json:"path"`
	BranchName string             `json:"branchName"`
	IsActive   bool               `json:"isActive"`
}

// WorktreeInfo is one entry of the repository's raw worktree list.
type WorktreeInfo struct {
	Path   string
	Branch string
}
