package domain

import "errors"

// Domain errors.
var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidColumn     = errors.New("tasks can only be created in ideas or todo")
	ErrFileNotFound      = errors.New("file not found")
	ErrProjectPathNotSet = errors.New("project path not set (call SetProjectPath first)")
	ErrNotGitRepository  = errors.New("not a git repository (or any of the parent directories)")
	ErrWorktreeExists    = errors.New("worktree already exists for task")
	ErrWorktreeNotFound  = errors.New("worktree not found")
	ErrBranchExists      = errors.New("branch already exists")
	ErrEmptyTitle        = errors.New("title cannot be empty")
	ErrEmptyMessage      = errors.New("message content cannot be empty")
	ErrNoCapturer        = errors.New("no state capturer configured")
	ErrNoRestorer        = errors.New("no state restorer configured")
)
