package domain

import "time"

// FileChecker reports whether a file exists on disk.
type FileChecker interface {
	Exists(path string) bool
}

// GitRunner invokes git worktree operations as external processes, run
// with the project root as working directory.
type GitRunner interface {
	// WorktreeAdd runs `git worktree add <path> -b <branch>`.
	WorktreeAdd(repoDir, path, branch string) error

	// WorktreeRemove runs `git worktree remove [--force] <path>`.
	WorktreeRemove(repoDir, path string, force bool) error

	// WorktreeList runs `git worktree list --porcelain` and parses it.
	WorktreeList(repoDir string) ([]WorktreeInfo, error)
}

// RepoInspector answers repository-level questions without spawning
// processes.
type RepoInspector interface {
	// Validate checks that path is the root of a git repository.
	Validate(path string) error

	// BranchExists checks if a local branch exists in the repository at path.
	BranchExists(path, branch string) (bool, error)
}

// StateCapturer produces an opaque blob of the current editable state.
// Capture may suspend and may fail.
type StateCapturer interface {
	Capture() (StateBlob, error)
}

// StateRestorer restores previously captured state. A failed restore must
// be reported, not swallowed.
type StateRestorer interface {
	Restore(blob StateBlob) error
}

// Logger writes scoped log lines.
type Logger interface {
	Debug(scope, category, msg string)
	Info(scope, category, msg string)
	Warn(scope, category, msg string)
	Error(scope, category, msg string)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
