// Package gitproc runs git worktree operations as external processes.
package gitproc

import (
	"bufio"
	"os/exec"
	"strings"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// Runner invokes the git binary with the project root as working directory.
type Runner struct{}

// NewRunner creates a new Runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Ensure Runner implements domain.GitRunner.
var _ domain.GitRunner = (*Runner)(nil)

// WorktreeAdd creates a new worktree with a new branch.
func (r *Runner) WorktreeAdd(repoDir, path, branch string) error {
	return r.run(repoDir, "worktree", "add", path, "-b", branch)
}

// WorktreeRemove removes a worktree, optionally forcing removal of a
// dirty or locked one.
func (r *Runner) WorktreeRemove(repoDir, path string, force bool) error {
	args := []string{"worktree", "remove"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, path)
	return r.run(repoDir, args...)
}

// WorktreeList returns the repository's actual worktree list.
func (r *Runner) WorktreeList(repoDir string) ([]domain.WorktreeInfo, error) {
	cmd := exec.Command("git", "worktree", "list", "--porcelain")
	cmd.Dir = repoDir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &domain.ProcessError{
			Cmd:    "git worktree list",
			Output: string(out),
			Err:    err,
		}
	}

	return ParseWorktreeList(string(out)), nil
}

func (r *Runner) run(repoDir string, args ...string) error {
	// #nosec G204 - args are built from trusted manager code
	cmd := exec.Command("git", args...)
	cmd.Dir = repoDir

	if out, err := cmd.CombinedOutput(); err != nil {
		return &domain.ProcessError{
			Cmd:    "git " + strings.Join(args, " "),
			Output: string(out),
			Err:    err,
		}
	}
	return nil
}

// ParseWorktreeList parses the porcelain output of git worktree list.
// Format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	<blank line>
func ParseWorktreeList(output string) []domain.WorktreeInfo {
	var worktrees []domain.WorktreeInfo
	var current domain.WorktreeInfo

	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "worktree "):
			current.Path = strings.TrimPrefix(line, "worktree ")
		case strings.HasPrefix(line, "branch "):
			ref := strings.TrimPrefix(line, "branch ")
			current.Branch = strings.TrimPrefix(ref, "refs/heads/")
		case line == "":
			if current.Path != "" {
				worktrees = append(worktrees, current)
			}
			current = domain.WorktreeInfo{}
		}
	}

	// Handle last entry if no trailing newline
	if current.Path != "" {
		worktrees = append(worktrees, current)
	}

	return worktrees
}
