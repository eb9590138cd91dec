package gitproc

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

func TestParseWorktreeList(t *testing.T) {
	output := `worktree /work/myproject
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /work/myproject-wt-task-1
HEAD 2222222222222222222222222222222222222222
branch refs/heads/feature/task-1

worktree /work/detached
HEAD 3333333333333333333333333333333333333333
detached
`

	got := ParseWorktreeList(output)
	assert.Equal(t, []domain.WorktreeInfo{
		{Path: "/work/myproject", Branch: "main"},
		{Path: "/work/myproject-wt-task-1", Branch: "feature/task-1"},
		{Path: "/work/detached"},
	}, got)
}

func TestParseWorktreeList_NoTrailingNewline(t *testing.T) {
	output := "worktree /work/myproject\nHEAD 1111\nbranch refs/heads/main"

	got := ParseWorktreeList(output)
	assert.Equal(t, []domain.WorktreeInfo{{Path: "/work/myproject", Branch: "main"}}, got)
}

func TestParseWorktreeList_Empty(t *testing.T) {
	assert.Empty(t, ParseWorktreeList(""))
}
