package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorktreePath(t *testing.T) {
	path := WorktreePath("/work/myproject", "task-1")
	assert.Equal(t, "/work/myproject-wt-task-1", path)
}

func TestParseWorktreeTaskID(t *testing.T) {
	id, ok := ParseWorktreeTaskID("/work/myproject", "/work/myproject-wt-task-1")
	assert.True(t, ok)
	assert.Equal(t, "task-1", id)

	_, ok = ParseWorktreeTaskID("/work/myproject", "/work/otherproject-wt-task-1")
	assert.False(t, ok)

	_, ok = ParseWorktreeTaskID("/work/myproject", "/work/myproject-wt-")
	assert.False(t, ok)

	_, ok = ParseWorktreeTaskID("/work/myproject", "/work/myproject")
	assert.False(t, ok)
}

func TestSessionLogScope(t *testing.T) {
	assert.Equal(t, "session-abc", SessionLogScope("abc"))
	assert.Equal(t, "global", SessionLogScope(""))
}
