package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibe-stack/vcode-agents/internal/board"
	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/testutil"
)

func newTestBoard() *board.Board {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	return board.New(clock)
}

func TestImportTasks_Execute(t *testing.T) {
	b := newTestBoard()
	uc := NewImportTasks(b)

	out, err := uc.Execute(ImportTasksInput{Content: `
tasks:
  - title: Add login form
    description: Email and password fields
  - title: Dark mode
    status: ideas
`})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 2)

	assert.NotEmpty(t, out.Tasks[0].ID)
	assert.Equal(t, domain.StatusTodo, out.Tasks[0].Status, "missing status defaults to todo")
	assert.Equal(t, domain.StatusIdeas, out.Tasks[1].Status)

	created := b.GetTask(out.Tasks[0].ID)
	require.NotNil(t, created)
	assert.Equal(t, "Email and password fields", created.Description)
	assert.Len(t, b.Column(domain.StatusIdeas), 1)
}

func TestImportTasks_DryRun(t *testing.T) {
	b := newTestBoard()
	uc := NewImportTasks(b)

	out, err := uc.Execute(ImportTasksInput{
		Content: "tasks:\n  - title: Only validated\n",
		DryRun:  true,
	})
	require.NoError(t, err)
	require.Len(t, out.Tasks, 1)
	assert.Empty(t, out.Tasks[0].ID)
	assert.Empty(t, b.Tasks(), "dry run creates nothing")
}

func TestImportTasks_Validation(t *testing.T) {
	uc := NewImportTasks(newTestBoard())

	_, err := uc.Execute(ImportTasksInput{Content: "tasks:\n  - description: no title\n"})
	assert.ErrorIs(t, err, domain.ErrEmptyTitle)

	_, err = uc.Execute(ImportTasksInput{Content: "tasks:\n  - title: x\n    status: done\n"})
	assert.ErrorIs(t, err, domain.ErrInvalidColumn)

	_, err = uc.Execute(ImportTasksInput{Content: "tasks: [not : valid"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse import file")
}
