package board

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/domain/timeutil"
	"github.com/vibe-stack/vcode-agents/internal/testutil"
)

func TestDocument_RoundTrip(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	b := New(clock)

	first, err := b.CreateTask(CreateTaskInput{Title: "first"})
	require.NoError(t, err)
	second, err := b.CreateTask(CreateTaskInput{Title: "second"})
	require.NoError(t, err)
	require.NotNil(t, b.StartAgent(second.ID))
	_, err = b.AddMessage(first.ID, "user", "note")
	require.NoError(t, err)

	doc := b.Export("/work/myproject")
	assert.Equal(t, "/work/myproject", doc.ProjectPath)

	restored := FromDocument(doc, clock)
	assert.Equal(t, []string{first.ID}, restored.Column(domain.StatusTodo))
	assert.Equal(t, []string{second.ID}, restored.Column(domain.StatusDoing))

	got := restored.GetTask(second.ID)
	require.NotNil(t, got)
	require.NotNil(t, got.Execution)
	assert.Equal(t, domain.AgentRunning, got.Execution.Status)

	got = restored.GetTask(first.ID)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "note", got.Messages[0].Content)
}

func TestFromDocument_RebuildsDriftedColumns(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Now()}
	now := timeutil.At(clock.NowTime)

	doc := &Document{
		ProjectPath: "/work/myproject",
		Tasks: map[string]*domain.Task{
			"a": {Title: "a", Status: domain.StatusReview, Created: now, Updated: now},
			"b": {Title: "b", Status: domain.StatusTodo, Created: now, Updated: now},
			"c": {Title: "c", Status: domain.Status("bogus"), Created: now, Updated: now},
		},
		// "a" is filed under todo although its status says review, and
		// "b" appears twice.
		Columns: map[domain.Status][]string{
			domain.StatusTodo: {"a", "b", "b"},
		},
	}

	b := FromDocument(doc, clock)
	assert.Equal(t, []string{"b", "c"}, b.Column(domain.StatusTodo), "invalid statuses fall back to todo")
	assert.Equal(t, []string{"a"}, b.Column(domain.StatusReview))

	task := b.GetTask("c")
	require.NotNil(t, task)
	assert.Equal(t, domain.StatusTodo, task.Status)
}

func TestFromDocument_StrayTasksEnterInCreationOrder(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Now()}
	early := timeutil.At(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	late := early.Add(time.Minute)

	// No column lists at all: every task re-enters by creation time, ties
	// broken by id.
	doc := &Document{
		Tasks: map[string]*domain.Task{
			"z": {Title: "z", Status: domain.StatusTodo, Created: early, Updated: early},
			"m": {Title: "m", Status: domain.StatusTodo, Created: late, Updated: late},
			"a": {Title: "a", Status: domain.StatusTodo, Created: late, Updated: late},
		},
	}

	for i := 0; i < 5; i++ {
		b := FromDocument(doc, clock)
		assert.Equal(t, []string{"z", "a", "m"}, b.Column(domain.StatusTodo))
	}
}

func TestFromDocument_Nil(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Now()}
	b := FromDocument(nil, clock)
	assert.Empty(t, b.Tasks())
}
