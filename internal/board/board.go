// Package board implements the task board state machine. Tasks live in
// fixed ordered columns; a task's column membership always mirrors its
// status, and every mutation preserves that invariant.
package board

import (
	"sync"

	"github.com/google/uuid"

	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/domain/timeutil"
)

// Board holds the columns and tasks for one project. Mutations are pure
// in-memory state changes with no external I/O; invalid task ids are
// silent no-ops, so callers validate ids via queries first.
type Board struct {
	clock   domain.Clock
	tasks   map[string]*domain.Task
	columns map[domain.Status][]string // ordered task ids per column
	mu      sync.Mutex
}

// New creates an empty Board.
func New(clock domain.Clock) *Board {
	b := &Board{
		clock:   clock,
		tasks:   make(map[string]*domain.Task),
		columns: make(map[domain.Status][]string),
	}
	for _, col := range domain.Columns() {
		b.columns[col] = []string{}
	}
	return b
}

// CreateTaskInput holds the fields for a new task.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      domain.Status // Defaults to todo
}

// CreateTask inserts a task into the column matching its status. Only the
// ideas and todo columns accept direct creation.
func (b *Board) CreateTask(in CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, domain.ErrEmptyTitle
	}
	status := in.Status
	if status == "" {
		status = domain.StatusTodo
	}
	if !status.AcceptsCreation() {
		return nil, domain.ErrInvalidColumn
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	now := timeutil.At(b.clock.Now())
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       in.Title,
		Description: in.Description,
		Status:      status,
		Created:     now,
		Updated:     now,
	}
	b.tasks[task.ID] = task
	b.columns[status] = append(b.columns[status], task.ID)

	return b.copyLocked(task), nil
}

// TaskUpdates holds optional field changes; nil fields are untouched.
type TaskUpdates struct {
	Title       *string
	Description *string
	WorkStatus  *string
	Status      *domain.Status
}

// UpdateTask applies updates to a task. A status change physically
// relocates the task between column lists. Unknown ids are no-ops.
func (b *Board) UpdateTask(id string, updates TaskUpdates) *domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok {
		return nil
	}

	if updates.Title != nil {
		task.Title = *updates.Title
	}
	if updates.Description != nil {
		task.Description = *updates.Description
	}
	if updates.WorkStatus != nil {
		task.WorkStatus = *updates.WorkStatus
	}
	if updates.Status != nil && updates.Status.IsValid() && *updates.Status != task.Status {
		b.relocateLocked(task, *updates.Status)
	}
	task.Updated = timeutil.At(b.clock.Now())

	return b.copyLocked(task)
}

// MoveTask relocates a task to another column.
func (b *Board) MoveTask(id string, newStatus domain.Status) *domain.Task {
	return b.UpdateTask(id, TaskUpdates{Status: &newStatus})
}

// DeleteTask removes a task and its execution state. Unknown ids are
// no-ops.
func (b *Board) DeleteTask(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok {
		return
	}
	b.removeFromColumnLocked(task)
	delete(b.tasks, id)
}

// GetTask returns a copy of the task, or nil if unknown.
func (b *Board) GetTask(id string) *domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok {
		return nil
	}
	return b.copyLocked(task)
}

// Tasks returns tasks in column order. With a status, only that column's
// tasks are returned, in insertion order.
func (b *Board) Tasks(status ...domain.Status) []domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	cols := domain.Columns()
	if len(status) > 0 {
		cols = status
	}

	var out []domain.Task
	for _, col := range cols {
		for _, id := range b.columns[col] {
			out = append(out, *b.copyLocked(b.tasks[id]))
		}
	}
	return out
}

// Column returns the task ids in a column, in order.
func (b *Board) Column(status domain.Status) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := b.columns[status]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// StartAgent marks the task's agent running and moves it to doing. The
// execution-state change and the column relocation apply atomically; they
// never take effect separately.
func (b *Board) StartAgent(id string) *domain.Task {
	return b.setExecution(id, domain.AgentRunning, domain.StatusDoing, true)
}

// StopAgent marks the agent stopped and moves the task to done.
func (b *Board) StopAgent(id string) *domain.Task {
	return b.setExecution(id, domain.AgentStopped, domain.StatusDone, false)
}

// PauseAgent marks the agent paused and moves the task to
// need_clarification.
func (b *Board) PauseAgent(id string) *domain.Task {
	return b.setExecution(id, domain.AgentPaused, domain.StatusNeedClarification, false)
}

// ResumeAgent marks the agent running again and moves the task back to
// doing.
func (b *Board) ResumeAgent(id string) *domain.Task {
	return b.setExecution(id, domain.AgentRunning, domain.StatusDoing, true)
}

// MarkAgentError records an abnormal agent termination without moving the
// task, so the user can decide where it goes.
func (b *Board) MarkAgentError(id string) *domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok {
		return nil
	}
	now := timeutil.At(b.clock.Now())
	exec := b.ensureExecutionLocked(task)
	exec.Status = domain.AgentError
	exec.IsRunning = false
	exec.LastUpdateTime = now
	task.Updated = now
	return b.copyLocked(task)
}

// AddMessage appends a transcript entry with a generated id and
// timestamp. Unknown ids are no-ops.
func (b *Board) AddMessage(taskID, role, content string) (*domain.Message, error) {
	if content == "" {
		return nil, domain.ErrEmptyMessage
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[taskID]
	if !ok {
		return nil, nil
	}

	now := timeutil.At(b.clock.Now())
	msg := domain.Message{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
		Time:    now,
	}
	task.Messages = append(task.Messages, msg)
	task.Updated = now

	return &msg, nil
}

// setExecution atomically updates the agent execution sub-state and
// relocates the task. Both effects happen under one lock hold; partial
// application would break the status/column invariant.
func (b *Board) setExecution(id string, agent domain.AgentStatus, column domain.Status, running bool) *domain.Task {
	b.mu.Lock()
	defer b.mu.Unlock()

	task, ok := b.tasks[id]
	if !ok {
		return nil
	}

	now := timeutil.At(b.clock.Now())
	exec := b.ensureExecutionLocked(task)
	exec.Status = agent
	exec.IsRunning = running
	exec.LastUpdateTime = now
	if running && exec.StartTime.IsZero() {
		exec.StartTime = now
	}

	if task.Status != column {
		b.relocateLocked(task, column)
	}
	task.Updated = now

	return b.copyLocked(task)
}

// ensureExecutionLocked lazily initializes the execution sub-state.
// Caller holds b.mu.
func (b *Board) ensureExecutionLocked(task *domain.Task) *domain.AgentExecution {
	if task.Execution == nil {
		task.Execution = &domain.AgentExecution{Status: domain.AgentIdle}
	}
	return task.Execution
}

// relocateLocked moves the task between column lists and updates its
// status in one step. Caller holds b.mu.
func (b *Board) relocateLocked(task *domain.Task, newStatus domain.Status) {
	b.removeFromColumnLocked(task)
	task.Status = newStatus
	b.columns[newStatus] = append(b.columns[newStatus], task.ID)
}

// removeFromColumnLocked drops the task id from its current column list.
// Caller holds b.mu.
func (b *Board) removeFromColumnLocked(task *domain.Task) {
	ids := b.columns[task.Status]
	for i, id := range ids {
		if id == task.ID {
			b.columns[task.Status] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}

// copyLocked returns a defensive copy of a task. Caller holds b.mu.
func (b *Board) copyLocked(task *domain.Task) *domain.Task {
	copied := *task
	if task.Execution != nil {
		exec := *task.Execution
		copied.Execution = &exec
	}
	if task.Messages != nil {
		copied.Messages = make([]domain.Message, len(task.Messages))
		copy(copied.Messages, task.Messages)
	}
	return &copied
}
