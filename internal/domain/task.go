// Package domain contains core business entities and interfaces.
package domain

import "github.com/vibe-stack/vcode-agents/internal/domain/timeutil"

// Task represents one unit of agent work on the board.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created     timeutil.TimeStamp `json:"created"`
	Updated     timeutil.TimeStamp `json:"updated"`
	Execution   *AgentExecution    `json:"agentExecution,omitempty"` // Lazily initialized on first lifecycle call
	ID          string             `json:"-"`                        // Stored as map key, not in value
	Title       string             `json:"title"`
	Description string             `json:"description,omitempty"`
	WorkStatus  string             `json:"workStatus,omitempty"` // Free-form progress note set by the agent
	Status      Status             `json:"status"`
	Messages    []Message          `json:"messages,omitempty"`
}

// IsRunning returns true if the task's agent is currently executing.
func (t *Task) IsRunning() bool {
	return t.Execution != nil && t.Execution.IsRunning
}

// AgentExecution is the nested execution sub-state of a task.
// Invariant: IsRunning is true exactly when Status is AgentRunning.
type AgentExecution struct {
	StartTime      timeutil.TimeStamp `json:"startTime,omitempty"`
	LastUpdateTime timeutil.TimeStamp `json:"lastUpdateTime,omitempty"`
	Status         AgentStatus        `json:"status"`
	IsRunning      bool               `json:"isRunning"`
}

// Message is one entry in a task's transcript.
type Message struct {
	Time    timeutil.TimeStamp `json:"time"`
	ID      string             `json:"id"`
	Role    string             `json:"role"` // "user", "assistant", or "system"
	Content string             `json:"content"`
}
