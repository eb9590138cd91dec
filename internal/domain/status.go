package domain

// Status represents the board column a task lives in.
type Status string

const (
	StatusIdeas             Status = "ideas"
	StatusTodo              Status = "todo"
	StatusDoing             Status = "doing"
	StatusNeedClarification Status = "need_clarification"
	StatusReview            Status = "review"
	StatusDone              Status = "done"
	StatusRejected          Status = "rejected"
)

// Columns returns all board columns in their fixed display order.
func Columns() []Status {
	return []Status{
		StatusIdeas,
		StatusTodo,
		StatusDoing,
		StatusNeedClarification,
		StatusReview,
		StatusDone,
		StatusRejected,
	}
}

// IsValid returns true if the status names a known column.
func (s Status) IsValid() bool {
	switch s {
	case StatusIdeas, StatusTodo, StatusDoing, StatusNeedClarification,
		StatusReview, StatusDone, StatusRejected:
		return true
	default:
		return false
	}
}

// AcceptsCreation returns true if tasks may be created directly in this
// column. All other columns are reachable only by transition.
func (s Status) AcceptsCreation() bool {
	return s == StatusIdeas || s == StatusTodo
}

// IsTerminal returns true for end-of-lifecycle columns.
func (s Status) IsTerminal() bool {
	return s == StatusDone || s == StatusRejected
}

// Display returns a human-readable column name.
func (s Status) Display() string {
	switch s {
	case StatusIdeas:
		return "Ideas"
	case StatusTodo:
		return "To Do"
	case StatusDoing:
		return "Doing"
	case StatusNeedClarification:
		return "Needs Clarification"
	case StatusReview:
		return "Review"
	case StatusDone:
		return "Done"
	case StatusRejected:
		return "Rejected"
	default:
		return string(s)
	}
}

// AgentStatus represents the execution state of a task's agent.
type AgentStatus string

const (
	AgentIdle    AgentStatus = "idle"
	AgentRunning AgentStatus = "running"
	AgentPaused  AgentStatus = "paused"
	AgentStopped AgentStatus = "stopped"
	AgentError   AgentStatus = "error"
)
