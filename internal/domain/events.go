package domain

// EventType names a lifecycle event emitted by the core managers.
type EventType string

const (
	EventLockAcquired         EventType = "lock.acquired"
	EventLockConflict         EventType = "lock.conflict"
	EventLockReleased         EventType = "lock.released"
	EventSessionLocksReleased EventType = "session.locks_released"
	EventWorktreeStatus       EventType = "worktree.status_changed"
	EventSnapshotCaptured     EventType = "snapshot.captured"
	EventSnapshotResolved     EventType = "snapshot.resolved"
)

// Event is a fire-and-forget notification with a small string payload.
type Event struct {
	Fields map[string]string
	Type   EventType
}

// Publisher delivers events to any number of subscribers with no delivery
// guarantee.
type Publisher interface {
	Publish(event Event)
}

// NopPublisher discards all events.
type NopPublisher struct{}

// Publish discards the event.
func (NopPublisher) Publish(Event) {}
