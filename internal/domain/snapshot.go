package domain

import "github.com/vibe-stack/vcode-agents/internal/domain/timeutil"

// SnapshotStatus is the resolution state of a captured snapshot.
type SnapshotStatus string

const (
	SnapshotPending  SnapshotStatus = "pending"
	SnapshotAccepted SnapshotStatus = "accepted"
	SnapshotReverted SnapshotStatus = "reverted"
)

// StateBlob is the opaque payload produced by a state capturer. The store
// never interprets it.
type StateBlob []byte

// Snapshot is captured pre-edit state keyed by (session, message).
// Immutable except for Status.
type Snapshot struct {
	Timestamp timeutil.TimeStamp `json:"timestamp"`
	ID        string             `json:"id"`
	SessionID string             `json:"sessionId"`
	MessageID string             `json:"messageId"`
	State     StateBlob          `json:"capturedState,omitempty"`
	Status    SnapshotStatus     `json:"status"`
}
