package domain

import "github.com/vibe-stack/vcode-agents/internal/domain/timeutil"

// LockKind distinguishes shared read locks from exclusive write locks.
type LockKind string

const (
	LockRead  LockKind = "read"
	LockWrite LockKind = "write"
)

// FileLock is an advisory claim on one file path.
// Invariants: at most one active write lock per path; any number of read
// locks unless a write lock is held; ExpiresAt is after AcquiredAt.
type FileLock struct {
	AcquiredAt timeutil.TimeStamp `json:"acquiredAt"`
	ExpiresAt  timeutil.TimeStamp `json:"expiresAt"`
	ID         string             `json:"id"`
	SessionID  string             `json:"sessionId"`
	Path       string             `json:"path"` // Normalized absolute path
	Kind       LockKind           `json:"kind"`
}

// ExpiredAt returns true if the lock is past its expiry at the given instant.
// Expired locks never block a new acquire, regardless of sweep timing.
func (l *FileLock) ExpiredAt(now timeutil.TimeStamp) bool {
	return !l.ExpiresAt.After(now)
}
