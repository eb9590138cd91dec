package lock

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/infra/events"
	"github.com/vibe-stack/vcode-agents/internal/testutil"
)

func newTestManager(t *testing.T) (*Manager, *testutil.MockClock, *events.Bus) {
	t.Helper()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	bus := events.NewBus()
	m := NewManager(clock, &testutil.MockFileChecker{}, bus, nil, DefaultPolicy())
	return m, clock, bus
}

func TestManager_Acquire_WriteExcludesOthers(t *testing.T) {
	m, _, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	res, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)
	require.True(t, res.Granted)
	assert.NotEmpty(t, res.LockID)

	// B cannot read or write while A holds the write lock
	read, err := m.Acquire("session-b", path, domain.LockRead, 0)
	require.NoError(t, err)
	assert.False(t, read.Granted)
	assert.Equal(t, ReasonConflict, read.Reason)
	assert.Equal(t, "session-a", read.ConflictSession)

	write, err := m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.False(t, write.Granted)
	assert.Equal(t, "session-a", write.ConflictSession)

	// A different path is unaffected
	other, err := m.Acquire("session-b", filepath.Join(t.TempDir(), "other.go"), domain.LockWrite, 0)
	require.NoError(t, err)
	assert.True(t, other.Granted)
}

func TestManager_Acquire_ReadsAreCompatible(t *testing.T) {
	m, _, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "config.go")

	for _, session := range []string{"session-a", "session-b", "session-c"} {
		res, err := m.Acquire(session, path, domain.LockRead, 0)
		require.NoError(t, err)
		assert.True(t, res.Granted, "read lock for %s", session)
	}

	// A write acquire fails while any read lock is outstanding
	res, err := m.Acquire("session-d", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, ReasonConflict, res.Reason)
}

func TestManager_Acquire_ReadMissingFileFailsFast(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Now()}
	fs := &testutil.MockFileChecker{Files: map[string]bool{}}
	m := NewManager(clock, fs, nil, nil, DefaultPolicy())

	res, err := m.Acquire("session-a", filepath.Join(t.TempDir(), "missing.go"), domain.LockRead, 0)
	require.NoError(t, err)
	assert.False(t, res.Granted)
	assert.Equal(t, ReasonNotFound, res.Reason)

	// Write locks are granted regardless of file existence
	res, err = m.Acquire("session-a", filepath.Join(t.TempDir(), "new.go"), domain.LockWrite, 0)
	require.NoError(t, err)
	assert.True(t, res.Granted)
}

func TestManager_Acquire_SharedFileUsesShortReadTimeout(t *testing.T) {
	clock := &testutil.MockClock{NowTime: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	policy := DefaultPolicy()
	policy.SharedFiles["package.json"] = struct{}{}
	m := NewManager(clock, &testutil.MockFileChecker{}, nil, nil, policy)

	dir := t.TempDir()

	res, err := m.Acquire("session-a", filepath.Join(dir, "package.json"), domain.LockRead, 0)
	require.NoError(t, err)
	require.True(t, res.Granted)
	locks := m.SessionLocks("session-a")
	require.Len(t, locks, 1)
	assert.Equal(t, clock.NowTime.Add(5*time.Second), locks[0].ExpiresAt.Time())

	// Write exclusivity is never weakened: writes keep the full timeout
	res, err = m.Acquire("session-b", filepath.Join(dir, "other", "package.json"), domain.LockWrite, 0)
	require.NoError(t, err)
	require.True(t, res.Granted)
	locks = m.SessionLocks("session-b")
	require.Len(t, locks, 1)
	assert.Equal(t, clock.NowTime.Add(30*time.Second), locks[0].ExpiresAt.Time())
}

func TestManager_Acquire_ExpiredLockNeverBlocks(t *testing.T) {
	m, clock, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	res, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)
	require.True(t, res.Granted)

	// Past expiry but before any sweep runs
	clock.Advance(31 * time.Second)

	res, err = m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.True(t, res.Granted, "expired lock must be ignored at acquire time")
}

func TestManager_Acquire_SubSecondTimeout(t *testing.T) {
	m, clock, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	res, err := m.Acquire("session-a", path, domain.LockWrite, 500*time.Millisecond)
	require.NoError(t, err)
	require.True(t, res.Granted)

	// The lock holds for its full sub-second window
	blocked, err := m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.False(t, blocked.Granted)

	clock.Advance(600 * time.Millisecond)
	granted, err := m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.True(t, granted.Granted)
}

func TestManager_Acquire_SameSessionWriteRefreshes(t *testing.T) {
	m, clock, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	first, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)
	clock.Advance(10 * time.Second)

	second, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)
	require.True(t, second.Granted)
	assert.Equal(t, first.LockID, second.LockID, "re-acquire refreshes the existing write lock")
	assert.Len(t, m.SessionLocks("session-a"), 1)
}

func TestManager_Release_Idempotent(t *testing.T) {
	m, _, bus := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	var released int
	unsubscribe := bus.Subscribe(func(e domain.Event) {
		if e.Type == domain.EventLockReleased {
			released++
		}
	})
	defer unsubscribe()

	res, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)

	m.Release(res.LockID, "session-a")
	m.Release(res.LockID, "session-a") // second release is a no-op
	assert.Equal(t, 1, released)

	granted, err := m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.True(t, granted.Granted)
}

func TestManager_Release_WrongOwnerIsNoOp(t *testing.T) {
	m, _, _ := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	res, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)

	// Locks are broken only by their owner or by expiry
	m.Release(res.LockID, "session-b")
	assert.Len(t, m.SessionLocks("session-a"), 1)
}

func TestManager_ReleaseAll(t *testing.T) {
	m, _, bus := newTestManager(t)
	dir := t.TempDir()

	var event domain.Event
	unsubscribe := bus.Subscribe(func(e domain.Event) {
		if e.Type == domain.EventSessionLocksReleased {
			event = e
		}
	})
	defer unsubscribe()

	pathA := filepath.Join(dir, "a.go")
	pathB := filepath.Join(dir, "b.go")
	_, err := m.Acquire("session-a", pathA, domain.LockWrite, 0)
	require.NoError(t, err)
	_, err = m.Acquire("session-a", pathB, domain.LockRead, 0)
	require.NoError(t, err)
	_, err = m.Acquire("session-b", filepath.Join(dir, "c.go"), domain.LockWrite, 0)
	require.NoError(t, err)

	released := m.ReleaseAll("session-a")
	assert.Equal(t, 2, released)
	assert.Empty(t, m.SessionLocks("session-a"))
	assert.Len(t, m.SessionLocks("session-b"), 1, "other sessions keep their locks")
	assert.Equal(t, domain.EventSessionLocksReleased, event.Type)
	assert.Equal(t, "2", event.Fields["count"])

	// A previously-locked path is acquirable again
	res, err := m.Acquire("session-b", pathA, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.True(t, res.Granted)
}

func TestManager_Conflicts(t *testing.T) {
	m, _, _ := newTestManager(t)
	dir := t.TempDir()

	locked := filepath.Join(dir, "taken.go")
	free := filepath.Join(dir, "free.go")
	mine := filepath.Join(dir, "mine.go")

	_, err := m.Acquire("session-b", locked, domain.LockWrite, 0)
	require.NoError(t, err)
	_, err = m.Acquire("session-a", mine, domain.LockWrite, 0)
	require.NoError(t, err)

	conflicting := m.Conflicts("session-a", []string{locked, free, mine})
	assert.Equal(t, []string{locked}, conflicting)
}

func TestManager_Sweep_RemovesExpiredOnly(t *testing.T) {
	m, clock, _ := newTestManager(t)
	dir := t.TempDir()

	_, err := m.Acquire("session-a", filepath.Join(dir, "short.go"), domain.LockWrite, 5*time.Second)
	require.NoError(t, err)
	_, err = m.Acquire("session-a", filepath.Join(dir, "long.go"), domain.LockWrite, time.Minute)
	require.NoError(t, err)

	clock.Advance(10 * time.Second)

	swept := m.Sweep()
	assert.Equal(t, 1, swept)
	assert.Len(t, m.SessionLocks("session-a"), 1)
}

func TestManager_Acquire_SubscriberReentry(t *testing.T) {
	m, _, bus := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	// A subscriber that queries the manager from inside the event handler
	var observed int
	unsubscribe := bus.Subscribe(func(e domain.Event) {
		if e.Type == domain.EventLockAcquired || e.Type == domain.EventLockConflict {
			observed = len(m.ActiveLocks())
		}
	})
	defer unsubscribe()

	res, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)
	require.True(t, res.Granted)
	assert.Equal(t, 1, observed)

	_, err = m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, observed, "conflict event also allows callbacks")
}

func TestManager_Acquire_EmitsEvents(t *testing.T) {
	m, _, bus := newTestManager(t)
	path := filepath.Join(t.TempDir(), "main.go")

	var types []domain.EventType
	unsubscribe := bus.Subscribe(func(e domain.Event) {
		types = append(types, e.Type)
	})
	defer unsubscribe()

	_, err := m.Acquire("session-a", path, domain.LockWrite, 0)
	require.NoError(t, err)
	_, err = m.Acquire("session-b", path, domain.LockWrite, 0)
	require.NoError(t, err)

	assert.Equal(t, []domain.EventType{domain.EventLockAcquired, domain.EventLockConflict}, types)
}
