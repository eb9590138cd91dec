// Package lock provides the advisory file lock manager. Locks are
// per-session claims on normalized file paths; acquisition is synchronous
// accept/reject with no queue, and retry/backoff is the caller's
// responsibility.
package lock

import (
	"context"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/domain/timeutil"
)

// Reason classifies a rejected acquisition.
type Reason string

const (
	// ReasonConflict means another session holds an incompatible lock.
	ReasonConflict Reason = "conflict"
	// ReasonNotFound means a read lock was requested for a missing file.
	ReasonNotFound Reason = "not_found"
)

// Result is the outcome of an acquire call. Conflicts are expected and
// frequent, so they are reported here rather than as errors.
type Result struct {
	LockID          string
	ConflictSession string // First conflicting session id, when Reason is ReasonConflict
	Reason          Reason
	Granted         bool
}

// Policy holds the lock timing rules.
type Policy struct {
	SharedFiles       map[string]struct{} // Basenames that use the shared read timeout
	DefaultTimeout    time.Duration
	SharedReadTimeout time.Duration
	SweepInterval     time.Duration
}

// DefaultPolicy returns the built-in policy: 30s locks, 5s reads on shared
// config-like files, 10s sweep.
func DefaultPolicy() Policy {
	return Policy{
		DefaultTimeout:    30 * time.Second,
		SharedReadTimeout: 5 * time.Second,
		SweepInterval:     10 * time.Second,
		SharedFiles:       map[string]struct{}{},
	}
}

// Manager grants and releases advisory read/write locks on file paths.
type Manager struct {
	clock  domain.Clock
	fs     domain.FileChecker
	bus    domain.Publisher
	logger domain.Logger
	locks  map[string]*domain.FileLock   // by lock id
	byPath map[string][]*domain.FileLock // by normalized path
	policy Policy
	cancel context.CancelFunc
	done   chan struct{}
	mu     sync.Mutex
}

// NewManager creates a Manager. bus and logger may be nil.
func NewManager(clock domain.Clock, fs domain.FileChecker, bus domain.Publisher, logger domain.Logger, policy Policy) *Manager {
	if bus == nil {
		bus = domain.NopPublisher{}
	}
	if policy.DefaultTimeout <= 0 {
		policy.DefaultTimeout = 30 * time.Second
	}
	if policy.SharedReadTimeout <= 0 {
		policy.SharedReadTimeout = 5 * time.Second
	}
	if policy.SweepInterval <= 0 {
		policy.SweepInterval = 10 * time.Second
	}
	return &Manager{
		clock:  clock,
		fs:     fs,
		bus:    bus,
		logger: logger,
		policy: policy,
		locks:  make(map[string]*domain.FileLock),
		byPath: make(map[string][]*domain.FileLock),
	}
}

// NormalizePath resolves a path to its absolute canonical form.
func NormalizePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.Clean(abs), nil
}

// Acquire attempts to take a lock on path for sessionID. A zero timeout
// selects the policy default (shortened for shared config-like reads).
// Acquisition never blocks: a conflicting acquire is rejected immediately.
func (m *Manager) Acquire(sessionID, path string, kind domain.LockKind, timeout time.Duration) (Result, error) {
	normalized, err := NormalizePath(path)
	if err != nil {
		return Result{}, err
	}

	if kind == domain.LockRead && m.fs != nil && !m.fs.Exists(normalized) {
		return Result{Reason: ReasonNotFound}, nil
	}

	if timeout <= 0 {
		timeout = m.timeoutFor(normalized, kind)
	}

	m.mu.Lock()

	now := timeutil.At(m.clock.Now())
	active := m.activeLocked(normalized, now)

	// Events publish after the unlock so a subscriber may call back into
	// the manager.
	if holder, ok := firstConflict(active, sessionID, kind); ok {
		m.mu.Unlock()
		m.bus.Publish(domain.Event{
			Type: domain.EventLockConflict,
			Fields: map[string]string{
				"session": sessionID,
				"path":    normalized,
				"kind":    string(kind),
				"holder":  holder,
			},
		})
		m.logf("lock", "conflict on "+normalized+" held by session "+holder, sessionID)
		return Result{Reason: ReasonConflict, ConflictSession: holder}, nil
	}

	// Re-acquiring a write lock the session already holds refreshes it
	// instead of stacking a second write lock on the path.
	if kind == domain.LockWrite {
		for _, l := range active {
			if l.SessionID == sessionID && l.Kind == domain.LockWrite {
				l.AcquiredAt = now
				l.ExpiresAt = now.Add(timeout)
				m.mu.Unlock()
				return Result{Granted: true, LockID: l.ID}, nil
			}
		}
	}

	lock := &domain.FileLock{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		Path:       normalized,
		Kind:       kind,
		AcquiredAt: now,
		ExpiresAt:  now.Add(timeout),
	}
	m.locks[lock.ID] = lock
	m.byPath[normalized] = append(m.byPath[normalized], lock)
	m.mu.Unlock()

	m.bus.Publish(domain.Event{
		Type: domain.EventLockAcquired,
		Fields: map[string]string{
			"session": sessionID,
			"path":    normalized,
			"kind":    string(kind),
			"lockId":  lock.ID,
		},
	})
	m.logf("lock", "acquired "+string(kind)+" lock on "+normalized, sessionID)

	return Result{Granted: true, LockID: lock.ID}, nil
}

// Release removes a lock held by sessionID. Releasing an unknown lock or
// one owned by another session is a no-op; locks are broken only by their
// owner or by expiry.
func (m *Manager) Release(lockID, sessionID string) {
	m.mu.Lock()
	lock, ok := m.locks[lockID]
	if !ok || lock.SessionID != sessionID {
		m.mu.Unlock()
		return
	}
	m.removeLocked(lock)
	m.mu.Unlock()

	m.bus.Publish(domain.Event{
		Type: domain.EventLockReleased,
		Fields: map[string]string{
			"session": sessionID,
			"path":    lock.Path,
			"lockId":  lockID,
		},
	})
	m.logf("lock", "released lock on "+lock.Path, sessionID)
}

// ReleaseAll removes every lock the session holds. Used on agent stop or
// crash; safe to call at any point.
func (m *Manager) ReleaseAll(sessionID string) int {
	m.mu.Lock()
	var released int
	for id, lock := range m.locks {
		if lock.SessionID == sessionID {
			delete(m.locks, id)
			m.detachLocked(lock)
			released++
		}
	}
	m.mu.Unlock()

	m.bus.Publish(domain.Event{
		Type: domain.EventSessionLocksReleased,
		Fields: map[string]string{
			"session": sessionID,
			"count":   strconv.Itoa(released),
		},
	})
	m.logf("lock", "released all session locks", sessionID)
	return released
}

// Conflicts returns the subset of paths currently locked by a session
// other than sessionID. Read-only; used for pre-flight batch-edit warnings.
func (m *Manager) Conflicts(sessionID string, paths []string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := timeutil.At(m.clock.Now())
	var conflicting []string
	for _, path := range paths {
		normalized, err := NormalizePath(path)
		if err != nil {
			continue
		}
		for _, l := range m.activeLocked(normalized, now) {
			if l.SessionID != sessionID {
				conflicting = append(conflicting, path)
				break
			}
		}
	}
	return conflicting
}

// SessionLocks returns the active locks held by a session.
func (m *Manager) SessionLocks(sessionID string) []domain.FileLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := timeutil.At(m.clock.Now())
	var out []domain.FileLock
	for _, l := range m.locks {
		if l.SessionID == sessionID && !l.ExpiredAt(now) {
			out = append(out, *l)
		}
	}
	sortLocks(out)
	return out
}

// ActiveLocks returns all active locks.
func (m *Manager) ActiveLocks() []domain.FileLock {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := timeutil.At(m.clock.Now())
	var out []domain.FileLock
	for _, l := range m.locks {
		if !l.ExpiredAt(now) {
			out = append(out, *l)
		}
	}
	sortLocks(out)
	return out
}

// Sweep removes expired locks from storage and returns how many were
// dropped. Expired locks are already ignored at acquire time; the sweep is
// eventual cleanup only.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := timeutil.At(m.clock.Now())
	var swept int
	for id, lock := range m.locks {
		if lock.ExpiredAt(now) {
			delete(m.locks, id)
			m.detachLocked(lock)
			swept++
		}
	}
	return swept
}

// Start launches the periodic sweep. Call Stop to cancel it.
func (m *Manager) Start(ctx context.Context) {
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})

	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.policy.SweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Sweep()
			}
		}
	}()
}

// Stop cancels the sweep goroutine and waits for it to finish.
func (m *Manager) Stop() {
	if m.cancel != nil {
		m.cancel()
		<-m.done
	}
}

// timeoutFor selects the lock timeout. Reads on shared config-like files
// get the shortened timeout; write exclusivity is never weakened.
func (m *Manager) timeoutFor(normalized string, kind domain.LockKind) time.Duration {
	if kind == domain.LockRead {
		if _, ok := m.policy.SharedFiles[filepath.Base(normalized)]; ok {
			return m.policy.SharedReadTimeout
		}
	}
	return m.policy.DefaultTimeout
}

// activeLocked returns the non-expired locks on a path, dropping expired
// ones from storage as a side effect. Caller holds m.mu.
func (m *Manager) activeLocked(normalized string, now timeutil.TimeStamp) []*domain.FileLock {
	held := m.byPath[normalized]
	active := held[:0]
	for _, l := range held {
		if l.ExpiredAt(now) {
			delete(m.locks, l.ID)
			continue
		}
		active = append(active, l)
	}
	if len(active) == 0 {
		delete(m.byPath, normalized)
		return nil
	}
	m.byPath[normalized] = active
	return active
}

// removeLocked drops a lock from both indexes. Caller holds m.mu.
func (m *Manager) removeLocked(lock *domain.FileLock) {
	delete(m.locks, lock.ID)
	m.detachLocked(lock)
}

// detachLocked drops a lock from the path index. Caller holds m.mu.
func (m *Manager) detachLocked(lock *domain.FileLock) {
	held := m.byPath[lock.Path]
	for i, l := range held {
		if l.ID == lock.ID {
			m.byPath[lock.Path] = append(held[:i], held[i+1:]...)
			break
		}
	}
	if len(m.byPath[lock.Path]) == 0 {
		delete(m.byPath, lock.Path)
	}
}

func (m *Manager) logf(category, msg, sessionID string) {
	if m.logger != nil {
		m.logger.Info(domain.SessionLogScope(sessionID), category, msg)
	}
}

// firstConflict returns the first other-session holder that is
// incompatible with the requested kind. Reads are mutually compatible; a
// write lock excludes all others on the same path.
func firstConflict(active []*domain.FileLock, sessionID string, kind domain.LockKind) (string, bool) {
	for _, l := range active {
		if l.SessionID == sessionID {
			continue
		}
		if kind == domain.LockWrite || l.Kind == domain.LockWrite {
			return l.SessionID, true
		}
	}
	return "", false
}

func sortLocks(locks []domain.FileLock) {
	sort.Slice(locks, func(i, j int) bool {
		if locks[i].Path != locks[j].Path {
			return locks[i].Path < locks[j].Path
		}
		return locks[i].AcquiredAt.Before(locks[j].AcquiredAt)
	})
}
