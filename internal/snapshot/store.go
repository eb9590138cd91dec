// Package snapshot records pre-edit state keyed by (session, message) so
// tentative agent changes can later be accepted or reverted. Capture and
// restore delegate to pluggable collaborators; the store never interprets
// the captured payload.
package snapshot

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/domain/timeutil"
)

// Stats holds per-session snapshot counts.
type Stats struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Accepted int `json:"accepted"`
	Reverted int `json:"reverted"`
}

// Store keeps snapshots grouped by session, ordered by timestamp.
type Store struct {
	capturer  domain.StateCapturer
	restorer  domain.StateRestorer
	clock     domain.Clock
	bus       domain.Publisher
	sessions  map[string][]*domain.Snapshot
	retention time.Duration
	sweepEach time.Duration
	cancel    context.CancelFunc
	done      chan struct{}
	mu        sync.Mutex
}

// NewStore creates a Store. bus may be nil; retention defaults to 7 days
// and the sweep interval to one hour.
func NewStore(capturer domain.StateCapturer, restorer domain.StateRestorer, clock domain.Clock, bus domain.Publisher, retention, sweepInterval time.Duration) *Store {
	if bus == nil {
		bus = domain.NopPublisher{}
	}
	if retention <= 0 {
		retention = 7 * 24 * time.Hour
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Hour
	}
	return &Store{
		capturer:  capturer,
		restorer:  restorer,
		clock:     clock,
		bus:       bus,
		retention: retention,
		sweepEach: sweepInterval,
		sessions:  make(map[string][]*domain.Snapshot),
	}
}

// Capture obtains an opaque state blob from the capture collaborator and
// stores it pending. Capture failures propagate unchanged.
func (s *Store) Capture(sessionID, messageID string) (*domain.Snapshot, error) {
	if s.capturer == nil {
		return nil, domain.ErrNoCapturer
	}

	blob, err := s.capturer.Capture()
	if err != nil {
		return nil, fmt.Errorf("capture state: %w", err)
	}

	s.mu.Lock()
	snap := &domain.Snapshot{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		MessageID: messageID,
		State:     blob,
		Status:    domain.SnapshotPending,
		Timestamp: timeutil.At(s.clock.Now()),
	}
	s.sessions[sessionID] = append(s.sessions[sessionID], snap)
	s.mu.Unlock()

	s.bus.Publish(domain.Event{
		Type: domain.EventSnapshotCaptured,
		Fields: map[string]string{
			"session":  sessionID,
			"message":  messageID,
			"snapshot": snap.ID,
		},
	})

	copied := *snap
	return &copied, nil
}

// AcceptAll marks the session's pending snapshots for one message as
// accepted. Accepted is terminal, so the blob is discarded.
func (s *Store) AcceptAll(sessionID, messageID string) int {
	return s.accept(sessionID, func(snap *domain.Snapshot) bool {
		return snap.MessageID == messageID
	})
}

// AcceptAllPending marks every pending snapshot in the session accepted.
func (s *Store) AcceptAllPending(sessionID string) int {
	return s.accept(sessionID, func(*domain.Snapshot) bool { return true })
}

func (s *Store) accept(sessionID string, match func(*domain.Snapshot) bool) int {
	s.mu.Lock()
	var accepted int
	for _, snap := range s.sessions[sessionID] {
		if snap.Status != domain.SnapshotPending || !match(snap) {
			continue
		}
		snap.Status = domain.SnapshotAccepted
		snap.State = nil
		accepted++
	}
	s.mu.Unlock()

	if accepted > 0 {
		s.emitResolved(sessionID, string(domain.SnapshotAccepted), accepted)
	}
	return accepted
}

// RevertAll restores the session's pending snapshots for one message,
// most-recent-first so sequential edits within a turn unwind cleanly. A
// failed restore leaves that snapshot pending (retryable) and propagates
// the error; earlier snapshots already reverted stay reverted.
func (s *Store) RevertAll(sessionID, messageID string) (int, error) {
	return s.revert(sessionID, func(snap *domain.Snapshot) bool {
		return snap.MessageID == messageID
	})
}

// RevertAllPending restores every pending snapshot in the session,
// most-recent-first.
func (s *Store) RevertAllPending(sessionID string) (int, error) {
	return s.revert(sessionID, func(*domain.Snapshot) bool { return true })
}

func (s *Store) revert(sessionID string, match func(*domain.Snapshot) bool) (int, error) {
	if s.restorer == nil {
		return 0, domain.ErrNoRestorer
	}

	// The session slice is in capture order, so walking it backwards
	// yields most-recent-first even when timestamps tie.
	s.mu.Lock()
	snaps := s.sessions[sessionID]
	var targets []*domain.Snapshot
	for i := len(snaps) - 1; i >= 0; i-- {
		if snaps[i].Status == domain.SnapshotPending && match(snaps[i]) {
			targets = append(targets, snaps[i])
		}
	}
	s.mu.Unlock()

	var reverted int
	for _, snap := range targets {
		if err := s.restorer.Restore(snap.State); err != nil {
			if reverted > 0 {
				s.emitResolved(sessionID, string(domain.SnapshotReverted), reverted)
			}
			return reverted, fmt.Errorf("restore snapshot %s: %w", snap.ID, err)
		}
		s.mu.Lock()
		snap.Status = domain.SnapshotReverted
		s.mu.Unlock()
		reverted++
	}

	if reverted > 0 {
		s.emitResolved(sessionID, string(domain.SnapshotReverted), reverted)
	}
	return reverted, nil
}

// Stats returns the session's snapshot counts.
func (s *Store) Stats(sessionID string) Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	var st Stats
	for _, snap := range s.sessions[sessionID] {
		st.Total++
		switch snap.Status {
		case domain.SnapshotPending:
			st.Pending++
		case domain.SnapshotAccepted:
			st.Accepted++
		case domain.SnapshotReverted:
			st.Reverted++
		}
	}
	return st
}

// Sessions returns the ids of sessions with at least one snapshot.
func (s *Store) Sessions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Sweep drops every snapshot older than the retention window, any status,
// and prunes sessions left empty. Returns how many were dropped.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := timeutil.At(s.clock.Now().Add(-s.retention))
	var dropped int
	for sessionID, snaps := range s.sessions {
		kept := snaps[:0]
		for _, snap := range snaps {
			if snap.Timestamp.Before(cutoff) {
				dropped++
				continue
			}
			kept = append(kept, snap)
		}
		if len(kept) == 0 {
			delete(s.sessions, sessionID)
			continue
		}
		s.sessions[sessionID] = kept
	}
	return dropped
}

// Start runs a sweep immediately and then on the configured interval.
// Call Stop to cancel.
func (s *Store) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)

		s.Sweep()

		ticker := time.NewTicker(s.sweepEach)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Sweep()
			}
		}
	}()
}

// Stop cancels the sweep goroutine and waits for it to finish.
func (s *Store) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}

func (s *Store) emitResolved(sessionID, status string, count int) {
	s.bus.Publish(domain.Event{
		Type: domain.EventSnapshotResolved,
		Fields: map[string]string{
			"session": sessionID,
			"status":  status,
			"count":   fmt.Sprintf("%d", count),
		},
	})
}
