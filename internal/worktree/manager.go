// Package worktree manages isolated git worktrees per task. Tracking is
// session-scoped while on-disk state is durable, so the manager reconciles
// its rows against the repository's actual worktree list.
package worktree

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"

	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/domain/timeutil"
)

// Manager creates, tracks, and destroys worktrees.
type Manager struct {
	git         domain.GitRunner
	repo        domain.RepoInspector
	bus         domain.Publisher
	clock       domain.Clock
	logger      domain.Logger
	rows        map[string]*domain.Worktree // by task id
	projectPath string
	mu          sync.Mutex
}

// NewManager creates a Manager. bus and logger may be nil.
func NewManager(git domain.GitRunner, repo domain.RepoInspector, bus domain.Publisher, clock domain.Clock, logger domain.Logger) *Manager {
	if bus == nil {
		bus = domain.NopPublisher{}
	}
	return &Manager{
		git:    git,
		repo:   repo,
		bus:    bus,
		clock:  clock,
		logger: logger,
		rows:   make(map[string]*domain.Worktree),
	}
}

// SetProjectPath configures the shared repository root. Must precede all
// other calls.
func (m *Manager) SetProjectPath(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := m.repo.Validate(abs); err != nil {
		return err
	}

	m.mu.Lock()
	m.projectPath = abs
	m.mu.Unlock()
	return nil
}

// ProjectPath returns the configured repository root.
func (m *Manager) ProjectPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projectPath
}

// Create makes a new worktree and branch for the task. The path is
// derived from the task id and placed as a sibling of the project
// directory so the object store is shared. No retry on failure: a visible
// failure beats an ambiguous partial create.
func (m *Manager) Create(taskID, branchName string) (*domain.Worktree, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.projectPath == "" {
		return nil, domain.ErrProjectPathNotSet
	}
	if _, ok := m.rows[taskID]; ok {
		return nil, fmt.Errorf("task %s: %w", taskID, domain.ErrWorktreeExists)
	}

	exists, err := m.repo.BranchExists(m.projectPath, branchName)
	if err != nil {
		return nil, fmt.Errorf("check branch: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("branch %s: %w", branchName, domain.ErrBranchExists)
	}

	path := domain.WorktreePath(m.projectPath, taskID)
	if err := m.git.WorktreeAdd(m.projectPath, path, branchName); err != nil {
		return nil, err
	}

	row := &domain.Worktree{
		TaskID:     taskID,
		Path:       path,
		BranchName: branchName,
		IsActive:   false,
		Created:    timeutil.At(m.clock.Now()),
	}
	m.rows[taskID] = row
	m.emitStatus(taskID, "created")
	m.log("worktree", "created worktree at "+path)

	return row, nil
}

// Delete removes the task's worktree. A failed normal remove (dirty or
// locked tree) is retried once with --force. The tracking row is dropped
// only after the removal succeeds, otherwise it is kept so the orphan is
// not lost track of.
func (m *Manager) Delete(taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.projectPath == "" {
		return domain.ErrProjectPathNotSet
	}
	row, ok := m.rows[taskID]
	if !ok {
		return fmt.Errorf("task %s: %w", taskID, domain.ErrWorktreeNotFound)
	}

	if err := m.git.WorktreeRemove(m.projectPath, row.Path, false); err != nil {
		m.log("worktree", "normal remove failed, retrying with force: "+err.Error())
		if err := m.git.WorktreeRemove(m.projectPath, row.Path, true); err != nil {
			return err
		}
	}

	delete(m.rows, taskID)
	m.emitStatus(taskID, "deleted")
	m.log("worktree", "deleted worktree at "+row.Path)
	return nil
}

// Switch marks the target worktree active and all others inactive.
// Purely advisory; it moves no files.
func (m *Manager) Switch(taskID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[taskID]
	if !ok {
		return fmt.Errorf("task %s: %w", taskID, domain.ErrWorktreeNotFound)
	}

	for _, other := range m.rows {
		other.IsActive = false
	}
	row.IsActive = true

	m.emitStatus(taskID, "active")
	return nil
}

// Get returns the tracked worktree for a task, or nil.
func (m *Manager) Get(taskID string) *domain.Worktree {
	m.mu.Lock()
	defer m.mu.Unlock()

	row, ok := m.rows[taskID]
	if !ok {
		return nil
	}
	copied := *row
	return &copied
}

// List returns all tracked worktrees sorted by task id.
func (m *Manager) List() []domain.Worktree {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Worktree, 0, len(m.rows))
	for _, row := range m.rows {
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TaskID < out[j].TaskID })
	return out
}

// ListGit returns the repository's actual worktree list, for
// reconciliation.
func (m *Manager) ListGit() ([]domain.WorktreeInfo, error) {
	m.mu.Lock()
	projectPath := m.projectPath
	m.mu.Unlock()

	if projectPath == "" {
		return nil, domain.ErrProjectPathNotSet
	}
	return m.git.WorktreeList(projectPath)
}

// CleanupOrphaned diffs the raw worktree list against tracked rows. Any
// git-visible worktree that matches the task naming convention with no
// tracking row is force-removed; this guards against crash-induced state
// loss. Returns the removed paths.
func (m *Manager) CleanupOrphaned() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.projectPath == "" {
		return nil, domain.ErrProjectPathNotSet
	}

	infos, err := m.git.WorktreeList(m.projectPath)
	if err != nil {
		return nil, err
	}

	tracked := make(map[string]struct{}, len(m.rows))
	for _, row := range m.rows {
		tracked[row.Path] = struct{}{}
	}

	var removed []string
	for _, info := range infos {
		if _, ok := domain.ParseWorktreeTaskID(m.projectPath, info.Path); !ok {
			continue
		}
		if _, ok := tracked[info.Path]; ok {
			continue
		}
		if err := m.git.WorktreeRemove(m.projectPath, info.Path, true); err != nil {
			return removed, err
		}
		removed = append(removed, info.Path)
		m.log("worktree", "removed orphaned worktree at "+info.Path)
	}
	return removed, nil
}

func (m *Manager) emitStatus(taskID, state string) {
	m.bus.Publish(domain.Event{
		Type: domain.EventWorktreeStatus,
		Fields: map[string]string{
			"taskId": taskID,
			"state":  state,
		},
	})
}

func (m *Manager) log(category, msg string) {
	if m.logger != nil {
		m.logger.Info("global", category, msg)
	}
}
