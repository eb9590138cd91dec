// Package app provides the dependency injection container for the
// application. Managers are explicitly constructed and owned here; the
// timer-driven sweeps are started and stopped by the container owner.
package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/vibe-stack/vcode-agents/internal/board"
	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/infra/config"
	"github.com/vibe-stack/vcode-agents/internal/infra/events"
	"github.com/vibe-stack/vcode-agents/internal/infra/fsutil"
	"github.com/vibe-stack/vcode-agents/internal/infra/gitproc"
	"github.com/vibe-stack/vcode-agents/internal/infra/gitrepo"
	"github.com/vibe-stack/vcode-agents/internal/infra/jsonstore"
	"github.com/vibe-stack/vcode-agents/internal/infra/logging"
	"github.com/vibe-stack/vcode-agents/internal/lock"
	"github.com/vibe-stack/vcode-agents/internal/snapshot"
	"github.com/vibe-stack/vcode-agents/internal/usecase"
	"github.com/vibe-stack/vcode-agents/internal/worktree"
)

// Paths holds the state file locations under the project root.
type Paths struct {
	ProjectPath   string
	StateDir      string // .vcode
	LogDir        string // .vcode/logs
	BoardPath     string // .vcode/board.json
	SnapshotsPath string // .vcode/snapshots.json
}

// newPaths derives the state layout from the project root.
func newPaths(projectPath string) Paths {
	stateDir := filepath.Join(projectPath, config.ConfigDirName)
	return Paths{
		ProjectPath:   projectPath,
		StateDir:      stateDir,
		LogDir:        filepath.Join(stateDir, "logs"),
		BoardPath:     filepath.Join(stateDir, "board.json"),
		SnapshotsPath: filepath.Join(stateDir, "snapshots.json"),
	}
}

// Container wires the core managers together.
type Container struct {
	Bus       *events.Bus
	Locks     *lock.Manager
	Worktrees *worktree.Manager
	Board     *board.Board
	Snapshots *snapshot.Store
	Logger    *logging.Logger
	Config    *config.Config
	Clock     domain.Clock

	boardStore *jsonstore.Store
	snapStore  *jsonstore.Store

	Paths Paths
}

// New creates a Container for the project at projectPath. The capture and
// restore collaborators may be nil when snapshot operations are not used.
func New(projectPath string, capturer domain.StateCapturer, restorer domain.StateRestorer) (*Container, error) {
	abs, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}
	paths := newPaths(abs)

	cfg, err := config.NewLoader(abs).Load()
	if err != nil {
		return nil, err
	}

	logger := logging.New(paths.LogDir, logging.ParseLevel(cfg.Log.Level))
	bus := events.NewBus()
	clock := domain.RealClock{}

	sharedFiles := make(map[string]struct{}, len(cfg.Locks.SharedFiles))
	for _, name := range cfg.Locks.SharedFiles {
		sharedFiles[name] = struct{}{}
	}
	locks := lock.NewManager(clock, fsutil.NewChecker(), bus, logger, lock.Policy{
		DefaultTimeout:    cfg.Locks.DefaultTimeout(),
		SharedReadTimeout: cfg.Locks.SharedReadTimeout(),
		SweepInterval:     cfg.Locks.SweepInterval(),
		SharedFiles:       sharedFiles,
	})

	worktrees := worktree.NewManager(gitproc.NewRunner(), gitrepo.NewInspector(), bus, clock, logger)
	if err := worktrees.SetProjectPath(abs); err != nil {
		return nil, err
	}

	boardStore := jsonstore.New(paths.BoardPath)
	var brd *board.Board
	var boardDoc board.Document
	if err := boardStore.Load(&boardDoc); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		brd = board.New(clock)
	} else {
		brd = board.FromDocument(&boardDoc, clock)
	}

	snaps := snapshot.NewStore(capturer, restorer, clock, bus,
		cfg.Snapshots.Retention(), cfg.Snapshots.SweepInterval())
	snapStore := jsonstore.New(paths.SnapshotsPath)
	var snapDoc snapshot.Document
	if err := snapStore.Load(&snapDoc); err == nil {
		snaps.Load(&snapDoc)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return &Container{
		Bus:        bus,
		Locks:      locks,
		Worktrees:  worktrees,
		Board:      brd,
		Snapshots:  snaps,
		Logger:     logger,
		Config:     cfg,
		Clock:      clock,
		Paths:      paths,
		boardStore: boardStore,
		snapStore:  snapStore,
	}, nil
}

// StartSweeps launches the lock and snapshot sweep loops.
func (c *Container) StartSweeps(ctx context.Context) {
	c.Locks.Start(ctx)
	c.Snapshots.Start(ctx)
}

// StopSweeps cancels the sweep loops and waits for them.
func (c *Container) StopSweeps() {
	c.Locks.Stop()
	c.Snapshots.Stop()
}

// SaveBoard persists the board document.
func (c *Container) SaveBoard() error {
	return c.boardStore.Save(c.Board.Export(c.Paths.ProjectPath))
}

// SaveSnapshots persists the snapshot document.
func (c *Container) SaveSnapshots() error {
	return c.snapStore.Save(c.Snapshots.Export())
}

// Close flushes state and closes the logger.
func (c *Container) Close() error {
	var lastErr error
	if err := c.SaveBoard(); err != nil {
		lastErr = err
	}
	if err := c.SaveSnapshots(); err != nil {
		lastErr = err
	}
	if err := c.Logger.Close(); err != nil {
		lastErr = err
	}
	return lastErr
}

// ImportTasksUseCase returns a new ImportTasks use case.
func (c *Container) ImportTasksUseCase() *usecase.ImportTasks {
	return usecase.NewImportTasks(c.Board)
}
