// Package cli provides the command-line interface for the agent
// coordination core.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/vibe-stack/vcode-agents/internal/app"
)

// Command group IDs.
const (
	groupTask     = "task"
	groupResource = "resource"
)

// NewRootCommand creates the root command. It receives the container for
// dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	root := &cobra.Command{
		Use:   "vcode-agents",
		Short: "Coordination core for concurrent AI coding agents",
		Long: `vcode-agents coordinates multiple concurrent AI coding agents working
against a single project. It isolates each task in a git worktree,
arbitrates file access with advisory locks, tracks the task lifecycle
on a board, and records pre-edit snapshots so tentative changes can be
accepted or reverted.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddGroup(
		&cobra.Group{ID: groupTask, Title: "Task Commands:"},
		&cobra.Group{ID: groupResource, Title: "Resource Commands:"},
	)

	root.AddCommand(
		newTaskCommand(c),
		newImportCommand(c),
		newWorktreeCommand(c),
		newLockCommand(c),
		newSnapshotCommand(c),
	)

	return root
}
