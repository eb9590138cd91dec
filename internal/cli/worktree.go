package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vibe-stack/vcode-agents/internal/app"
)

// newWorktreeCommand creates the worktree command group.
func newWorktreeCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "worktree",
		Short:   "Manage per-task git worktrees",
		GroupID: groupResource,
	}

	cmd.AddCommand(
		newWorktreeCreateCommand(c),
		newWorktreeDeleteCommand(c),
		newWorktreeSwitchCommand(c),
		newWorktreeListCommand(c),
		newWorktreeCleanupCommand(c),
	)

	return cmd
}

func newWorktreeCreateCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "create <task-id> <branch>",
		Short: "Create an isolated worktree and branch for a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			row, err := c.Worktrees.Create(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created worktree at %s (branch %s)\n", row.Path, row.BranchName)
			return nil
		},
	}
}

func newWorktreeDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Remove a task's worktree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Worktrees.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted worktree for task %s\n", args[0])
			return nil
		},
	}
}

func newWorktreeSwitchCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "switch <task-id>",
		Short: "Mark a task's worktree as the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.Worktrees.Switch(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Switched to worktree for task %s\n", args[0])
			return nil
		},
	}
}

func newWorktreeListCommand(c *app.Container) *cobra.Command {
	var raw bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tracked worktrees",
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)

			if raw {
				infos, err := c.Worktrees.ListGit()
				if err != nil {
					return err
				}
				fmt.Fprintln(w, "PATH\tBRANCH")
				for _, info := range infos {
					fmt.Fprintf(w, "%s\t%s\n", info.Path, info.Branch)
				}
				return w.Flush()
			}

			fmt.Fprintln(w, "TASK\tPATH\tBRANCH\tACTIVE")
			for _, row := range c.Worktrees.List() {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", row.TaskID, row.Path, row.BranchName, row.IsActive)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&raw, "raw", false, "Show the repository's actual worktree list")

	return cmd
}

func newWorktreeCleanupCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Force-remove orphaned task worktrees",
		Long: `Diff the repository's actual worktree list against tracked rows and
force-remove any task worktree with no tracking row. Tracking is
session-scoped while on-disk state is durable, so a crash can leave
orphans behind.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			removed, err := c.Worktrees.CleanupOrphaned()
			for _, path := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", path)
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d orphaned worktree(s) removed\n", len(removed))
			return nil
		},
	}
}
