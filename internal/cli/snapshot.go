package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vibe-stack/vcode-agents/internal/app"
)

// newSnapshotCommand creates the snapshot command group.
func newSnapshotCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Short:   "Accept or revert pending edit snapshots",
		GroupID: groupResource,
	}

	cmd.AddCommand(
		newSnapshotAcceptCommand(c),
		newSnapshotRevertCommand(c),
		newSnapshotStatsCommand(c),
	)

	return cmd
}

func newSnapshotAcceptCommand(c *app.Container) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "accept <session>",
		Short: "Accept pending snapshots for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			if message != "" {
				n = c.Snapshots.AcceptAll(args[0], message)
			} else {
				n = c.Snapshots.AcceptAllPending(args[0])
			}
			if err := c.SaveSnapshots(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Accepted %d snapshot(s)\n", n)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Only snapshots for this message id")

	return cmd
}

func newSnapshotRevertCommand(c *app.Container) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "revert <session>",
		Short: "Revert pending snapshots for a session, most recent first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var n int
			var err error
			if message != "" {
				n, err = c.Snapshots.RevertAll(args[0], message)
			} else {
				n, err = c.Snapshots.RevertAllPending(args[0])
			}
			if saveErr := c.SaveSnapshots(); saveErr != nil && err == nil {
				err = saveErr
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reverted %d snapshot(s)\n", n)
			return err
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Only snapshots for this message id")

	return cmd
}

func newSnapshotStatsCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <session>",
		Short: "Show per-session snapshot counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st := c.Snapshots.Stats(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "total=%d pending=%d accepted=%d reverted=%d\n",
				st.Total, st.Pending, st.Accepted, st.Reverted)
			return nil
		},
	}
}
