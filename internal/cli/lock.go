package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vibe-stack/vcode-agents/internal/app"
	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/lock"
)

// newLockCommand creates the lock command group.
func newLockCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "lock",
		Short:   "Inspect and drive advisory file locks",
		GroupID: groupResource,
	}

	cmd.AddCommand(
		newLockAcquireCommand(c),
		newLockReleaseCommand(c),
		newLockReleaseAllCommand(c),
		newLockListCommand(c),
		newLockCheckCommand(c),
	)

	return cmd
}

func newLockAcquireCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Session string
		Kind    string
		Timeout time.Duration
	}

	cmd := &cobra.Command{
		Use:   "acquire <path>",
		Short: "Acquire a read or write lock on a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := domain.LockKind(opts.Kind)
			if kind != domain.LockRead && kind != domain.LockWrite {
				return fmt.Errorf("unknown lock kind %q", opts.Kind)
			}

			res, err := c.Locks.Acquire(opts.Session, args[0], kind, opts.Timeout)
			if err != nil {
				return err
			}
			if !res.Granted {
				switch res.Reason {
				case lock.ReasonNotFound:
					return domain.ErrFileNotFound
				default:
					return fmt.Errorf("file is locked by another agent (session: %s)", res.ConflictSession)
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Acquired %s lock %s\n", kind, res.LockID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Session, "session", "s", "", "Session id (required)")
	cmd.Flags().StringVarP(&opts.Kind, "kind", "k", "read", "Lock kind (read or write)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 0, "Lock timeout (default from policy)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func newLockReleaseCommand(c *app.Container) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "release <lock-id>",
		Short: "Release a lock (idempotent)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Locks.Release(args[0], session)
			fmt.Fprintln(cmd.OutOrStdout(), "Released")
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (required)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}

func newLockReleaseAllCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "release-all <session>",
		Short: "Release every lock a session holds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n := c.Locks.ReleaseAll(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Released %d lock(s)\n", n)
			return nil
		},
	}
}

func newLockListCommand(c *app.Container) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active locks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var locks []domain.FileLock
			if session != "" {
				locks = c.Locks.SessionLocks(session)
			} else {
				locks = c.Locks.ActiveLocks()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tKIND\tPATH\tEXPIRES")
			for _, l := range locks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.SessionID, l.Kind, l.Path, l.ExpiresAt)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Only locks held by this session")

	return cmd
}

func newLockCheckCommand(c *app.Container) *cobra.Command {
	var session string

	cmd := &cobra.Command{
		Use:   "check <path>...",
		Short: "Pre-flight check which paths are locked by another session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conflicting := c.Locks.Conflicts(session, args)
			if len(conflicting) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No conflicts")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Locked by another session:\n%s\n", strings.Join(conflicting, "\n"))
			return nil
		},
	}

	cmd.Flags().StringVarP(&session, "session", "s", "", "Session id (required)")
	_ = cmd.MarkFlagRequired("session")

	return cmd
}
