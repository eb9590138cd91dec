package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vibe-stack/vcode-agents/internal/app"
	"github.com/vibe-stack/vcode-agents/internal/board"
	"github.com/vibe-stack/vcode-agents/internal/domain"
	"github.com/vibe-stack/vcode-agents/internal/usecase"
)

// newTaskCommand creates the task command group.
func newTaskCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "task",
		Short:   "Manage tasks on the board",
		GroupID: groupTask,
	}

	cmd.AddCommand(
		newTaskNewCommand(c),
		newTaskListCommand(c),
		newTaskShowCommand(c),
		newTaskMoveCommand(c),
		newTaskDeleteCommand(c),
		newTaskMessageCommand(c),
		newAgentCommand(c),
	)

	return cmd
}

func newTaskNewCommand(c *app.Container) *cobra.Command {
	var opts struct {
		Title       string
		Description string
		Status      string
	}

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new task",
		Long: `Create a new task on the board.

Tasks can only be created in the ideas or todo columns; every other
column is reached by transition.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in := board.CreateTaskInput{
				Title:       opts.Title,
				Description: opts.Description,
			}
			if opts.Status != "" {
				in.Status = domain.Status(opts.Status)
			}
			task, err := c.Board.CreateTask(in)
			if err != nil {
				return err
			}
			if err := c.SaveBoard(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created task %s in %s\n", task.ID, task.Status.Display())
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Title, "title", "t", "", "Task title (required)")
	cmd.Flags().StringVarP(&opts.Description, "body", "b", "", "Task description")
	cmd.Flags().StringVarP(&opts.Status, "status", "s", "", "Initial column (ideas or todo)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTaskListCommand(c *app.Container) *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks grouped by column",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var tasks []domain.Task
			if status != "" {
				tasks = c.Board.Tasks(domain.Status(status))
			} else {
				tasks = c.Board.Tasks()
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tAGENT\tTITLE")
			for _, t := range tasks {
				agent := "-"
				if t.Execution != nil {
					agent = string(t.Execution.Status)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, agent, t.Title)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&status, "status", "s", "", "Only tasks in this column")

	return cmd
}

func newTaskShowCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <task-id>",
		Short: "Show one task with its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			task := c.Board.GetTask(args[0])
			if task == nil {
				return domain.ErrTaskNotFound
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Task:    %s\n", task.ID)
			fmt.Fprintf(out, "Title:   %s\n", task.Title)
			fmt.Fprintf(out, "Status:  %s\n", task.Status.Display())
			if task.WorkStatus != "" {
				fmt.Fprintf(out, "Work:    %s\n", task.WorkStatus)
			}
			if task.Execution != nil {
				fmt.Fprintf(out, "Agent:   %s (running=%t)\n", task.Execution.Status, task.Execution.IsRunning)
			}
			if task.Description != "" {
				fmt.Fprintf(out, "\n%s\n", task.Description)
			}
			for _, msg := range task.Messages {
				fmt.Fprintf(out, "\n[%s] %s: %s\n", msg.Time, msg.Role, msg.Content)
			}
			return nil
		},
	}
}

func newTaskMoveCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <status>",
		Short: "Move a task to another column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status := domain.Status(args[1])
			if !status.IsValid() {
				return fmt.Errorf("unknown column %q", args[1])
			}
			task := c.Board.MoveTask(args[0], status)
			if task == nil {
				return domain.ErrTaskNotFound
			}
			if err := c.SaveBoard(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved task %s to %s\n", task.ID, task.Status.Display())
			return nil
		},
	}
}

func newTaskDeleteCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c.Board.DeleteTask(args[0])
			if err := c.SaveBoard(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted task %s\n", args[0])
			return nil
		},
	}
}

func newTaskMessageCommand(c *app.Container) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "message <task-id> <content>",
		Short: "Append a message to a task's transcript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := c.Board.AddMessage(args[0], role, args[1])
			if err != nil {
				return err
			}
			if msg == nil {
				return domain.ErrTaskNotFound
			}
			if err := c.SaveBoard(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added message %s\n", msg.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&role, "role", "r", "user", "Message role (user, assistant, system)")

	return cmd
}

// newAgentCommand creates the agent lifecycle command group.
func newAgentCommand(c *app.Container) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Drive a task's agent lifecycle",
	}

	type transition struct {
		use   string
		short string
		apply func(id string) *domain.Task
	}

	transitions := []transition{
		{"start <task-id>", "Start the agent (task moves to doing)", c.Board.StartAgent},
		{"stop <task-id>", "Stop the agent (task moves to done)", c.Board.StopAgent},
		{"pause <task-id>", "Pause the agent (task moves to need_clarification)", c.Board.PauseAgent},
		{"resume <task-id>", "Resume the agent (task moves back to doing)", c.Board.ResumeAgent},
	}

	for _, tr := range transitions {
		apply := tr.apply
		cmd.AddCommand(&cobra.Command{
			Use:   tr.use,
			Short: tr.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				task := apply(args[0])
				if task == nil {
					return domain.ErrTaskNotFound
				}
				if err := c.SaveBoard(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Task %s: agent %s, column %s\n",
					task.ID, task.Execution.Status, task.Status.Display())
				return nil
			},
		})
	}

	return cmd
}

// newImportCommand creates the import command for bulk task creation.
func newImportCommand(c *app.Container) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:     "import <file>",
		Short:   "Create tasks from a YAML file",
		GroupID: groupTask,
		Long: `Create tasks in bulk from a YAML file.

File format:
  tasks:
    - title: Fix login bug
      description: Repro in issue 42
    - title: Sketch settings panel
      status: ideas`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			out, err := c.ImportTasksUseCase().Execute(usecase.ImportTasksInput{
				Content: string(content),
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}
			if !dryRun {
				if err := c.SaveBoard(); err != nil {
					return err
				}
			}

			for _, t := range out.Tasks {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.ID, t.Status, t.Title)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d task(s)\n", len(out.Tasks))
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate without creating tasks")

	return cmd
}
