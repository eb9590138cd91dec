// Package usecase contains application use cases built on the core
// managers.
package usecase

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/vibe-stack/vcode-agents/internal/board"
	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// ImportTasksInput contains the parameters for bulk task creation.
type ImportTasksInput struct {
	Content string // YAML file content
	DryRun  bool   // Parse and validate without creating tasks
}

// ImportedTask describes one task created (or validated) by an import.
type ImportedTask struct {
	ID     string
	Title  string
	Status domain.Status
}

// ImportTasksOutput contains the result of an import.
type ImportTasksOutput struct {
	Tasks []ImportedTask
}

// taskDraft is one entry of the import file.
type taskDraft struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Status      string `yaml:"status"`
}

// importFile is the import file structure.
type importFile struct {
	Tasks []taskDraft `yaml:"tasks"`
}

// ImportTasks creates tasks on the board from a YAML file.
type ImportTasks struct {
	board *board.Board
}

// NewImportTasks creates a new ImportTasks use case.
func NewImportTasks(b *board.Board) *ImportTasks {
	return &ImportTasks{board: b}
}

// Execute parses the file and creates one task per entry. Drafts default
// to the todo column; only ideas and todo are accepted. In dry-run mode
// nothing is created and returned ids are empty.
func (uc *ImportTasks) Execute(in ImportTasksInput) (*ImportTasksOutput, error) {
	var file importFile
	if err := yaml.Unmarshal([]byte(in.Content), &file); err != nil {
		return nil, fmt.Errorf("parse import file: %w", err)
	}

	out := &ImportTasksOutput{}
	for i, draft := range file.Tasks {
		if draft.Title == "" {
			return nil, fmt.Errorf("task %d: %w", i+1, domain.ErrEmptyTitle)
		}
		status := domain.Status(draft.Status)
		if draft.Status == "" {
			status = domain.StatusTodo
		}
		if !status.AcceptsCreation() {
			return nil, fmt.Errorf("task %d (%q): %w", i+1, draft.Title, domain.ErrInvalidColumn)
		}

		if in.DryRun {
			out.Tasks = append(out.Tasks, ImportedTask{Title: draft.Title, Status: status})
			continue
		}

		task, err := uc.board.CreateTask(board.CreateTaskInput{
			Title:       draft.Title,
			Description: draft.Description,
			Status:      status,
		})
		if err != nil {
			return nil, fmt.Errorf("create task %q: %w", draft.Title, err)
		}
		out.Tasks = append(out.Tasks, ImportedTask{ID: task.ID, Title: task.Title, Status: task.Status})
	}

	return out, nil
}
