package board

import (
	"sort"

	"github.com/vibe-stack/vcode-agents/internal/domain"
)

// Document is the JSON-serializable form of a board, keyed by project
// path. Task ids live in the map keys and the column lists.
type Document struct {
	Tasks       map[string]*domain.Task    `json:"tasks"`
	Columns     map[domain.Status][]string `json:"columns"`
	ProjectPath string                     `json:"projectPath"`
}

// Export captures the board as a persistable document.
func (b *Board) Export(projectPath string) *Document {
	b.mu.Lock()
	defer b.mu.Unlock()

	doc := &Document{
		ProjectPath: projectPath,
		Tasks:       make(map[string]*domain.Task, len(b.tasks)),
		Columns:     make(map[domain.Status][]string, len(b.columns)),
	}
	for id, task := range b.tasks {
		doc.Tasks[id] = b.copyLocked(task)
	}
	for col, ids := range b.columns {
		copied := make([]string, len(ids))
		copy(copied, ids)
		doc.Columns[col] = copied
	}
	return doc
}

// FromDocument rehydrates a board. Column membership is rebuilt to mirror
// each task's status, so a document whose lists drifted out of sync loads
// back into a consistent board.
func FromDocument(doc *Document, clock domain.Clock) *Board {
	b := New(clock)
	if doc == nil {
		return b
	}

	for id, task := range doc.Tasks {
		copied := *task
		copied.ID = id
		if !copied.Status.IsValid() {
			copied.Status = domain.StatusTodo
		}
		b.tasks[id] = &copied
	}

	// Preserve persisted ordering for ids whose status agrees with the
	// column they were stored in.
	seen := make(map[string]struct{}, len(b.tasks))
	for _, col := range domain.Columns() {
		for _, id := range doc.Columns[col] {
			task, ok := b.tasks[id]
			if !ok || task.Status != col {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			b.columns[col] = append(b.columns[col], id)
		}
	}
	// Tasks missing from their column list re-enter in creation order so
	// rehydration is deterministic.
	var strays []*domain.Task
	for id, task := range b.tasks {
		if _, ok := seen[id]; !ok {
			strays = append(strays, task)
		}
	}
	sort.Slice(strays, func(i, j int) bool {
		if !strays[i].Created.Equal(strays[j].Created) {
			return strays[i].Created.Before(strays[j].Created)
		}
		return strays[i].ID < strays[j].ID
	})
	for _, task := range strays {
		b.columns[task.Status] = append(b.columns[task.Status], task.ID)
	}

	return b
}
