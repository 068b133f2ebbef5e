// Package board derives Kanban and Gantt projections from document text and
// reconciles board interactions back into line patches. Projections are
// read-only throwaways: every writeback returns new document text and the
// caller re-parses before rendering again.
package board

import (
	"todo-attack-api/domain"
	"todo-attack-api/tasklist"
)

// Column names match the three checkbox states in board order.
const (
	ColumnBacklog    = "backlog"
	ColumnInProgress = "inprogress"
	ColumnDone       = "done"
)

// Column is one Kanban bucket.
type Column struct {
	Name   string        `json:"name"`
	Status domain.Status `json:"status"`
	Tasks  []domain.Task `json:"tasks"`
}

// KanbanBoard is the full three-column projection.
type KanbanBoard struct {
	Columns []Column `json:"columns"`
}

// Kanban groups the given tasks into the three status columns after applying
// the filter. An empty filter is the identity: the union of the columns is
// exactly the parsed task list.
func Kanban(tasks []domain.Task, filter domain.Filter) KanbanBoard {
	cols := []Column{
		{Name: ColumnBacklog, Status: domain.StatusPending, Tasks: []domain.Task{}},
		{Name: ColumnInProgress, Status: domain.StatusInProgress, Tasks: []domain.Task{}},
		{Name: ColumnDone, Status: domain.StatusDone, Tasks: []domain.Task{}},
	}
	for _, t := range tasks {
		if !filter.Match(t) {
			continue
		}
		for i := range cols {
			if cols[i].Status == t.Status {
				cols[i].Tasks = append(cols[i].Tasks, t)
				break
			}
		}
	}
	return KanbanBoard{Columns: cols}
}

// applyStatusDrop rewrites the dropped card's source line to the target
// column's status. Only that line's bracket character may change; dropping
// onto the current column leaves the text byte-identical.
func applyStatusDrop(lines []string, ev domain.StatusDrop) ([]string, error) {
	if ev.Line < 1 || ev.Line > len(lines) {
		return nil, &LineRangeError{Line: ev.Line, Max: len(lines)}
	}
	if !ev.Status.Valid() {
		return nil, &UnknownStatusError{Status: ev.Status}
	}
	lines[ev.Line-1] = tasklist.SetStatus(lines[ev.Line-1], ev.Status)
	return lines, nil
}
