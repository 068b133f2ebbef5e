package board

import (
	"fmt"
	"time"

	"todo-attack-api/domain"
	"todo-attack-api/tasklist"
)

// Controller turns document text into board projections and board events back
// into document text. It holds no document state of its own; callers pass the
// current text in and must re-parse whatever text comes back before rendering.
type Controller struct {
	now func() time.Time
}

// NewController creates a Controller using the real clock.
func NewController() *Controller {
	return &Controller{now: time.Now}
}

// NewControllerAt pins the controller's clock, used by tests and previews.
func NewControllerAt(now func() time.Time) *Controller {
	return &Controller{now: now}
}

// Kanban parses the text and projects it into status columns.
func (c *Controller) Kanban(text string, filter domain.Filter) KanbanBoard {
	return Kanban(tasklist.ParseDocument(text), filter)
}

// Gantt parses the text and projects it onto the 30-day window.
func (c *Controller) Gantt(text string) GanttChart {
	return Gantt(tasklist.ParseDocument(text), c.now())
}

// Apply translates a board event into a patched document. Single-line patches
// keep every other line byte-identical; NewTask is the only event that shifts
// line numbers, which is why callers must drop any previously parsed tasks.
func (c *Controller) Apply(text string, ev domain.BoardEvent) (string, error) {
	lines := tasklist.SplitLines(text)
	var err error
	switch e := ev.(type) {
	case domain.StatusDrop:
		lines, err = applyStatusDrop(lines, e)
	case domain.DateResize:
		lines, err = applyDateResize(lines, e)
	case domain.NewTask:
		lines, _ = tasklist.InsertTaskLine(lines, e.HeadingLine, e.Body, e.Start, e.Due)
	default:
		err = fmt.Errorf("unsupported board event %T", ev)
	}
	if err != nil {
		return "", err
	}
	return tasklist.JoinLines(lines), nil
}

// Toggle applies the editor-command status cycle to one line.
func (c *Controller) Toggle(text string, line int) (string, error) {
	lines := tasklist.SplitLines(text)
	if line < 1 || line > len(lines) {
		return "", &LineRangeError{Line: line, Max: len(lines)}
	}
	lines[line-1] = tasklist.ToggleStatus(lines[line-1])
	return tasklist.JoinLines(lines), nil
}

// LineRangeError reports an event referencing a line the document no longer
// has, typically a stale handle from before a structural edit.
type LineRangeError struct {
	Line int
	Max  int
}

func (e *LineRangeError) Error() string {
	return fmt.Sprintf("line %d out of range (document has %d lines)", e.Line, e.Max)
}

// LineOutOfRange marks the error for HTTP mapping.
func (e *LineRangeError) LineOutOfRange() {}

// UnknownStatusError reports a drop event naming a status outside the
// three-state grammar.
type UnknownStatusError struct {
	Status domain.Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("unknown status %q", string(e.Status))
}
