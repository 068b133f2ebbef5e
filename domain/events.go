package domain

// BoardEvent is a board-view interaction translated into a document patch.
// Each variant carries only the fields its writeback needs.
type BoardEvent interface {
	boardEvent()
}

// StatusDrop is a card dragged onto a Kanban column. Dropping a card onto the
// column it already occupies is a no-op patch.
type StatusDrop struct {
	Line   int    `json:"line"`
	Status Status `json:"status"`
}

// DateResize is a Gantt bar moved or resized, snapped to whole days.
type DateResize struct {
	Line  int    `json:"line"`
	Start string `json:"start"`
	Due   string `json:"due"`
}

// NewTask is a task submission targeting a heading's section.
type NewTask struct {
	HeadingLine int    `json:"headingLine"`
	Body        string `json:"body"`
	Start       string `json:"start,omitempty"`
	Due         string `json:"due,omitempty"`
}

func (StatusDrop) boardEvent() {}
func (DateResize) boardEvent() {}
func (NewTask) boardEvent()    {}

// Filter restricts board projections. Each empty set passes everything; the
// three sets are combined as a conjunction, and the tag set requires every
// selected tag to be present on the task.
type Filter struct {
	Statuses   []Status `json:"statuses,omitempty"`
	Priorities []string `json:"priorities,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Empty reports whether the filter passes every task unchanged.
func (f Filter) Empty() bool {
	return len(f.Statuses) == 0 && len(f.Priorities) == 0 && len(f.Tags) == 0
}

// Match applies the filter to a single task.
func (f Filter) Match(t Task) bool {
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if t.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if len(f.Priorities) > 0 {
		ok := false
		for _, p := range f.Priorities {
			if t.Priority == p {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	for _, tag := range f.Tags {
		if !t.HasTag(tag) {
			return false
		}
	}
	return true
}
