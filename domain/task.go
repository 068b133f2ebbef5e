package domain

// DefaultColor is assigned to tasks that have no colored heading above them.
const DefaultColor = "#1976D2"

// Status is the three-state checkbox value of a task line.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "inprogress"
	StatusDone       Status = "done"
)

// Char returns the bracket character written between `[` and `]`.
func (s Status) Char() byte {
	switch s {
	case StatusInProgress:
		return '/'
	case StatusDone:
		return 'x'
	default:
		return ' '
	}
}

// StatusFromChar maps a bracket character to its Status. Unknown characters
// map to StatusPending.
func StatusFromChar(c byte) Status {
	switch c {
	case '/':
		return StatusInProgress
	case 'x':
		return StatusDone
	default:
		return StatusPending
	}
}

// Valid reports whether s is one of the three known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task is one parsed task line. Records are rebuilt on every parse; the line
// number is the only durable handle and is invalidated by any structural edit.
type Task struct {
	LineNumber int      `json:"lineNumber"`
	Status     Status   `json:"status"`
	Text       string   `json:"text"`
	Heading    string   `json:"heading,omitempty"`
	Color      string   `json:"color"`
	Tags       []string `json:"tags,omitempty"`
	Due        string   `json:"due,omitempty"`
	Start      string   `json:"start,omitempty"`
	Priority   string   `json:"priority,omitempty"`
}

// HasTag reports whether the task carries the given tag.
func (t Task) HasTag(tag string) bool {
	for _, tg := range t.Tags {
		if tg == tag {
			return true
		}
	}
	return false
}
