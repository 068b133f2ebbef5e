package tasklist

import (
	"reflect"
	"testing"

	"todo-attack-api/domain"
)

func TestParseDocumentHeadingInheritance(t *testing.T) {
	text := "# A\n## B #FF0000\n- [ ] t1\n# C\n- [ ] t2"
	tasks := ParseDocument(text)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	t1, t2 := tasks[0], tasks[1]
	if t1.Heading != "B" || t1.Color != "#FF0000" {
		t.Fatalf("unexpected t1 context: heading=%q color=%q", t1.Heading, t1.Color)
	}
	if t1.LineNumber != 3 {
		t.Fatalf("unexpected t1 line: %d", t1.LineNumber)
	}
	// C carries no explicit color, so the tracker keeps B's.
	if t2.Heading != "C" || t2.Color != "#FF0000" {
		t.Fatalf("unexpected t2 context: heading=%q color=%q", t2.Heading, t2.Color)
	}
}

func TestParseDocumentLiteralTaskLine(t *testing.T) {
	tasks := ParseDocument("- [ ] buy milk +grocery due:2025-01-20 (a)")
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	task := tasks[0]
	if task.Status != domain.StatusPending {
		t.Fatalf("unexpected status: %v", task.Status)
	}
	if !reflect.DeepEqual(task.Tags, []string{"grocery"}) {
		t.Fatalf("unexpected tags: %#v", task.Tags)
	}
	if task.Due != "2025-01-20" || task.Priority != "a" {
		t.Fatalf("unexpected tokens: due=%q priority=%q", task.Due, task.Priority)
	}
}

func TestParseDocumentEmpty(t *testing.T) {
	if tasks := ParseDocument(""); len(tasks) != 0 {
		t.Fatalf("expected no tasks, got %d", len(tasks))
	}
}

func TestParseDocumentTaskBeforeAnyHeading(t *testing.T) {
	tasks := ParseDocument("- [x] orphan\n# Later\n- [ ] homed")
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Heading != "" || tasks[0].Color != domain.DefaultColor {
		t.Fatalf("orphan task should use defaults: %#v", tasks[0])
	}
	if tasks[1].Heading != "Later" {
		t.Fatalf("unexpected heading: %q", tasks[1].Heading)
	}
}

func TestParseDocumentOpaqueLinesLeaveStateAlone(t *testing.T) {
	text := "# H #ABCDEF\nsome prose\n#### not a heading\n- [ ] t"
	tasks := ParseDocument(text)
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Heading != "H" || tasks[0].Color != "#ABCDEF" {
		t.Fatalf("opaque lines must not disturb trackers: %#v", tasks[0])
	}
	if tasks[0].LineNumber != 4 {
		t.Fatalf("unexpected line number: %d", tasks[0].LineNumber)
	}
}

func TestParseDocumentStatuses(t *testing.T) {
	tasks := ParseDocument("- [ ] a\n- [/] b\n- [x] c")
	want := []domain.Status{domain.StatusPending, domain.StatusInProgress, domain.StatusDone}
	if len(tasks) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(tasks))
	}
	for i, s := range want {
		if tasks[i].Status != s {
			t.Fatalf("task %d: expected %v, got %v", i, s, tasks[i].Status)
		}
	}
}
