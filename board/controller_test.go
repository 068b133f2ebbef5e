package board

import (
	"errors"
	"strings"
	"testing"

	"todo-attack-api/domain"
	"todo-attack-api/tasklist"
)

func TestApplyStatusDropRewritesSingleLine(t *testing.T) {
	doc := "# Work\n- [ ] a\nprose\n- [ ] b\n- [ ] target\n- [x] c"
	ctrl := NewController()

	got, err := ctrl.Apply(doc, domain.StatusDrop{Line: 5, Status: domain.StatusDone})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	gotLines := tasklist.SplitLines(got)
	wantLines := tasklist.SplitLines(doc)
	for i := range wantLines {
		if i == 4 {
			if gotLines[i] != "- [x] target" {
				t.Fatalf("line 5 not rewritten: %q", gotLines[i])
			}
			continue
		}
		if gotLines[i] != wantLines[i] {
			t.Fatalf("line %d changed: %q -> %q", i+1, wantLines[i], gotLines[i])
		}
	}
}

func TestApplyStatusDropSameColumnIsNoOp(t *testing.T) {
	doc := "- [/] busy\n- [ ] idle"
	ctrl := NewController()
	got, err := ctrl.Apply(doc, domain.StatusDrop{Line: 1, Status: domain.StatusInProgress})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != doc {
		t.Fatalf("same-column drop must be byte-identical: %q", got)
	}
}

func TestApplyStatusDropErrors(t *testing.T) {
	ctrl := NewController()
	if _, err := ctrl.Apply("- [ ] only", domain.StatusDrop{Line: 9, Status: domain.StatusDone}); err == nil {
		t.Fatalf("expected out-of-range error")
	} else {
		var lre *LineRangeError
		if !errors.As(err, &lre) {
			t.Fatalf("expected LineRangeError, got %T", err)
		}
	}
	if _, err := ctrl.Apply("- [ ] only", domain.StatusDrop{Line: 1, Status: "blocked"}); err == nil {
		t.Fatalf("expected unknown-status error")
	}
}

func TestApplyDateResize(t *testing.T) {
	doc := "- [ ] trip start:2025-06-12 due:2025-06-20 +travel"
	ctrl := NewController()
	got, err := ctrl.Apply(doc, domain.DateResize{Line: 1, Start: "2025-06-14", Due: "2025-06-25"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "- [ ] trip start:2025-06-14 due:2025-06-25 +travel"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestApplyDateResizeAppendsMissingFields(t *testing.T) {
	ctrl := NewController()
	got, err := ctrl.Apply("- [ ] bare", domain.DateResize{Line: 1, Start: "2025-06-14", Due: "2025-06-16"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if got != "- [ ] bare start:2025-06-14 due:2025-06-16" {
		t.Fatalf("unexpected line: %q", got)
	}
}

func TestApplyNewTask(t *testing.T) {
	doc := "# A\n- [ ] a1\n# B\n- [ ] b1"
	ctrl := NewController()
	got, err := ctrl.Apply(doc, domain.NewTask{HeadingLine: 1, Body: "a2", Due: "2025-07-01"})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	want := "# A\n- [ ] a1\n- [ ] a2 due:2025-07-01\n# B\n- [ ] b1"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	// Line numbers shifted; a fresh parse must see the new task in section A.
	tasks := tasklist.ParseDocument(got)
	if len(tasks) != 3 || tasks[1].Heading != "A" || !strings.Contains(tasks[1].Text, "a2") {
		t.Fatalf("unexpected reparse: %#v", tasks)
	}
}

func TestToggleCyclesAndReports(t *testing.T) {
	ctrl := NewController()
	doc := "- [ ] a\n- [/] b"
	got, err := ctrl.Toggle(doc, 2)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if got != "- [ ] a\n- [x] b" {
		t.Fatalf("unexpected toggle: %q", got)
	}
	if _, err := ctrl.Toggle(doc, 0); err == nil {
		t.Fatalf("expected out-of-range error")
	}
}

func TestControllerProjections(t *testing.T) {
	ctrl := NewControllerAt(fixedNow)
	doc := "# W #112233\n- [ ] a due:2025-06-12\n- [x] b"
	kb := ctrl.Kanban(doc, domain.Filter{})
	if len(kb.Columns[0].Tasks) != 1 || len(kb.Columns[2].Tasks) != 1 {
		t.Fatalf("unexpected kanban: %#v", kb)
	}
	if kb.Columns[0].Tasks[0].Color != "#112233" {
		t.Fatalf("heading color not carried onto card: %#v", kb.Columns[0].Tasks[0])
	}
	chart := ctrl.Gantt(doc)
	if len(chart.Bars) != 2 || chart.Bars[0].EndDay != 2 {
		t.Fatalf("unexpected gantt: %#v", chart)
	}
}
