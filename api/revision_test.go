package api

import (
	"errors"
	"testing"
)

func TestRevisionTrackerAdvance(t *testing.T) {
	revs := newRevisionTracker()
	if revs.Current("todo.md") != "" {
		t.Fatal("expected empty revision before any save")
	}

	first, err := revs.Advance("todo.md", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := revs.Advance("todo.md", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatal("expected distinct revisions")
	}
	if second < first {
		t.Fatalf("revisions must sort by mint order: %s then %s", first, second)
	}
	if revs.Current("todo.md") != second {
		t.Fatal("current revision not updated")
	}
}

func TestRevisionTrackerStaleBase(t *testing.T) {
	revs := newRevisionTracker()
	first, _ := revs.Advance("todo.md", "")
	second, _ := revs.Advance("todo.md", first)

	if err := revs.Check("todo.md", first); err == nil {
		t.Fatal("expected stale base to fail the check")
	}
	_, err := revs.Advance("todo.md", first)
	var stale *StaleRevisionError
	if !errors.As(err, &stale) {
		t.Fatalf("expected StaleRevisionError, got %v", err)
	}
	if stale.Current != second {
		t.Fatalf("error carries %q, current is %q", stale.Current, second)
	}
	if revs.Current("todo.md") != second {
		t.Fatal("failed advance must not move the revision")
	}
}

func TestRevisionTrackerPerDocument(t *testing.T) {
	revs := newRevisionTracker()
	a, _ := revs.Advance("a.md", "")
	if err := revs.Check("b.md", a); err != nil {
		t.Fatalf("documents must track revisions independently: %v", err)
	}
}
