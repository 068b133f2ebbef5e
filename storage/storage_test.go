package storage

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir(), 0, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	content := "# Work\n- [ ] buy milk +grocery due:2025-01-20 (a)\n"
	if err := s.Save(ctx, "todo.md", content); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load(ctx, "todo.md")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != content {
		t.Fatalf("round trip changed content: %q", got)
	}
}

func TestLoadMissingDocument(t *testing.T) {
	s := newTestStore(t)
	_, err := s.Load(context.Background(), "nope.md")
	if err == nil {
		t.Fatalf("expected error")
	}
	var nf interface{ NotFound() }
	if !errors.As(err, &nf) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestSaveRejectsOversizedContent(t *testing.T) {
	s, err := New(t.TempDir(), 16, nil)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	err = s.Save(context.Background(), "todo.md", strings.Repeat("x", 17))
	if err == nil {
		t.Fatalf("expected error")
	}
	var tl interface{ TooLarge() }
	if !errors.As(err, &tl) {
		t.Fatalf("expected too-large error, got %v", err)
	}
	// Nothing truncated: the document must simply not exist.
	if _, err := s.Load(context.Background(), "todo.md"); err == nil {
		t.Fatalf("expected document to be absent after rejected save")
	}
}

func TestNameAllowList(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	badNames := map[string]string{
		"empty":             "",
		"traversal":         "../todo.md",
		"nested":            "dir/todo.md",
		"backslash":         `dir\todo.md`,
		"control_byte":      "to\x01do.md",
		"wrong_extension":   "todo.exe",
		"no_extension":      "todo",
		"overlong":          strings.Repeat("a", 300) + ".md",
	}
	for name, doc := range badNames {
		t.Run(name, func(t *testing.T) {
			if err := s.Save(ctx, doc, "x"); err == nil {
				t.Fatalf("expected %q to be rejected", doc)
			}
			var bn interface{ BadName() }
			if err := s.Save(ctx, doc, "x"); !errors.As(err, &bn) {
				t.Fatalf("expected bad-name error for %q", doc)
			}
		})
	}
	for _, good := range []string{"todo.md", "notes.txt", "UPPER.MD"} {
		if err := s.Save(ctx, good, "x"); err != nil {
			t.Fatalf("expected %q to be accepted: %v", good, err)
		}
	}
}

func TestListAllowedDocumentsOnly(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	if err := s.Save(ctx, "b.md", "bb"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.Save(ctx, "a.txt", "a"); err != nil {
		t.Fatalf("save: %v", err)
	}
	docs, err := s.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %#v", docs)
	}
	if docs[0].Name != "a.txt" || docs[0].Size != 1 || docs[1].Name != "b.md" || docs[1].Size != 2 {
		t.Fatalf("unexpected listing: %#v", docs)
	}
}
