// Package storage is the persistence gateway: documents are opaque text blobs
// stored one-per-file under a single directory, addressed by an allow-listed
// name. The gateway enforces the name rules and the content size cap; it knows
// nothing about the task-list grammar.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// MaxContentBytes is the save size cap from the reference deployment.
	MaxContentBytes = 1 << 20
	maxNameLength   = 255
)

var defaultExtensions = []string{".md", ".txt"}

// Store reads and writes documents under a base directory.
type Store struct {
	dir        string
	maxSize    int64
	extensions []string
}

// New creates a Store rooted at dir. The directory is created when missing.
// maxSize <= 0 falls back to MaxContentBytes; a nil extension list allows
// .md and .txt.
func New(dir string, maxSize int64, extensions []string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("storage: empty directory")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create dir: %w", err)
	}
	if maxSize <= 0 {
		maxSize = MaxContentBytes
	}
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	return &Store{dir: dir, maxSize: maxSize, extensions: extensions}, nil
}

// DocumentInfo describes one stored document.
type DocumentInfo struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// Load returns the full text of the named document.
func (s *Store) Load(ctx context.Context, name string) (string, error) {
	if err := s.checkName(name); err != nil {
		return "", err
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", &notFoundError{name: name}
		}
		return "", fmt.Errorf("storage: read %s: %w", name, err)
	}
	return string(data), nil
}

// Save replaces the named document with content in one write. Content above
// the size cap is rejected, never truncated.
func (s *Store) Save(ctx context.Context, name, content string) error {
	if err := s.checkName(name); err != nil {
		return err
	}
	if int64(len(content)) > s.maxSize {
		return &tooLargeError{name: name, size: int64(len(content)), max: s.maxSize}
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(content), 0o644); err != nil {
		return fmt.Errorf("storage: write %s: %w", name, err)
	}
	return nil
}

// List enumerates stored documents with allowed extensions, sorted by name.
func (s *Store) List(ctx context.Context) ([]DocumentInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("storage: list: %w", err)
	}
	docs := []DocumentInfo{}
	for _, e := range entries {
		if e.IsDir() || s.checkName(e.Name()) != nil {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		docs = append(docs, DocumentInfo{Name: e.Name(), Size: info.Size()})
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	return docs, nil
}

// checkName enforces the allow-list boundary: flat names only, a bounded
// length, no control bytes, and a recognized extension.
func (s *Store) checkName(name string) error {
	if name == "" || len(name) > maxNameLength {
		return &badNameError{name: name, reason: "empty or too long"}
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return &badNameError{name: name, reason: "path separators not allowed"}
	}
	for i := 0; i < len(name); i++ {
		if name[i] < 0x20 {
			return &badNameError{name: name, reason: "control characters not allowed"}
		}
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range s.extensions {
		if ext == allowed {
			return nil
		}
	}
	return &badNameError{name: name, reason: "extension not allowed"}
}

type notFoundError struct{ name string }

func (e *notFoundError) Error() string { return fmt.Sprintf("document %q not found", e.name) }
func (e *notFoundError) NotFound()     {}

type tooLargeError struct {
	name      string
	size, max int64
}

func (e *tooLargeError) Error() string {
	return fmt.Sprintf("document %q is %d bytes, limit is %d", e.name, e.size, e.max)
}
func (e *tooLargeError) TooLarge() {}

type badNameError struct{ name, reason string }

func (e *badNameError) Error() string {
	return fmt.Sprintf("invalid document name %q: %s", e.name, e.reason)
}
func (e *badNameError) BadName() {}
