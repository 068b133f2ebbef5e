package api

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// revisionTracker mints a monotonic ULID for every successful save and
// remembers the current revision per document. A save carrying the revision
// its editor loaded is rejected when a later save already landed; saves
// without a base revision keep the original last-write-wins behavior.
type revisionTracker struct {
	mu      sync.Mutex
	current map[string]string
	entropy *ulid.MonotonicEntropy
}

func newRevisionTracker() *revisionTracker {
	return &revisionTracker{
		current: make(map[string]string),
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// StaleRevisionError reports a save whose base revision was superseded.
type StaleRevisionError struct {
	Doc     string
	Base    string
	Current string
}

func (e *StaleRevisionError) Error() string {
	return fmt.Sprintf("document %q changed since revision %s (now %s)", e.Doc, e.Base, e.Current)
}

// StaleRevision marks the error for HTTP mapping.
func (e *StaleRevisionError) StaleRevision() {}

// Current returns the last minted revision for doc, or "" before any save.
func (r *revisionTracker) Current(doc string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current[doc]
}

// Check reports whether base still names the current revision of doc.
// An empty base always passes.
func (r *revisionTracker) Check(doc, base string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.current[doc]; base != "" && cur != "" && base != cur {
		return &StaleRevisionError{Doc: doc, Base: base, Current: cur}
	}
	return nil
}

// Advance checks base against the current revision and mints the next one.
// An empty base skips the check.
func (r *revisionTracker) Advance(doc, base string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur := r.current[doc]; base != "" && cur != "" && base != cur {
		return "", &StaleRevisionError{Doc: doc, Base: base, Current: cur}
	}
	id, err := ulid.New(ulid.Timestamp(time.Now()), r.entropy)
	if err != nil {
		return "", fmt.Errorf("mint revision: %w", err)
	}
	rev := id.String()
	r.current[doc] = rev
	return rev, nil
}
