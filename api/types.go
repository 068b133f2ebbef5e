package api

import (
	"context"

	"todo-attack-api/storage"
)

// Store abstracts document persistence for handlers.
type Store interface {
	Load(ctx context.Context, name string) (string, error)
	Save(ctx context.Context, name, content string) error
	List(ctx context.Context) ([]storage.DocumentInfo, error)
}

// NotFoundError marks gateway errors for unknown documents.
type NotFoundError interface {
	error
	NotFound()
}

// TooLargeError marks gateway errors for content above the size cap.
type TooLargeError interface {
	error
	TooLarge()
}

// BadNameError marks gateway errors for names outside the allow-list.
type BadNameError interface {
	error
	BadName()
}

// Authenticator is implemented by types able to extract user IDs from headers.
type Authenticator interface {
	UserIDFromAuthHeader(string) (string, error)
}

// Deduper prevents processing of duplicate board events.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, doc, key string) (bool, error)
	// Remove deletes a previously added key, used when the writeback fails.
	Remove(ctx context.Context, doc, key string) error
}
