package ports

import (
	"context"
)

// Blob is exported data held behind a transient reference.
type Blob struct {
	Data        []byte
	ContentType string
}

// BlobStore holds exported data for as long as the owning response is rendered.
type BlobStore interface {
	// Create stores data and returns its reference.
	Create(ctx context.Context, data []byte, contentType string) (string, error)

	// Open returns the blob behind a reference.
	// Returns domain.ErrBlobNotFound if the reference is unknown or revoked.
	Open(ctx context.Context, ref string) (*Blob, error)

	// Revoke releases a reference. Revoking an unknown reference is not an error.
	Revoke(ctx context.Context, ref string) error
}

// HistoryStore persists the history of a named shell.
type HistoryStore interface {
	// Append adds an entry to the end of the shell's history.
	Append(ctx context.Context, shell, entry string) error

	// Load returns the shell's history, oldest first. An unknown shell has an empty
	// history.
	Load(ctx context.Context, shell string) ([]string, error)
}
