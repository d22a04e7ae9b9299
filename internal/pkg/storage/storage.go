package storage

import (
	"context"
	"io"
)

// Storage defines the interface for blob storage operations.
// The engine only ever stores return-evidence images through it; the actual
// backend (local disk here, object storage in production) is interchangeable.
type Storage interface {
	// Save stores content at the given relative path.
	Save(ctx context.Context, path string, content io.Reader) error

	// Get retrieves the content stored at the given relative path.
	Get(ctx context.Context, path string) (io.ReadCloser, error)

	// Delete removes the content at the given relative path.
	Delete(ctx context.Context, path string) error
}
