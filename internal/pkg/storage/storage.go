package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var (
	ErrInvalidPath = errors.New("invalid file path")
	ErrNotFound    = errors.New("file not found")
	ErrInvalidType = errors.New("unsupported file type")
)

type FileStorage interface {
	// Upload stores the file under key and returns the stored key
	Upload(ctx context.Context, file io.Reader, key string, contentType string) (string, error)

	// Download retrieves a file
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes a file; deleting a missing file is not an error
	Delete(ctx context.Context, key string) error

	// GetURL returns a URL clients can fetch the file from
	GetURL(ctx context.Context, key string, expiry time.Duration) (string, error)

	// Exists checks if file exists
	Exists(ctx context.Context, key string) (bool, error)
}
