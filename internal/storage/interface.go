package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrTooLarge   = errors.New("file exceeds size limit")
	ErrInvalidKey = errors.New("invalid storage key")
	ErrNotFound   = errors.New("file not found")
)

// MediaStorage stores uploaded photos and avatars.
// Local filesystem is the only backend today; keys are relative slash-separated paths.
type MediaStorage interface {
	// Save writes reader to key and returns the number of bytes written.
	// A maxBytes greater than zero rejects larger uploads with ErrTooLarge.
	Save(ctx context.Context, key string, reader io.Reader, maxBytes int64) (int64, error)

	// Open returns the stored file for reading
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists reports whether key is stored and its size
	Exists(ctx context.Context, key string) (bool, int64, error)

	// Delete removes a file; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// URL returns the public URL the media handler serves key at
	URL(key string) string
}
