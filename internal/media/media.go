// Package media stores uploaded listing photos and videos. Two backends are
// available: database blobs served from this process (the default) and
// S3-compatible object storage serving public URLs.
package media

import (
	"context"
	"io"
)

// Storage persists uploaded media and yields the URL clients use to fetch it.
type Storage interface {
	// Put stores media under a key and returns its serving URL.
	Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	// Delete removes stored media. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
}
