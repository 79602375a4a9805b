package media

import (
	"context"
	"database/sql"
	"fmt"
	"io"

	"github.com/plink/plink/internal/store"
)

// DBStorage keeps media blobs in the relational database, served from the
// media endpoint of this process.
type DBStorage struct {
	DB *sql.DB
}

// NewDBStorage returns database-backed media storage.
func NewDBStorage(db *sql.DB) *DBStorage {
	return &DBStorage{DB: db}
}

// Put stores the blob and returns its serving path.
func (s *DBStorage) Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	blob, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("reading media data: %w", err)
	}
	if err := store.PutMedia(ctx, s.DB, key, blob, contentType); err != nil {
		return "", err
	}
	return "/media/" + key, nil
}

// Delete removes the blob.
func (s *DBStorage) Delete(ctx context.Context, key string) error {
	return store.DeleteMedia(ctx, s.DB, key)
}
