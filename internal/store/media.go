package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PutMedia stores a media blob under the given key.
func PutMedia(ctx context.Context, db *sql.DB, id string, data []byte, mime string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO media (id, data, mime) VALUES (?, ?, ?)`,
		id, data, mime,
	)
	if err != nil {
		return fmt.Errorf("storing media: %w", err)
	}
	return nil
}

// GetMedia returns a media blob and its MIME type. A nil blob means the key
// does not exist.
func GetMedia(ctx context.Context, db *sql.DB, id string) ([]byte, string, error) {
	var data []byte
	var mime string
	err := db.QueryRowContext(ctx,
		`SELECT data, mime FROM media WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting media: %w", err)
	}
	return data, mime, nil
}

// DeleteMedia removes a media blob.
func DeleteMedia(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM media WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting media: %w", err)
	}
	return nil
}
