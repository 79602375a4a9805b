package db

import (
	"database/sql"
	"fmt"
)

// migrations is a list of SQL statements applied in order after schema
// creation. Each migration must be idempotent. Append new migrations at the
// end.
var migrations = []string{
	// Migration 1: Replace hard UNIQUE on email with a partial unique index
	// that only covers active (non-deleted) users so that soft-deleted emails
	// can be re-registered.
	`DROP INDEX IF EXISTS sqlite_autoindex_users_1`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
	     ON users(email) WHERE deleted_at IS NULL`,
}

// Migrate runs the database schema migrations.
func Migrate(db *sql.DB) error {
	if err := EnsureSchema(db); err != nil {
		return err
	}

	for i, m := range migrations {
		if _, err := db.Exec(m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}

	return nil
}
