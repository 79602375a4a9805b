package store

import (
	"context"
	"database/sql"
	"fmt"
)

// SaveWizardSession upserts a wizard session's JSON state.
func SaveWizardSession(ctx context.Context, db *sql.DB, id string, ownerID int64, state []byte) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO wizard_sessions (id, owner_id, state) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET state = excluded.state, updated_at = CURRENT_TIMESTAMP`,
		id, nullableID(ownerID), state,
	)
	if err != nil {
		return fmt.Errorf("saving wizard session: %w", err)
	}
	return nil
}

// GetWizardSession returns a session's JSON state and owner. Nil state means
// the session does not exist.
func GetWizardSession(ctx context.Context, db *sql.DB, id string) ([]byte, int64, error) {
	var state []byte
	var ownerID sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT state, owner_id FROM wizard_sessions WHERE id = ?`, id,
	).Scan(&state, &ownerID)
	if err == sql.ErrNoRows {
		return nil, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("getting wizard session: %w", err)
	}
	return state, ownerID.Int64, nil
}

// DeleteWizardSession removes a session (after submission).
func DeleteWizardSession(ctx context.Context, db *sql.DB, id string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM wizard_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting wizard session: %w", err)
	}
	return nil
}
