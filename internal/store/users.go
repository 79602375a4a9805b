package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plink/plink/internal/model"
)

// CreateUser creates a new user.
func CreateUser(ctx context.Context, db *sql.DB, email, passwordHash, phone, role string) (*model.User, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO users (email, password_hash, phone, role) VALUES (?, ?, ?, ?)`,
		email, passwordHash, phone, role,
	)
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting user id: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID.
func GetUser(ctx context.Context, db *sql.DB, id int64) (*model.User, error) {
	u := &model.User{}
	var phone, bio sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, phone, bio, role, created_at, deleted_at
		 FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &phone, &bio, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}
	u.Phone = phone.String
	u.Bio = bio.String
	return u, nil
}

// GetUserByEmail returns a user by email (including soft-deleted for auth
// checks).
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	u := &model.User{}
	var phone, bio sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, phone, bio, role, created_at, deleted_at
		 FROM users WHERE email = ? ORDER BY deleted_at IS NOT NULL LIMIT 1`, email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &phone, &bio, &u.Role, &u.CreatedAt, &u.DeletedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	u.Phone = phone.String
	u.Bio = bio.String
	return u, nil
}

// ListUsers returns all non-deleted users, newest first.
func ListUsers(ctx context.Context, db *sql.DB) ([]model.User, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, email, password_hash, phone, bio, role, created_at, deleted_at
		 FROM users WHERE deleted_at IS NULL ORDER BY created_at DESC, id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		var u model.User
		var phone, bio sql.NullString
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &phone, &bio, &u.Role, &u.CreatedAt, &u.DeletedAt); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		u.Phone = phone.String
		u.Bio = bio.String
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserProfile updates a user's phone and bio.
func UpdateUserProfile(ctx context.Context, db *sql.DB, id int64, phone, bio string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET phone = ?, bio = ? WHERE id = ? AND deleted_at IS NULL`,
		phone, bio, id,
	)
	if err != nil {
		return fmt.Errorf("updating user profile: %w", err)
	}
	return nil
}

// UpdateUserPassword updates a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id int64, passwordHash string) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ? AND deleted_at IS NULL`,
		passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	return nil
}

// DeleteUser soft-deletes a user.
func DeleteUser(ctx context.Context, db *sql.DB, id int64) error {
	_, err := db.ExecContext(ctx,
		`UPDATE users SET deleted_at = CURRENT_TIMESTAMP WHERE id = ? AND deleted_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return nil
}

// CountUsers returns the number of active users.
func CountUsers(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting users: %w", err)
	}
	return count, nil
}
