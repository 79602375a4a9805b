package db

import (
	"database/sql"
	"fmt"
)

// schema is the full database schema. Tag lists (style tags, rooms,
// features, image URLs) are stored as JSON arrays in TEXT columns.
const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            INTEGER PRIMARY KEY,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    phone         TEXT,
    bio           TEXT,
    role          TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
    created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    deleted_at    DATETIME
);

CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email_active
    ON users(email) WHERE deleted_at IS NULL;

CREATE TABLE IF NOT EXISTS locations (
    id                  INTEGER PRIMARY KEY,
    owner_id            INTEGER REFERENCES users(id),
    full_name           TEXT NOT NULL,
    email               TEXT NOT NULL,
    phone_number        TEXT,
    street              TEXT NOT NULL,
    city                TEXT NOT NULL,
    postcode            TEXT NOT NULL,
    property_type       TEXT NOT NULL,
    property_style_tags TEXT NOT NULL DEFAULT '[]',
    rooms               TEXT NOT NULL DEFAULT '[]',
    interior_features   TEXT NOT NULL DEFAULT '[]',
    exterior_features   TEXT NOT NULL DEFAULT '[]',
    description         TEXT,
    image_urls          TEXT NOT NULL DEFAULT '[]',
    video_url           TEXT,
    status              TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'draft', 'live')),
    admin_user          TEXT,
    admin_message       TEXT,
    latitude            REAL,
    longitude           REAL,
    created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_locations_status ON locations(status);
CREATE INDEX IF NOT EXISTS idx_locations_postcode ON locations(postcode);

CREATE TABLE IF NOT EXISTS media (
    id         TEXT PRIMARY KEY,
    data       BLOB NOT NULL,
    mime       TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS wizard_sessions (
    id         TEXT PRIMARY KEY,
    owner_id   INTEGER REFERENCES users(id),
    state      TEXT NOT NULL,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS crm_contacts (
    id         INTEGER PRIMARY KEY,
    email      TEXT NOT NULL,
    name       TEXT,
    phone      TEXT,
    company    TEXT,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS email_queue (
    id         INTEGER PRIMARY KEY,
    recipients TEXT NOT NULL,
    subject    TEXT NOT NULL,
    body       TEXT,
    send_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS email_analytics (
    id              INTEGER PRIMARY KEY,
    subject         TEXT NOT NULL,
    recipients_type TEXT,
    sent_date       DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
    metrics         TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS revoked_tokens (
    jti        TEXT PRIMARY KEY,
    expires_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`

// EnsureSchema creates all tables and indexes if they don't already exist.
func EnsureSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}
