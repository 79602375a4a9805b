package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/plink/plink/internal/model"
)

// ErrStatusConflict is returned when a moderation transition finds the
// listing in a different status than expected (e.g. two admins racing).
var ErrStatusConflict = errors.New("listing status changed concurrently")

// ErrNotFound is returned by unguarded updates targeting a missing listing.
var ErrNotFound = errors.New("listing not found")

const locationColumns = `id, owner_id, full_name, email, phone_number, street, city, postcode,
	property_type, property_style_tags, rooms, interior_features, exterior_features,
	description, image_urls, video_url, status, admin_user, admin_message,
	latitude, longitude, created_at, updated_at`

// CreateLocation inserts a new listing. Status is always pending on creation.
func CreateLocation(ctx context.Context, db *sql.DB, loc *model.Location) (*model.Location, error) {
	styleTags, _ := json.Marshal(emptyIfNil(loc.PropertyStyleTags))
	rooms, _ := json.Marshal(emptyIfNil(loc.Rooms))
	interior, _ := json.Marshal(emptyIfNil(loc.InteriorFeatures))
	exterior, _ := json.Marshal(emptyIfNil(loc.ExteriorFeatures))
	images, _ := json.Marshal(emptyIfNil(loc.ImageURLs))

	result, err := db.ExecContext(ctx,
		`INSERT INTO locations (owner_id, full_name, email, phone_number, street, city, postcode,
		     property_type, property_style_tags, rooms, interior_features, exterior_features,
		     description, image_urls, video_url, status, latitude, longitude)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableID(loc.OwnerID), loc.FullName, loc.Email, loc.PhoneNumber,
		loc.Street, loc.City, loc.Postcode,
		loc.PropertyType, string(styleTags), string(rooms), string(interior), string(exterior),
		loc.Description, string(images), loc.VideoURL, model.StatusPending,
		loc.Latitude, loc.Longitude,
	)
	if err != nil {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting location id: %w", err)
	}

	return GetLocation(ctx, db, id)
}

// GetLocation returns a listing by ID.
func GetLocation(ctx context.Context, db *sql.DB, id int64) (*model.Location, error) {
	row := db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE id = ?`, id)
	loc, err := scanLocation(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return loc, nil
}

// SearchLocations returns live listings matching the filters. All filters
// are ANDed; the rooms filter matches listings containing the room; postcode
// is a prefix match.
func SearchLocations(ctx context.Context, db *sql.DB, filters model.SearchFilters) ([]model.Location, error) {
	query := `SELECT ` + locationColumns + ` FROM locations WHERE status = ?`
	args := []any{model.StatusLive}

	if filters.PropertyType != "" {
		query += ` AND property_type = ?`
		args = append(args, filters.PropertyType)
	}
	if filters.Age != "" {
		// Style tags are a JSON array; match the quoted element.
		query += ` AND property_style_tags LIKE ?`
		args = append(args, `%`+jsonElement(filters.Age)+`%`)
	}
	if filters.Room != "" {
		query += ` AND rooms LIKE ?`
		args = append(args, `%`+jsonElement(filters.Room)+`%`)
	}
	if filters.Postcode != "" {
		query += ` AND postcode LIKE ?`
		args = append(args, strings.ToUpper(strings.TrimSpace(filters.Postcode))+`%`)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching locations: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// ListModerationQueue returns all non-live listings, newest first.
func ListModerationQueue(ctx context.Context, db *sql.DB) ([]model.Location, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+locationColumns+` FROM locations WHERE status != ? ORDER BY id DESC`,
		model.StatusLive,
	)
	if err != nil {
		return nil, fmt.Errorf("listing moderation queue: %w", err)
	}
	defer rows.Close()

	return scanLocations(rows)
}

// ApproveLocation moves a listing to live. Allowed from pending or draft.
// Returns ErrStatusConflict when the listing is already live or was mutated
// concurrently.
func ApproveLocation(ctx context.Context, db *sql.DB, id int64, adminEmail string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE locations SET status = ?, admin_user = ?, admin_message = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status IN (?, ?)`,
		model.StatusLive, adminEmail, id, model.StatusPending, model.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("approving location: %w", err)
	}
	return requireOneRow(result)
}

// DraftLocation moves a pending listing to draft, recording the acting admin
// and the message for the owner.
func DraftLocation(ctx context.Context, db *sql.DB, id int64, adminEmail, message string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE locations SET status = ?, admin_user = ?, admin_message = ?,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusDraft, adminEmail, message, id, model.StatusPending,
	)
	if err != nil {
		return fmt.Errorf("drafting location: %w", err)
	}
	return requireOneRow(result)
}

// ReopenLocation moves a draft listing back to pending, clearing the
// assigned admin and message.
func ReopenLocation(ctx context.Context, db *sql.DB, id int64) error {
	result, err := db.ExecContext(ctx,
		`UPDATE locations SET status = ?, admin_user = NULL, admin_message = NULL,
		     updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND status = ?`,
		model.StatusPending, id, model.StatusDraft,
	)
	if err != nil {
		return fmt.Errorf("reopening location: %w", err)
	}
	return requireOneRow(result)
}

// AssignAdmin records the acting admin on a listing without changing status.
// There is no status guard, so zero affected rows means the listing does not
// exist.
func AssignAdmin(ctx context.Context, db *sql.DB, id int64, adminEmail string) error {
	result, err := db.ExecContext(ctx,
		`UPDATE locations SET admin_user = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		adminEmail, id,
	)
	if err != nil {
		return fmt.Errorf("assigning admin: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// PostcodeExists reports whether any listing already uses the postcode,
// returning the first matching listing ID.
func PostcodeExists(ctx context.Context, db *sql.DB, postcode string) (bool, int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM locations WHERE postcode = ? ORDER BY id LIMIT 1`,
		strings.ToUpper(strings.TrimSpace(postcode)),
	).Scan(&id)
	if err == sql.ErrNoRows {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("checking postcode: %w", err)
	}
	return true, id, nil
}

// CountLocations returns the total number of listings.
func CountLocations(ctx context.Context, db *sql.DB) (int, error) {
	var count int
	err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM locations`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting locations: %w", err)
	}
	return count, nil
}

// CategoryCount is a propertyType bucket for the analytics breakdown.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// CountByPropertyType groups listings by structural type.
func CountByPropertyType(ctx context.Context, db *sql.DB) ([]CategoryCount, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT property_type, COUNT(*) FROM locations GROUP BY property_type ORDER BY COUNT(*) DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("counting by property type: %w", err)
	}
	defer rows.Close()

	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning category count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// ListDistinctOwners returns one contact per distinct listing-owner email
// matching the search query (CRM view).
func ListDistinctOwners(ctx context.Context, db *sql.DB, query string) ([]model.Contact, error) {
	like := "%" + strings.ToLower(query) + "%"
	rows, err := db.QueryContext(ctx,
		`SELECT MIN(id), email, full_name, phone_number FROM locations
		 WHERE email != '' AND (LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?)
		 GROUP BY email ORDER BY MIN(id)`,
		like, like,
	)
	if err != nil {
		return nil, fmt.Errorf("listing location owners: %w", err)
	}
	defer rows.Close()

	var contacts []model.Contact
	for rows.Next() {
		var c model.Contact
		var name, phone sql.NullString
		if err := rows.Scan(&c.ID, &c.Email, &name, &phone); err != nil {
			return nil, fmt.Errorf("scanning owner contact: %w", err)
		}
		c.Name = name.String
		c.Phone = phone.String
		c.Type = model.ContactTypeOwner
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLocation(row rowScanner) (*model.Location, error) {
	loc := &model.Location{}
	var phone, description, videoURL, adminUser, adminMessage sql.NullString
	var ownerID sql.NullInt64
	var styleTags, rooms, interior, exterior, images string

	err := row.Scan(&loc.ID, &ownerID, &loc.FullName, &loc.Email, &phone,
		&loc.Street, &loc.City, &loc.Postcode,
		&loc.PropertyType, &styleTags, &rooms, &interior, &exterior,
		&description, &images, &videoURL, &loc.Status, &adminUser, &adminMessage,
		&loc.Latitude, &loc.Longitude, &loc.CreatedAt, &loc.UpdatedAt)
	if err != nil {
		return nil, err
	}

	loc.OwnerID = ownerID.Int64
	loc.PhoneNumber = phone.String
	loc.Description = description.String
	loc.VideoURL = videoURL.String
	loc.AdminUser = adminUser.String
	loc.AdminMessage = adminMessage.String

	pairs := []struct {
		raw string
		dst *[]string
	}{
		{styleTags, &loc.PropertyStyleTags},
		{rooms, &loc.Rooms},
		{interior, &loc.InteriorFeatures},
		{exterior, &loc.ExteriorFeatures},
		{images, &loc.ImageURLs},
	}
	for _, p := range pairs {
		if err := json.Unmarshal([]byte(p.raw), p.dst); err != nil {
			return nil, fmt.Errorf("decoding location tags: %w", err)
		}
	}
	return loc, nil
}

func scanLocations(rows *sql.Rows) ([]model.Location, error) {
	var locations []model.Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning location: %w", err)
		}
		locations = append(locations, *loc)
	}
	return locations, rows.Err()
}

func requireOneRow(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrStatusConflict
	}
	return nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullableID(id int64) any {
	if id == 0 {
		return nil
	}
	return id
}

func jsonElement(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
