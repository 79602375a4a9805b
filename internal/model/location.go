package model

import "time"

// Location represents a property listed as a filming/shoot location.
type Location struct {
	ID      int64 `json:"id"`
	OwnerID int64 `json:"owner_id,omitempty"`

	// Contact details of the listing owner.
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`

	// Address.
	Street   string `json:"street"`
	City     string `json:"city"`
	Postcode string `json:"postcode"`

	// Taxonomy. PropertyType is single-valued, the tag fields are sets.
	PropertyType      string   `json:"propertyType"`
	PropertyStyleTags []string `json:"propertyStyleTags"`
	Rooms             []string `json:"rooms"`
	InteriorFeatures  []string `json:"interiorFeatures"`
	ExteriorFeatures  []string `json:"exteriorFeatures"`

	Description string   `json:"description,omitempty"`
	ImageURLs   []string `json:"imageUrls"`
	VideoURL    string   `json:"videoUrl,omitempty"`

	// Moderation.
	Status       string `json:"status"`
	AdminUser    string `json:"adminUser,omitempty"`
	AdminMessage string `json:"adminMessage,omitempty"`

	// Coordinates are optional: nil means "unknown", never fabricated.
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Listing statuses.
const (
	StatusPending = "pending"
	StatusDraft   = "draft"
	StatusLive    = "live"
)

// ValidStatus checks that status is one of the three enumerated values.
func ValidStatus(status string) bool {
	return status == StatusPending || status == StatusDraft || status == StatusLive
}

// HasCoordinates reports whether the listing has a known position.
func (l *Location) HasCoordinates() bool {
	return l.Latitude != nil && l.Longitude != nil
}

// SearchFilters are the supported listing search parameters. Zero values
// mean "no filter". Filters are ANDed together.
type SearchFilters struct {
	PropertyType string `json:"propertyType,omitempty"`
	Age          string `json:"age,omitempty"`
	Room         string `json:"rooms,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
}

// IsZero reports whether no filter is set.
func (f SearchFilters) IsZero() bool {
	return f == SearchFilters{}
}
