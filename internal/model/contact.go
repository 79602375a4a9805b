package model

import "time"

// Contact represents a CRM contact, either a registered user profile, a
// listing owner harvested from submissions, or a manually added record.
type Contact struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// Contact types.
const (
	ContactTypeProfile = "User Profile"
	ContactTypeOwner   = "Location Owner"
	ContactTypeManual  = "Manual"
)
