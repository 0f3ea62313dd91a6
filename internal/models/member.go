package models

import (
	"time"
)

// Member is one person of the team shown on the about page.
type Member struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Role        string    `json:"role" db:"role"`
	PhotoURL    string    `json:"photo_url,omitempty" db:"photo_url"`
	Description string    `json:"description,omitempty" db:"description"`
	SocialURL   string    `json:"social_url,omitempty" db:"social_url"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// MemberInput is the body of a create/update request and one line of an
// NDJSON member import.
type MemberInput struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	PhotoURL    string `json:"photo_url,omitempty"`
	Description string `json:"description,omitempty"`
	SocialURL   string `json:"social_url,omitempty"`
}
