package model

import "time"

// Sponsor is a listed supporter of the committee.
type Sponsor struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	LogoURL     *string   `json:"logo_url,omitempty"`
	WebsiteURL  *string   `json:"website_url,omitempty"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
