package model

import "time"

// Werkgroep is a named sub-group of members (work-group). Membership is a
// many-to-many relation through the user_werkgroepen join table.
type Werkgroep struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UserWerkgroep is one membership row in the join table. The pair
// (user_id, werkgroep_id) is unique.
type UserWerkgroep struct {
	UserID      string    `json:"user_id"`
	WerkgroepID string    `json:"werkgroep_id"`
	CreatedAt   time.Time `json:"created_at"`
}
