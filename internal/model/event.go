package model

import "time"

// Event is a calendar entry organized by the committee. Shifts hang off an
// event; deleting an event is restricted while shifts still reference it.
//
// Fields:
//
//	ID          – UUID primary key.
//	Title       – event title shown in listings.
//	Description – optional longer description.
//	Date        – when the event takes place.
//	Location    – optional free-form location.
//	ImageURL    – optional header image in the object store.
//	CreatedAt   – creation timestamp.
//	UpdatedAt   – last update timestamp.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	Location    *string   `json:"location,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
