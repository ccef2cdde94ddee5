package model

import "time"

// Shift is a bounded time window under an event with a fixed volunteer
// capacity. EndTime is strictly after StartTime and MaxSlots is at least 1;
// both are enforced at the write boundary.
type Shift struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	MaxSlots    int       `json:"max_slots"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Event       *Event    `json:"event,omitempty"`
}

// Signup is a claim by one user on one slot of one shift. The pair
// (shift_id, user_id) is unique in the database, so a member can never
// double-book the same shift regardless of request interleaving.
type Signup struct {
	ID        string    `json:"id"`
	ShiftID   string    `json:"shift_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	User      *User     `json:"user,omitempty"`
	Shift     *Shift    `json:"shift,omitempty"`
}

// Occupancy reports how full a shift is. IsFull is derived, never stored.
type Occupancy struct {
	ShiftID  string `json:"shift_id"`
	Count    int    `json:"count"`
	MaxSlots int    `json:"max_slots"`
	IsFull   bool   `json:"is_full"`
}
