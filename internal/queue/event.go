// Package queue defines message payloads exchanged over the message broker
// and the background consumers that drain them.
package queue

// SignupConfirmedEvent is published when a member successfully claims a
// shift slot. It carries enough information for downstream consumers to
// log or notify without querying the primary database.
type SignupConfirmedEvent struct {
	SignupID   string `json:"signup_id"`
	ShiftID    string `json:"shift_id"`
	ShiftTitle string `json:"shift_title"`
	EventID    string `json:"event_id"`
	EventTitle string `json:"event_title"`
	UserID     string `json:"user_id"`
	UserEmail  string `json:"user_email"`
	StartsAt   string `json:"starts_at"`
	EndsAt     string `json:"ends_at"`
	SlotsTaken int    `json:"slots_taken"`
	MaxSlots   int    `json:"max_slots"`
	SignedUpAt string `json:"signed_up_at"`
}

// MagicLinkRequestedEvent is published when a member asks for a one-time
// emailed sign-in link. The mailer consumer turns it into an email; the
// portal itself never sends mail.
type MagicLinkRequestedEvent struct {
	UserID      string `json:"user_id"`
	Email       string `json:"email"`
	SignInURL   string `json:"sign_in_url"`
	ExpiresAt   string `json:"expires_at"`
	RequestedAt string `json:"requested_at"`
}
