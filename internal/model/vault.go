package model

import "time"

// VaultEntry is a stored credential in the shared password vault. Three
// visibility channels govern who may read it: all admins, all kernleden,
// and an explicit per-user allow-list. The channels are evaluated as an OR,
// so an entry can be visible to every Kernlid and additionally to a single
// Vrijwilliger named on the custom list. At least one channel must be
// enabled, and a custom channel requires a non-empty allow-list; both rules
// are enforced at the write boundary, not by the database.
//
// Fields:
//
//	ID                – UUID primary key.
//	Platform          – service the credential belongs to (unique-ish label).
//	Username          – optional account name.
//	Password          – the credential itself.
//	URL               – optional sign-in URL.
//	Notes             – optional free-form notes.
//	VisibilityAdmin   – entry visible to all admins.
//	VisibilityKernlid – entry visible to all kernleden.
//	VisibilityCustom  – entry visible to the users in AllowedUserIDs.
//	AllowedUserIDs    – allow-list, stored in password_vault_users.
type VaultEntry struct {
	ID                string    `json:"id"`
	Platform          string    `json:"platform"`
	Username          *string   `json:"username,omitempty"`
	Password          string    `json:"password"`
	URL               *string   `json:"url,omitempty"`
	Notes             *string   `json:"notes,omitempty"`
	VisibilityAdmin   bool      `json:"visibility_admin"`
	VisibilityKernlid bool      `json:"visibility_kernlid"`
	VisibilityCustom  bool      `json:"visibility_custom"`
	AllowedUserIDs    []string  `json:"allowed_user_ids"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
