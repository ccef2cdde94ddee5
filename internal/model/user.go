package model

import "time"

// User represents a portal member as stored in the `users` table. Each
// field corresponds to a column in the database. The json tags are used
// directly by the directory endpoint; sensitive columns carry `json:"-"`.
//
// Fields:
//
//	ID           – UUID primary key, shared with the auth identity.
//	Email        – unique email address.
//	PasswordHash – bcrypt hashed password (never serialized).
//	Role         – trust tier: Admin, Kernlid or Vrijwilliger.
//	Name         – optional display name used in the directory.
//	AvatarURL    – optional avatar image in the object store.
//	TeamID       – optional foreign key into teams.
//	CreatedAt    – timestamp of creation.
//	UpdatedAt    – timestamp of last update.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         string       `json:"role"`
	Name         *string      `json:"name,omitempty"`
	AvatarURL    *string      `json:"avatar_url,omitempty"`
	TeamID       *string      `json:"team_id,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
	Team         *Team        `json:"team,omitempty"`
	Werkgroepen  []Werkgroep  `json:"werkgroepen,omitempty"`
}

// Team is a named member grouping (e.g. a committee board). Users reference
// a team through users.team_id.
type Team struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Each refresh
// token belongs to a user and carries expiry and revocation metadata. The
// plain token is never stored; only its SHA-256 hash.
type RefreshToken struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// LoginToken models a one-time emailed sign-in link in the `login_tokens`
// table. Like refresh tokens only the SHA-256 hash is persisted; a token is
// consumed (ConsumedAt set) the first time it is exchanged for a session.
type LoginToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	ConsumedAt *time.Time
	CreatedAt  time.Time
}
