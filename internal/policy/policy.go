// Package policy is the single place where role-gated access control and
// vault visibility are decided. Handlers and middleware ask this package
// instead of repeating inline role conditionals per endpoint; the managed
// database's row-level rules remain a defense-in-depth backstop behind it.
package policy

import (
	"errors"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// Role is the portal's ordered trust tier.
type Role string

const (
	RoleAdmin        Role = "Admin"
	RoleKernlid      Role = "Kernlid"
	RoleVrijwilliger Role = "Vrijwilliger"
)

// Valid reports whether r is one of the three known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleKernlid, RoleVrijwilliger:
		return true
	}
	return false
}

// Action is a coarse-grained capability class used to gate endpoints.
type Action string

const (
	// ManageContent covers create/update/delete of events, shifts, news,
	// sponsors and werkgroepen.
	ManageContent Action = "manage_content"
	// ManagePortal covers static pages, user creation and role edits.
	ManagePortal Action = "manage_portal"
	// ManageVault covers create/update/delete of password vault entries.
	ManageVault Action = "manage_vault"
	// BrowseVault covers listing the vault; per-entry visibility is decided
	// separately by CanView.
	BrowseVault Action = "browse_vault"
	// SignUpShift covers creating and cancelling one's own shift sign-ups.
	SignUpShift Action = "signup_shift"
	// CommentNews covers creating and deleting one's own news comments.
	CommentNews Action = "comment_news"
	// UploadImage covers pushing images to the object store.
	UploadImage Action = "upload_image"
)

// capabilities is the role capability table. A missing pair means deny.
var capabilities = map[Action]map[Role]bool{
	ManageContent: {RoleAdmin: true, RoleKernlid: true},
	ManagePortal:  {RoleAdmin: true},
	ManageVault:   {RoleAdmin: true},
	BrowseVault:   {RoleAdmin: true, RoleKernlid: true, RoleVrijwilliger: true},
	SignUpShift:   {RoleAdmin: true, RoleKernlid: true, RoleVrijwilliger: true},
	CommentNews:   {RoleAdmin: true, RoleKernlid: true, RoleVrijwilliger: true},
	UploadImage:   {RoleAdmin: true, RoleKernlid: true},
}

// Allowed reports whether the role may perform the action.
func Allowed(role Role, action Action) bool {
	return capabilities[action][role]
}

// Actor is the authenticated identity a decision is made for.
type Actor struct {
	ID   string
	Role Role
}

// CanView decides whether the actor may read a vault entry. The three
// visibility channels are evaluated as an OR: the admin channel admits any
// admin, the kernlid channel any kernlid, and the custom channel admits the
// listed users regardless of their role. Note that BrowseVault admits every
// authenticated member to the listing endpoint precisely so that a
// Vrijwilliger on a custom allow-list can reach the entries meant for them;
// everything they are not allowed to see is filtered out here.
func CanView(entry model.VaultEntry, actor Actor) bool {
	if actor.Role == RoleAdmin && entry.VisibilityAdmin {
		return true
	}
	if actor.Role == RoleKernlid && entry.VisibilityKernlid {
		return true
	}
	if entry.VisibilityCustom {
		for _, id := range entry.AllowedUserIDs {
			if id == actor.ID {
				return true
			}
		}
	}
	return false
}

// ErrInvalidConfig is returned when a vault entry's visibility settings
// would leave it unreadable or dangling. Handlers translate it to HTTP 400.
var ErrInvalidConfig = errors.New("invalid visibility configuration")

// ValidateVisibilityConfig rejects vault entries with no viewers (all three
// channels off) and custom-channel entries with an empty allow-list. The
// allow-list is replaced wholesale on update, so validation always sees the
// full intended list.
func ValidateVisibilityConfig(entry model.VaultEntry) error {
	if !entry.VisibilityAdmin && !entry.VisibilityKernlid && !entry.VisibilityCustom {
		return ErrInvalidConfig
	}
	if entry.VisibilityCustom && len(entry.AllowedUserIDs) == 0 {
		return ErrInvalidConfig
	}
	return nil
}
