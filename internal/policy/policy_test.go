package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudercomite/ledenportaal/internal/model"
)

func TestAllowedCapabilityTable(t *testing.T) {
	cases := []struct {
		name   string
		role   Role
		action Action
		want   bool
	}{
		{"admin manages content", RoleAdmin, ManageContent, true},
		{"kernlid manages content", RoleKernlid, ManageContent, true},
		{"vrijwilliger cannot manage content", RoleVrijwilliger, ManageContent, false},
		{"admin manages portal", RoleAdmin, ManagePortal, true},
		{"kernlid cannot manage portal", RoleKernlid, ManagePortal, false},
		{"only admin manages vault", RoleKernlid, ManageVault, false},
		{"admin manages vault", RoleAdmin, ManageVault, true},
		{"vrijwilliger signs up", RoleVrijwilliger, SignUpShift, true},
		{"vrijwilliger comments", RoleVrijwilliger, CommentNews, true},
		{"vrijwilliger cannot upload", RoleVrijwilliger, UploadImage, false},
		{"unknown role denied", Role("Gast"), SignUpShift, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Allowed(tc.role, tc.action))
		})
	}
}

func TestCanViewOrSemantics(t *testing.T) {
	entry := model.VaultEntry{
		VisibilityAdmin:   false,
		VisibilityKernlid: true,
		VisibilityCustom:  true,
		AllowedUserIDs:    []string{"user-x"},
	}

	// Any kernlid sees it through the blanket channel.
	assert.True(t, CanView(entry, Actor{ID: "other", Role: RoleKernlid}))
	// The listed user sees it regardless of role.
	assert.True(t, CanView(entry, Actor{ID: "user-x", Role: RoleVrijwilliger}))
	assert.True(t, CanView(entry, Actor{ID: "user-x", Role: RoleAdmin}))
	// A vrijwilliger who is not listed does not.
	assert.False(t, CanView(entry, Actor{ID: "other", Role: RoleVrijwilliger}))
	// The admin channel is off, so an unlisted admin does not either.
	assert.False(t, CanView(entry, Actor{ID: "other", Role: RoleAdmin}))
}

func TestCanViewAdminChannel(t *testing.T) {
	entry := model.VaultEntry{VisibilityAdmin: true}
	assert.True(t, CanView(entry, Actor{ID: "a", Role: RoleAdmin}))
	assert.False(t, CanView(entry, Actor{ID: "k", Role: RoleKernlid}))
	assert.False(t, CanView(entry, Actor{ID: "v", Role: RoleVrijwilliger}))
}

func TestValidateVisibilityConfig(t *testing.T) {
	t.Run("no channels enabled", func(t *testing.T) {
		err := ValidateVisibilityConfig(model.VaultEntry{})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("custom without allow-list", func(t *testing.T) {
		err := ValidateVisibilityConfig(model.VaultEntry{VisibilityCustom: true})
		require.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("admin only is valid", func(t *testing.T) {
		require.NoError(t, ValidateVisibilityConfig(model.VaultEntry{VisibilityAdmin: true}))
	})

	t.Run("custom with users is valid", func(t *testing.T) {
		require.NoError(t, ValidateVisibilityConfig(model.VaultEntry{
			VisibilityCustom: true,
			AllowedUserIDs:   []string{"user-1"},
		}))
	})
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleKernlid.Valid())
	assert.True(t, RoleVrijwilliger.Valid())
	assert.False(t, Role("").Valid())
	assert.False(t, Role("Owner").Valid())
}
