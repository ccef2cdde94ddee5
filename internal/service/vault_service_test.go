package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// fakeVaultStore keeps entries in memory and can be told to fail the
// allow-list insert to exercise the compensation path.
type fakeVaultStore struct {
	entries         map[string]model.VaultEntry
	allowed         map[string][]string
	failUsersInsert bool
}

func newFakeVaultStore() *fakeVaultStore {
	return &fakeVaultStore{
		entries: map[string]model.VaultEntry{},
		allowed: map[string][]string{},
	}
}

func (f *fakeVaultStore) CreateEntry(ctx context.Context, e model.VaultEntry) error {
	f.entries[e.ID] = e
	return nil
}

func (f *fakeVaultStore) UpdateEntry(ctx context.Context, e model.VaultEntry) error {
	if _, ok := f.entries[e.ID]; !ok {
		return repository.ErrNotFound
	}
	f.entries[e.ID] = e
	return nil
}

func (f *fakeVaultStore) GetEntry(ctx context.Context, id string) (model.VaultEntry, error) {
	e, ok := f.entries[id]
	if !ok {
		return model.VaultEntry{}, repository.ErrNotFound
	}
	e.AllowedUserIDs = f.allowed[id]
	return e, nil
}

func (f *fakeVaultStore) List(ctx context.Context) ([]model.VaultEntry, error) {
	out := []model.VaultEntry{}
	for id, e := range f.entries {
		e.AllowedUserIDs = f.allowed[id]
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeVaultStore) InsertAllowedUsers(ctx context.Context, entryID string, userIDs []string) error {
	if f.failUsersInsert {
		return errors.New("users insert failed")
	}
	f.allowed[entryID] = append(f.allowed[entryID], userIDs...)
	return nil
}

func (f *fakeVaultStore) DeleteAllowedUsers(ctx context.Context, entryID string) error {
	delete(f.allowed, entryID)
	return nil
}

func (f *fakeVaultStore) DeleteEntry(ctx context.Context, id string) error {
	if _, ok := f.entries[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.entries, id)
	delete(f.allowed, id)
	return nil
}

func TestVaultCreateRejectsNoViewers(t *testing.T) {
	svc := NewVaultService(newFakeVaultStore())
	_, err := svc.Create(context.Background(), model.VaultEntry{Platform: "mail"})
	require.ErrorIs(t, err, policy.ErrInvalidConfig)
}

func TestVaultCreateRejectsEmptyCustomList(t *testing.T) {
	svc := NewVaultService(newFakeVaultStore())
	_, err := svc.Create(context.Background(), model.VaultEntry{
		Platform:         "mail",
		VisibilityCustom: true,
	})
	require.ErrorIs(t, err, policy.ErrInvalidConfig)
}

func TestVaultCreatePersistsEntryAndAllowList(t *testing.T) {
	store := newFakeVaultStore()
	svc := NewVaultService(store)

	created, err := svc.Create(context.Background(), model.VaultEntry{
		Platform:         "hosting",
		Password:         "s3cret",
		VisibilityAdmin:  true,
		VisibilityCustom: true,
		AllowedUserIDs:   []string{"user-x", "user-y"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Len(t, store.allowed[created.ID], 2)
}

func TestVaultCreateCompensatesFailedAllowListInsert(t *testing.T) {
	store := newFakeVaultStore()
	store.failUsersInsert = true
	svc := NewVaultService(store)

	_, err := svc.Create(context.Background(), model.VaultEntry{
		Platform:         "hosting",
		Password:         "s3cret",
		VisibilityCustom: true,
		AllowedUserIDs:   []string{"user-x"},
	})
	require.Error(t, err)
	assert.Empty(t, store.entries, "entry must be rolled back when the allow-list insert fails")
}

func TestVaultUpdateReplacesAllowListWholesale(t *testing.T) {
	store := newFakeVaultStore()
	svc := NewVaultService(store)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.VaultEntry{
		Platform:         "site",
		Password:         "pw",
		VisibilityCustom: true,
		AllowedUserIDs:   []string{"user-a", "user-b"},
	})
	require.NoError(t, err)

	created.AllowedUserIDs = []string{"user-c"}
	_, err = svc.Update(ctx, created)
	require.NoError(t, err)
	assert.Equal(t, []string{"user-c"}, store.allowed[created.ID], "old allow-list rows must not survive an update")
}

func TestVaultUpdateUnknownEntry(t *testing.T) {
	svc := NewVaultService(newFakeVaultStore())
	_, err := svc.Update(context.Background(), model.VaultEntry{
		ID:              "missing",
		Platform:        "x",
		VisibilityAdmin: true,
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestVaultListVisibleFiltersPerActor(t *testing.T) {
	store := newFakeVaultStore()
	svc := NewVaultService(store)
	ctx := context.Background()

	_, err := svc.Create(ctx, model.VaultEntry{
		Platform:          "kernlid-plus-guest",
		Password:          "pw",
		VisibilityKernlid: true,
		VisibilityCustom:  true,
		AllowedUserIDs:    []string{"user-x"},
	})
	require.NoError(t, err)
	_, err = svc.Create(ctx, model.VaultEntry{
		Platform:        "admins-only",
		Password:        "pw",
		VisibilityAdmin: true,
	})
	require.NoError(t, err)

	kernlid, err := svc.ListVisible(ctx, policy.Actor{ID: "any-kernlid", Role: policy.RoleKernlid})
	require.NoError(t, err)
	require.Len(t, kernlid, 1)
	assert.Equal(t, "kernlid-plus-guest", kernlid[0].Platform)

	guest, err := svc.ListVisible(ctx, policy.Actor{ID: "user-x", Role: policy.RoleVrijwilliger})
	require.NoError(t, err)
	require.Len(t, guest, 1)
	assert.Equal(t, "kernlid-plus-guest", guest[0].Platform)

	stranger, err := svc.ListVisible(ctx, policy.Actor{ID: "user-z", Role: policy.RoleVrijwilliger})
	require.NoError(t, err)
	assert.Empty(t, stranger)

	admin, err := svc.ListVisible(ctx, policy.Actor{ID: "boss", Role: policy.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, admin, 1)
	assert.Equal(t, "admins-only", admin[0].Platform)
}
