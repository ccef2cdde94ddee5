package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/policy"
)

// VaultStore abstracts vault persistence. The entry row and its allow-list
// live in separate tables; the service coordinates the pair.
type VaultStore interface {
	CreateEntry(ctx context.Context, e model.VaultEntry) error
	UpdateEntry(ctx context.Context, e model.VaultEntry) error
	GetEntry(ctx context.Context, id string) (model.VaultEntry, error)
	List(ctx context.Context) ([]model.VaultEntry, error)
	InsertAllowedUsers(ctx context.Context, entryID string, userIDs []string) error
	DeleteAllowedUsers(ctx context.Context, entryID string) error
	DeleteEntry(ctx context.Context, id string) error
}

// VaultService validates visibility configuration at the write boundary and
// coordinates the two-step entry/allow-list writes. The pair is not wrapped
// in a store transaction: when the allow-list insert fails after the entry
// was created, the service compensates with a single best-effort delete and
// logs if even that fails, leaving an orphan row. Known weak point, kept
// deliberately small and in one place.
type VaultService struct {
	Store VaultStore
}

// NewVaultService constructs a VaultService.
func NewVaultService(store VaultStore) *VaultService {
	if store == nil {
		panic("nil store passed to NewVaultService")
	}
	return &VaultService{Store: store}
}

// Create validates and persists a new vault entry plus its allow-list.
// Returns policy.ErrInvalidConfig when the visibility settings would leave
// the entry unreadable.
func (s *VaultService) Create(ctx context.Context, e model.VaultEntry) (model.VaultEntry, error) {
	if err := policy.ValidateVisibilityConfig(e); err != nil {
		return model.VaultEntry{}, err
	}
	e.ID = uuid.NewString()
	if err := s.Store.CreateEntry(ctx, e); err != nil {
		return model.VaultEntry{}, err
	}
	if e.VisibilityCustom && len(e.AllowedUserIDs) > 0 {
		if err := s.Store.InsertAllowedUsers(ctx, e.ID, e.AllowedUserIDs); err != nil {
			// Compensate once; a failed compensation only gets logged.
			if derr := s.Store.DeleteEntry(ctx, e.ID); derr != nil {
				log.Printf("vault: compensating delete of entry %s failed: %v", e.ID, derr)
			}
			return model.VaultEntry{}, fmt.Errorf("insert allowed users: %w", err)
		}
	}
	return e, nil
}

// Update validates and persists changes to an existing entry. The
// allow-list is replaced wholesale: existing rows are deleted and the new
// list inserted, never diffed.
func (s *VaultService) Update(ctx context.Context, e model.VaultEntry) (model.VaultEntry, error) {
	if err := policy.ValidateVisibilityConfig(e); err != nil {
		return model.VaultEntry{}, err
	}
	if err := s.Store.UpdateEntry(ctx, e); err != nil {
		return model.VaultEntry{}, err
	}
	if err := s.Store.DeleteAllowedUsers(ctx, e.ID); err != nil {
		return model.VaultEntry{}, err
	}
	if e.VisibilityCustom && len(e.AllowedUserIDs) > 0 {
		if err := s.Store.InsertAllowedUsers(ctx, e.ID, e.AllowedUserIDs); err != nil {
			return model.VaultEntry{}, fmt.Errorf("insert allowed users: %w", err)
		}
	} else {
		e.AllowedUserIDs = []string{}
	}
	return e, nil
}

// ListVisible returns the entries the actor may read, filtered with the
// policy evaluator. Entries the actor cannot see are dropped entirely, not
// redacted.
func (s *VaultService) ListVisible(ctx context.Context, actor policy.Actor) ([]model.VaultEntry, error) {
	all, err := s.Store.List(ctx)
	if err != nil {
		return nil, err
	}
	visible := []model.VaultEntry{}
	for _, e := range all {
		if policy.CanView(e, actor) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// Delete removes an entry and its allow-list.
func (s *VaultService) Delete(ctx context.Context, id string) error {
	return s.Store.DeleteEntry(ctx, id)
}
