package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// VaultRepo provides data access to the password_vault table and its
// password_vault_users allow-list. The entry row and its allow-list rows
// are written through separate calls on purpose: the service layer owns the
// pairing and compensates (best effort) when the second write fails, so
// the weak point stays visible in one place instead of being buried here.
type VaultRepo struct {
	db *sql.DB
}

// NewVaultRepo returns a VaultRepo bound to the provided database.
func NewVaultRepo(db *sql.DB) *VaultRepo { return &VaultRepo{db: db} }

const vaultColumns = "id,platform,username,password,url,notes,visibility_admin,visibility_kernlid,visibility_custom,created_at,updated_at"

func scanVaultEntry(row interface{ Scan(...any) error }) (model.VaultEntry, error) {
	var e model.VaultEntry
	err := row.Scan(&e.ID, &e.Platform, &e.Username, &e.Password, &e.URL, &e.Notes,
		&e.VisibilityAdmin, &e.VisibilityKernlid, &e.VisibilityCustom, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// CreateEntry inserts the vault entry row. The caller supplies the ID so
// that a compensating delete can target the exact row on partial failure.
func (r *VaultRepo) CreateEntry(ctx context.Context, e model.VaultEntry) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO password_vault (id, platform, username, password, url, notes, visibility_admin, visibility_kernlid, visibility_custom)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		e.ID, e.Platform, e.Username, e.Password, e.URL, e.Notes,
		e.VisibilityAdmin, e.VisibilityKernlid, e.VisibilityCustom)
	return err
}

// UpdateEntry replaces the mutable columns of a vault entry.
func (r *VaultRepo) UpdateEntry(ctx context.Context, e model.VaultEntry) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE password_vault SET platform=?, username=?, password=?, url=?, notes=?,
		        visibility_admin=?, visibility_kernlid=?, visibility_custom=?, updated_at=UTC_TIMESTAMP()
		 WHERE id=?`,
		e.Platform, e.Username, e.Password, e.URL, e.Notes,
		e.VisibilityAdmin, e.VisibilityKernlid, e.VisibilityCustom, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetEntry(ctx, e.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// GetEntry fetches one vault entry with its allow-list loaded.
func (r *VaultRepo) GetEntry(ctx context.Context, id string) (model.VaultEntry, error) {
	e, err := scanVaultEntry(r.db.QueryRowContext(ctx,
		"SELECT "+vaultColumns+" FROM password_vault WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.VaultEntry{}, ErrNotFound
	}
	if err != nil {
		return model.VaultEntry{}, err
	}
	e.AllowedUserIDs, err = r.allowedUsers(ctx, id)
	return e, err
}

func (r *VaultRepo) allowedUsers(ctx context.Context, entryID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT user_id FROM password_vault_users WHERE password_vault_id=?", entryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// List returns every vault entry ordered by platform, allow-lists loaded in
// a single second query. Visibility filtering happens above this layer;
// the managed database's row rules back it up underneath.
func (r *VaultRepo) List(ctx context.Context) ([]model.VaultEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+vaultColumns+" FROM password_vault ORDER BY platform ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := []model.VaultEntry{}
	index := map[string]int{}
	for rows.Next() {
		e, err := scanVaultEntry(rows)
		if err != nil {
			return nil, err
		}
		e.AllowedUserIDs = []string{}
		index[e.ID] = len(entries)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return entries, nil
	}

	urows, err := r.db.QueryContext(ctx,
		"SELECT password_vault_id, user_id FROM password_vault_users")
	if err != nil {
		return nil, err
	}
	defer urows.Close()
	for urows.Next() {
		var entryID, userID string
		if err := urows.Scan(&entryID, &userID); err != nil {
			return nil, err
		}
		if i, ok := index[entryID]; ok {
			entries[i].AllowedUserIDs = append(entries[i].AllowedUserIDs, userID)
		}
	}
	return entries, urows.Err()
}

// InsertAllowedUsers adds allow-list rows for an entry in one statement.
func (r *VaultRepo) InsertAllowedUsers(ctx context.Context, entryID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}
	query := "INSERT INTO password_vault_users (password_vault_id, user_id) VALUES "
	args := make([]interface{}, 0, len(userIDs)*2)
	for i, uid := range userIDs {
		if i > 0 {
			query += ","
		}
		query += "(?,?)"
		args = append(args, entryID, uid)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}

// DeleteAllowedUsers clears the allow-list of an entry. Combined with
// InsertAllowedUsers this replaces the list wholesale; callers must not
// assume partial-update semantics.
func (r *VaultRepo) DeleteAllowedUsers(ctx context.Context, entryID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM password_vault_users WHERE password_vault_id=?", entryID)
	return err
}

// DeleteEntry removes a vault entry and its allow-list.
func (r *VaultRepo) DeleteEntry(ctx context.Context, id string) error {
	if err := r.DeleteAllowedUsers(ctx, id); err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM password_vault WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
