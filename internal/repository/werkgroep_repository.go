package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// WerkgroepRepo encapsulates database operations for werkgroepen and their
// memberships.
type WerkgroepRepo struct {
	db *sql.DB
}

func NewWerkgroepRepo(db *sql.DB) *WerkgroepRepo { return &WerkgroepRepo{db: db} }

const werkgroepColumns = "id,name,description,created_at,updated_at"

func scanWerkgroep(row interface{ Scan(...any) error }) (model.Werkgroep, error) {
	var w model.Werkgroep
	err := row.Scan(&w.ID, &w.Name, &w.Description, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

func (r *WerkgroepRepo) Create(ctx context.Context, w model.Werkgroep) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO werkgroepen (id, name, description) VALUES (?,?,?)",
		id, w.Name, w.Description)
	return id, err
}

func (r *WerkgroepRepo) Update(ctx context.Context, w model.Werkgroep) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE werkgroepen SET name=?, description=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		w.Name, w.Description, w.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, w.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *WerkgroepRepo) GetByID(ctx context.Context, id string) (model.Werkgroep, error) {
	w, err := scanWerkgroep(r.db.QueryRowContext(ctx,
		"SELECT "+werkgroepColumns+" FROM werkgroepen WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Werkgroep{}, ErrNotFound
	}
	return w, err
}

func (r *WerkgroepRepo) List(ctx context.Context) ([]model.Werkgroep, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+werkgroepColumns+" FROM werkgroepen ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	groups := []model.Werkgroep{}
	for rows.Next() {
		w, err := scanWerkgroep(rows)
		if err != nil {
			return nil, err
		}
		groups = append(groups, w)
	}
	return groups, rows.Err()
}

// Delete removes a werkgroep and its membership rows.
func (r *WerkgroepRepo) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, "DELETE FROM user_werkgroepen WHERE werkgroep_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM werkgroepen WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// AddMember inserts one membership row; a duplicate pair surfaces as
// ErrDuplicateMembership via the unique key.
func (r *WerkgroepRepo) AddMember(ctx context.Context, userID, werkgroepID string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO user_werkgroepen (user_id, werkgroep_id) VALUES (?,?)",
		userID, werkgroepID)
	if isDuplicateKey(err) {
		return ErrDuplicateMembership
	}
	return err
}

// RemoveMember deletes one membership row; removing an absent membership is
// not an error.
func (r *WerkgroepRepo) RemoveMember(ctx context.Context, userID, werkgroepID string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_werkgroepen WHERE user_id=? AND werkgroep_id=?",
		userID, werkgroepID)
	return err
}
