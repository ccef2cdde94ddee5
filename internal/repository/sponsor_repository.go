package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// SponsorRepo encapsulates database operations for sponsors.
type SponsorRepo struct {
	db *sql.DB
}

func NewSponsorRepo(db *sql.DB) *SponsorRepo { return &SponsorRepo{db: db} }

const sponsorColumns = "id,name,logo_url,website_url,description,created_at,updated_at"

func scanSponsor(row interface{ Scan(...any) error }) (model.Sponsor, error) {
	var s model.Sponsor
	err := row.Scan(&s.ID, &s.Name, &s.LogoURL, &s.WebsiteURL, &s.Description, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *SponsorRepo) Create(ctx context.Context, s model.Sponsor) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO sponsors (id, name, logo_url, website_url, description) VALUES (?,?,?,?,?)",
		id, s.Name, s.LogoURL, s.WebsiteURL, s.Description)
	return id, err
}

func (r *SponsorRepo) Update(ctx context.Context, s model.Sponsor) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE sponsors SET name=?, logo_url=?, website_url=?, description=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		s.Name, s.LogoURL, s.WebsiteURL, s.Description, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, s.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *SponsorRepo) GetByID(ctx context.Context, id string) (model.Sponsor, error) {
	s, err := scanSponsor(r.db.QueryRowContext(ctx,
		"SELECT "+sponsorColumns+" FROM sponsors WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Sponsor{}, ErrNotFound
	}
	return s, err
}

func (r *SponsorRepo) List(ctx context.Context) ([]model.Sponsor, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+sponsorColumns+" FROM sponsors ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sponsors := []model.Sponsor{}
	for rows.Next() {
		s, err := scanSponsor(rows)
		if err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func (r *SponsorRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sponsors WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
