package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// PageRepo encapsulates database operations for static content pages.
// Pages are addressed by a unique slug.
type PageRepo struct {
	db *sql.DB
}

func NewPageRepo(db *sql.DB) *PageRepo { return &PageRepo{db: db} }

const pageColumns = "id,slug,title,content,created_at,updated_at"

func scanPage(row interface{ Scan(...any) error }) (model.Page, error) {
	var p model.Page
	err := row.Scan(&p.ID, &p.Slug, &p.Title, &p.Content, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// Create inserts a page; a taken slug surfaces as ErrConflict.
func (r *PageRepo) Create(ctx context.Context, p model.Page) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO pages (id, slug, title, content) VALUES (?,?,?,?)",
		id, p.Slug, p.Title, p.Content)
	if isDuplicateKey(err) {
		return "", ErrConflict
	}
	return id, err
}

func (r *PageRepo) Update(ctx context.Context, p model.Page) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE pages SET slug=?, title=?, content=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		p.Slug, p.Title, p.Content, p.ID)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, p.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

func (r *PageRepo) GetByID(ctx context.Context, id string) (model.Page, error) {
	p, err := scanPage(r.db.QueryRowContext(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, ErrNotFound
	}
	return p, err
}

// GetBySlug fetches a page by its slug, the public address of static
// content.
func (r *PageRepo) GetBySlug(ctx context.Context, slug string) (model.Page, error) {
	p, err := scanPage(r.db.QueryRowContext(ctx,
		"SELECT "+pageColumns+" FROM pages WHERE slug=? LIMIT 1", slug))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Page{}, ErrNotFound
	}
	return p, err
}

func (r *PageRepo) List(ctx context.Context) ([]model.Page, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+pageColumns+" FROM pages ORDER BY slug ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	pages := []model.Page{}
	for rows.Next() {
		p, err := scanPage(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

func (r *PageRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM pages WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
