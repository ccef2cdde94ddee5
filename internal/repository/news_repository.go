package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// NewsRepo encapsulates database operations for news items and their
// comments.
type NewsRepo struct {
	db *sql.DB
}

// NewNewsRepo constructs a NewsRepo given a DB handle.
func NewNewsRepo(db *sql.DB) *NewsRepo { return &NewsRepo{db: db} }

// Create inserts a news item and returns its generated ID.
func (r *NewsRepo) Create(ctx context.Context, n model.News) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO news (id, title, content, image_url, author_id) VALUES (?,?,?,?,?)",
		id, n.Title, n.Content, n.ImageURL, n.AuthorID)
	return id, err
}

// Update replaces the mutable columns of a news item.
func (r *NewsRepo) Update(ctx context.Context, n model.News) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE news SET title=?, content=?, image_url=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		n.Title, n.Content, n.ImageURL, n.ID)
	if err != nil {
		return err
	}
	if cnt, _ := res.RowsAffected(); cnt == 0 {
		if _, gerr := r.GetByID(ctx, n.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// GetByID fetches one news item with its author joined.
func (r *NewsRepo) GetByID(ctx context.Context, id string) (model.News, error) {
	var n model.News
	var a model.User
	err := r.db.QueryRowContext(ctx, `
		SELECT n.id, n.title, n.content, n.image_url, n.author_id, n.created_at, n.updated_at,
		       u.id, u.email, u.role, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM news n
		JOIN users u ON u.id = n.author_id
		WHERE n.id=? LIMIT 1`, id).
		Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt,
			&a.ID, &a.Email, &a.Role, &a.Name, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.News{}, ErrNotFound
	}
	if err != nil {
		return model.News{}, err
	}
	n.Author = &a
	return n, nil
}

// List returns all news items, newest first, authors joined.
func (r *NewsRepo) List(ctx context.Context) ([]model.News, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT n.id, n.title, n.content, n.image_url, n.author_id, n.created_at, n.updated_at,
		       u.id, u.email, u.role, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM news n
		JOIN users u ON u.id = n.author_id
		ORDER BY n.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []model.News{}
	for rows.Next() {
		var n model.News
		var a model.User
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.ImageURL, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt,
			&a.ID, &a.Email, &a.Role, &a.Name, &a.AvatarURL, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		n.Author = &a
		items = append(items, n)
	}
	return items, rows.Err()
}

// Delete removes a news item and its comments.
func (r *NewsRepo) Delete(ctx context.Context, id string) error {
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM news_comments WHERE news_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM news WHERE id=?", id)
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

// ----- comments -----

// CreateComment inserts a comment under a news item.
func (r *NewsRepo) CreateComment(ctx context.Context, c model.NewsComment) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO news_comments (id, news_id, user_id, content) VALUES (?,?,?,?)",
		id, c.NewsID, c.UserID, c.Content)
	return id, err
}

// UpdateComment edits a comment's content.
func (r *NewsRepo) UpdateComment(ctx context.Context, id, content string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE news_comments SET content=?, updated_at=UTC_TIMESTAMP() WHERE id=?",
		content, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetComment(ctx, id); gerr != nil {
			return gerr
		}
	}
	return nil
}

// GetComment fetches one comment (no joins; used for ownership checks).
func (r *NewsRepo) GetComment(ctx context.Context, id string) (model.NewsComment, error) {
	var c model.NewsComment
	err := r.db.QueryRowContext(ctx,
		"SELECT id, news_id, user_id, content, created_at, updated_at FROM news_comments WHERE id=? LIMIT 1", id).
		Scan(&c.ID, &c.NewsID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewsComment{}, ErrNotFound
	}
	return c, err
}

// ListComments returns the comments of one news item oldest first, with the
// commenting member joined.
func (r *NewsRepo) ListComments(ctx context.Context, newsID string) ([]model.NewsComment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.news_id, c.user_id, c.content, c.created_at, c.updated_at,
		       u.id, u.email, u.role, u.name, u.avatar_url, u.created_at, u.updated_at
		FROM news_comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.news_id=?
		ORDER BY c.created_at ASC`, newsID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	comments := []model.NewsComment{}
	for rows.Next() {
		var c model.NewsComment
		var u model.User
		if err := rows.Scan(&c.ID, &c.NewsID, &c.UserID, &c.Content, &c.CreatedAt, &c.UpdatedAt,
			&u.ID, &u.Email, &u.Role, &u.Name, &u.AvatarURL, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		c.User = &u
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// DeleteComment removes a comment row.
func (r *NewsRepo) DeleteComment(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM news_comments WHERE id=?", id)
	return err
}
