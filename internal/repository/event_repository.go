package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// EventRepo encapsulates database operations for events.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo constructs an EventRepo given a DB handle.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

const eventColumns = "id,title,description,date,location,image_url,created_at,updated_at"

func scanEvent(row interface{ Scan(...any) error }) (model.Event, error) {
	var e model.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// Create inserts a new event and returns its generated ID.
func (r *EventRepo) Create(ctx context.Context, e model.Event) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO events (id, title, description, date, location, image_url) VALUES (?,?,?,?,?,?)",
		id, e.Title, e.Description, e.Date, e.Location, e.ImageURL)
	return id, err
}

// Update replaces the mutable columns of an event.
func (r *EventRepo) Update(ctx context.Context, e model.Event) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, date=?, location=?, image_url=?, updated_at=UTC_TIMESTAMP()
		 WHERE id=?`,
		e.Title, e.Description, e.Date, e.Location, e.ImageURL, e.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, gerr := r.GetByID(ctx, e.ID); gerr != nil {
			return gerr
		}
	}
	return nil
}

// GetByID fetches a single event.
func (r *EventRepo) GetByID(ctx context.Context, id string) (model.Event, error) {
	e, err := scanEvent(r.db.QueryRowContext(ctx,
		"SELECT "+eventColumns+" FROM events WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Event{}, ErrNotFound
	}
	return e, err
}

// List returns all events ordered by date ascending.
func (r *EventRepo) List(ctx context.Context) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+eventColumns+" FROM events ORDER BY date ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := []model.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Delete removes an event together with its shifts and their sign-ups in
// one transaction, oldest dependency first.
func (r *EventRepo) Delete(ctx context.Context, id string) error {
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
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM signups WHERE shift_id IN (SELECT id FROM shifts WHERE event_id=?)", id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM shifts WHERE event_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
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
