package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// ShiftRepo encapsulates database operations for shifts.
type ShiftRepo struct {
	db *sql.DB
}

// NewShiftRepo constructs a ShiftRepo given a DB handle.
func NewShiftRepo(db *sql.DB) *ShiftRepo { return &ShiftRepo{db: db} }

const shiftColumns = "id,event_id,title,description,start_time,end_time,max_slots,created_at,updated_at"

func scanShift(row interface{ Scan(...any) error }) (model.Shift, error) {
	var s model.Shift
	err := row.Scan(&s.ID, &s.EventID, &s.Title, &s.Description, &s.StartTime, &s.EndTime, &s.MaxSlots, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// Create inserts a new shift under an event and returns its generated ID.
// The event must exist; a failed FK shows up as a driver error the handler
// has already headed off by fetching the event first.
func (r *ShiftRepo) Create(ctx context.Context, s model.Shift) (string, error) {
	id := uuid.NewString()
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO shifts (id, event_id, title, description, start_time, end_time, max_slots) VALUES (?,?,?,?,?,?,?)",
		id, s.EventID, s.Title, s.Description, s.StartTime, s.EndTime, s.MaxSlots)
	return id, err
}

// Update replaces the mutable columns of a shift.
func (r *ShiftRepo) Update(ctx context.Context, s model.Shift) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET event_id=?, title=?, description=?, start_time=?, end_time=?, max_slots=?, updated_at=UTC_TIMESTAMP()
		 WHERE id=?`,
		s.EventID, s.Title, s.Description, s.StartTime, s.EndTime, s.MaxSlots, s.ID)
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

// GetByID fetches a single shift.
func (r *ShiftRepo) GetByID(ctx context.Context, id string) (model.Shift, error) {
	s, err := scanShift(r.db.QueryRowContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE id=? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Shift{}, ErrNotFound
	}
	return s, err
}

// ListByEvent returns the shifts of one event ordered by start time.
func (r *ShiftRepo) ListByEvent(ctx context.Context, eventID string) ([]model.Shift, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+shiftColumns+" FROM shifts WHERE event_id=? ORDER BY start_time ASC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shifts := []model.Shift{}
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// List returns all upcoming shifts with their owning event joined, ordered
// by start time. Backs the portal-wide shift overview.
func (r *ShiftRepo) List(ctx context.Context) ([]model.Shift, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT s.id, s.event_id, s.title, s.description, s.start_time, s.end_time, s.max_slots, s.created_at, s.updated_at,
		       e.id, e.title, e.description, e.date, e.location, e.image_url, e.created_at, e.updated_at
		FROM shifts s
		JOIN events e ON e.id = s.event_id
		ORDER BY s.start_time ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	shifts := []model.Shift{}
	for rows.Next() {
		var s model.Shift
		var e model.Event
		if err := rows.Scan(&s.ID, &s.EventID, &s.Title, &s.Description, &s.StartTime, &s.EndTime, &s.MaxSlots, &s.CreatedAt, &s.UpdatedAt,
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		s.Event = &e
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// Delete removes a shift and cascades its sign-ups in one transaction, so
// no orphaned claims survive an organizer withdrawing a time slot.
func (r *ShiftRepo) Delete(ctx context.Context, id string) error {
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
	if _, err := tx.ExecContext(ctx, "DELETE FROM signups WHERE shift_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM shifts WHERE id=?", id)
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
