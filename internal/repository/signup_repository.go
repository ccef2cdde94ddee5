package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/oudercomite/ledenportaal/internal/model"
)

// SignupRepo provides data access to the signups table. Capacity is the
// load-bearing invariant here: for any shift the number of sign-up rows
// must never exceed shifts.max_slots. CreateWithCapacity enforces that
// inside one transaction that locks the shift row, so two members racing
// for the last slot are serialized by the store rather than by application
// code. The unique key on (shift_id, user_id) independently rules out
// double-booking by the same member.
type SignupRepo struct {
	db *sql.DB
}

// NewSignupRepo returns a SignupRepo bound to the provided database.
func NewSignupRepo(db *sql.DB) *SignupRepo { return &SignupRepo{db: db} }

// CreateWithCapacity inserts a sign-up if and only if the shift still has a
// free slot. The shift row is locked FOR UPDATE for the duration of the
// check-then-insert, turning the otherwise racy count-compare-insert into a
// serialized section. Returns ErrNotFound when the shift is gone,
// ErrShiftFull when occupancy has reached max_slots, and ErrAlreadySignedUp
// when the unique (shift_id, user_id) key fires.
func (r *SignupRepo) CreateWithCapacity(ctx context.Context, su model.Signup) error {
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

	var maxSlots int
	err = tx.QueryRowContext(ctx,
		"SELECT max_slots FROM shifts WHERE id=? FOR UPDATE", su.ShiftID).Scan(&maxSlots)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM signups WHERE shift_id=?", su.ShiftID).Scan(&count); err != nil {
		return err
	}
	if count >= maxSlots {
		return ErrShiftFull
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO signups (id, shift_id, user_id) VALUES (?,?,?)",
		su.ID, su.ShiftID, su.UserID); err != nil {
		if isDuplicateKey(err) {
			return ErrAlreadySignedUp
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CountByShift returns the number of sign-ups currently held on a shift.
func (r *SignupRepo) CountByShift(ctx context.Context, shiftID string) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM signups WHERE shift_id=?", shiftID).Scan(&n)
	return n, err
}

// GetByID fetches a single sign-up.
func (r *SignupRepo) GetByID(ctx context.Context, id string) (model.Signup, error) {
	var su model.Signup
	err := r.db.QueryRowContext(ctx,
		"SELECT id, shift_id, user_id, created_at FROM signups WHERE id=? LIMIT 1", id).
		Scan(&su.ID, &su.ShiftID, &su.UserID, &su.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Signup{}, ErrNotFound
	}
	return su, err
}

// Delete removes a sign-up row. Deleting an absent row is not an error;
// cancellation is idempotent by design.
func (r *SignupRepo) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM signups WHERE id=?", id)
	return err
}

// ListByShift returns the sign-ups of one shift in sign-up order, with the
// member joined in for display.
func (r *SignupRepo) ListByShift(ctx context.Context, shiftID string) ([]model.Signup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT su.id, su.shift_id, su.user_id, su.created_at,
		       u.id, u.email, u.role, u.name, u.avatar_url, u.team_id, u.created_at, u.updated_at
		FROM signups su
		JOIN users u ON u.id = su.user_id
		WHERE su.shift_id=?
		ORDER BY su.created_at ASC`, shiftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	signups := []model.Signup{}
	for rows.Next() {
		var su model.Signup
		var u model.User
		if err := rows.Scan(&su.ID, &su.ShiftID, &su.UserID, &su.CreatedAt,
			&u.ID, &u.Email, &u.Role, &u.Name, &u.AvatarURL, &u.TeamID, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		su.User = &u
		signups = append(signups, su)
	}
	return signups, rows.Err()
}

// ListByUser returns a member's sign-ups with shift and event joined,
// soonest shift first. Backs the "my shifts" view.
func (r *SignupRepo) ListByUser(ctx context.Context, userID string) ([]model.Signup, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT su.id, su.shift_id, su.user_id, su.created_at,
		       s.id, s.event_id, s.title, s.description, s.start_time, s.end_time, s.max_slots, s.created_at, s.updated_at,
		       e.id, e.title, e.description, e.date, e.location, e.image_url, e.created_at, e.updated_at
		FROM signups su
		JOIN shifts s ON s.id = su.shift_id
		JOIN events e ON e.id = s.event_id
		WHERE su.user_id=?
		ORDER BY s.start_time ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	signups := []model.Signup{}
	for rows.Next() {
		var su model.Signup
		var s model.Shift
		var e model.Event
		if err := rows.Scan(&su.ID, &su.ShiftID, &su.UserID, &su.CreatedAt,
			&s.ID, &s.EventID, &s.Title, &s.Description, &s.StartTime, &s.EndTime, &s.MaxSlots, &s.CreatedAt, &s.UpdatedAt,
			&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.ImageURL, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		s.Event = &e
		su.Shift = &s
		signups = append(signups, su)
	}
	return signups, rows.Err()
}
