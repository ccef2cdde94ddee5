// Package service holds the portal's business rules above the repositories:
// the shift capacity manager and the vault write flow. Handlers stay thin
// and the rules stay testable against in-memory stores.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// ShiftStore is the slice of the shift repository the capacity manager
// needs.
type ShiftStore interface {
	GetByID(ctx context.Context, id string) (model.Shift, error)
}

// SignupStore abstracts sign-up persistence. CreateWithCapacity must be
// atomic with respect to the capacity check: it returns
// repository.ErrShiftFull when the shift has no free slot left,
// repository.ErrAlreadySignedUp on a duplicate (shift, user) pair and
// repository.ErrNotFound when the shift disappeared underneath the caller.
type SignupStore interface {
	CreateWithCapacity(ctx context.Context, su model.Signup) error
	CountByShift(ctx context.Context, shiftID string) (int, error)
	GetByID(ctx context.Context, id string) (model.Signup, error)
	Delete(ctx context.Context, id string) error
}

// SignupService owns the invariant that a shift never holds more sign-ups
// than max_slots, and that one member holds at most one sign-up per shift.
type SignupService struct {
	Shifts  ShiftStore
	Signups SignupStore
}

// NewSignupService constructs a SignupService; both stores are required.
func NewSignupService(shifts ShiftStore, signups SignupStore) *SignupService {
	if shifts == nil || signups == nil {
		panic("nil store passed to NewSignupService")
	}
	return &SignupService{Shifts: shifts, Signups: signups}
}

// RequestSignUp claims one slot on a shift for a member. The shift is
// fetched first so an unknown id fails with repository.ErrNotFound before
// any write; the store then performs the capacity-guarded insert. Exactly
// one sign-up row is created, or none on any failure path.
func (s *SignupService) RequestSignUp(ctx context.Context, shiftID, userID string) (model.Signup, error) {
	if _, err := s.Shifts.GetByID(ctx, shiftID); err != nil {
		return model.Signup{}, err
	}
	su := model.Signup{
		ID:      uuid.NewString(),
		ShiftID: shiftID,
		UserID:  userID,
	}
	if err := s.Signups.CreateWithCapacity(ctx, su); err != nil {
		return model.Signup{}, err
	}
	return su, nil
}

// CancelSignUp releases a member's claim on a shift. Only the owner may
// cancel; anyone else gets repository.ErrForbidden. Cancelling a sign-up
// that no longer exists succeeds silently: the end state "no claim held"
// is what the caller asked for, and making retries safe matters more than
// reporting that somebody got there first.
func (s *SignupService) CancelSignUp(ctx context.Context, signupID, requestingUserID string) error {
	su, err := s.Signups.GetByID(ctx, signupID)
	if err != nil {
		if err == repository.ErrNotFound {
			return nil
		}
		return err
	}
	if su.UserID != requestingUserID {
		return repository.ErrForbidden
	}
	return s.Signups.Delete(ctx, signupID)
}

// GetOccupancy reports the current slot usage of a shift for rendering
// sign-up affordances.
func (s *SignupService) GetOccupancy(ctx context.Context, shiftID string) (model.Occupancy, error) {
	shift, err := s.Shifts.GetByID(ctx, shiftID)
	if err != nil {
		return model.Occupancy{}, err
	}
	count, err := s.Signups.CountByShift(ctx, shiftID)
	if err != nil {
		return model.Occupancy{}, err
	}
	return model.Occupancy{
		ShiftID:  shiftID,
		Count:    count,
		MaxSlots: shift.MaxSlots,
		IsFull:   count >= shift.MaxSlots,
	}, nil
}
