package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudercomite/ledenportaal/internal/model"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// fakeSignupStore implements ShiftStore and SignupStore in memory with the
// same contract as the MySQL repositories: a capacity-guarded insert and a
// unique (shift, user) pair.
type fakeSignupStore struct {
	shifts  map[string]model.Shift
	signups map[string]model.Signup
}

func newFakeSignupStore(shifts ...model.Shift) *fakeSignupStore {
	f := &fakeSignupStore{
		shifts:  map[string]model.Shift{},
		signups: map[string]model.Signup{},
	}
	for _, s := range shifts {
		f.shifts[s.ID] = s
	}
	return f
}

func (f *fakeSignupStore) GetByID(ctx context.Context, id string) (model.Shift, error) {
	s, ok := f.shifts[id]
	if !ok {
		return model.Shift{}, repository.ErrNotFound
	}
	return s, nil
}

func (f *fakeSignupStore) CreateWithCapacity(ctx context.Context, su model.Signup) error {
	shift, ok := f.shifts[su.ShiftID]
	if !ok {
		return repository.ErrNotFound
	}
	count := 0
	for _, existing := range f.signups {
		if existing.ShiftID == su.ShiftID {
			if existing.UserID == su.UserID {
				return repository.ErrAlreadySignedUp
			}
			count++
		}
	}
	if count >= shift.MaxSlots {
		return repository.ErrShiftFull
	}
	f.signups[su.ID] = su
	return nil
}

func (f *fakeSignupStore) CountByShift(ctx context.Context, shiftID string) (int, error) {
	n := 0
	for _, su := range f.signups {
		if su.ShiftID == shiftID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSignupStore) getSignup(ctx context.Context, id string) (model.Signup, error) {
	su, ok := f.signups[id]
	if !ok {
		return model.Signup{}, repository.ErrNotFound
	}
	return su, nil
}

func (f *fakeSignupStore) Delete(ctx context.Context, id string) error {
	delete(f.signups, id)
	return nil
}

// signupStoreView adapts fakeSignupStore so both store interfaces can be
// satisfied despite the clashing GetByID signatures.
type signupStoreView struct{ *fakeSignupStore }

func (v signupStoreView) GetByID(ctx context.Context, id string) (model.Signup, error) {
	return v.getSignup(ctx, id)
}

func newTestService(shifts ...model.Shift) (*SignupService, *fakeSignupStore) {
	f := newFakeSignupStore(shifts...)
	return NewSignupService(f, signupStoreView{f}), f
}

func TestRequestSignUpUnknownShift(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.RequestSignUp(context.Background(), "missing", "user-a")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCapacityInvariantSequential(t *testing.T) {
	const maxSlots = 3
	svc, _ := newTestService(model.Shift{ID: "shift-1", MaxSlots: maxSlots})
	ctx := context.Background()

	for i := 0; i < maxSlots; i++ {
		_, err := svc.RequestSignUp(ctx, "shift-1", fmt.Sprintf("user-%d", i))
		require.NoError(t, err, "sign-up %d should fit", i)
	}

	_, err := svc.RequestSignUp(ctx, "shift-1", "user-late")
	require.ErrorIs(t, err, repository.ErrShiftFull)

	occ, err := svc.GetOccupancy(ctx, "shift-1")
	require.NoError(t, err)
	assert.Equal(t, maxSlots, occ.Count)
	assert.True(t, occ.IsFull)
}

func TestUniquenessInvariant(t *testing.T) {
	svc, store := newTestService(model.Shift{ID: "shift-1", MaxSlots: 5})
	ctx := context.Background()

	_, err := svc.RequestSignUp(ctx, "shift-1", "user-a")
	require.NoError(t, err)

	_, err = svc.RequestSignUp(ctx, "shift-1", "user-a")
	require.ErrorIs(t, err, repository.ErrAlreadySignedUp)

	count, err := store.CountByShift(ctx, "shift-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count, "duplicate attempt must not consume a second slot")
}

func TestCancellationFreesSlot(t *testing.T) {
	svc, _ := newTestService(model.Shift{ID: "shift-1", MaxSlots: 1})
	ctx := context.Background()

	su, err := svc.RequestSignUp(ctx, "shift-1", "user-a")
	require.NoError(t, err)

	_, err = svc.RequestSignUp(ctx, "shift-1", "user-b")
	require.ErrorIs(t, err, repository.ErrShiftFull)

	require.NoError(t, svc.CancelSignUp(ctx, su.ID, "user-a"))

	_, err = svc.RequestSignUp(ctx, "shift-1", "user-b")
	require.NoError(t, err)
}

func TestCancelOwnershipEnforced(t *testing.T) {
	svc, _ := newTestService(model.Shift{ID: "shift-1", MaxSlots: 2})
	ctx := context.Background()

	su, err := svc.RequestSignUp(ctx, "shift-1", "user-a")
	require.NoError(t, err)

	err = svc.CancelSignUp(ctx, su.ID, "user-b")
	require.ErrorIs(t, err, repository.ErrForbidden)

	occ, err := svc.GetOccupancy(ctx, "shift-1")
	require.NoError(t, err)
	assert.Equal(t, 1, occ.Count, "foreign cancel must not release the slot")
}

func TestCancelMissingSignupIsIdempotent(t *testing.T) {
	svc, _ := newTestService(model.Shift{ID: "shift-1", MaxSlots: 2})
	require.NoError(t, svc.CancelSignUp(context.Background(), "never-existed", "user-a"))
}

func TestFullLifecycleScenario(t *testing.T) {
	// Shift with two slots: A and B fill it, C bounces, A cancels, C fits.
	svc, store := newTestService(model.Shift{ID: "s1", MaxSlots: 2})
	ctx := context.Background()

	suA, err := svc.RequestSignUp(ctx, "s1", "user-a")
	require.NoError(t, err)
	count, _ := store.CountByShift(ctx, "s1")
	assert.Equal(t, 1, count)

	_, err = svc.RequestSignUp(ctx, "s1", "user-b")
	require.NoError(t, err)
	count, _ = store.CountByShift(ctx, "s1")
	assert.Equal(t, 2, count)

	_, err = svc.RequestSignUp(ctx, "s1", "user-c")
	require.ErrorIs(t, err, repository.ErrShiftFull)

	require.NoError(t, svc.CancelSignUp(ctx, suA.ID, "user-a"))
	count, _ = store.CountByShift(ctx, "s1")
	assert.Equal(t, 1, count)

	_, err = svc.RequestSignUp(ctx, "s1", "user-c")
	require.NoError(t, err)
	count, _ = store.CountByShift(ctx, "s1")
	assert.Equal(t, 2, count)
}

func TestGetOccupancyNotFull(t *testing.T) {
	svc, _ := newTestService(model.Shift{ID: "s1", MaxSlots: 4})
	ctx := context.Background()
	_, err := svc.RequestSignUp(ctx, "s1", "user-a")
	require.NoError(t, err)

	occ, err := svc.GetOccupancy(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, 1, occ.Count)
	assert.Equal(t, 4, occ.MaxSlots)
	assert.False(t, occ.IsFull)
}
