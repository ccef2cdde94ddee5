// Package repository implements data access against MySQL. This file holds
// the sentinel errors shared across repositories so that higher layers can
// distinguish failure scenarios without inspecting driver errors. For
// example ErrShiftFull tells a handler to answer "this shift is full"
// while ErrAlreadySignedUp maps to a 409 with a different message.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a referenced entity does not exist.
// Handlers translate it into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate it into an HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because of
// conflicting state, such as deleting an event that still has shifts.
// Handlers translate it into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// ErrShiftFull is returned when a sign-up would exceed a shift's capacity.
var ErrShiftFull = errors.New("shift full")

// ErrAlreadySignedUp is returned when the (shift, user) pair already holds
// a sign-up. It comes out of the unique key on signups, which stays atomic
// regardless of how requests interleave.
var ErrAlreadySignedUp = errors.New("already signed up")

// ErrEmailExists is returned when registering a user with a taken email.
var ErrEmailExists = errors.New("email already exists")

// ErrDuplicateMembership is returned when adding a user to a werkgroep they
// are already a member of.
var ErrDuplicateMembership = errors.New("already a member of this werkgroep")

// isDuplicateKey reports whether err is a MySQL duplicate-key violation
// (error 1062). The store is the sole arbiter for uniqueness, so this is
// the signal repositories convert into their domain-specific sentinels.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
