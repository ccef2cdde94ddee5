// Package handler defines the HTTP handlers for the member portal API.
package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// validate is the shared request validator. Handlers bind into tagged DTO
// structs and run them through this instance before touching storage.
var validate = validator.New()

// reqCtx bounds every database call made from a handler.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// getActor builds a policy.Actor from the claims JWTAuth stored in the
// context. It fails when the route is not wrapped by the auth middleware.
func getActor(c echo.Context) (policy.Actor, error) {
	id, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if id == "" || !policy.Role(role).Valid() {
		return policy.Actor{}, errors.New("no authenticated user in context")
	}
	return policy.Actor{ID: id, Role: policy.Role(role)}, nil
}

// repoError translates storage-layer sentinel errors into JSON error
// responses. Unknown errors become a generic 500 so internal details never
// reach the client.
func repoError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, repository.ErrShiftFull):
		// A full shift is a bad request, not a conflict; 409 is reserved
		// for the duplicate sign-up on the same shift.
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "shift is full"})
	case errors.Is(err, repository.ErrAlreadySignedUp):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already signed up for this shift"})
	case errors.Is(err, repository.ErrDuplicateMembership):
		return c.JSON(http.StatusConflict, echo.Map{"error": "already a member"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "conflict"})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, policy.ErrInvalidConfig):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}
