package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/repository"
)

// The sign-up flow leans on this mapping for its whole status matrix:
// unknown shift 404, full shift 400, duplicate sign-up 409, foreign
// cancellation 403.
func TestRepoErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown shift", repository.ErrNotFound, http.StatusNotFound},
		{"full shift is a bad request", repository.ErrShiftFull, http.StatusBadRequest},
		{"duplicate sign-up conflicts", repository.ErrAlreadySignedUp, http.StatusConflict},
		{"foreign cancellation forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"duplicate membership", repository.ErrDuplicateMembership, http.StatusConflict},
		{"slug collision", repository.ErrConflict, http.StatusConflict},
		{"email exists", repository.ErrEmailExists, http.StatusConflict},
		{"unreadable vault config", policy.ErrInvalidConfig, http.StatusBadRequest},
		{"anything else stays generic", errors.New("driver exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/v1/signups", nil)
			rec := httptest.NewRecorder()
			c := echo.New().NewContext(req, rec)

			require.NoError(t, repoError(c, tc.err))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

// Internal details never leak through the generic branch.
func TestRepoErrorHidesInternalError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)

	require.NoError(t, repoError(c, errors.New("dial tcp 10.0.0.5:3306: connection refused")))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
	assert.Contains(t, rec.Body.String(), "internal error")
}
