package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oudercomite/ledenportaal/internal/policy"
	"github.com/oudercomite/ledenportaal/internal/utils"
)

const testSecret = "middleware-test-secret"

func doRequest(t *testing.T, mw echo.MiddlewareFunc, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	}, mw)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthMalformedToken(t *testing.T) {
	rec := doRequest(t, JWTAuth(testSecret), "Bearer not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthWrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "u1", "Kernlid", 5)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthValidTokenInjectsClaims(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u1", "Kernlid", 5)
	require.NoError(t, err)

	rec := doRequest(t, JWTAuth(testSecret), "Bearer "+tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":"u1"`)
	assert.Contains(t, rec.Body.String(), `"role":"Kernlid"`)
}

func TestRequireCapability(t *testing.T) {
	cases := []struct {
		name   string
		role   string
		action policy.Action
		want   int
	}{
		{"admin manages portal", "Admin", policy.ManagePortal, http.StatusOK},
		{"kernlid cannot manage portal", "Kernlid", policy.ManagePortal, http.StatusForbidden},
		{"kernlid manages content", "Kernlid", policy.ManageContent, http.StatusOK},
		{"vrijwilliger cannot manage content", "Vrijwilliger", policy.ManageContent, http.StatusForbidden},
		{"vrijwilliger signs up for shifts", "Vrijwilliger", policy.SignUpShift, http.StatusOK},
		{"vrijwilliger cannot manage vault", "Vrijwilliger", policy.ManageVault, http.StatusForbidden},
		{"unknown role is rejected", "Onbekend", policy.SignUpShift, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := utils.NewAccessToken(testSecret, "u1", tc.role, 5)
			require.NoError(t, err)

			e := echo.New()
			e.GET("/gated", func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}, JWTAuth(testSecret), RequireCapability(tc.action))

			req := httptest.NewRequest(http.MethodGet, "/gated", nil)
			req.Header.Set("Authorization", "Bearer "+tok.Token)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
