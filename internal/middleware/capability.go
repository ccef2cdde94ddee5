package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oudercomite/ledenportaal/internal/policy"
)

// RequireCapability aborts the request with 403 Forbidden unless the
// authenticated user's role grants the given capability. It assumes
// JWTAuth has already stored the role in the context.
func RequireCapability(action policy.Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get("role").(string)
			if !ok || !policy.Allowed(policy.Role(role), action) {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
