package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/minnseong/security-study/internal/core/domain"
)

// RequireRoles enforces role-based access for a route. A request without a
// bound identity is rejected 401 with a deliberately generic message: the
// caller learns nothing about whether its token was absent, forged, or
// expired. An identity holding none of the required roles is rejected 403.
// Matching is any-of.
func RequireRoles(requiredRoles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identity, ok := domain.IdentityFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !identity.HasAnyRole(requiredRoles...) {
				return echo.NewHTTPError(http.StatusForbidden, "access forbidden")
			}
			return next(c)
		}
	}
}
