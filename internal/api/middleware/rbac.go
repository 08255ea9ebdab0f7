package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

// RequireRole guards a protected route: no identity is ErrUnauthenticated,
// a role below minRole is ErrForbidden.
func RequireRole(minRole domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFrom(c.Request().Context())
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !id.Role.AtLeast(minRole) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
