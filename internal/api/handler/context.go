package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/newsdesk/article-cms/internal/api/middleware"
	"github.com/newsdesk/article-cms/internal/core/domain"
)

// callerIdentity returns the identity the gate put on the request context,
// or ErrUnauthenticated for an anonymous request.
func callerIdentity(c echo.Context) (domain.Identity, error) {
	id, ok := middleware.IdentityFrom(c.Request().Context())
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return id, nil
}
