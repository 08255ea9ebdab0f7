package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

type errorResponse struct {
	Message string `json:"message"`
}

// errorMapping pairs a domain sentinel with its status. An empty message
// means the wrapped error text is shown as is.
type errorMapping struct {
	target  error
	status  int
	message string
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, http.StatusBadRequest, ""},
	{domain.ErrUserExists, http.StatusBadRequest, "username already taken"},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "bad credentials"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "access forbidden"},
	{domain.ErrIdempotencyInProgress, http.StatusConflict, "a request with this idempotency key is in progress"},
	{domain.ErrArticleNotFound, http.StatusNotFound, "article not found"},
	{domain.ErrUserNotFound, http.StatusNotFound, "user not found"},
}

// NewHTTPErrorHandler renders every handler error as {"message": "..."}.
// Unknown errors are logged and answered with a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := classify(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Message: msg})
	}
}

func classify(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Internal != nil {
			log.Debug().Err(he.Internal).Str("path", c.Path()).Msg("http error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			if m.message == "" {
				return m.status, err.Error()
			}
			return m.status, m.message
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")
	return http.StatusInternalServerError, "internal server error"
}
