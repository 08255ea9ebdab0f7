package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/newsdesk/article-cms/internal/api/metrics"
	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

// GateState is the furthest point a request got through Authenticate.
type GateState string

const (
	StateNoToken         GateState = "no_token"
	StateTokenInvalid    GateState = "token_invalid"
	StateTokenValid      GateState = "token_valid"
	StateAuthEstablished GateState = "auth_established"
)

// TokenValidator is the part of the token service the gate needs.
type TokenValidator interface {
	Validate(token string) ports.TokenValidation
}

// UserFinder re-resolves a token subject against the Credential Store.
type UserFinder interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}

// PublicRoutes is the allow-list of routes the gate skips, keyed by method
// and echo route pattern.
type PublicRoutes map[string]struct{}

func NewPublicRoutes(routes ...string) PublicRoutes {
	p := make(PublicRoutes, len(routes))
	for _, r := range routes {
		p[r] = struct{}{}
	}
	return p
}

// Route formats the allow-list key for method and path.
func Route(method, path string) string { return method + " " + path }

func (p PublicRoutes) Contains(method, path string) bool {
	_, ok := p[Route(method, path)]
	return ok
}

// Authenticate establishes the caller identity from an Authorization: Bearer
// header. It never rejects a request: any failure leaves the request
// anonymous and RequireRole decides. Must be registered with e.Use so that
// c.Path() holds the matched route.
func Authenticate(tokens TokenValidator, users UserFinder, public PublicRoutes, logger zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if public.Contains(c.Request().Method, c.Path()) {
				return next(c)
			}

			req := c.Request()
			state, id := resolve(req, tokens, users, logger)
			metrics.GateOutcomesTotal.WithLabelValues(string(state)).Inc()

			if state == StateAuthEstablished {
				c.SetRequest(req.WithContext(WithIdentity(req.Context(), id)))
			} else {
				c.SetRequest(req.WithContext(ClearIdentity(req.Context())))
			}
			return next(c)
		}
	}
}

func resolve(req *http.Request, tokens TokenValidator, users UserFinder, logger zerolog.Logger) (GateState, domain.Identity) {
	raw, ok := bearerToken(req.Header.Get(echo.HeaderAuthorization))
	if !ok {
		return StateNoToken, domain.Identity{}
	}

	v := tokens.Validate(raw)
	if !v.Valid {
		logger.Debug().Bool("expired", v.Expired).Str("path", req.URL.Path).Msg("bearer token rejected")
		return StateTokenInvalid, domain.Identity{}
	}

	user, err := users.FindByUsername(req.Context(), v.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			logger.Debug().Str("username", v.Username).Msg("token subject no longer exists")
		} else {
			logger.Error().Err(err).Str("username", v.Username).Msg("failed to resolve token subject")
		}
		return StateTokenValid, domain.Identity{}
	}

	return StateAuthEstablished, domain.IdentityOf(user)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
