package api

import (
	"net/http"
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/newsdesk/article-cms/docs"
	"github.com/newsdesk/article-cms/internal/api/handler"
	"github.com/newsdesk/article-cms/internal/api/middleware"
	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Logger   zerolog.Logger
	Auth     ports.AuthService
	Articles ports.ArticleService
	Tokens   middleware.TokenValidator
	Users    middleware.UserFinder
	// Readiness checks run by GET /health/ready, keyed by dependency name.
	Readiness   map[string]handler.Check
	CORSOrigins []string
}

// The echoprometheus collectors live in the default registry, which only
// accepts them once per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware("cms")
})

// PublicRoutes lists every route the authentication gate skips.
func PublicRoutes() middleware.PublicRoutes {
	return middleware.NewPublicRoutes(
		middleware.Route(http.MethodPost, "/auth/register"),
		middleware.Route(http.MethodPost, "/auth/login"),
		middleware.Route(http.MethodGet, "/articles"),
		middleware.Route(http.MethodGet, "/articles/:id"),
		middleware.Route(http.MethodGet, "/health"),
		middleware.Route(http.MethodGet, "/health/ready"),
		middleware.Route(http.MethodGet, "/metrics"),
		middleware.Route(http.MethodGet, "/swagger/*"),
	)
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderAuthorization, echo.HeaderContentType, handler.HeaderIdempotencyKey},
		ExposeHeaders:    []string{handler.HeaderTotalCount, echo.HeaderLocation},
		AllowCredentials: true,
	}))
	e.Use(httpMetrics())
	e.Use(middleware.Authenticate(deps.Tokens, deps.Users, PublicRoutes(), deps.Logger))

	requireUser := middleware.RequireRole(domain.RoleUser)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, requireUser)

	// --- Article routes: public reads, authenticated writes ---
	articleHandler := handler.NewArticleHandler(deps.Articles)
	e.GET("/articles", articleHandler.List)
	e.GET("/articles/:id", articleHandler.Get)
	e.POST("/articles", articleHandler.Create, requireUser)
	e.PUT("/articles/:id", articleHandler.Update, requireUser)
	e.DELETE("/articles/:id", articleHandler.Delete, requireUser)

	// --- Health probes and ops (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
