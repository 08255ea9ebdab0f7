package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/newsdesk/article-cms/internal/api/metrics"
	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type registerResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

// Register creates a new USER account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      credentialsRequest  true  "Username and password"
// @Success      201   {object}  registerResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "invalid").Inc()
		return err
	}

	token, user, err := h.authService.Register(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", authResult(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	return c.JSON(http.StatusCreated, registerResponse{
		Token: token,
		User:  userResponse{ID: user.ID, Username: user.Username, Role: string(user.Role)},
	})
}

// Login authenticates a user and returns the bearer token as plain text.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      plain
// @Param        body  body      credentialsRequest  true  "Login credentials"
// @Success      200   {string}  string  "bearer token"
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		return invalidPayload()
	}

	token, _, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.AuthAttemptsTotal.WithLabelValues("login", authResult(err)).Inc()
		return err
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	return c.String(http.StatusOK, token)
}

// Me returns the identity the current request is authenticated as.
//
// @Summary      Current caller
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Identity
// @Failure      401  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	id, err := callerIdentity(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, id)
}

func authResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "bad_credentials"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid"
	default:
		return "error"
	}
}
