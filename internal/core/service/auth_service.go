package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

// TokenIssuer is the part of the token service registration and login need.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

var _ ports.AuthService = (*AuthService)(nil)

// AuthService implements registration, login and admin bootstrap.
type AuthService struct {
	repo   ports.UserRepository
	tokens TokenIssuer
	logger zerolog.Logger
	cost   int
}

func NewAuthService(repo ports.UserRepository, tokens TokenIssuer, logger zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, tokens: tokens, logger: logger, cost: bcrypt.DefaultCost}
}

// WithHashCost returns a copy of s hashing with the given bcrypt cost.
// Tests use bcrypt.MinCost to stay fast.
func (s *AuthService) WithHashCost(cost int) *AuthService {
	c := *s
	c.cost = cost
	return &c
}

// Register creates a USER account and logs it in.
func (s *AuthService) Register(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidInput
	}

	user, err := s.createUser(ctx, username, password, domain.RoleUser)
	if err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info().Str("username", user.Username).Msg("user registered")
	return token, user, nil
}

// Login returns ErrInvalidCredentials for an unknown user and a wrong
// password alike.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	if username == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrUserNotFound) {
		// keep timing close to the wrong-password path
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, err
	}

	return token, user, nil
}

// SeedAdmin creates an ADMIN account unless one with that username exists.
// It reports whether an account was created.
func (s *AuthService) SeedAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, domain.ErrInvalidInput
	}

	if _, err := s.createUser(ctx, username, password, domain.RoleAdmin); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return false, nil
		}
		return false, fmt.Errorf("seed admin: %w", err)
	}

	s.logger.Info().Str("username", username).Msg("admin account seeded")
	return true, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password string, role domain.Role) (*domain.User, error) {
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}

	// the store's unique index still guards concurrent registrations
	return s.repo.Create(ctx, user)
}

var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
