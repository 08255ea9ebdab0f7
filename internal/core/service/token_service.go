package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

const defaultIssuer = "article-cms"

// Claims is the payload of an access token.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var _ ports.TokenService = (*TokenService)(nil)

// TokenService signs and verifies HS256 access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
	now    func() time.Time
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and validating.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// WithIssuer sets the iss claim written and required on tokens. Empty keeps
// the default.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) {
		if issuer != "" {
			s.issuer = issuer
		}
	}
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: defaultIssuer,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TokenService) Issue(user *domain.User) (string, error) {
	if user == nil || user.Username == "" {
		return "", fmt.Errorf("issue token: %w", domain.ErrInvalidInput)
	}

	now := s.now()
	claims := Claims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   user.Username,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate never returns an error; every failure shows up as Valid=false.
func (s *TokenService) Validate(token string) ports.TokenValidation {
	if token == "" {
		return ports.TokenValidation{}
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return ports.TokenValidation{Expired: errors.Is(err, jwt.ErrTokenExpired)}
	}
	if !parsed.Valid || claims.Subject == "" {
		return ports.TokenValidation{}
	}

	// the claim is informational; an unknown name leaves Role empty
	role, _ := domain.ParseRole(claims.Role)
	return ports.TokenValidation{
		Username: claims.Subject,
		Role:     role,
		Valid:    true,
	}
}

func (s *TokenService) ExtractSubject(token string) (string, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return "", fmt.Errorf("extract subject: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("extract subject: token has no subject")
	}
	return claims.Subject, nil
}

func (s *TokenService) keyFunc(t *jwt.Token) (interface{}, error) {
	if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
	}
	return s.secret, nil
}
