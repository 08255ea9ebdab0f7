package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

type stubUserRepo struct {
	users   map[string]*domain.User
	findErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "id-" + user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func newTestAuthService(repo *stubUserRepo) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", time.Hour)
	return NewAuthService(repo, tokens, zerolog.Nop()).WithHashCost(bcrypt.MinCost), tokens
}

// ── Register ──────────────────────────────────────────────────────────────────

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	token, user, err := svc.Register(context.Background(), "alice", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("expected USER role, got %s", user.Role)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}

	v := tokens.Validate(token)
	if !v.Valid || v.Username != "alice" {
		t.Fatalf("expected a valid token for alice, got %+v", v)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, _, err := svc.Register(context.Background(), "", "pass"); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, _, err := svc.Register(context.Background(), "alice", ""); err != domain.ErrInvalidInput {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAuthService_Register_DuplicateKeepsOriginalHash(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "alice", "first"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	original := repo.users["alice"].PasswordHash

	if _, _, err := svc.Register(context.Background(), "alice", "second"); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.users["alice"].PasswordHash != original {
		t.Fatalf("duplicate registration changed the stored hash")
	}
}

func TestAuthService_Register_StoreFailure(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = errors.New("connection reset")
	svc, _ := newTestAuthService(repo)

	if _, _, err := svc.Register(context.Background(), "alice", "pw"); err == nil || errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected raw store error, got %v", err)
	}
}

// ── Login ─────────────────────────────────────────────────────────────────────

func TestAuthService_RegisterThenLogin(t *testing.T) {
	svc, tokens := newTestAuthService(newStubUserRepo())

	for _, name := range []string{"alice", "bob", "ünïcødé", "a"} {
		if _, _, err := svc.Register(context.Background(), name, "pw-"+name); err != nil {
			t.Fatalf("Register(%q): %v", name, err)
		}
		token, user, err := svc.Login(context.Background(), name, "pw-"+name)
		if err != nil {
			t.Fatalf("Login(%q): %v", name, err)
		}
		if user.Username != name {
			t.Fatalf("unexpected user %q", user.Username)
		}
		sub, err := tokens.ExtractSubject(token)
		if err != nil || sub != name {
			t.Fatalf("token subject = %q, %v; want %q", sub, err, name)
		}
	}
}

func TestAuthService_Login_BadCredentialsDoNotRevealUser(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())
	if _, _, err := svc.Register(context.Background(), "alice", "right"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPass := svc.Login(context.Background(), "alice", "wrong")
	_, _, noUser := svc.Login(context.Background(), "nobody", "right")
	_, _, empty := svc.Login(context.Background(), "", "")

	for _, err := range []error{wrongPass, noUser, empty} {
		if err != domain.ErrInvalidCredentials {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	}
}

func TestAuthService_Login_TokenCarriesCurrentRole(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)
	if _, _, err := svc.Register(context.Background(), "alice", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	repo.users["alice"].Role = domain.RoleAdmin

	token, _, err := svc.Login(context.Background(), "alice", "pw")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := tokens.Validate(token).Role; got != domain.RoleAdmin {
		t.Fatalf("expected ADMIN claim, got %s", got)
	}
}

// ── SeedAdmin ─────────────────────────────────────────────────────────────────

func TestAuthService_SeedAdmin_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	created, err := svc.SeedAdmin(context.Background(), "root", "toor")
	if err != nil || !created {
		t.Fatalf("first SeedAdmin = %v, %v", created, err)
	}
	if repo.users["root"].Role != domain.RoleAdmin {
		t.Fatalf("expected ADMIN, got %s", repo.users["root"].Role)
	}

	created, err = svc.SeedAdmin(context.Background(), "root", "other")
	if err != nil || created {
		t.Fatalf("second SeedAdmin = %v, %v", created, err)
	}
}

func TestAuthService_SeedAdmin_DoesNotPromoteExistingUser(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	if _, _, err := svc.Register(context.Background(), "admin", "pw"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if created, err := svc.SeedAdmin(context.Background(), "admin", "x"); err != nil || created {
		t.Fatalf("SeedAdmin = %v, %v", created, err)
	}
	if repo.users["admin"].Role != domain.RoleUser {
		t.Fatalf("existing account was promoted")
	}
}
