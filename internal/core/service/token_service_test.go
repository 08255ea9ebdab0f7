package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

func fixedClock(t0 time.Time) (*time.Time, func() time.Time) {
	now := t0
	return &now, func() time.Time { return now }
}

func TestTokenService_IssueThenValidate(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(&domain.User{Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	got := svc.Validate(token)
	require.True(t, got.Valid)
	require.False(t, got.Expired)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, domain.RoleUser, got.Role)
}

func TestTokenService_ExpiresAfterTTL(t *testing.T) {
	now, clock := fixedClock(time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC))
	svc := NewTokenService("secret", time.Hour, WithClock(clock))

	token, err := svc.Issue(&domain.User{Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	*now = now.Add(59 * time.Minute)
	require.True(t, svc.Validate(token).Valid)

	*now = now.Add(2 * time.Minute)
	got := svc.Validate(token)
	require.False(t, got.Valid)
	require.True(t, got.Expired)
	require.Empty(t, got.Username)
}

func TestTokenService_TamperedSignatureFails(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue(&domain.User{Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	sig := []byte(parts[2])

	// every position except the last, whose low bits may be padding
	for i := 0; i < len(sig)-1; i++ {
		tampered := make([]byte, len(sig))
		copy(tampered, sig)
		if tampered[i] == 'A' {
			tampered[i] = 'B'
		} else {
			tampered[i] = 'A'
		}
		forged := parts[0] + "." + parts[1] + "." + string(tampered)
		require.False(t, svc.Validate(forged).Valid, "byte %d flipped", i)
	}
}

func TestTokenService_RejectsForeignSecretAndGarbage(t *testing.T) {
	issuer := NewTokenService("other-secret", time.Hour)
	svc := NewTokenService("secret", time.Hour)

	token, err := issuer.Issue(&domain.User{Username: "alice", Role: domain.RoleAdmin})
	require.NoError(t, err)

	for _, tok := range []string{token, "", "not-a-token", "a.b.c"} {
		got := svc.Validate(tok)
		require.False(t, got.Valid, tok)
		require.False(t, got.Expired, tok)
	}
}

func TestTokenService_RejectsNoneAlgorithm(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	claims := Claims{
		Role: string(domain.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "mallory",
			Issuer:    defaultIssuer,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	require.False(t, svc.Validate(unsigned).Valid)
}

func TestTokenService_ExtractSubject(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	token, err := svc.Issue(&domain.User{Username: "bob", Role: domain.RoleUser})
	require.NoError(t, err)

	sub, err := svc.ExtractSubject(token)
	require.NoError(t, err)
	require.Equal(t, "bob", sub)

	// extraction works without the key, which is why it is never trusted
	other := NewTokenService("different", time.Hour)
	sub, err = other.ExtractSubject(token)
	require.NoError(t, err)
	require.Equal(t, "bob", sub)
	require.False(t, other.Validate(token).Valid)

	_, err = svc.ExtractSubject("garbage")
	require.Error(t, err)
}

func TestTokenService_IssueRequiresUsername(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)
	_, err := svc.Issue(&domain.User{})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTokenService_IssuerMustMatch(t *testing.T) {
	cms := NewTokenService("secret", time.Hour, WithIssuer("newsroom"))
	other := NewTokenService("secret", time.Hour)

	token, err := cms.Issue(&domain.User{Username: "alice", Role: domain.RoleUser})
	require.NoError(t, err)

	require.True(t, cms.Validate(token).Valid)
	require.False(t, other.Validate(token).Valid)

	// empty keeps the default
	require.True(t, NewTokenService("secret", time.Hour, WithIssuer("")).Validate(mustIssue(t, other)).Valid)
}

func TestTokenService_UnknownRoleClaimIsDropped(t *testing.T) {
	svc := NewTokenService("secret", time.Hour)

	token, err := svc.Issue(&domain.User{Username: "alice", Role: domain.Role("SUPER")})
	require.NoError(t, err)

	got := svc.Validate(token)
	require.True(t, got.Valid)
	require.Empty(t, got.Role)
}

func mustIssue(t *testing.T, svc *TokenService) string {
	t.Helper()
	token, err := svc.Issue(&domain.User{Username: "bob", Role: domain.RoleUser})
	require.NoError(t, err)
	return token
}
