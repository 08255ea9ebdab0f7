package middleware

import (
	"context"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

type identityKey struct{}

// WithIdentity returns a copy of ctx carrying the caller identity.
func WithIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, &id)
}

// ClearIdentity returns a copy of ctx in which no identity is visible, even
// if a parent context carried one.
func ClearIdentity(ctx context.Context) context.Context {
	return context.WithValue(ctx, identityKey{}, (*domain.Identity)(nil))
}

// IdentityFrom returns the identity established by Authenticate.
func IdentityFrom(ctx context.Context) (domain.Identity, bool) {
	id, _ := ctx.Value(identityKey{}).(*domain.Identity)
	if id == nil || id.Username == "" {
		return domain.Identity{}, false
	}
	return *id, true
}
