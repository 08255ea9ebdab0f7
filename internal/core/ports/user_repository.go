package ports

import (
	"context"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

// UserRepository is the Credential Store.
type UserRepository interface {
	// Create persists a new account. Returns domain.ErrUserExists when the
	// username is taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// FindByUsername returns domain.ErrUserNotFound when no account matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
