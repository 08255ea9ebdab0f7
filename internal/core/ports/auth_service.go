package ports

import (
	"context"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (string, *domain.User, error)
	Login(ctx context.Context, username, password string) (string, *domain.User, error)
}
