package ports

import (
	"context"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

// ListArticlesFilter carries the optional listing parameters.
type ListArticlesFilter struct {
	Title string // optional: case-insensitive substring match on title
	Page  int    // 1-based; ignored when Limit is 0
	Limit int    // 0 = no limit
}

// ArticleRepository is the Article Store. Every method is atomic on its own;
// callers get no multi-step transactions.
type ArticleRepository interface {
	// Create inserts a and assigns a.ID.
	Create(ctx context.Context, a *domain.Article) error
	// FindByID returns domain.ErrArticleNotFound when absent.
	FindByID(ctx context.Context, id string) (*domain.Article, error)
	// List returns a page of articles, newest first, and the total match count.
	List(ctx context.Context, filter ListArticlesFilter) ([]*domain.Article, int64, error)
	// Update rewrites title and content only.
	Update(ctx context.Context, a *domain.Article) error
	Delete(ctx context.Context, id string) error
}
