package ports

import (
	"context"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

// ArticleInput carries the editable fields of an article.
type ArticleInput struct {
	Title   string
	Content string
}

// ListArticlesInput carries the query parameters of the list endpoint.
type ListArticlesInput struct {
	Title string
	Page  int
	Limit int
}

// ListArticlesResult is returned by ListArticles.
type ListArticlesResult struct {
	Items []*domain.Article
	Total int64
	Page  int
	Limit int
}

// CreateArticleResult reports whether an Idempotency-Key replay matched.
type CreateArticleResult struct {
	Article        *domain.Article
	AlreadyExisted bool
}

// ArticleService defines the article use cases. Mutations take the caller
// identity explicitly; it is never read from shared state.
type ArticleService interface {
	ListArticles(ctx context.Context, input ListArticlesInput) (*ListArticlesResult, error)
	GetArticle(ctx context.Context, id string) (*domain.Article, error)
	CreateArticle(ctx context.Context, caller domain.Identity, input ArticleInput, idempotencyKey string) (*CreateArticleResult, error)
	UpdateArticle(ctx context.Context, caller domain.Identity, id string, input ArticleInput) (*domain.Article, error)
	DeleteArticle(ctx context.Context, caller domain.Identity, id string) error
}
