package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

// ArticleRepository implements ports.ArticleRepository on the articles table.
type ArticleRepository struct{ db *DB }

func NewArticleRepository(db *DB) *ArticleRepository { return &ArticleRepository{db: db} }

func (r *ArticleRepository) Create(ctx context.Context, a *domain.Article) error {
	const q = `
INSERT INTO articles (title, content, author, publish_date)
VALUES ($1, $2, $3, $4)
RETURNING id`
	if err := r.db.Pool.QueryRow(ctx, q, a.Title, a.Content, a.Author, a.PublishDate).Scan(&a.ID); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// FindByID treats an id that is not a UUID the same as a missing one.
func (r *ArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrArticleNotFound
	}

	const q = `
SELECT id, title, content, author, publish_date
FROM articles WHERE id = $1`
	var a domain.Article
	err := r.db.Pool.QueryRow(ctx, q, id).Scan(&a.ID, &a.Title, &a.Content, &a.Author, &a.PublishDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrArticleNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find article: %w", err)
	}
	a.PublishDate = a.PublishDate.UTC()
	return &a, nil
}

// List returns articles newest first. A zero Limit returns every match.
func (r *ArticleRepository) List(ctx context.Context, f ports.ListArticlesFilter) ([]*domain.Article, int64, error) {
	pattern := containsPattern(f.Title)

	const countQ = `SELECT count(*) FROM articles WHERE title ILIKE $1`
	var total int64
	if err := r.db.Pool.QueryRow(ctx, countQ, pattern).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count articles: %w", err)
	}

	// LIMIT NULL means no limit in Postgres.
	var limit *int
	offset := 0
	if f.Limit > 0 {
		limit = &f.Limit
		if f.Page > 1 {
			offset = (f.Page - 1) * f.Limit
		}
	}

	const q = `
SELECT id, title, content, author, publish_date
FROM articles WHERE title ILIKE $1
ORDER BY publish_date DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.Pool.Query(ctx, q, pattern, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.Article, 0)
	for rows.Next() {
		var a domain.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.Author, &a.PublishDate); err != nil {
			return nil, 0, fmt.Errorf("scan article: %w", err)
		}
		a.PublishDate = a.PublishDate.UTC()
		items = append(items, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list articles: %w", err)
	}
	return items, total, nil
}

// Update rewrites title and content only.
func (r *ArticleRepository) Update(ctx context.Context, a *domain.Article) error {
	if _, err := uuid.Parse(a.ID); err != nil {
		return domain.ErrArticleNotFound
	}

	const q = `UPDATE articles SET title = $2, content = $3 WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, a.ID, a.Title, a.Content)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}

func (r *ArticleRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrArticleNotFound
	}

	const q = `DELETE FROM articles WHERE id = $1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrArticleNotFound
	}
	return nil
}
