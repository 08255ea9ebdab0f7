package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

const (
	MaxTitleLength = 200
	MaxPageSize    = 100
)

var _ ports.ArticleService = (*ArticleService)(nil)

type ArticleService struct {
	repo   ports.ArticleRepository
	idem   ports.IdempotencyStore
	logger zerolog.Logger
	now    func() time.Time
}

// NewArticleService builds the article use cases. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewArticleService(repo ports.ArticleRepository, idem ports.IdempotencyStore, logger zerolog.Logger) *ArticleService {
	return &ArticleService{repo: repo, idem: idem, logger: logger, now: time.Now}
}

func (s *ArticleService) ListArticles(ctx context.Context, input ports.ListArticlesInput) (*ports.ListArticlesResult, error) {
	if input.Page < 0 || input.Limit < 0 {
		return nil, domain.ErrInvalidInput
	}
	page, limit := input.Page, input.Limit
	if page == 0 {
		page = 1
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	items, total, err := s.repo.List(ctx, ports.ListArticlesFilter{
		Title: strings.TrimSpace(input.Title),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}

	return &ports.ListArticlesResult{Items: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *ArticleService) GetArticle(ctx context.Context, id string) (*domain.Article, error) {
	if id == "" {
		return nil, domain.ErrArticleNotFound
	}
	return s.repo.FindByID(ctx, id)
}

// CreateArticle stores a new article authored by caller. When an idempotency
// key is given and already completed for this caller, the earlier article is
// returned without side effects. A key still held by a concurrent request
// fails with ErrIdempotencyInProgress.
func (s *ArticleService) CreateArticle(ctx context.Context, caller domain.Identity, input ports.ArticleInput, idempotencyKey string) (*ports.CreateArticleResult, error) {
	if caller.Username == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	tracked, existing, err := s.claimKey(ctx, caller.Username, idempotencyKey)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &ports.CreateArticleResult{Article: existing, AlreadyExisted: true}, nil
	}

	article := &domain.Article{
		Title:       input.Title,
		Content:     input.Content,
		Author:      caller.Username,
		PublishDate: publishTime(s.now()),
	}
	if err := s.repo.Create(ctx, article); err != nil {
		s.logger.Error().Err(err).Str("author", caller.Username).Msg("failed to create article")
		if tracked {
			if rerr := s.idem.Release(ctx, caller.Username, idempotencyKey); rerr != nil {
				s.logger.Warn().Err(rerr).Str("idempotency_key", idempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return nil, err
	}

	if tracked {
		if err := s.idem.Remember(ctx, caller.Username, idempotencyKey, article.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("failed to remember idempotency key")
		}
	}

	s.logger.Info().Str("article_id", article.ID).Str("author", article.Author).Msg("article created")
	return &ports.CreateArticleResult{Article: article}, nil
}

// UpdateArticle replaces title and content. Existence is checked before
// ownership, so a missing id is ErrArticleNotFound for every caller.
func (s *ArticleService) UpdateArticle(ctx context.Context, caller domain.Identity, id string, input ports.ArticleInput) (*domain.Article, error) {
	if caller.Username == "" {
		return nil, domain.ErrUnauthenticated
	}
	if err := validateArticleInput(input); err != nil {
		return nil, err
	}

	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := caller.Authorize(article); err != nil {
		s.logger.Info().Str("article_id", id).Str("caller", caller.Username).Str("author", article.Author).Msg("update denied")
		return nil, err
	}

	article.Title = input.Title
	article.Content = input.Content
	if err := s.repo.Update(ctx, article); err != nil {
		return nil, err
	}

	s.logger.Info().Str("article_id", id).Str("caller", caller.Username).Msg("article updated")
	return article, nil
}

func (s *ArticleService) DeleteArticle(ctx context.Context, caller domain.Identity, id string) error {
	if caller.Username == "" {
		return domain.ErrUnauthenticated
	}

	article, err := s.GetArticle(ctx, id)
	if err != nil {
		return err
	}
	if err := caller.Authorize(article); err != nil {
		s.logger.Info().Str("article_id", id).Str("caller", caller.Username).Str("author", article.Author).Msg("delete denied")
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("article_id", id).Str("caller", caller.Username).Msg("article deleted")
	return nil
}

// claimKey reserves (author, key) before a create. tracked reports whether
// the create must be remembered afterwards; existing is set on a replay.
// Store failures only cost the deduplication.
func (s *ArticleService) claimKey(ctx context.Context, author, key string) (tracked bool, existing *domain.Article, err error) {
	if s.idem == nil || key == "" {
		return false, nil, nil
	}

	id, err := s.idem.Reserve(ctx, author, key)
	switch {
	case errors.Is(err, domain.ErrIdempotencyInProgress):
		return false, nil, err
	case err != nil:
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency reserve failed")
		return false, nil, nil
	case id == "":
		return true, nil, nil
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrArticleNotFound) {
			s.logger.Warn().Err(err).Str("article_id", id).Msg("idempotent replay lookup failed")
		}
		return true, nil, nil
	}
	if article.Author != author {
		s.logger.Warn().Str("article_id", id).Str("caller", author).Str("author", article.Author).Msg("idempotency entry belongs to another author")
		return true, nil, nil
	}

	s.logger.Info().Str("idempotency_key", key).Str("article_id", id).Msg("idempotent replay")
	return false, article, nil
}

// publishTime is t in UTC at millisecond precision, the finest every store
// keeps, so the create response matches later reads.
func publishTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}

func validateArticleInput(input ports.ArticleInput) error {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return domain.ErrInvalidInput
	}
	if utf8.RuneCountInString(input.Title) > MaxTitleLength {
		return domain.ErrInvalidInput
	}
	return nil
}
