// Package memory provides process-local credential and article stores for
// development and tests. Each method holds the store lock for its whole body,
// which gives the per-operation atomicity the services expect.
package memory

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

type UserRepository struct {
	mu    sync.RWMutex
	seq   int
	users map[string]domain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]domain.User)}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	r.seq++
	created := *user
	created.ID = strconv.Itoa(r.seq)
	r.users[created.Username] = created
	return &created, nil
}

func (r *UserRepository) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}

// Delete removes an account. No API exposes it; tests use it to simulate
// a user deleted while their token is still valid.
func (r *UserRepository) Delete(_ context.Context, username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, username)
}

type ArticleRepository struct {
	mu       sync.RWMutex
	seq      int
	articles map[string]domain.Article
}

func NewArticleRepository() *ArticleRepository {
	return &ArticleRepository{articles: make(map[string]domain.Article)}
}

// Create assigns sequential ids starting at 1.
func (r *ArticleRepository) Create(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	a.ID = strconv.Itoa(r.seq)
	r.articles[a.ID] = *a
	return nil
}

func (r *ArticleRepository) FindByID(_ context.Context, id string) (*domain.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.articles[id]
	if !ok {
		return nil, domain.ErrArticleNotFound
	}
	return &a, nil
}

func (r *ArticleRepository) List(_ context.Context, f ports.ListArticlesFilter) ([]*domain.Article, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	needle := strings.ToLower(f.Title)
	matched := make([]*domain.Article, 0, len(r.articles))
	for _, a := range r.articles {
		if needle != "" && !strings.Contains(strings.ToLower(a.Title), needle) {
			continue
		}
		a := a
		matched = append(matched, &a)
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].PublishDate.Equal(matched[j].PublishDate) {
			return matched[i].PublishDate.After(matched[j].PublishDate)
		}
		return idLess(matched[j].ID, matched[i].ID)
	})

	total := int64(len(matched))
	if f.Limit <= 0 {
		return matched, total, nil
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	start := (page - 1) * f.Limit
	if start >= len(matched) {
		return []*domain.Article{}, total, nil
	}
	end := start + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (r *ArticleRepository) Update(_ context.Context, a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur, ok := r.articles[a.ID]
	if !ok {
		return domain.ErrArticleNotFound
	}
	cur.Title = a.Title
	cur.Content = a.Content
	r.articles[a.ID] = cur
	return nil
}

func (r *ArticleRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.articles[id]; !ok {
		return domain.ErrArticleNotFound
	}
	delete(r.articles, id)
	return nil
}

// idLess orders numeric ids numerically.
func idLess(a, b string) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	return a < b
}
