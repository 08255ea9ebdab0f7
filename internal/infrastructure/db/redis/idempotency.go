package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	// claimTTL bounds how long a crashed request can block its key.
	claimTTL = 30 * time.Second
	// pending marks a claimed key whose create has not finished.
	pending = "pending"
)

// IdempotencyStore remembers which article an Idempotency-Key produced.
// Key format: idem:article:<len(author)>:<author>:<key>
type IdempotencyStore struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. Entries expire after ttl, or 24h when
// ttl is not positive.
func NewIdempotencyStore(client redis.Cmdable, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims (author, key) with SETNX. A lost race reads the winner's
// value: an article id means the create completed, the pending marker means
// it is still running.
func (s *IdempotencyStore) Reserve(ctx context.Context, author, key string) (string, error) {
	k := idempotencyKey(author, key)

	// a second pass covers a claim that expired between SETNX and GET
	for attempt := 0; attempt < 2; attempt++ {
		claimed, err := s.client.SetNX(ctx, k, pending, claimTTL).Result()
		if err != nil {
			return "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if claimed {
			return "", nil
		}

		id, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("idempotency reserve: %w", err)
		}
		if id == pending {
			return "", domain.ErrIdempotencyInProgress
		}
		return id, nil
	}
	return "", domain.ErrIdempotencyInProgress
}

// Remember stores articleID for (author, key) for the full TTL.
func (s *IdempotencyStore) Remember(ctx context.Context, author, key, articleID string) error {
	if err := s.client.Set(ctx, idempotencyKey(author, key), articleID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) Release(ctx context.Context, author, key string) error {
	if err := s.client.Del(ctx, idempotencyKey(author, key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

// idempotencyKey length-prefixes author so usernames containing ':' cannot
// collide with another caller's key.
func idempotencyKey(author, key string) string {
	return fmt.Sprintf("idem:article:%d:%s:%s", len(author), author, key)
}
