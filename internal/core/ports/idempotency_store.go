package ports

import "context"

// IdempotencyStore ties a (caller, key) pair to the article it created.
type IdempotencyStore interface {
	// Reserve claims (author, key) ahead of a create. It returns the
	// remembered article id when the pair already completed, "" when the
	// caller now holds the claim, and domain.ErrIdempotencyInProgress while
	// another request holds it.
	Reserve(ctx context.Context, author, key string) (string, error)
	// Remember records the created article in place of the claim.
	Remember(ctx context.Context, author, key, articleID string) error
	// Release drops a claim whose create failed.
	Release(ctx context.Context, author, key string) error
}
