package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/newsdesk/article-cms/internal/core/domain"
)

// UserRepository implements ports.UserRepository on the users table.
type UserRepository struct{ db *DB }

func NewUserRepository(db *DB) *UserRepository { return &UserRepository{db: db} }

// Create inserts a user row; the id is assigned by the database.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (username, password_hash, role, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id`
	created := *u
	err := r.db.Pool.QueryRow(ctx, q, u.Username, u.PasswordHash, string(u.Role), u.CreatedAt).Scan(&created.ID)
	if isUniqueViolation(err) {
		return nil, domain.ErrUserExists
	}
	if err != nil {
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return &created, nil
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const q = `
SELECT id, username, password_hash, role, created_at
FROM users WHERE username = $1`
	var (
		u      domain.User
		stored string
	)
	err := r.db.Pool.QueryRow(ctx, q, username).Scan(&u.ID, &u.Username, &u.PasswordHash, &stored, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	role, ok := domain.ParseRole(stored)
	if !ok {
		return nil, fmt.Errorf("find user %q: %w %q", username, domain.ErrUnknownRole, stored)
	}
	u.Role = role
	u.CreatedAt = u.CreatedAt.UTC()
	return &u, nil
}
