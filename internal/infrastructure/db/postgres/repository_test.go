package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/newsdesk/article-cms/internal/core/domain"
	"github.com/newsdesk/article-cms/internal/core/ports"
)

const articleID = "0b6f3c1e-7a0e-4d4b-9a57-3c1d2b8f4e11"

func newDB(t *testing.T) (*DB, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	return &DB{Pool: mock}, mock
}

func TestUserRepository_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()
	u := &domain.User{Username: "alice", PasswordHash: "h", Role: domain.RoleUser, CreatedAt: now}

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "h", "USER", now).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("u-1"))
	created, err := r.Create(ctx, u)
	require.NoError(t, err)
	require.Equal(t, "u-1", created.ID)
	require.Empty(t, u.ID, "input must not be mutated")

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "h", "USER", now).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = r.Create(ctx, u)
	require.ErrorIs(t, err, domain.ErrUserExists)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_FindByUsername(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewUserRepository(db)
	ctx := context.Background()

	mock.ExpectQuery(`SELECT id, username, password_hash, role, created_at FROM users WHERE username = \$1`).
		WithArgs("root").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow("u-1", "root", "h", "ADMIN", time.Now()))
	u, err := r.FindByUsername(ctx, "root")
	require.NoError(t, err)
	require.Equal(t, domain.RoleAdmin, u.Role)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("ghost").
		WillReturnError(pgx.ErrNoRows)
	_, err = r.FindByUsername(ctx, "ghost")
	require.ErrorIs(t, err, domain.ErrUserNotFound)

	boom := errors.New("conn reset")
	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("alice").
		WillReturnError(boom)
	_, err = r.FindByUsername(ctx, "alice")
	require.ErrorIs(t, err, boom)
	require.NotErrorIs(t, err, domain.ErrUserNotFound)

	mock.ExpectQuery(`FROM users WHERE username = \$1`).
		WithArgs("eve").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "password_hash", "role", "created_at"}).
			AddRow("u-2", "eve", "h", "SUPERUSER", time.Now()))
	_, err = r.FindByUsername(ctx, "eve")
	require.ErrorIs(t, err, domain.ErrUnknownRole)
}

func TestArticleRepository_CreateAndFind(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewArticleRepository(db)
	ctx := context.Background()
	published := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	a := &domain.Article{Title: "t", Content: "c", Author: "alice", PublishDate: published}
	mock.ExpectQuery(`INSERT INTO articles`).
		WithArgs("t", "c", "alice", published).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(articleID))
	require.NoError(t, r.Create(ctx, a))
	require.Equal(t, articleID, a.ID)

	mock.ExpectQuery(`FROM articles WHERE id = \$1`).
		WithArgs(articleID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "content", "author", "publish_date"}).
			AddRow(articleID, "t", "c", "alice", published))
	got, err := r.FindByID(ctx, articleID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Author)

	mock.ExpectQuery(`FROM articles WHERE id = \$1`).
		WithArgs(articleID).
		WillReturnError(pgx.ErrNoRows)
	_, err = r.FindByID(ctx, articleID)
	require.ErrorIs(t, err, domain.ErrArticleNotFound)

	// malformed ids never reach the database
	_, err = r.FindByID(ctx, "1")
	require.ErrorIs(t, err, domain.ErrArticleNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepository_UpdateDelete_NotFound(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewArticleRepository(db)
	ctx := context.Background()

	mock.ExpectExec(`UPDATE articles SET title = \$2, content = \$3 WHERE id = \$1`).
		WithArgs(articleID, "t", "c").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Update(ctx, &domain.Article{ID: articleID, Title: "t", Content: "c"}), domain.ErrArticleNotFound)

	mock.ExpectExec(`UPDATE articles`).
		WithArgs(articleID, "t2", "c2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Update(ctx, &domain.Article{ID: articleID, Title: "t2", Content: "c2"}))

	mock.ExpectExec(`DELETE FROM articles WHERE id = \$1`).
		WithArgs(articleID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))
	require.ErrorIs(t, r.Delete(ctx, articleID), domain.ErrArticleNotFound)

	mock.ExpectExec(`DELETE FROM articles`).
		WithArgs(articleID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	require.NoError(t, r.Delete(ctx, articleID))

	require.ErrorIs(t, r.Delete(ctx, "not-a-uuid"), domain.ErrArticleNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestArticleRepository_List(t *testing.T) {
	db, mock := newDB(t)
	defer mock.Close()
	r := NewArticleRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT count\(\*\) FROM articles WHERE title ILIKE \$1`).
		WithArgs(`%50\%%`).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(3)))
	mock.ExpectQuery(`ORDER BY publish_date DESC, id DESC LIMIT \$2 OFFSET \$3`).
		WithArgs(`%50\%%`, pgxmock.AnyArg(), 2).
		WillReturnRows(pgxmock.NewRows([]string{"id", "title", "content", "author", "publish_date"}).
			AddRow(articleID, "50% off", "c", "bob", now))

	items, total, err := r.List(ctx, ports.ListArticlesFilter{Title: "50%", Page: 2, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	require.Equal(t, "bob", items[0].Author)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPattern(t *testing.T) {
	require.Equal(t, "%%", containsPattern(""))
	require.Equal(t, `%a\_b%`, containsPattern("a_b"))
	require.Equal(t, `%c:\\d%`, containsPattern(`c:\d`))
}
