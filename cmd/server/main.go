// Command server starts the article CMS HTTP API.
//
//	@title						Article CMS API
//	@version					1.0
//	@description				Articles with public reads and author-or-admin writes.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/newsdesk/article-cms/internal/api"
	"github.com/newsdesk/article-cms/internal/api/handler"
	"github.com/newsdesk/article-cms/internal/core/ports"
	"github.com/newsdesk/article-cms/internal/core/service"
	"github.com/newsdesk/article-cms/internal/infrastructure/db/memory"
	mongostore "github.com/newsdesk/article-cms/internal/infrastructure/db/mongo"
	"github.com/newsdesk/article-cms/internal/infrastructure/db/postgres"
	rediscache "github.com/newsdesk/article-cms/internal/infrastructure/db/redis"
	"github.com/newsdesk/article-cms/internal/pkg/config"
	"github.com/newsdesk/article-cms/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

// stores bundles the selected persistence backend.
type stores struct {
	users    ports.UserRepository
	articles ports.ArticleRepository
	ping     handler.Check
	close    func(context.Context)
}

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "article-cms",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	readiness := map[string]handler.Check{cfg.StoreDriver: st.ping}

	var idem ports.IdempotencyStore
	if cfg.Redis.Addr != "" {
		rdb, err := rediscache.Connect(ctx, rediscache.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			// keep serving; creates just ignore Idempotency-Key
			log.Warn().Err(err).Msg("redis unavailable, Idempotency-Key disabled")
		} else {
			defer rdb.Close()
			idem = rediscache.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
			readiness["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		}
	}

	tokens := service.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL,
		service.WithIssuer(cfg.Auth.TokenIssuer))
	authService := service.NewAuthService(st.users, tokens, logger.Component("auth"))
	articleService := service.NewArticleService(st.articles, idem, logger.Component("articles"))

	if cfg.Auth.AdminPassword != "" {
		if _, err := authService.SeedAdmin(ctx, cfg.Auth.AdminUsername, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	e := api.NewRouter(api.Deps{
		Logger:      logger.Component("http"),
		Auth:        authService,
		Articles:    articleService,
		Tokens:      tokens,
		Users:       st.users,
		Readiness:   readiness,
		CORSOrigins: cfg.CORS.AllowOrigins,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.StoreDriver).Msg("listening")
		errCh <- e.Start(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStores(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*stores, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "article-cms",
		})
		if err != nil {
			return nil, err
		}
		users := mongostore.NewUserRepository(db)
		articles := mongostore.NewArticleRepository(db)
		if err := users.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("user indexes: %w", err)
		}
		if err := articles.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("article indexes: %w", err)
		}
		return &stores{
			users:    users,
			articles: articles,
			ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:    func(ctx context.Context) { _ = client.Disconnect(ctx) },
		}, nil

	case config.DriverPostgres:
		if err := postgres.Migrate(ctx, cfg.Postgres.DSN); err != nil {
			return nil, err
		}
		db, err := postgres.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, err
		}
		return &stores{
			users:    postgres.NewUserRepository(db),
			articles: postgres.NewArticleRepository(db),
			ping:     db.Ping,
			close:    func(context.Context) { db.Close() },
		}, nil

	case config.DriverMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		return &stores{
			users:    memory.NewUserRepository(),
			articles: memory.NewArticleRepository(),
			ping:     func(context.Context) error { return nil },
			close:    func(context.Context) {},
		}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
