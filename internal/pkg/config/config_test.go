package config

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}

	if cfg.Port != "8080" || cfg.StoreDriver != DriverMongo || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Auth.TokenIssuer != "article-cms" {
		t.Fatalf("token issuer = %q", cfg.Auth.TokenIssuer)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour || cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("unexpected ttls: %v %v", cfg.Auth.TokenTTL, cfg.Redis.IdempotencyTTL)
	}
	if cfg.Auth.AdminUsername != "admin" || cfg.Auth.AdminPassword != "" {
		t.Fatalf("unexpected admin defaults: %+v", cfg.Auth)
	}
	want := "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000"
	if got := strings.Join(cfg.CORS.AllowOrigins, ","); got != want {
		t.Fatalf("cors origins = %q, want %q", got, want)
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoadWith_RequiresSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error without JWT_SECRET")
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":         "s",
		"STORE_DRIVER":       "postgres",
		"POSTGRES_DSN":       "postgres://cms@localhost/cms",
		"TOKEN_TTL":          "90m",
		"CORS_ALLOW_ORIGINS": "https://news.example.com",
		"ENV":                "production",
	}))
	if err != nil {
		t.Fatalf("LoadWith: %v", err)
	}
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Fatalf("token ttl = %v", cfg.Auth.TokenTTL)
	}
	if len(cfg.CORS.AllowOrigins) != 1 || cfg.CORS.AllowOrigins[0] != "https://news.example.com" {
		t.Fatalf("cors origins = %v", cfg.CORS.AllowOrigins)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production env")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown driver", map[string]string{"STORE_DRIVER": "sqlite"}},
		{"postgres without dsn", map[string]string{"STORE_DRIVER": "postgres"}},
		{"zero ttl", map[string]string{"TOKEN_TTL": "0s"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tc.env["JWT_SECRET"] = "s"
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(tc.env)); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}
