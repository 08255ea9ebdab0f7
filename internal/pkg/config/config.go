package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT,         default=8080"`
	Env         string `env:"ENV,          default=development"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	StoreDriver string `env:"STORE_DRIVER, default=mongo"`

	Auth     AuthConfig
	CORS     CORSConfig
	Mongo    MongoConfig
	Postgres PostgresConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	JWTSecret     string        `env:"JWT_SECRET, required"`
	TokenTTL      time.Duration `env:"TOKEN_TTL,      default=24h"`
	TokenIssuer   string        `env:"TOKEN_ISSUER,   default=article-cms"`
	AdminUsername string        `env:"ADMIN_USERNAME, default=admin"`
	// AdminPassword empty disables admin seeding.
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

type CORSConfig struct {
	AllowOrigins []string `env:"CORS_ALLOW_ORIGINS, default=http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=article_cms"`
}

type PostgresConfig struct {
	DSN string `env:"POSTGRES_DSN"`
}

type RedisConfig struct {
	// Addr empty disables idempotent article creation.
	Addr           string        `env:"REDIS_ADDR"`
	Password       string        `env:"REDIS_PASSWORD"`
	DB             int           `env:"REDIS_DB,        default=0"`
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL, default=24h"`
}

// IsDevelopment reports whether ENV selects developer-friendly output.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Validate checks cross-field constraints envconfig tags cannot express.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI is required for the mongo store")
		}
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return errors.New("POSTGRES_DSN is required for the postgres store")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	return nil
}

// Load reads configuration from an optional .env file and the environment.
// It panics on invalid configuration and is meant for process startup.
func Load() *Config {
	// .env is optional; real environment variables take precedence.
	_ = godotenv.Load()

	cfg, err := LoadWith(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadWith resolves configuration through lookuper and validates it.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
