package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

type Config struct {
	Port     string `env:"PORT,      default=5500"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Session  SessionConfig
	Postgres PostgresConfig
	Mongo    MongoConfig
	Redis    RedisConfig
}

type AuthConfig struct {
	JWTSecret  string        `env:"JWT_SECRET, required"`
	TokenTTL   time.Duration `env:"TOKEN_TTL,   default=1h"`
	CookieName string        `env:"COOKIE_NAME, default=jwt"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`
}

type SessionConfig struct {
	Store      string        `env:"SESSION_STORE,       default=postgres"`
	CookieName string        `env:"SESSION_COOKIE_NAME, default=sessionId"`
	TTL        time.Duration `env:"SESSION_TTL,         default=24h"`
}

type PostgresConfig struct {
	URL             string        `env:"DATABASE_URL, required"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,    default=25"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,    default=25"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME, default=5m"`
}

// MongoConfig points at the inventory audit trail. An empty URI disables it.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=dealership"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

func (c *Config) Production() bool { return c.Env == EnvProduction }

// Load reads an optional .env file, then the process environment.
// Values already present in the environment win over the file.
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom builds the configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	switch c.Env {
	case EnvDevelopment, EnvProduction:
	default:
		return fmt.Errorf("ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, c.Env)
	}

	if c.Auth.TokenTTL <= 0 {
		return errors.New("TOKEN_TTL must be positive")
	}
	if c.Auth.CookieName == "" || c.Session.CookieName == "" {
		return errors.New("cookie names must not be empty")
	}
	if c.Auth.CookieName == c.Session.CookieName {
		return errors.New("COOKIE_NAME and SESSION_COOKIE_NAME must differ")
	}

	switch c.Session.Store {
	case SessionBackendPostgres:
	case SessionBackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionBackendPostgres, SessionBackendRedis, c.Session.Store)
	}
	return nil
}
