// @title           CSE Motors API
// @version         1.0
// @description     JSON endpoints of the CSE Motors dealership site.
// @BasePath        /
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/cse-motors/dealership/internal/api"
	"github.com/cse-motors/dealership/internal/api/handler"
	"github.com/cse-motors/dealership/internal/core/auth"
	"github.com/cse-motors/dealership/internal/core/ports"
	"github.com/cse-motors/dealership/internal/core/service"
	"github.com/cse-motors/dealership/internal/infrastructure/config"
	"github.com/cse-motors/dealership/internal/infrastructure/db/mongo"
	"github.com/cse-motors/dealership/internal/infrastructure/db/postgres"
	"github.com/cse-motors/dealership/internal/infrastructure/db/redis"
	"github.com/cse-motors/dealership/internal/infrastructure/queue"
	"github.com/cse-motors/dealership/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not configured yet.
		boot := zerolog.New(os.Stderr)
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.Production(),
		Service: "dealership",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// 1. PostgreSQL
	db, err := postgres.Connect(ctx, postgresConfig(cfg))
	if err != nil {
		return err
	}
	defer db.Close()
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		return err
	}
	log.Info().Msg("postgres connected")

	health := []handler.Dependency{{Name: "postgres", Ping: db.PingContext}}

	// 2. Session store
	var sessions ports.SessionStore
	switch cfg.Session.Store {
	case config.SessionBackendRedis:
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer client.Close()
		sessions = redis.NewSessionStore(client)
		health = append(health, handler.Dependency{
			Name: "redis",
			Ping: func(ctx context.Context) error { return client.Ping(ctx).Err() },
		})
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis session store connected")
	default:
		store := postgres.NewSessionStore(db)
		if n, err := store.PurgeExpired(ctx); err != nil {
			log.Warn().Err(err).Msg("purge expired sessions")
		} else if n > 0 {
			log.Info().Int64("count", n).Msg("purged expired sessions")
		}
		sessions = store
	}

	// 3. Audit trail (optional)
	var audit ports.AuditRepository
	if cfg.Mongo.URI != "" {
		client, database, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "dealership",
		})
		if err != nil {
			return err
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			_ = client.Disconnect(disconnectCtx)
		}()
		trail := mongo.NewAuditRepository(database)
		if err := trail.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("audit indexes")
		}
		dispatcher := queue.NewAuditDispatcher(0, trail, logger.Component("audit"))
		dispatcher.Start(context.WithoutCancel(ctx))
		defer dispatcher.Close()
		audit = dispatcher
		health = append(health, handler.Dependency{
			Name: "mongo",
			Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) },
		})
		log.Info().Str("database", cfg.Mongo.Database).Msg("audit trail enabled")
	}

	// 4. Auth
	hasher, err := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	// 5. Services
	accounts := service.NewAccountService(
		postgres.NewAccountRepository(db), hasher, tokens,
		logger.Component("account_service"),
	)
	inventory := service.NewInventoryService(
		postgres.NewInventoryRepository(db), audit,
		logger.Component("inventory_service"),
	)

	// 6. HTTP
	e, err := api.NewRouter(api.Deps{
		Accounts:   accounts,
		Inventory:  inventory,
		Identities: tokens,
		Sessions:   sessions,
		Health:     health,
		Log:        logger.Component("http"),
	}, routerOptions(cfg))
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info().Msg("server stopped gracefully")
	return nil
}

func postgresConfig(cfg *config.Config) postgres.Config {
	return postgres.Config{
		URL:             cfg.Postgres.URL,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
}

func routerOptions(cfg *config.Config) api.Options {
	return api.Options{
		Production:    cfg.Production(),
		TokenCookie:   cfg.Auth.CookieName,
		TokenTTL:      cfg.Auth.TokenTTL,
		SessionCookie: cfg.Session.CookieName,
		SessionTTL:    cfg.Session.TTL,
	}
}
