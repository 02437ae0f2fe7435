// Command maxitsa serves the MAXITSA banking site.
package main

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/maxitsa/maxitsa"
	"github.com/maxitsa/maxitsa/middlewares"
	"github.com/maxitsa/maxitsa/pkg/db"
	"github.com/maxitsa/maxitsa/pkg/logger"
	"github.com/maxitsa/maxitsa/pkg/redis"
	"github.com/maxitsa/maxitsa/pkg/session"
	"github.com/maxitsa/maxitsa/repository"
	"github.com/maxitsa/maxitsa/views"
)

//go:embed routes.yaml
var routesYAML []byte

const startupTimeout = 30 * time.Second

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.FromConfig(cfg.Log, middlewares.RequestIDExtractor())
	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, log *slog.Logger) error {
	deps := newContainer(ctx, cfg, log)

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	pool, err := maxitsa.Resolve[*pgxpool.Pool](deps, keyDatabase)
	if err != nil {
		return err
	}
	if cfg.Migrate {
		if err := db.Migrate(startCtx, pool, repository.Migrations, "migrations", cfg.DB.MigrationsTable, log); err != nil {
			return err
		}
	}

	runOpts := []maxitsa.RunOption{
		maxitsa.Logger(log),
		maxitsa.ShutdownTimeout(cfg.ShutdownTimeout),
		maxitsa.WithContext(ctx),
		maxitsa.ShutdownHook(db.Shutdown(pool)),
	}
	healthOpts := []maxitsa.HealthOption{
		maxitsa.WithReadinessCheck("postgres", db.Healthcheck(pool)),
	}

	var store maxitsa.SessionStore
	switch cfg.Session.Store {
	case sessionMemory:
		log.Warn("sessions are kept in memory and lost on restart")
		store = session.NewMemoryStore()
	default:
		client, err := maxitsa.Resolve[goredis.UniversalClient](deps, keyRedis)
		if err != nil {
			return err
		}
		store = session.NewRedisStore(client)
		healthOpts = append(healthOpts, maxitsa.WithReadinessCheck("redis", redis.Healthcheck(client)))
		runOpts = append(runOpts, maxitsa.ShutdownHook(redis.Shutdown(client)))
	}

	app := maxitsa.New(
		maxitsa.WithCustomLogger(log.With(slog.String("component", "web"))),
		maxitsa.WithContainer(deps),
		maxitsa.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
		),
		maxitsa.WithSession(store,
			maxitsa.WithSessionCookieName(cfg.Session.CookieName),
			maxitsa.WithSessionMaxAge(cfg.Session.MaxAge),
			maxitsa.WithSessionDomain(cfg.Session.Domain),
			maxitsa.WithSessionSecure(cfg.Session.Secure),
		),
		maxitsa.WithRoutes(maxitsa.YAMLRoutes(routesYAML)),
		maxitsa.WithStaticFiles("/assets/", views.Assets, "assets"),
		maxitsa.WithHealthChecks(healthOpts...),
	)

	// Resolve controllers and middleware names before accepting traffic.
	if err := app.Load(); err != nil {
		return err
	}

	return app.Run(cfg.Address, runOpts...)
}
