package main

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"

	"github.com/maxitsa/maxitsa"
	"github.com/maxitsa/maxitsa/handlers"
	"github.com/maxitsa/maxitsa/pkg/db"
	"github.com/maxitsa/maxitsa/pkg/redis"
	"github.com/maxitsa/maxitsa/pkg/storage"
	"github.com/maxitsa/maxitsa/repository"
)

// Dependency keys.
const (
	keyDatabase = "database"
	keySQL      = "sql"
	keyRedis    = "redis"
	keyUploads  = "fileUploadService"
	keyUsers    = "userRepository"
	keyComptes  = "compteRepository"
	keySecurity = "securityController"
	keyCompte   = "compteController"
)

// newContainer declares every dependency of the site. Factories run on first
// use, so a memory session store never dials Redis.
func newContainer(ctx context.Context, cfg config, log *slog.Logger) *maxitsa.Container {
	var deps *maxitsa.Container

	deps = maxitsa.NewContainer(func() *maxitsa.Registry {
		return maxitsa.NewRegistry().
			Core(keyDatabase, func() (any, error) {
				return db.Connect(ctx, cfg.DB, log)
			}).
			Core(keySQL, func() (any, error) {
				pool, err := maxitsa.Resolve[*pgxpool.Pool](deps, keyDatabase)
				if err != nil {
					return nil, err
				}
				return db.SQLX(pool), nil
			}).
			Core(keyRedis, func() (any, error) {
				return redis.Open(ctx, cfg.Redis, log)
			}).
			Service(keyUploads, func() (any, error) {
				if !cfg.Storage.Enabled() {
					log.Warn("STORAGE_BUCKET not set, identity photos are kept in memory")
					return storage.NewUploader(storage.NewMemory()), nil
				}
				s3, err := storage.NewS3(cfg.Storage)
				if err != nil {
					return nil, err
				}
				return storage.NewUploader(s3), nil
			}).
			Repository(keyUsers, func() (any, error) {
				sdb, err := maxitsa.Resolve[*sqlx.DB](deps, keySQL)
				if err != nil {
					return nil, err
				}
				return repository.NewUsers(sdb), nil
			}).
			Repository(keyComptes, func() (any, error) {
				sdb, err := maxitsa.Resolve[*sqlx.DB](deps, keySQL)
				if err != nil {
					return nil, err
				}
				users, err := maxitsa.Resolve[*repository.Users](deps, keyUsers)
				if err != nil {
					return nil, err
				}
				return repository.NewComptes(sdb, users), nil
			}).
			Controller(keySecurity, func() (any, error) {
				users, err := maxitsa.Resolve[*repository.Users](deps, keyUsers)
				if err != nil {
					return nil, err
				}
				comptes, err := maxitsa.Resolve[*repository.Comptes](deps, keyComptes)
				if err != nil {
					return nil, err
				}
				return handlers.NewSecurityController(users, comptes), nil
			}).
			Controller(keyCompte, func() (any, error) {
				comptes, err := maxitsa.Resolve[*repository.Comptes](deps, keyComptes)
				if err != nil {
					return nil, err
				}
				uploads, err := maxitsa.Resolve[*storage.Uploader](deps, keyUploads)
				if err != nil {
					return nil, err
				}
				return handlers.NewCompteController(comptes, uploads), nil
			})
	})

	return deps
}
