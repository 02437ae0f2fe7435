// Package db opens the PostgreSQL pool backing the repositories.
//
// Connection settings come from the environment. A full DSN wins; otherwise
// the URL is assembled from the discrete fields:
//
//	DSN                         - full connection string (optional)
//	DB_DRIVER                   - postgres (default); other drivers are rejected
//	DB_HOST, DB_PORT            - default localhost:5432
//	DB_NAME, DB_USER            - default maxitsa, postgres
//	DB_PASSWORD, DB_SSLMODE     - sslmode defaults to disable
//	DATABASE_MAX_OPEN_CONNS     - default 10
//	DATABASE_MIN_CONNS          - default 2
//	DATABASE_RETRY_ATTEMPTS     - default 3
//	DATABASE_RETRY_INTERVAL     - default 5s
//	DATABASE_MIGRATIONS_TABLE   - default schema_migrations
//
// Usage:
//
//	pool, err := db.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	if err := db.Migrate(ctx, pool, repository.Migrations, "migrations", cfg.MigrationsTable, log); err != nil {
//		return err
//	}
//
//	app.Run(":8080",
//		maxitsa.ShutdownHook(db.Shutdown(pool)),
//	)
//
// [SQLX] exposes the pool to the sqlx-based repositories. [WithTx] commits
// when the callback returns nil and rolls back otherwise.
package db
