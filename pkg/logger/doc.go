// Package logger builds the slog loggers used across the site.
//
// Every logger writes JSON (or text) to stdout and can enrich each record
// with attributes pulled from the context, such as the request ID:
//
//	log := logger.New(middlewares.RequestIDExtractor())
//	log.InfoContext(ctx, "compte créé", slog.String("numero", numero))
//
// With a Sentry DSN configured, warnings and errors are also sent to Sentry;
// errors open issues. A DSN that fails to initialise falls back to stdout.
//
//	log := logger.FromConfig(cfg.Log, middlewares.RequestIDExtractor())
//
// NewNope returns a logger that discards everything; the App uses it until a
// logger is configured.
package logger
