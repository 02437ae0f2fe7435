package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects output format, level and the optional Sentry sink.
type Config struct {
	Level             string `env:"LOG_LEVEL" envDefault:"info"`
	Format            string `env:"LOG_FORMAT" envDefault:"json"`
	SentryDSN         string `env:"SENTRY_DSN"`
	SentryEnvironment string `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
}

// New returns a JSON logger on stdout at INFO level.
func New(extractors ...ContextExtractor) *slog.Logger {
	return slog.New(NewLogHandlerDecorator(stdoutHandler("json", slog.LevelInfo), extractors...))
}

// FromConfig returns a logger built from cfg. Sentry is enabled when
// cfg.SentryDSN is set.
func FromConfig(cfg Config, extractors ...ContextExtractor) *slog.Logger {
	level := ParseLevel(cfg.Level)
	var h slog.Handler = stdoutHandler(cfg.Format, level)
	if cfg.SentryDSN != "" {
		h = withSentry(h, cfg.SentryDSN, cfg.SentryEnvironment)
	}
	return slog.New(NewLogHandlerDecorator(h, extractors...))
}

// NewNope returns a logger that discards all records.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps "debug", "info", "warn" and "error" to a slog level.
// Anything else is INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func stdoutHandler(format string, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(os.Stdout, opts)
	}
	return slog.NewJSONHandler(os.Stdout, opts)
}
