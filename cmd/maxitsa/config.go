package main

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/maxitsa/maxitsa/pkg/db"
	"github.com/maxitsa/maxitsa/pkg/logger"
	"github.com/maxitsa/maxitsa/pkg/redis"
	"github.com/maxitsa/maxitsa/pkg/storage"
)

// Session backends.
const (
	sessionRedis  = "redis"
	sessionMemory = "memory"
)

type config struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
	Migrate         bool          `env:"MIGRATE_ON_START" envDefault:"true"`

	Session sessionConfig
	Log     logger.Config
	DB      db.Config
	Redis   redis.Config
	Storage storage.Config
}

type sessionConfig struct {
	Store      string `env:"SESSION_STORE" envDefault:"redis"`
	CookieName string `env:"SESSION_COOKIE_NAME" envDefault:"maxitsa_session"`
	MaxAge     int    `env:"SESSION_MAX_AGE" envDefault:"86400"`
	Domain     string `env:"SESSION_DOMAIN"`
	Secure     bool   `env:"SESSION_SECURE" envDefault:"false"`
}

func loadConfig() (config, error) {
	cfg, err := env.ParseAs[config]()
	if err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	switch cfg.Session.Store {
	case sessionRedis, sessionMemory:
	default:
		return cfg, fmt.Errorf("SESSION_STORE must be %q or %q, got %q", sessionRedis, sessionMemory, cfg.Session.Store)
	}
	return cfg, nil
}
