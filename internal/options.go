package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/maxitsa/maxitsa/pkg/container"
	"github.com/maxitsa/maxitsa/pkg/logger"
	"github.com/maxitsa/maxitsa/pkg/session"
	"github.com/maxitsa/maxitsa/pkg/validator"
)

// Option configures the application.
type Option func(*App)

// WithContainer sets the dependency container. Controllers named by routes
// and repositories named by unique rules are resolved through it.
func WithContainer(c *container.Container) Option {
	return func(a *App) {
		a.container = c
	}
}

// WithRoutes adds route declarations. Loaders run in order on the first
// request or the first call to Load, and again only if one of them failed.
//
// Example:
//
//	maxitsa.WithRoutes(func(t *maxitsa.RouteTable) error {
//	    return errors.Join(
//	        t.GET("/", "securityController", "index", "guest"),
//	        t.POST("/login", "securityController", "login", "guest"),
//	    )
//	})
func WithRoutes(loaders ...RouteLoader) Option {
	return func(a *App) {
		a.loaders = append(a.loaders, loaders...)
	}
}

// WithNamedMiddleware registers middleware that routes can reference by name.
// Registering an existing name replaces it.
func WithNamedMiddleware(name string, mw Middleware) Option {
	return func(a *App) {
		a.named.Register(name, mw)
	}
}

// WithMiddleware adds middleware run on every request, before named middleware.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithValidator replaces the validator used by Context.Validate.
func WithValidator(v *validator.Validator) Option {
	return func(a *App) {
		a.validator = v
	}
}

// WithLoginPath sets where unauthenticated requests are sent when an action
// returns session.ErrUnauthenticated. Defaults to "/".
func WithLoginPath(path string) Option {
	return func(a *App) {
		if path != "" {
			a.loginPath = path
		}
	}
}

// WithMaxFormMemory sets the memory limit for multipart parsing. Larger
// uploads spill to temporary files.
func WithMaxFormMemory(bytes int64) Option {
	return func(a *App) {
		if bytes > 0 {
			a.maxFormMemory = bytes
		}
	}
}

// WithStaticFiles mounts a static file handler at the given pattern.
// Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	maxitsa.New(
//	    maxitsa.WithStaticFiles("/assets/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}

		fileServer := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}

			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")

			fileServer.ServeHTTP(w, r)
		})

		a.staticRoutes = append(a.staticRoutes, staticRoute{handler, pattern})
	}
}

// WithErrorHandler sets a custom error handler for action errors.
// Redirects and unauthenticated errors never reach it.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler replaces the static not-found view.
// It answers unknown paths and known paths requested with another method.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		if h != nil {
			a.notFound = h
		}
	}
}

// WithHealthChecks enables health check endpoints with optional configuration.
//
// Example:
//
//	maxitsa.WithHealthChecks(
//	    maxitsa.WithReadinessCheck("postgres", db.Healthcheck(pool)),
//	    maxitsa.WithReadinessCheck("redis", redis.Healthcheck(client)),
//	)
func WithHealthChecks(opts ...HealthOption) Option {
	return func(a *App) {
		cfg := &healthConfig{
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
		for _, opt := range opts {
			opt(cfg)
		}
		a.healthConfig = cfg
	}
}

// WithLogger creates a logger with a component name and optional extractors.
//
// Example:
//
//	maxitsa.New(
//	    maxitsa.WithLogger("web", middlewares.RequestIDExtractor()),
//	)
func WithLogger(component string, extractors ...logger.ContextExtractor) Option {
	return func(a *App) {
		a.logger = logger.New(extractors...).With("component", component)
	}
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithSession enables server-side sessions backed by store.
// Sessions are started lazily and saved before the response is written.
//
// Example:
//
//	maxitsa.WithSession(session.NewRedisStore(client),
//	    maxitsa.WithSessionMaxAge(3600),
//	    maxitsa.WithSessionSecure(true),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessionManager = NewSessionManager(store, opts...)
	}
}
