package internal

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/maxitsa/maxitsa/pkg/container"
	"github.com/maxitsa/maxitsa/pkg/health"
	"github.com/maxitsa/maxitsa/pkg/logger"
	"github.com/maxitsa/maxitsa/pkg/session"
	"github.com/maxitsa/maxitsa/pkg/validator"
)

// Default server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

const (
	defaultLoginPath     = "/"
	defaultMaxFormMemory = 10 << 20
)

//go:embed views/404.html
var notFoundView string

// App owns the route table, the named middleware and the dependency
// container of one site, and dispatches requests to controller actions.
//
// Route declarations are loaded on the first request or on an explicit call
// to Load. Loading resolves every controller action and every middleware
// name, so a bad declaration fails before any request is served. A failed
// load is not kept: the next call tries again.
type App struct {
	routes       *RouteTable
	loaders      []RouteLoader
	named        *MiddlewareRegistry
	middlewares  []Middleware
	container    *container.Container
	validator    *validator.Validator
	logger       *slog.Logger
	errorHandler ErrorHandler
	notFound     HandlerFunc
	healthConfig *healthConfig

	sessionManager *SessionManager
	loginPath      string
	maxFormMemory  int64
	staticRoutes   []staticRoute

	loadMu   sync.Mutex
	declared bool
	mux      atomic.Pointer[chi.Mux]
}

// staticRoute represents a static file handler mount point.
type staticRoute struct {
	handler http.Handler
	pattern string
}

// New creates a new application with the given options.
//
// Example:
//
//	app := maxitsa.New(
//	    maxitsa.WithContainer(deps),
//	    maxitsa.WithRoutes(maxitsa.YAMLRoutes(routesYAML)),
//	    maxitsa.WithSession(store),
//	)
func New(opts ...Option) *App {
	a := &App{
		routes:        NewRouteTable(),
		named:         NewMiddlewareRegistry(),
		logger:        logger.NewNope(), // Default: noop logger (before options)
		loginPath:     defaultLoginPath,
		maxFormMemory: defaultMaxFormMemory,
	}

	for _, opt := range opts {
		opt(a)
	}

	if a.sessionManager != nil {
		a.sessionManager.SetLogger(a.logger)
	}
	if a.validator == nil {
		vopts := []validator.Option{validator.WithLogger(a.logger)}
		if a.container != nil {
			vopts = append(vopts, validator.WithResolver(a.container))
		}
		a.validator = validator.New(vopts...)
	}
	if a.notFound == nil {
		a.notFound = func(c Context) error {
			return c.HTML(http.StatusNotFound, notFoundView)
		}
	}

	return a
}

// Load runs the route declarations and builds the dispatcher. Once a load
// succeeds later calls return nil at once; after a failure the next call
// runs it again. Route loaders run until they first succeed together.
func (a *App) Load() error {
	if a.mux.Load() != nil {
		return nil
	}

	a.loadMu.Lock()
	defer a.loadMu.Unlock()
	if a.mux.Load() != nil {
		return nil
	}

	mux, err := a.load()
	if err != nil {
		a.logger.Error("route table load failed", slog.Any("error", err))
		return err
	}
	a.mux.Store(mux)
	return nil
}

func (a *App) load() (_ *chi.Mux, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrRouteLoad, r)
		}
	}()

	if !a.declared {
		rt := NewRouteTable()
		var errs []error
		for _, load := range a.loaders {
			if err := load(rt); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) > 0 {
			return nil, errors.Join(append([]error{ErrRouteLoad}, errs...)...)
		}
		a.routes = rt
		a.declared = true
	}

	var errs []error
	mux := chi.NewRouter()
	notFound := a.wrap(a.notFound, nil)
	mux.NotFound(notFound)
	mux.MethodNotAllowed(notFound)

	for _, sr := range a.staticRoutes {
		mux.Mount(sr.pattern, sr.handler)
	}

	if a.healthConfig != nil {
		mux.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		mux.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	routes := a.routes.Routes()
	for _, route := range routes {
		chain, err := a.named.chain(route)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		action, err := a.action(route)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := mount(mux, route, a.wrap(action, chain)); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	a.logger.Info("route table loaded", slog.Int("routes", len(routes)))
	return mux, nil
}

// mount registers one route on mux, reporting chi's pattern panics as
// ErrInvalidRoute.
func mount(mux *chi.Mux, route Route, h http.Handler) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s %s: %v", ErrInvalidRoute, route.Method, route.Path, r)
		}
	}()
	mux.Method(route.Method, route.Path, h)
	return nil
}

// action resolves the controller of a route through the container and picks
// the named action.
func (a *App) action(route Route) (HandlerFunc, error) {
	if a.container == nil {
		return nil, fmt.Errorf("%w: %q (route %s %s): no container configured",
			ErrUnknownController, route.Controller, route.Method, route.Path)
	}
	dep, err := a.container.Get(route.Controller)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (route %s %s): %w",
			ErrUnknownController, route.Controller, route.Method, route.Path, err)
	}
	ctrl, ok := dep.(Controller)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %T, not a controller", ErrUnknownController, route.Controller, dep)
	}
	h, ok := ctrl.Actions()[route.Action]
	if !ok || h == nil {
		return nil, fmt.Errorf("%w: %s (route %s %s)", ErrUnknownAction, route.Handler(), route.Method, route.Path)
	}
	return h, nil
}

// ServeHTTP loads the route table if needed and dispatches the request.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := a.Load(); err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.mux.Load().ServeHTTP(w, r)
}

// Lookup returns the route declared for the exact method and path.
func (a *App) Lookup(method, path string) (Route, bool) {
	if err := a.Load(); err != nil {
		return Route{}, false
	}
	return a.routes.Lookup(method, path)
}

// Routes returns the loaded routes sorted by path.
func (a *App) Routes() []Route {
	if err := a.Load(); err != nil {
		return nil
	}
	return a.routes.Routes()
}

// Container returns the dependency container, or nil.
func (a *App) Container() *container.Container {
	return a.container
}

// Run loads the routes, starts the HTTP server and blocks until shutdown.
//
// Example:
//
//	err := app.Run(":8080", maxitsa.Logger(log), maxitsa.ShutdownHook(db.Shutdown(pool)))
func (a *App) Run(addr string, opts ...RunOption) error {
	if err := a.Load(); err != nil {
		return err
	}
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(runtimeConfig{
		handler:         a,
		address:         addr,
		logger:          cfg.logger,
		shutdownTimeout: cfg.shutdownTimeout,
		shutdownHooks:   cfg.shutdownHooks,
		baseCtx:         cfg.baseCtx,
	})
}

// wrap builds the http handler of one route: global middleware, then the
// route's named middleware in declared order, then the action.
func (a *App) wrap(h HandlerFunc, chain []Middleware) http.HandlerFunc {
	for i := len(chain) - 1; i >= 0; i-- {
		h = chain[i](h)
	}
	for i := len(a.middlewares) - 1; i >= 0; i-- {
		h = a.middlewares[i](h)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
		c.response.Finish()
	}
}

// handleError turns an error from the chain into a response.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		c.LogError("error after response was written", slog.Any("error", err))
		return
	}

	if rd := AsRedirect(err); rd != nil {
		_ = c.Redirect(rd.Code, rd.URL)
		return
	}
	if errors.Is(err, session.ErrUnauthenticated) {
		_ = c.Redirect(http.StatusFound, a.loginPath)
		return
	}

	if a.errorHandler != nil {
		if herr := a.errorHandler(c, err); herr != nil {
			c.LogError("error handler failed", slog.Any("error", herr), slog.Any("cause", err))
		}
		return
	}

	if httpErr := AsHTTPError(err); httpErr != nil {
		if httpErr.Code == http.StatusNotFound {
			_ = a.notFound(c)
			return
		}
		if httpErr.Code >= http.StatusInternalServerError {
			c.LogError("request failed", slog.Any("error", err))
		}
		http.Error(c.Response(), httpErr.Message, httpErr.Code)
		return
	}

	c.LogError("request failed", slog.Any("error", err))
	http.Error(c.Response(), "Internal Server Error", http.StatusInternalServerError)
}

// healthConfig holds health check endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

// Default health check paths.
const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// HealthOption configures health check endpoints.
type HealthOption func(*healthConfig)

// WithLivenessPath sets a custom liveness endpoint path.
// Defaults to "/health/live".
func WithLivenessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.livenessPath = path
		}
	}
}

// WithReadinessPath sets a custom readiness endpoint path.
// Defaults to "/health/ready".
func WithReadinessPath(path string) HealthOption {
	return func(c *healthConfig) {
		if path != "" {
			c.readinessPath = path
		}
	}
}

// WithReadinessCheck adds a named readiness check.
//
// Example:
//
//	maxitsa.WithReadinessCheck("postgres", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return func(c *healthConfig) {
		if c.checks == nil {
			c.checks = make(health.Checks)
		}
		c.checks[name] = fn
	}
}
