package maxitsa

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/maxitsa/maxitsa/internal"
	"github.com/maxitsa/maxitsa/middlewares"
	"github.com/maxitsa/maxitsa/pkg/container"
	"github.com/maxitsa/maxitsa/pkg/health"
	"github.com/maxitsa/maxitsa/pkg/logger"
	"github.com/maxitsa/maxitsa/pkg/session"
	"github.com/maxitsa/maxitsa/pkg/validator"
)

// Type aliases - public API
type (
	// App loads the route table, dispatches requests and runs the server.
	App = internal.App

	// Context provides request/response access and helper methods.
	Context = internal.Context

	// HandlerFunc is the signature for controller actions.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from actions and middleware.
	ErrorHandler = internal.ErrorHandler

	// Controller exposes named actions to route declarations.
	Controller = internal.Controller

	// Route binds a method and path to a controller action.
	Route = internal.Route

	// RouteTable stores routes keyed by method and path.
	RouteTable = internal.RouteTable

	// RouteLoader declares routes on a table.
	RouteLoader = internal.RouteLoader

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// HealthOption configures health check endpoints.
	HealthOption = internal.HealthOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// Component is the interface for renderable templates.
	Component = internal.Component

	// ResponseWriter wraps http.ResponseWriter with before-write hooks.
	ResponseWriter = internal.ResponseWriter

	// HTTPError carries a status code and a user-facing message.
	HTTPError = internal.HTTPError

	// RedirectError ends a request with a redirect.
	RedirectError = internal.RedirectError

	// UnsupportedMiddlewareError reports an unregistered middleware name.
	UnsupportedMiddlewareError = internal.UnsupportedMiddlewareError

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Container is the dependency container.
	Container = container.Container

	// Registry lists dependency factories by key.
	Registry = container.Registry

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// Gate exposes one browser session for the duration of a request.
	Gate = session.Gate

	// Principal is the authenticated user held in session state.
	Principal = session.Principal

	// Rules maps field names to validation rule chains.
	Rules = validator.Rules

	// Messages maps "field.rule" or "field" to a custom error message.
	Messages = validator.Messages

	// ValidationResult maps each failing field to its first error message.
	ValidationResult = validator.Result
)

// Errors
var (
	ErrUnsupportedMiddleware = internal.ErrUnsupportedMiddleware
	ErrUnknownController     = internal.ErrUnknownController
	ErrUnknownAction         = internal.ErrUnknownAction
	ErrRouteLoad             = internal.ErrRouteLoad
	ErrInvalidRoute          = internal.ErrInvalidRoute
	ErrUnauthenticated       = session.ErrUnauthenticated
)

// New creates a new application with the given options.
// The "auth" and "guest" route middleware are registered before the options
// run, so WithNamedMiddleware can replace them.
//
// Example:
//
//	app := maxitsa.New(
//	    maxitsa.WithContainer(deps),
//	    maxitsa.WithSession(session.NewRedisStore(client)),
//	    maxitsa.WithRoutes(maxitsa.YAMLRoutes(routesYAML)),
//	)
//
//	err := app.Run(":8080", maxitsa.ShutdownHook(db.Shutdown(pool)))
func New(opts ...Option) *App {
	defaults := []Option{
		internal.WithNamedMiddleware("auth", middlewares.Auth()),
		internal.WithNamedMiddleware("guest", middlewares.Guest()),
	}
	return internal.New(append(defaults, opts...)...)
}

// NewContainer builds a container whose registry is produced by loader on
// first use.
func NewContainer(loader func() *Registry) *Container {
	return container.New(loader)
}

// NewRegistry returns an empty dependency registry.
func NewRegistry() *Registry {
	return container.NewRegistry()
}

// Resolve returns the dependency under key as a T.
//
// Example:
//
//	repo, err := maxitsa.Resolve[*repository.Users](c.Container(), "userRepository")
func Resolve[T any](c *Container, key string) (T, error) {
	return container.Resolve[T](c, key)
}

// App options

// WithContainer sets the dependency container.
func WithContainer(c *Container) Option {
	return internal.WithContainer(c)
}

// NewRouteTable returns an empty route table, for running loaders outside an App.
func NewRouteTable() *RouteTable {
	return internal.NewRouteTable()
}

// WithRoutes adds route loaders. They run on first load, until they succeed.
func WithRoutes(loaders ...RouteLoader) Option {
	return internal.WithRoutes(loaders...)
}

// YAMLRoutes returns a loader for a YAML route file.
//
// Example:
//
//	//go:embed routes.yaml
//	var routesYAML []byte
//
//	maxitsa.WithRoutes(maxitsa.YAMLRoutes(routesYAML))
func YAMLRoutes(data []byte) RouteLoader {
	return internal.YAMLRoutes(data)
}

// WithNamedMiddleware registers middleware under a name usable in route declarations.
func WithNamedMiddleware(name string, mw Middleware) Option {
	return internal.WithNamedMiddleware(name, mw)
}

// WithMiddleware adds global middleware, run before any route middleware.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithValidator replaces the form validator.
func WithValidator(v *validator.Validator) Option {
	return internal.WithValidator(v)
}

// WithLoginPath sets where ErrUnauthenticated redirects. Defaults to "/".
func WithLoginPath(path string) Option {
	return internal.WithLoginPath(path)
}

// WithMaxFormMemory sets the memory limit for multipart form parsing.
func WithMaxFormMemory(bytes int64) Option {
	return internal.WithMaxFormMemory(bytes)
}

// WithStaticFiles mounts a static file handler at the given pattern.
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
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler replaces the built-in 404 page.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithHealthChecks enables health check endpoints.
// Liveness (/health/live) always answers OK; readiness (/health/ready) runs all checks.
func WithHealthChecks(opts ...HealthOption) Option {
	return internal.WithHealthChecks(opts...)
}

// WithLogger creates a logger with a component name and optional extractors.
func WithLogger(component string, extractors ...ContextExtractor) Option {
	return internal.WithLogger(component, extractors...)
}

// WithCustomLogger sets a fully custom logger.
func WithCustomLogger(l *slog.Logger) Option {
	return internal.WithCustomLogger(l)
}

// WithSession enables server-side sessions backed by store.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// Session options

// WithSessionCookieName sets the session cookie name. Defaults to "maxitsa_session".
func WithSessionCookieName(name string) SessionOption {
	return internal.WithSessionCookieName(name)
}

// WithSessionMaxAge sets the session lifetime in seconds. Defaults to 24 hours.
func WithSessionMaxAge(seconds int) SessionOption {
	return internal.WithSessionMaxAge(seconds)
}

// WithSessionDomain sets the session cookie domain.
func WithSessionDomain(domain string) SessionOption {
	return internal.WithSessionDomain(domain)
}

// WithSessionSecure sets the session cookie Secure flag.
func WithSessionSecure(secure bool) SessionOption {
	return internal.WithSessionSecure(secure)
}

// WithSessionSameSite sets the session cookie SameSite attribute.
func WithSessionSameSite(sameSite http.SameSite) SessionOption {
	return internal.WithSessionSameSite(sameSite)
}

// Health check options

// WithLivenessPath sets a custom liveness endpoint path.
func WithLivenessPath(path string) HealthOption {
	return internal.WithLivenessPath(path)
}

// WithReadinessPath sets a custom readiness endpoint path.
func WithReadinessPath(path string) HealthOption {
	return internal.WithReadinessPath(path)
}

// WithReadinessCheck adds a named readiness check.
// Checks run in parallel during the readiness probe.
func WithReadinessCheck(name string, fn health.CheckFunc) HealthOption {
	return internal.WithReadinessCheck(name, fn)
}

// Run options

// Logger sets the server logger. Defaults to the App logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown. Defaults to 30 seconds.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// ShutdownHook registers a cleanup function to run during shutdown.
//
// Example:
//
//	maxitsa.ShutdownHook(db.Shutdown(pool))
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors and context helpers

// Redirect returns an error that ends the request with a 302 to url.
func Redirect(url string) *RedirectError {
	return internal.Redirect(url)
}

// ErrNotFound returns a 404 HTTPError, answered with the not-found page.
func ErrNotFound(message string) *HTTPError {
	return internal.ErrNotFound(message)
}

// ErrBadRequest returns a 400 HTTPError.
func ErrBadRequest(message string) *HTTPError {
	return internal.ErrBadRequest(message)
}

// ErrForbidden returns a 403 HTTPError.
func ErrForbidden(message string) *HTTPError {
	return internal.ErrForbidden(message)
}

// ContextValue retrieves a typed value from the request context.
// Returns the zero value of T if the key is not found or has another type.
func ContextValue[T any](c Context, key any) T {
	return internal.ContextValue[T](c, key)
}

// Param converts a bound path segment. A segment that does not parse is a 404.
//
// Example:
//
//	id, err := maxitsa.Param[int64](c, "id")
func Param[T string | int | int64 | float64 | bool](c Context, name string) (T, error) {
	return internal.Param[T](c, name)
}

// Query returns a typed query parameter, or def when it is missing or does not parse.
func Query[T string | int | int64 | float64 | bool](c Context, name string, def T) T {
	return internal.Query[T](c, name, def)
}
