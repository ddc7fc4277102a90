package routekit

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/cache"
	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/logger"
	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/session"
)

// Type aliases - public API
type (
	// App serves a route tree and plain handlers.
	App = internal.App

	// Router is the interface handlers use to declare routes.
	Router = internal.Router

	// Context provides request/response access, sessions, auth and navigation.
	Context = internal.Context

	// Handler declares routes on a router.
	Handler = internal.Handler

	// HandlerFunc is the signature for route handlers.
	HandlerFunc = internal.HandlerFunc

	// Middleware wraps a HandlerFunc to add cross-cutting concerns.
	Middleware = internal.Middleware

	// ErrorHandler handles errors returned from handlers.
	ErrorHandler = internal.ErrorHandler

	// Option configures the application.
	Option = internal.Option

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Component renders HTML. templ.Component satisfies it.
	Component = internal.Component

	// ComponentFunc builds a route's view around its child outlet.
	ComponentFunc = internal.ComponentFunc

	// Route is a node of the route tree.
	Route = internal.Route

	// RouteOption configures a Route.
	RouteOption = internal.RouteOption

	// RouteTree indexes routes by ID and path.
	RouteTree = internal.RouteTree

	// Location is a path plus its validated search.
	Location = internal.Location

	// Match is a resolved navigation.
	Match = internal.Match

	// LoaderArgs is what a loader sees.
	LoaderArgs = internal.LoaderArgs

	// LoaderFunc fetches route data.
	LoaderFunc = internal.LoaderFunc

	// SearchValidator validates and normalizes a route's search.
	SearchValidator = internal.SearchValidator

	// NavigationError reports a navigation rejected by a validator.
	NavigationError = internal.NavigationError

	// HTTPError is an error with an HTTP status.
	HTTPError = internal.HTTPError

	// HTTPErrorOption configures an HTTPError.
	HTTPErrorOption = internal.HTTPErrorOption

	// SessionOption configures the session manager.
	SessionOption = internal.SessionOption

	// MetricsOption configures navigation metrics.
	MetricsOption = internal.MetricsOption

	// ResponseWriter wraps http.ResponseWriter with hooks and HTMX support.
	ResponseWriter = internal.ResponseWriter

	// ContextExtractor extracts a slog attribute from context.
	ContextExtractor = logger.ContextExtractor

	// Session represents a user session.
	Session = session.Session

	// SessionStore defines the interface for session persistence.
	SessionStore = session.Store

	// Search is a route's search object.
	Search = search.Params
)

// RootRouteID identifies the root route.
const RootRouteID = internal.RootRouteID

// OutletID is the element id the root layout renders child routes into.
const OutletID = internal.OutletID

// Errors
var (
	ErrRouteNotFound  = internal.ErrRouteNotFound
	ErrNoComponent    = internal.ErrNoComponent
	ErrDuplicateRoute = internal.ErrDuplicateRoute
	ErrLoaderTimeout  = internal.ErrLoaderTimeout
	ErrInvalidQuery   = internal.ErrInvalidQuery
)

// New creates a new application with the given options.
// The App is immutable after creation.
//
// Example:
//
//	app := routekit.New(
//	    routekit.WithRoutes(routes.Root()),
//	    routekit.WithSession(session.NewMemoryStore()),
//	    routekit.WithHandlers(handlers.NewAuth()),
//	)
//
//	err := app.Run(":8080", routekit.Logger(log))
func New(opts ...Option) *App {
	return internal.New(opts...)
}

// Routes

// NewRootRoute creates the root route.
func NewRootRoute(opts ...RouteOption) *Route {
	return internal.NewRootRoute(opts...)
}

// NewRoute creates a child of parent at path.
func NewRoute(parent *Route, path string, opts ...RouteOption) *Route {
	return internal.NewRoute(parent, path, opts...)
}

// NewIndexRoute creates parent's index route.
func NewIndexRoute(parent *Route, opts ...RouteOption) *Route {
	return internal.NewIndexRoute(parent, opts...)
}

// NewRouteTree indexes a route tree.
func NewRouteTree(root *Route) (*RouteTree, error) {
	return internal.NewRouteTree(root)
}

// ValidateSearch sets the route's search validator.
func ValidateSearch(v SearchValidator) RouteOption {
	return internal.ValidateSearch(v)
}

// PreSearchFilters adds filters applied to every search reaching the route.
func PreSearchFilters(filters ...search.Filter) RouteOption {
	return internal.PreSearchFilters(filters...)
}

// Loader sets the route's loader.
func Loader(fn LoaderFunc) RouteOption {
	return internal.Loader(fn)
}

// View sets the route's component.
func View(fn ComponentFunc) RouteOption {
	return internal.View(fn)
}

// App options

// WithRoutes serves the route tree under root.
func WithRoutes(root *Route) Option {
	return internal.WithRoutes(root)
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithMiddleware adds global middleware to the application.
func WithMiddleware(mw ...Middleware) Option {
	return internal.WithMiddleware(mw...)
}

// WithHandlers registers handlers that declare routes.
func WithHandlers(h ...Handler) Option {
	return internal.WithHandlers(h...)
}

// WithStaticFiles mounts subDir of fsys at pattern.
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return internal.WithStaticFiles(pattern, fsys, subDir)
}

// WithErrorHandler sets a custom error handler.
func WithErrorHandler(h ErrorHandler) Option {
	return internal.WithErrorHandler(h)
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return internal.WithNotFoundHandler(h)
}

// WithSession enables server-side sessions.
func WithSession(store SessionStore, opts ...SessionOption) Option {
	return internal.WithSession(store, opts...)
}

// WithLoaderCache caches loader results for ttl.
func WithLoaderCache(c cache.Cache[any], ttl time.Duration) Option {
	return internal.WithLoaderCache(c, ttl)
}

// WithLoaderTimeout bounds every loader call.
func WithLoaderTimeout(d time.Duration) Option {
	return internal.WithLoaderTimeout(d)
}

// WithPendingComponent sets the component shown while a navigation is in flight.
func WithPendingComponent(c Component) Option {
	return internal.WithPendingComponent(c)
}

// WithMetrics exposes Prometheus metrics.
func WithMetrics(opts ...MetricsOption) Option {
	return internal.WithMetrics(opts...)
}

// WithHealthChecks enables /health/live and /health/ready.
//
// Example:
//
//	routekit.WithHealthChecks(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	})
func WithHealthChecks(checks health.Checks, opts ...health.Option) Option {
	return internal.WithHealthChecks(checks, opts...)
}

// Session options

// SessionCookieName sets the session cookie name. Default: "__sid".
func SessionCookieName(name string) SessionOption {
	return internal.SessionCookieName(name)
}

// SessionMaxAge sets the session lifetime.
func SessionMaxAge(d time.Duration) SessionOption {
	return internal.SessionMaxAge(d)
}

// SessionSecure sets the cookie Secure flag.
func SessionSecure(secure bool) SessionOption {
	return internal.SessionSecure(secure)
}

// SessionSameSite sets the cookie SameSite mode.
func SessionSameSite(mode http.SameSite) SessionOption {
	return internal.SessionSameSite(mode)
}

// Metrics options

// MetricsNamespace sets the metric name prefix.
func MetricsNamespace(ns string) MetricsOption {
	return internal.MetricsNamespace(ns)
}

// MetricsPath sets the exposition path.
func MetricsPath(path string) MetricsOption {
	return internal.MetricsPath(path)
}

// MetricsBuckets sets loader duration buckets.
func MetricsBuckets(b []float64) MetricsOption {
	return internal.MetricsBuckets(b)
}

// Run options

// Logger sets the runtime logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout sets the timeout for graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook runs fn before the server starts listening.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the base context for signal handling.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// Errors

// NewHTTPError creates an HTTPError.
func NewHTTPError(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return internal.NewHTTPError(code, message, opts...)
}

// StatusCode maps err to an HTTP status.
func StatusCode(err error) int {
	return internal.StatusCode(err)
}

// AsNavigationError returns the NavigationError in err's chain, or nil.
func AsNavigationError(err error) *NavigationError {
	return internal.AsNavigationError(err)
}

// RouteIDExtractor adds route_id to log records emitted during a navigation.
func RouteIDExtractor() ContextExtractor {
	return internal.RouteIDExtractor()
}

// AsHTTPError returns the HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}
