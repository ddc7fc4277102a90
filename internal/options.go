package internal

import (
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/routekit/pkg/cache"
	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/session"
)

// Option configures the application.
type Option func(*App)

// WithRoutes serves the tree under root. Every route path answers GET.
func WithRoutes(root *Route) Option {
	return func(a *App) {
		a.root = root
	}
}

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware adds global middleware to the application.
// Middleware is applied in the order provided.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers that declare routes.
// Each handler's Routes method is called during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithStaticFiles mounts subDir of fsys at pattern. Directory listings are disabled.
//
// Example:
//
//	//go:embed public
//	var assets embed.FS
//
//	routekit.New(
//	    routekit.WithStaticFiles("/static/", assets, "public"),
//	)
func WithStaticFiles(pattern string, fsys fs.FS, subDir string) Option {
	return func(a *App) {
		subFS, err := fs.Sub(fsys, subDir)
		if err != nil {
			panic(err)
		}
		files := http.StripPrefix(strings.TrimSuffix(pattern, "/"), http.FileServerFS(subFS))

		handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasSuffix(r.URL.Path, "/") {
				http.NotFound(w, r)
				return
			}
			w.Header().Set("Cache-Control", "public, max-age=3600")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			files.ServeHTTP(w, r)
		})

		a.static = append(a.static, staticRoute{pattern: pattern, handler: handler})
	}
}

// WithErrorHandler sets a custom error handler for handler errors.
// If it returns an error, the default plain text handler runs instead.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom 404 handler.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFound = h
	}
}

// WithSession enables server-side sessions, which carry the auth state
// and navigation history.
//
// Example:
//
//	routekit.New(
//	    routekit.WithSession(session.NewMemoryStore(),
//	        routekit.SessionMaxAge(24*time.Hour),
//	        routekit.SessionSecure(true),
//	    ),
//	)
func WithSession(store session.Store, opts ...SessionOption) Option {
	return func(a *App) {
		a.sessions = NewSessionManager(store, opts...)
	}
}

// WithLoaderCache caches loader results in c for ttl.
// Concurrent loads of the same key run once.
func WithLoaderCache(c cache.Cache[any], ttl time.Duration) Option {
	return func(a *App) {
		if c != nil {
			a.loaders.cache = cache.NewLoader(c, ttl)
		}
	}
}

// WithLoaderTimeout bounds every loader call.
func WithLoaderTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.loaders.timeout = d
		}
	}
}

// WithPendingComponent sets the component shown while a navigation is in flight.
func WithPendingComponent(c Component) Option {
	return func(a *App) {
		a.pending = c
	}
}

// WithMetrics exposes Prometheus metrics for navigations and loaders.
func WithMetrics(opts ...MetricsOption) Option {
	return func(a *App) {
		a.metrics = NewMetrics(opts...)
	}
}

// WithHealthChecks enables /health/live and /health/ready.
// Readiness runs every check in checks.
//
// Example:
//
//	routekit.WithHealthChecks(health.Checks{
//	    "redis": redis.Healthcheck(client),
//	})
func WithHealthChecks(checks health.Checks, opts ...health.Option) Option {
	return func(a *App) {
		a.health = health.New(checks, opts...)
	}
}
