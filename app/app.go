// Package app wires the demo: routes, views, auth handlers and the
// storage backends chosen by configuration.
package app

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"

	goredis "github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/routekit"
	"github.com/dmitrymomot/routekit/app/views"
	"github.com/dmitrymomot/routekit/config"
	"github.com/dmitrymomot/routekit/middlewares"
	"github.com/dmitrymomot/routekit/pkg/cache"
	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/htmx"
	"github.com/dmitrymomot/routekit/pkg/markdown"
	"github.com/dmitrymomot/routekit/pkg/redis"
	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/session"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

//go:embed content/*.md
var contentFS embed.FS

//go:embed static
var staticFS embed.FS

// Deps are optional external connections. A nil Redis keeps sessions and
// the loader cache in memory.
type Deps struct {
	Redis goredis.UniversalClient
}

// Server is the configured demo app plus the resources it owns.
type Server struct {
	*routekit.App
	closers []func() error
}

// Content returns the markdown library backing page content.
func Content() *markdown.Library {
	sub, err := fs.Sub(contentFS, "content")
	if err != nil {
		panic(err)
	}
	return markdown.NewLibrary(sub, nil)
}

// loaderBuckets fit loaders that mostly answer from memory or redis.
var loaderBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

// NewServer builds the app from cfg.
func NewServer(cfg config.Config, log *slog.Logger, deps Deps) *Server {
	s := &Server{}

	opts := []routekit.Option{
		routekit.WithLogger(log),
		routekit.WithRoutes(Routes(log, Content())),
		routekit.WithHandlers(NewAuthHandler()),
		routekit.WithMiddleware(
			middlewares.RequestID(),
			middlewares.Recover(),
			middlewares.Logger(),
		),
		routekit.WithErrorHandler(ErrorHandler),
		routekit.WithPendingComponent(views.Spinner()),
		routekit.WithStaticFiles("/static/", staticFS, "static"),
		routekit.WithMetrics(routekit.MetricsBuckets(loaderBuckets)),
		routekit.WithSession(s.sessionStore(deps),
			routekit.SessionMaxAge(cfg.SessionMaxAge),
			routekit.SessionSecure(cfg.SessionSecure),
		),
		routekit.WithHealthChecks(s.healthChecks(deps), health.WithLogger(log)),
		routekit.WithLoaderTimeout(cfg.LoaderTimeout),
	}
	if cfg.LoaderCacheTTL > 0 {
		opts = append(opts, routekit.WithLoaderCache(s.loaderCache(deps), cfg.LoaderCacheTTL))
	}

	s.App = routekit.New(opts...)
	return s
}

func (s *Server) sessionStore(deps Deps) session.Store {
	if deps.Redis != nil {
		return session.NewCacheStore(
			cache.NewRedis[*session.Session](deps.Redis, nil, cache.WithPrefix("session")),
			cache.NewRedis[string](deps.Redis, nil, cache.WithPrefix("session-token")),
		)
	}
	store := session.NewMemoryStore()
	s.closers = append(s.closers, store.Close)
	return store
}

func (s *Server) loaderCache(deps Deps) cache.Cache[any] {
	if deps.Redis != nil {
		return cache.NewRedis[any](deps.Redis, search.JSONCodec{}, cache.WithPrefix("loader"))
	}
	c := cache.NewMemory[any](cache.WithMaxEntries(1024))
	s.closers = append(s.closers, c.Close)
	return c
}

func (s *Server) healthChecks(deps Deps) health.Checks {
	checks := health.Checks{}
	if deps.Redis != nil {
		checks["redis"] = redis.Healthcheck(deps.Redis)
	}
	return checks
}

// Close stops background workers of in-memory stores.
func (s *Server) Close() error {
	var errs []error
	for _, fn := range s.closers {
		errs = append(errs, fn())
	}
	return errors.Join(errs...)
}

// Shutdown adapts Close to a shutdown hook.
func (s *Server) Shutdown(context.Context) error { return s.Close() }

// ErrorHandler renders errors as pages, inside the layout unless HTMX is
// swapping the outlet.
func ErrorHandler(c routekit.Context, err error) error {
	code := routekit.StatusCode(err)
	msg := http.StatusText(code)
	if he := routekit.AsHTTPError(err); he != nil && he.Message != "" {
		msg = he.Message
	}
	fields := validator.ExtractValidationErrors(err)
	if len(fields) > 0 {
		msg = "Invalid search parameters"
		if routekit.AsNavigationError(err) == nil {
			msg = "Invalid form"
		}
	}
	if code >= http.StatusInternalServerError {
		c.LogError("request failed", slog.String("error", err.Error()))
	}

	page := views.ErrorPage(code, msg, fields)
	if c.IsHTMX() && c.Header(htmx.HeaderTarget) == routekit.OutletID {
		return c.Render(code, page)
	}
	return c.Render(code, views.Layout(c, page))
}
