package internal

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/htmx"
	"github.com/dmitrymomot/routekit/pkg/logger"
	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20
	defaultShutdownTimeout   = 30 * time.Second

	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)

// OutletID is the element id the root layout renders child routes into.
// HTMX requests targeting it get the page without the root layout.
const OutletID = "outlet"

// App serves a route tree and plain handlers. It is immutable after New.
type App struct {
	router       chi.Router
	tree         *RouteTree
	root         *Route
	logger       *slog.Logger
	errorHandler ErrorHandler
	notFound     HandlerFunc
	sessions     *SessionManager
	loaders      loaderRunner
	metrics      *Metrics
	pending      Component
	health       *health.Checker
	middlewares  []Middleware
	handlers     []Handler
	static       []staticRoute
}

type staticRoute struct {
	pattern string
	handler http.Handler
}

// New builds an App. It panics if the route tree is malformed.
func New(opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewNope(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.loaders.metrics = a.metrics

	if a.root != nil {
		tree, err := NewRouteTree(a.root)
		if err != nil {
			panic(err)
		}
		a.tree = tree
	}

	a.setupRoutes()
	return a
}

// ServeHTTP makes App an http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// Router exposes the chi router.
func (a *App) Router() chi.Router { return a.router }

// Tree returns the route tree, nil if no routes were configured.
func (a *App) Tree() *RouteTree { return a.tree }

// Run serves the app on addr until SIGINT or SIGTERM. On shutdown the
// readiness endpoint reports draining before the listener closes.
func (a *App) Run(addr string, opts ...RunOption) error {
	return newServer(a, addr, buildRunConfig(opts...)).run()
}

func (a *App) setupRoutes() {
	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	a.router.NotFound(a.wrap(func(c Context) error {
		if a.notFound != nil {
			return a.notFound(c)
		}
		return ErrNotFound("Page not found")
	}))
	a.router.MethodNotAllowed(a.wrap(func(c Context) error {
		return ErrMethodNotAllowed("Method not allowed")
	}))

	for _, sr := range a.static {
		a.router.Handle(strings.TrimSuffix(sr.pattern, "/")+"/*", sr.handler)
	}

	if a.health != nil {
		a.router.Get(defaultLivenessPath, health.Liveness())
		a.router.Get(defaultReadinessPath, a.health.Readiness())
	}
	if a.metrics != nil {
		a.router.Handle(a.metrics.Path(), a.metrics.Handler())
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}

	if a.tree != nil {
		for _, path := range a.tree.Paths() {
			a.router.Get(path, a.wrap(a.navigate))
		}
	}
}

// navigate serves a landing request: the query string is the search update
// applied to an empty current search.
func (a *App) navigate(c Context) error {
	rc := c.(*requestContext)
	r := rc.r

	query, err := search.ParseQuery(r.URL.RawQuery)
	if err != nil {
		a.metrics.navigation("", "bad_query")
		return ErrBadRequest("Malformed query string", WithError(errors.Join(ErrInvalidQuery, err)))
	}

	m, err := a.tree.Resolve(Location{Search: search.Params{}}, r.URL.Path, search.Set(query))
	if err != nil {
		if ne := AsNavigationError(err); ne != nil {
			a.metrics.navigation(ne.RouteID, "invalid")
			for _, field := range ne.ValidationErrors().Fields() {
				a.metrics.validationFailure(ne.RouteID, field)
			}
		}
		return err
	}

	leaf := m.Leaf()
	rc.r = rc.r.WithContext(withRouteID(rc.r.Context(), leaf.ID()))
	state := rc.Auth()
	rc.threadAuth(state)

	params := map[string]string{}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, k := range rctx.URLParams.Keys {
			params[k] = rctx.URLParams.Values[i]
		}
	}
	if err := a.loaders.run(rc, m, params, state); err != nil {
		a.metrics.navigation(leaf.ID(), "loader_error")
		return err
	}
	rc.match = m

	href := m.Location.Href()
	if !htmx.IsPreload(r) {
		if err := rc.pushHistory(href); err != nil {
			rc.LogWarn("record navigation", slog.String("error", err.Error()))
		}
		if rc.IsHTMX() {
			htmx.PushURL(rc.w, href)
		}
	}

	view := a.compose(rc, m)
	if view == nil {
		return ErrNoComponent
	}
	a.metrics.navigation(leaf.ID(), "ok")
	return rc.Render(http.StatusOK, view)
}

// compose renders the chain leaf first, feeding each result to its parent
// as the outlet. Routes without a component pass the outlet through.
func (a *App) compose(c *requestContext, m *Match) Component {
	routes := m.Routes
	if c.IsHTMX() && c.Header(htmx.HeaderTarget) == OutletID && len(routes) > 0 && routes[0].IsRoot() {
		routes = routes[1:]
	}

	var outlet Component
	for i := len(routes) - 1; i >= 0; i-- {
		if fn := routes[i].component; fn != nil {
			outlet = fn(c, outlet)
		}
	}
	return outlet
}

// wrap adapts h to net/http, routing returned errors to the error handler.
func (a *App) wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

func (a *App) handleError(c Context, err error) {
	if c.Written() {
		a.logger.ErrorContext(c, "error after response started", slog.String("error", err.Error()))
		return
	}
	if a.errorHandler != nil {
		herr := a.errorHandler(c, err)
		if herr == nil {
			return
		}
		a.logger.ErrorContext(c, "error handler failed", slog.String("error", herr.Error()))
	}
	defaultErrorHandler(c, err)
}

// defaultErrorHandler writes a plain text error, listing fields for
// rejected search params.
func defaultErrorHandler(c Context, err error) {
	code := StatusCode(err)
	msg := http.StatusText(code)
	if ve := validator.ExtractValidationErrors(err); ve != nil {
		msg = ve.Error()
	} else if he := AsHTTPError(err); he != nil && he.Message != "" {
		msg = he.Message
	}
	if code >= http.StatusInternalServerError {
		c.LogError("request failed", slog.String("error", err.Error()))
	}
	_ = c.String(code, msg)
}
