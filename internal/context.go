package internal

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/routekit/pkg/auth"
	"github.com/dmitrymomot/routekit/pkg/htmx"
	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/session"
)

// Session keys holding the auth state. Plain strings survive any store encoding.
const (
	sessionAuthStatus   = "auth.status"
	sessionAuthUsername = "auth.username"
)

// Context is the per-request handle given to handlers, middlewares and
// components. It is also a context.Context backed by the request context.
type Context interface {
	context.Context

	Request() *http.Request
	Response() http.ResponseWriter
	ResponseWriter() *ResponseWriter

	// Param returns a chi URL parameter.
	Param(name string) string
	Query(name string) string
	Form(name string) string
	Header(name string) string
	SetHeader(name, value string)
	IsHTMX() bool

	JSON(code int, v any) error
	String(code int, s string) error
	NoContent(code int) error
	// Redirect is HTMX aware: HTMX requests get HX-Redirect with 200.
	Redirect(code int, url string) error
	// Render writes component as HTML with code.
	Render(code int, component Component) error
	// Error builds an HTTPError to return from a handler.
	Error(code int, message string, opts ...HTTPErrorOption) *HTTPError
	Written() bool

	Logger() *slog.Logger
	LogDebug(msg string, attrs ...any)
	LogInfo(msg string, attrs ...any)
	LogWarn(msg string, attrs ...any)
	LogError(msg string, attrs ...any)

	// Set stores a value on the request context.
	Set(key, value any)
	Get(key any) any

	// Session returns the current session or nil if the browser has none.
	// Returns session.ErrNotConfigured without a session manager.
	Session() (*session.Session, error)
	DestroySession() error

	// Auth returns the session's auth state; sessionless requests are logged out.
	Auth() auth.State
	// Login moves the session to logged in and rotates its token.
	Login(username string) error
	// Logout moves the session to logged out.
	Logout() error

	// Location is the current location: the validated one during a navigation,
	// otherwise the raw request path and query.
	Location() Location
	// Match is the resolved navigation, nil outside route views.
	Match() *Match
	// Search returns the validated search of a matched route.
	Search(routeID string) search.Params
	// LoaderData returns the loader result of a matched route.
	LoaderData(routeID string) any
	// Link resolves a navigation from the current location and returns its href.
	Link(to string, update search.Updater) (string, error)
	// Navigate resolves a navigation and redirects to it.
	Navigate(to string, update search.Updater) error
	// History lists this session's navigations, oldest first.
	History() []string
	// Pending returns the configured pending component, or nil.
	Pending() Component
}

type requestContext struct {
	w   *ResponseWriter
	r   *http.Request
	app *App

	match      *Match
	sess       *session.Session
	sessLoaded bool
	hookSet    bool
}

func newContext(w http.ResponseWriter, r *http.Request, app *App) *requestContext {
	rw, ok := w.(*ResponseWriter)
	if !ok {
		rw = NewResponseWriter(w, htmx.IsHTMX(r))
	}
	return &requestContext{w: rw, r: r, app: app}
}

func (c *requestContext) Deadline() (time.Time, bool) { return c.r.Context().Deadline() }
func (c *requestContext) Done() <-chan struct{}       { return c.r.Context().Done() }
func (c *requestContext) Err() error                  { return c.r.Context().Err() }
func (c *requestContext) Value(key any) any           { return c.r.Context().Value(key) }

func (c *requestContext) Request() *http.Request          { return c.r }
func (c *requestContext) Response() http.ResponseWriter   { return c.w }
func (c *requestContext) ResponseWriter() *ResponseWriter { return c.w }

func (c *requestContext) Param(name string) string  { return chi.URLParam(c.r, name) }
func (c *requestContext) Query(name string) string  { return c.r.URL.Query().Get(name) }
func (c *requestContext) Form(name string) string   { return c.r.FormValue(name) }
func (c *requestContext) Header(name string) string { return c.r.Header.Get(name) }
func (c *requestContext) SetHeader(name, value string) {
	c.w.Header().Set(name, value)
}
func (c *requestContext) IsHTMX() bool { return htmx.IsHTMX(c.r) }

func (c *requestContext) JSON(code int, v any) error {
	c.w.Header().Set("Content-Type", "application/json; charset=utf-8")
	c.w.WriteHeader(code)
	return json.NewEncoder(c.w).Encode(v)
}

func (c *requestContext) String(code int, s string) error {
	c.w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.w.WriteHeader(code)
	_, err := c.w.Write([]byte(s))
	return err
}

func (c *requestContext) NoContent(code int) error {
	c.w.WriteHeader(code)
	return nil
}

func (c *requestContext) Redirect(code int, url string) error {
	htmx.Redirect(c.w, c.r, url, code)
	return nil
}

func (c *requestContext) Render(code int, component Component) error {
	if component == nil {
		return ErrNoComponent
	}
	c.w.Header().Set("Content-Type", "text/html; charset=utf-8")
	c.w.WriteHeader(code)
	return component.Render(c, c.w)
}

func (c *requestContext) Error(code int, message string, opts ...HTTPErrorOption) *HTTPError {
	return NewHTTPError(code, message, opts...)
}

func (c *requestContext) Written() bool { return c.w.Written() }

func (c *requestContext) Logger() *slog.Logger { return c.app.logger }

func (c *requestContext) LogDebug(msg string, attrs ...any) {
	c.app.logger.DebugContext(c, msg, attrs...)
}

func (c *requestContext) LogInfo(msg string, attrs ...any) {
	c.app.logger.InfoContext(c, msg, attrs...)
}

func (c *requestContext) LogWarn(msg string, attrs ...any) {
	c.app.logger.WarnContext(c, msg, attrs...)
}

func (c *requestContext) LogError(msg string, attrs ...any) {
	c.app.logger.ErrorContext(c, msg, attrs...)
}

func (c *requestContext) Set(key, value any) {
	c.r = c.r.WithContext(context.WithValue(c.r.Context(), key, value))
}

func (c *requestContext) Get(key any) any { return c.r.Context().Value(key) }

func (c *requestContext) Session() (*session.Session, error) {
	sm := c.app.sessions
	if sm == nil {
		return nil, session.ErrNotConfigured
	}
	if c.sessLoaded {
		return c.sess, nil
	}

	s, err := sm.Load(c, c.r)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrExpired):
		c.LogDebug("stale session cookie", slog.String("error", err.Error()))
		s = nil
	case err != nil:
		return nil, err
	}
	c.sess, c.sessLoaded = s, true
	c.watchSession()
	return s, nil
}

// ensureSession returns the current session, creating one if needed.
func (c *requestContext) ensureSession() (*session.Session, error) {
	s, err := c.Session()
	if err != nil || s != nil {
		return s, err
	}
	s, err = c.app.sessions.Create(c)
	if err != nil {
		return nil, err
	}
	c.sess = s
	c.app.sessions.WriteCookie(c.w, s)
	return s, nil
}

// watchSession saves a dirty session right before the response starts.
func (c *requestContext) watchSession() {
	if c.hookSet {
		return
	}
	c.hookSet = true
	c.w.OnBeforeWrite(func() {
		if c.sess == nil || !c.sess.IsDirty() {
			return
		}
		if err := c.app.sessions.Store().Update(c, c.sess); err != nil {
			c.LogError("save session", slog.String("error", err.Error()))
			return
		}
		c.sess.ClearDirty()
	})
}

func (c *requestContext) DestroySession() error {
	sm := c.app.sessions
	if sm == nil {
		return session.ErrNotConfigured
	}
	s, err := c.Session()
	if err != nil {
		return err
	}
	if s != nil {
		if err := sm.Store().Delete(c, s.ID); err != nil {
			return err
		}
	}
	sm.ClearCookie(c.w)
	c.sess = nil
	c.threadAuth(auth.Initial())
	return nil
}

func (c *requestContext) Auth() auth.State {
	s, err := c.Session()
	if err != nil || s == nil {
		return auth.Initial()
	}
	if session.ValueOr(s, sessionAuthStatus, "") != string(auth.StatusLoggedIn) {
		return auth.Initial()
	}
	return auth.Initial().Login(session.ValueOr(s, sessionAuthUsername, ""))
}

func (c *requestContext) Login(username string) error {
	s, err := c.ensureSession()
	if err != nil {
		return err
	}
	next := c.Auth().Login(username)
	s.Set(sessionAuthStatus, string(next.Status))
	s.Set(sessionAuthUsername, next.Username)
	if err := c.app.sessions.Rotate(c, s); err != nil {
		return err
	}
	c.app.sessions.WriteCookie(c.w, s)
	c.threadAuth(next)
	return nil
}

func (c *requestContext) Logout() error {
	next := c.Auth().Logout()
	s, err := c.Session()
	if err != nil {
		return err
	}
	if s != nil {
		s.Set(sessionAuthStatus, string(next.Status))
		s.Delete(sessionAuthUsername)
	}
	c.threadAuth(next)
	return nil
}

// threadAuth exposes the auth state through the request context.
func (c *requestContext) threadAuth(state auth.State) {
	c.r = c.r.WithContext(auth.WithState(c.r.Context(), state))
}

func (c *requestContext) Location() Location {
	if c.match != nil {
		return c.match.Location
	}
	return Location{Path: c.r.URL.Path, Search: search.Decode(c.r.URL.Query())}
}

func (c *requestContext) Match() *Match { return c.match }

func (c *requestContext) Search(routeID string) search.Params {
	if c.match == nil {
		return nil
	}
	return c.match.Search[routeID].Clone()
}

func (c *requestContext) LoaderData(routeID string) any {
	if c.match == nil {
		return nil
	}
	return c.match.LoaderData[routeID]
}

func (c *requestContext) Link(to string, update search.Updater) (string, error) {
	if c.app.tree == nil {
		return "", ErrRouteNotFound
	}
	loc, err := c.app.tree.BuildLocation(c.Location(), to, update)
	if err != nil {
		return "", err
	}
	return loc.Href(), nil
}

func (c *requestContext) Navigate(to string, update search.Updater) error {
	href, err := c.Link(to, update)
	if err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, href)
}

func (c *requestContext) Pending() Component { return c.app.pending }
