package internal_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/internal"
	"github.com/dmitrymomot/routekit/pkg/cache"
	"github.com/dmitrymomot/routekit/pkg/health"
	"github.com/dmitrymomot/routekit/pkg/search"
	"github.com/dmitrymomot/routekit/pkg/session"
	"github.com/dmitrymomot/routekit/pkg/validator"
)

type renderFunc func(ctx context.Context, w io.Writer) error

func (f renderFunc) Render(ctx context.Context, w io.Writer) error { return f(ctx, w) }

func text(s string) internal.Component {
	return renderFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, s)
		return err
	})
}

var testSchema = validator.NewSchema(
	validator.String("foo"),
	validator.String("hello", validator.Optional()),
	validator.String("name", validator.Default("Sean")),
	validator.String("preSet"),
	validator.Object("filters", validator.NewSchema(
		validator.String("nested", validator.Optional()),
	), validator.Optional()),
)

type fixture struct {
	loads atomic.Int32
	delay time.Duration
}

func (f *fixture) routes() *internal.Route {
	root := internal.NewRootRoute(internal.View(func(c internal.Context, outlet internal.Component) internal.Component {
		return renderFunc(func(ctx context.Context, w io.Writer) error {
			fmt.Fprintf(w, "<layout auth=%q user=%q>", c.Auth().Status, c.Auth().Username)
			if outlet != nil {
				if err := outlet.Render(ctx, w); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, "</layout>")
			return err
		})
	}))

	testRoute := internal.NewRoute(root, "test",
		internal.ValidateSearch(testSchema.Parse),
		internal.PreSearchFilters(search.Force("preSet", "preSearchFilters")),
	)
	testRoute.AddChildren(internal.NewIndexRoute(testRoute,
		internal.Loader(func(ctx context.Context, args internal.LoaderArgs) (any, error) {
			f.loads.Add(1)
			if f.delay > 0 {
				select {
				case <-time.After(f.delay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
			}
			return args.Search, nil
		}),
		internal.View(func(c internal.Context, _ internal.Component) internal.Component {
			data, err := json.Marshal(c.LoaderData("/test/"))
			if err != nil {
				return text(err.Error())
			}
			return text("<pre>" + string(data) + "</pre>")
		}),
	))

	root.AddChildren(
		internal.NewIndexRoute(root, internal.View(func(c internal.Context, _ internal.Component) internal.Component {
			return text("home")
		})),
		testRoute,
	)
	return root
}

type authHandler struct{}

func (authHandler) Routes(r internal.Router) {
	r.POST("/auth/login", func(c internal.Context) error {
		if err := c.Login(c.Form("username")); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	})
	r.POST("/auth/logout", func(c internal.Context) error {
		if err := c.Logout(); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/")
	})
	r.GET("/history", func(c internal.Context) error {
		return c.JSON(http.StatusOK, c.History())
	})
}

func newTestApp(t *testing.T, f *fixture, opts ...internal.Option) *internal.App {
	t.Helper()
	store := session.NewMemoryStore(cache.WithSweepEvery(0))
	t.Cleanup(func() { _ = store.Close() })

	base := []internal.Option{
		internal.WithRoutes(f.routes()),
		internal.WithSession(store),
		internal.WithHandlers(authHandler{}),
		internal.WithMetrics(),
		internal.WithHealthChecks(health.Checks{
			"noop": func(context.Context) error { return nil },
		}),
	}
	return internal.New(append(base, opts...)...)
}

func get(t *testing.T, h http.Handler, target string, cookies []*http.Cookie, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "__sid" {
			return c
		}
	}
	return nil
}

func TestNavigation(t *testing.T) {
	t.Parallel()

	t.Run("home renders inside the layout", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/", nil, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `<layout auth="loggedOut" user="">home</layout>`, rec.Body.String())
	})

	t.Run("test page shows validated search", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/test?foo=bar&preSet=mine", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `<pre>{"foo":"bar","name":"Sean","preSet":"preSearchFilters"}</pre>`)
	})

	t.Run("nested search", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/test/?foo=bar&filters.nested=x", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"filters":{"nested":"x"}`)
	})

	t.Run("missing foo is a bad request", func(t *testing.T) {
		t.Parallel()

		f := &fixture{}
		rec := get(t, newTestApp(t, f), "/test/", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "foo")
		assert.Zero(t, f.loads.Load())
	})

	t.Run("malformed query", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/test/?foo=%zz", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown path", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/nope", nil, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("htmx outlet swap skips the layout", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/", nil, map[string]string{
			"HX-Request": "true",
			"HX-Target":  internal.OutletID,
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "home", rec.Body.String())
		assert.Equal(t, "/", rec.Header().Get("HX-Push-Url"))
	})

	t.Run("htmx errors are swapped with 200", func(t *testing.T) {
		t.Parallel()

		rec := get(t, newTestApp(t, &fixture{}), "/test/", nil, map[string]string{"HX-Request": "true"})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "foo")
	})
}

func TestLoaders(t *testing.T) {
	t.Parallel()

	t.Run("cache shares results", func(t *testing.T) {
		t.Parallel()

		c := cache.NewMemory[any](cache.WithSweepEvery(0))
		t.Cleanup(func() { _ = c.Close() })

		f := &fixture{}
		app := newTestApp(t, f, internal.WithLoaderCache(c, time.Minute))
		for range 3 {
			rec := get(t, app, "/test/?foo=bar", nil, nil)
			require.Equal(t, http.StatusOK, rec.Code)
		}
		assert.Equal(t, int32(1), f.loads.Load())

		rec := get(t, app, "/test/?foo=baz", nil, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int32(2), f.loads.Load())
	})

	t.Run("timeout fails the navigation", func(t *testing.T) {
		t.Parallel()

		f := &fixture{delay: time.Second}
		app := newTestApp(t, f, internal.WithLoaderTimeout(10*time.Millisecond))
		rec := get(t, app, "/test/?foo=bar", nil, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &fixture{})

	first := get(t, app, "/", nil, nil)
	anon := sessionCookie(first)
	require.NotNil(t, anon)

	form := url.Values{"username": {"tanner"}}
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(anon)
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	authed := sessionCookie(rec)
	require.NotNil(t, authed)
	assert.NotEqual(t, anon.Value, authed.Value)

	page := get(t, app, "/", []*http.Cookie{authed}, nil)
	assert.Contains(t, page.Body.String(), `auth="loggedIn" user="tanner"`)

	stale := get(t, app, "/", []*http.Cookie{anon}, nil)
	assert.Contains(t, stale.Body.String(), `auth="loggedOut"`)

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.AddCookie(authed)
	rec = httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	page = get(t, app, "/", []*http.Cookie{authed}, nil)
	assert.Contains(t, page.Body.String(), `auth="loggedOut" user=""`)
}

func TestHistory(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &fixture{})
	ck := sessionCookie(get(t, app, "/", nil, nil))
	require.NotNil(t, ck)
	cookies := []*http.Cookie{ck}

	get(t, app, "/test?foo=bar", cookies, nil)
	get(t, app, "/test?foo=bar", cookies, nil)
	get(t, app, "/test?foo=preload", cookies, map[string]string{"HX-Request": "true", "HX-Preloaded": "true"})
	get(t, app, "/test/?foo=missing&filters=x", cookies, nil)

	rec := get(t, app, "/history", cookies, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var hist []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hist))
	assert.Equal(t, []string{"/", "/test?foo=bar&name=Sean&preSet=preSearchFilters"}, hist)
}

func TestOperationalEndpoints(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, &fixture{})
	get(t, app, "/test/?foo=bar", nil, nil)
	get(t, app, "/test/", nil, nil)

	rec := get(t, app, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `routekit_navigations_total{outcome="ok",route="/test/"} 1`)
	assert.Contains(t, body, `routekit_navigations_total{outcome="invalid",route="/test"} 1`)
	assert.Contains(t, body, `routekit_search_validation_failures_total{field="foo",route="/test"} 1`)

	assert.Equal(t, http.StatusOK, get(t, app, "/health/live", nil, nil).Code)
	assert.Equal(t, http.StatusOK, get(t, app, "/health/ready", nil, nil).Code)
}

func TestMiddlewareAndErrorHandler(t *testing.T) {
	t.Parallel()

	mw := func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			c.SetHeader("X-Test", "value")
			return next(c)
		}
	}
	app := newTestApp(t, &fixture{},
		internal.WithMiddleware(mw),
		internal.WithErrorHandler(func(c internal.Context, err error) error {
			return c.String(internal.StatusCode(err), "custom: "+err.Error())
		}),
	)

	rec := get(t, app, "/", nil, nil)
	assert.Equal(t, "value", rec.Header().Get("X-Test"))

	rec = get(t, app, "/test/", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "custom: "))
}

type navHandler struct{}

func (navHandler) Routes(r internal.Router) {
	r.GET("/go", func(c internal.Context) error {
		return c.Navigate("/test", search.Set(search.Params{"foo": "bar"}))
	})
	r.GET("/go/preset", func(c internal.Context) error {
		return c.Navigate("/test", search.Set(search.Params{"foo": "bar", "preSet": "mine"}))
	})
	r.GET("/go/missing", func(c internal.Context) error {
		return c.Navigate("/test", search.Set(search.Params{"hello": "w"}))
	})
}

func TestProgrammaticNavigation(t *testing.T) {
	t.Parallel()

	t.Run("redirect merges the current search", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &fixture{}, internal.WithHandlers(navHandler{}))
		rec := get(t, app, "/go?hello=w", nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/test?foo=bar&hello=w&name=Sean&preSet=preSearchFilters", rec.Header().Get("Location"))
	})

	t.Run("forced values overwrite the caller", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &fixture{}, internal.WithHandlers(navHandler{}))
		rec := get(t, app, "/go/preset?preSet=current", nil, nil)
		require.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/test?foo=bar&name=Sean&preSet=preSearchFilters", rec.Header().Get("Location"))
	})

	t.Run("invalid update aborts without redirect", func(t *testing.T) {
		t.Parallel()

		app := newTestApp(t, &fixture{}, internal.WithHandlers(navHandler{}))
		rec := get(t, app, "/go/missing", nil, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, rec.Header().Get("Location"))
		assert.Contains(t, rec.Body.String(), "foo")
	})
}
