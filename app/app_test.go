package app_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/routekit/app"
	"github.com/dmitrymomot/routekit/config"
	"github.com/dmitrymomot/routekit/pkg/logger"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) records(t *testing.T, msg string) []map[string]any {
	t.Helper()
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(b.buf.String()), "\n") {
		if line == "" {
			continue
		}
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &rec))
		if rec["msg"] == msg {
			out = append(out, rec)
		}
	}
	return out
}

func newServer(t *testing.T, env map[string]string) (*app.Server, *syncBuffer) {
	t.Helper()
	if env == nil {
		env = map[string]string{}
	}
	cfg, err := config.LoadFrom(env)
	require.NoError(t, err)

	logs := &syncBuffer{}
	s := app.NewServer(cfg, logger.New(logger.WithWriter(logs), logger.WithLevel(logger.ParseLevel("debug"))), app.Deps{})
	t.Cleanup(func() { _ = s.Close() })
	return s, logs
}

func do(t *testing.T, h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHomePage(t *testing.T) {
	t.Parallel()

	s, _ := newServer(t, nil)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Welcome Home!")
	assert.Contains(t, body, `href="/test?foo=bar&amp;name=Sean&amp;preSet=preSearchFilters"`)
	assert.Contains(t, body, `href="/test?foo=bar&amp;name=Tanner&amp;preSet=preSearchFilters"`)
	assert.Contains(t, body, `href="/test?filters.nested=i+am+nested&amp;foo=bar&amp;name=Tanner&amp;preSet=preSearchFilters"`)
	assert.Contains(t, body, `preload="mouseover"`)
	assert.Contains(t, body, `id="outlet"`)
	assert.Contains(t, body, `class="spinner"`)
	assert.Contains(t, body, `action="/auth/login"`)
}

func TestNestedLinkScenario(t *testing.T) {
	t.Parallel()

	s, logs := newServer(t, nil)
	target := "/test?filters.nested=i+am+nested&foo=bar&name=Tanner&preSet=preSearchFilters"
	rec := do(t, s, httptest.NewRequest(http.MethodGet, target, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Welcome to the test route")
	assert.Contains(t, rec.Body.String(), `href="/"`)

	want := map[string]any{
		"foo":     "bar",
		"name":    "Tanner",
		"filters": map[string]any{"nested": "i am nested"},
		"preSet":  "preSearchFilters",
	}

	loads := logs.records(t, "loader ctx.search")
	require.Len(t, loads, 1)
	if diff := cmp.Diff(want, loads[0]["search"]); diff != "" {
		t.Errorf("loader search mismatch (-want +got):\n%s", diff)
	}

	data := logs.records(t, "component loaderData")
	require.Len(t, data, 1)
	if diff := cmp.Diff(want, data[0]["loaderData"]); diff != "" {
		t.Errorf("loader data mismatch (-want +got):\n%s", diff)
	}
	require.Len(t, logs.records(t, "component searchParams"), 1)
}

func TestPreSetIsForced(t *testing.T) {
	t.Parallel()

	s, logs := newServer(t, nil)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/test/?foo=x&preSet=mine", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	loads := logs.records(t, "loader ctx.search")
	require.Len(t, loads, 1)
	search := loads[0]["search"].(map[string]any)
	assert.Equal(t, "preSearchFilters", search["preSet"])
	assert.Equal(t, "Sean", search["name"])
}

func TestMissingFoo(t *testing.T) {
	t.Parallel()

	s, logs := newServer(t, nil)
	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/test/?name=Tanner", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "<code>foo</code> is required")
	assert.Contains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Empty(t, logs.records(t, "loader ctx.search"))
}

func TestOutletSwap(t *testing.T) {
	t.Parallel()

	s, _ := newServer(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/test?foo=bar", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Target", "outlet")
	rec := do(t, s, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, rec.Body.String(), "Welcome to the test route")
	assert.Equal(t, "/test?foo=bar&name=Sean&preSet=preSearchFilters", rec.Header().Get("HX-Push-Url"))
}

func TestLoaderCache(t *testing.T) {
	t.Parallel()

	s, logs := newServer(t, map[string]string{"LOADER_CACHE_TTL": "1m"})
	preload := httptest.NewRequest(http.MethodGet, "/test?foo=bar", nil)
	preload.Header.Set("HX-Request", "true")
	preload.Header.Set("HX-Preloaded", "true")
	require.Equal(t, http.StatusOK, do(t, s, preload).Code)
	require.Equal(t, http.StatusOK, do(t, s, httptest.NewRequest(http.MethodGet, "/test?foo=bar", nil)).Code)

	assert.Len(t, logs.records(t, "loader ctx.search"), 1)
	assert.Len(t, logs.records(t, "component loaderData"), 2)
}

func TestAuth(t *testing.T) {
	t.Parallel()

	s, _ := newServer(t, nil)

	post := func(path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return do(t, s, req)
	}
	page := func(cookies []*http.Cookie) string {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		return do(t, s, req).Body.String()
	}

	rec := post("/auth/login", url.Values{"username": {"  "}}, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "<code>username</code> is required")

	rec = post("/auth/login", url.Values{"username": {"tanner"}}, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)

	assert.Contains(t, page(cookies), "Logged in as <strong>tanner</strong>")

	rec = post("/auth/logout", nil, cookies)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Contains(t, page(cookies), `data-status="loggedOut"`)
}

func TestOperational(t *testing.T) {
	t.Parallel()

	s, _ := newServer(t, nil)
	require.Equal(t, http.StatusOK, do(t, s, httptest.NewRequest(http.MethodGet, "/", nil)).Code)

	rec := do(t, s, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/css")

	assert.Equal(t, http.StatusOK, do(t, s, httptest.NewRequest(http.MethodGet, "/health/live", nil)).Code)
	assert.Equal(t, http.StatusOK, do(t, s, httptest.NewRequest(http.MethodGet, "/health/ready", nil)).Code)

	require.Equal(t, http.StatusOK, do(t, s, httptest.NewRequest(http.MethodGet, "/test?foo=bar", nil)).Code)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "routekit_navigations_total")
	assert.Contains(t, rec.Body.String(), `routekit_loader_duration_seconds_bucket{route="/test/",le="0.0005"}`)

	rec = do(t, s, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "404 Not Found")
}
