package internal

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseWriter(t *testing.T) {
	t.Parallel()

	t.Run("hooks run once before the header", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec, false)
		calls := 0
		w.OnBeforeWrite(func() {
			calls++
			w.Header().Set("X-Hook", "ran")
		})

		_, _ = w.Write([]byte("hello"))
		w.WriteHeader(http.StatusTeapot)

		assert.Equal(t, 1, calls)
		assert.Equal(t, "ran", rec.Header().Get("X-Hook"))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, int64(5), w.Size())
		assert.True(t, w.Written())
	})

	t.Run("htmx responses are always 200", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec, true)
		w.WriteHeader(http.StatusBadRequest)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, http.StatusBadRequest, w.Status())
	})

	t.Run("unwrap", func(t *testing.T) {
		t.Parallel()

		rec := httptest.NewRecorder()
		assert.Same(t, rec, NewResponseWriter(rec, false).Unwrap())
	})
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"navigation", &NavigationError{RouteID: "/test"}, http.StatusBadRequest},
		{"bad query", ErrBadRequest("bad", WithError(ErrInvalidQuery)), http.StatusBadRequest},
		{"route not found", ErrRouteNotFound, http.StatusNotFound},
		{"http error", ErrMethodNotAllowed("no"), http.StatusMethodNotAllowed},
		{"loader timeout", ErrLoaderTimeout, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}
