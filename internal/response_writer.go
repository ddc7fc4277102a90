package internal

import (
	"net/http"
	"sync"
)

// ResponseWriter records the status and size of a response and runs hooks
// right before the header is sent. For HTMX requests every status is sent
// as 200 so that HTMX swaps error pages too; Status still reports the
// original code.
type ResponseWriter struct {
	http.ResponseWriter

	mu      sync.Mutex
	hooks   []func()
	status  int
	size    int64
	started bool
	htmx    bool
}

// NewResponseWriter wraps w.
func NewResponseWriter(w http.ResponseWriter, htmx bool) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK, htmx: htmx}
}

// OnBeforeWrite registers fn to run once before the header is sent.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hooks = append(w.hooks, fn)
}

// start marks the response as started and returns the pending hooks.
// ok is false if it had already started.
func (w *ResponseWriter) start(code int) (hooks []func(), ok bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil, false
	}
	w.started = true
	w.status = code
	hooks, w.hooks = w.hooks, nil
	return hooks, true
}

func (w *ResponseWriter) WriteHeader(code int) {
	hooks, ok := w.start(code)
	if !ok {
		return
	}
	for _, fn := range hooks {
		fn()
	}
	if w.htmx {
		code = http.StatusOK
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.Written() {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.size += int64(n)
	w.mu.Unlock()
	return n, err
}

func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.size
}

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.started
}

func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
