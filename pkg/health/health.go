package health

import (
	"context"
	"encoding/json"
	"log/slog"
	"maps"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	// StatusDraining is reported once Drain was called.
	StatusDraining = "draining"
)

// CheckFunc reports a dependency failure as an error.
type CheckFunc func(ctx context.Context) error

// Checks maps check names to functions.
type Checks map[string]CheckFunc

// Report is the readiness result.
type Report struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Healthy reports whether every check passed.
func (r Report) Healthy() bool { return r.Status == StatusHealthy }

// Option configures a Checker.
type Option func(*Checker)

// WithTimeout bounds a full readiness run. Default: 5s.
func WithTimeout(d time.Duration) Option {
	return func(c *Checker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithLogger logs failing checks.
func WithLogger(l *slog.Logger) Option {
	return func(c *Checker) {
		if l != nil {
			c.logger = l
		}
	}
}

// Checker runs readiness checks.
type Checker struct {
	checks   Checks
	timeout  time.Duration
	logger   *slog.Logger
	draining atomic.Bool
}

// New creates a Checker over a copy of checks.
func New(checks Checks, opts ...Option) *Checker {
	c := &Checker{
		checks:  maps.Clone(checks),
		timeout: 5 * time.Second,
		logger:  slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes all checks. A failing check never cancels the others.
func (c *Checker) Run(ctx context.Context) Report {
	if c.draining.Load() {
		return Report{Status: StatusDraining}
	}
	if len(c.checks) == 0 {
		return Report{Status: StatusHealthy}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var (
		mu      sync.Mutex
		g       errgroup.Group
		results = make(map[string]string, len(c.checks))
		failed  bool
	)
	for name, check := range c.checks {
		g.Go(func() error {
			status := StatusHealthy
			if err := check(ctx); err != nil {
				status = StatusUnhealthy
				c.logger.WarnContext(ctx, "health check failed",
					slog.String("check", name),
					slog.String("error", err.Error()))
			}
			mu.Lock()
			defer mu.Unlock()
			results[name] = status
			failed = failed || status == StatusUnhealthy
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Status: StatusHealthy, Checks: results}
	if failed {
		report.Status = StatusUnhealthy
	}
	return report
}

// Drain marks the service as going away. Readiness answers 503 from now
// on without running the checks; liveness is unaffected.
func (c *Checker) Drain() { c.draining.Store(true) }

// Liveness always answers 200.
func Liveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, Report{Status: StatusHealthy})
	}
}

// Readiness answers 200 when all checks pass and 503 otherwise.
func (c *Checker) Readiness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(w, r, c.Run(r.Context()))
	}
}

func respond(w http.ResponseWriter, r *http.Request, rep Report) {
	code := http.StatusOK
	if !rep.Healthy() {
		code = http.StatusServiceUnavailable
	}
	if r.URL.Query().Get("format") == "json" || strings.Contains(r.Header.Get("Accept"), "application/json") {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(rep)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(http.StatusText(code)))
}
