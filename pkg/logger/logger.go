package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

// ContextExtractor returns an attribute derived from ctx, if any.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// Option configures New.
type Option func(*config)

type config struct {
	w          io.Writer
	level      slog.Leveler
	text       bool
	extractors []ContextExtractor
	sentry     SentryConfig
}

// WithWriter sets the output. Default: os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(c *config) { c.w = w }
}

// WithLevel sets the minimum level. Default: info.
func WithLevel(l slog.Leveler) Option {
	return func(c *config) { c.level = l }
}

// WithText switches the output to logfmt-style text.
func WithText() Option {
	return func(c *config) { c.text = true }
}

// WithExtractors adds context extractors. Nil extractors are ignored.
func WithExtractors(ex ...ContextExtractor) Option {
	return func(c *config) { c.extractors = append(c.extractors, ex...) }
}

// WithSentry forwards warnings and errors to Sentry when cfg.DSN is set.
func WithSentry(cfg SentryConfig) Option {
	return func(c *config) { c.sentry = cfg }
}

// New builds a logger.
func New(opts ...Option) *slog.Logger {
	cfg := config{w: os.Stdout, level: slog.LevelInfo}
	for _, opt := range opts {
		opt(&cfg)
	}

	hopts := &slog.HandlerOptions{Level: cfg.level}
	var h slog.Handler = slog.NewJSONHandler(cfg.w, hopts)
	if cfg.text {
		h = slog.NewTextHandler(cfg.w, hopts)
	}

	if cfg.sentry.DSN != "" {
		if sh, err := newSentryHandler(cfg.sentry); err != nil {
			slog.New(h).Error("sentry disabled", slog.String("error", err.Error()))
		} else {
			h = fanout{h, sh}
		}
	}

	return slog.New(Decorate(h, cfg.extractors...))
}

// NewNope returns a logger that discards everything.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps debug, info, warn and error to slog levels.
// Unknown names are info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
