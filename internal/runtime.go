package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

const defaultAddress = ":8080"

// server runs an App over HTTP: startup hooks, serve, drain on signal,
// stop, shutdown hooks.
type server struct {
	app  *App
	cfg  *runConfig
	http *http.Server
	log  *slog.Logger
}

func newServer(app *App, addr string, cfg *runConfig) *server {
	if addr == "" {
		addr = defaultAddress
	}
	log := cfg.logger
	if log == nil {
		log = app.logger
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &server{
		app: app,
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:              addr,
			Handler:           app,
			ReadTimeout:       defaultReadTimeout,
			WriteTimeout:      defaultWriteTimeout,
			IdleTimeout:       defaultIdleTimeout,
			ReadHeaderTimeout: defaultReadHeaderTimeout,
			MaxHeaderBytes:    defaultMaxHeaderBytes,
		},
	}
}

// run blocks until SIGINT, SIGTERM or the base context ends.
// Startup hook failures abort before the listener opens.
func (s *server) run() error {
	base := s.cfg.baseCtx
	if base == nil {
		base = context.Background()
	}
	ctx, cancel := signal.NotifyContext(base, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	for _, hook := range s.cfg.startupHooks {
		if err := hook(ctx); err != nil {
			return fmt.Errorf("startup hook: %w", err)
		}
	}

	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return err
	}

	served := make(chan error, 1)
	go func() {
		s.log.Info("server starting",
			slog.String("address", ln.Addr().String()),
			slog.Int("routes", len(s.routePaths())))
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			served <- err
		}
		close(served)
	}()

	select {
	case err := <-served:
		return err
	case <-ctx.Done():
	}
	return s.stop()
}

// stop fails readiness first so balancers stop sending navigations,
// then closes the listener and runs the shutdown hooks in order.
func (s *server) stop() error {
	s.log.Info("shutting down server")
	if s.app.health != nil {
		s.app.health.Drain()
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("http shutdown: %w", err))
	}
	for _, hook := range s.cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		s.log.Error("shutdown completed with errors")
		return err
	}
	s.log.Info("shutdown completed")
	return nil
}

func (s *server) routePaths() []string {
	if s.app.tree == nil {
		return nil
	}
	return s.app.tree.Paths()
}
