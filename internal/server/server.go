// Package server exposes the diagnostics over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ccollicutt/pbxdiag/pkg/analyzer"
	"github.com/ccollicutt/pbxdiag/pkg/webhook"
)

const shutdownTimeout = 15 * time.Second

// Diagnoser is the diagnostic surface the server calls into.
// *analyzer.Diagnoser satisfies it.
type Diagnoser interface {
	LogFile() string
	TraceNumber(ctx context.Context, number string) (*analyzer.CallTrace, error)
	DiagnoseSIPAuth(ctx context.Context, extension, domain string) (*analyzer.SIPAuthResult, error)
}

// Server holds the HTTP handler dependencies.
type Server struct {
	router     *chi.Mux
	diag       Diagnoser
	logger     *slog.Logger
	dispatcher *webhook.Dispatcher
	limiter    *ipRateLimiter

	// deliveries tracks webhook sends still running after their response.
	deliveries sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.logger = l
	}
}

// WithDispatcher sends every API report to the configured webhooks.
func WithDispatcher(d *webhook.Dispatcher) Option {
	return func(s *Server) {
		s.dispatcher = d
	}
}

// WithRateLimit limits each client IP to rps requests per second with the
// given burst. Health checks are exempt. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = newIPRateLimiter(rps, max(burst, 1))
	}
}

// New creates a server with all routes mounted.
func New(diag Diagnoser, opts ...Option) *Server {
	s := &Server{
		router: chi.NewRouter(),
		diag:   diag,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// routes configures middleware and mounts all routes.
func (s *Server) routes() {
	r := s.router

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(s.recoverer)

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.rateLimit)
		}

		r.Route("/logs", func(r chi.Router) {
			r.Get("/", s.handleLogsPage)
			r.Post("/", s.handleLogsForm)
		})

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/callflow", s.handleCallFlow)
			r.Get("/sipauth", s.handleSIPAuth)
		})
	})
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      5 * time.Minute,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr, "log_file", s.diag.LogFile())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down http server")
	err := srv.Shutdown(shutdownCtx)
	s.Wait()
	if err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}

// Wait blocks until every webhook delivery started by a request has finished.
func (s *Server) Wait() {
	s.deliveries.Wait()
}
