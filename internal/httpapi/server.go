// ABOUTME: HTTP API over the journal built on chi.
// ABOUTME: Exposes writes, semantic search, recency listing, entry reads, health, and Prometheus metrics.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/2389-research/private-journal/internal/search"
	"github.com/2389-research/private-journal/internal/storage"
)

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 60 * time.Second
	shutdownTimeout = 10 * time.Second

	// maxBodyBytes caps request bodies for write endpoints.
	maxBodyBytes = 1 << 20
)

// Server serves the journal over HTTP.
type Server struct {
	journal       storage.JournalStore
	search        search.Searcher
	logger        *zap.Logger
	now           func() time.Time
	errorHandlers []errorHandler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the clock used for "days" query parameters.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// NewServer creates an HTTP API server.
func NewServer(journal storage.JournalStore, searcher search.Searcher, opts ...Option) (*Server, error) {
	if journal == nil {
		return nil, fmt.Errorf("journal store is required")
	}
	if searcher == nil {
		return nil, fmt.Errorf("search service is required")
	}
	s := &Server{
		journal: journal,
		search:  searcher,
		logger:  zap.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.errorHandlers = defaultErrorHandlers()
	return s, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(requestLogger(s.logger))
	r.Use(metricsMiddleware())

	r.Post("/entries", s.handleWriteEntry)
	r.Post("/thoughts", s.handleWriteThoughts)
	r.Get("/search", s.handleSearch)
	r.Get("/recent", s.handleRecent)
	r.Get("/entry", s.handleReadEntry)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on an existing listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
