package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gofrs/flock"

	"creatorpay/internal/compensation"
	"creatorpay/internal/logging"
	"creatorpay/internal/pipeline"
)

const (
	lockFileName       = "creatorpay-serve.lock"
	defaultMaxUpload   = 32 << 20
	defaultReadTimeout = 30 * time.Second
	shutdownTimeout    = 5 * time.Second
)

// ErrAlreadyRunning is returned by Start when another server holds the lock.
var ErrAlreadyRunning = errors.New("another creatorpay server is already running")

// Options configure a Server.
type Options struct {
	Bind           string
	MaxUploadBytes int64
	ReadTimeout    time.Duration
	// LockDir holds the single-instance lock file. Empty disables locking.
	LockDir      string
	DefaultModel string
}

// Server serves reports over HTTP.
type Server struct {
	opts     Options
	pipeline *pipeline.Pipeline
	catalog  *compensation.Catalog
	logger   *slog.Logger
	router   http.Handler

	mu       sync.Mutex
	lock     *flock.Flock
	listener net.Listener
	server   *http.Server
}

// New builds a Server. Zero option values fall back to defaults.
func New(p *pipeline.Pipeline, catalog *compensation.Catalog, opts Options, logger *slog.Logger) (*Server, error) {
	if p == nil || catalog == nil {
		return nil, errors.New("server requires a pipeline and a model catalog")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUpload
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = defaultReadTimeout
	}
	if strings.TrimSpace(opts.DefaultModel) == "" {
		opts.DefaultModel = "default"
	}
	if _, err := catalog.Lookup(opts.DefaultModel); err != nil {
		return nil, fmt.Errorf("default model: %w", err)
	}
	s := &Server{
		opts:     opts,
		pipeline: p,
		catalog:  catalog,
		logger:   logging.NewComponentLogger(logger, "server"),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware(s.logger))
	r.Use(loggingMiddleware(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/models", s.handleModels)
		r.Post("/reports", s.handleReports)
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "resource not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})
	return r
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start acquires the instance lock, binds the listener and serves in the
// background until ctx is cancelled or Stop is called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New("server already started")
	}
	if err := s.acquireLock(); err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.opts.Bind)
	if err != nil {
		s.releaseLock()
		return fmt.Errorf("listen on %s: %w", s.opts.Bind, err)
	}
	s.listener = listener
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.opts.ReadTimeout,
		WriteTimeout:      2 * s.opts.ReadTimeout,
		IdleTimeout:       60 * time.Second,
	}

	srv := s.server
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "http server stopped", "http_serve_failed", logging.Error(err))
		}
	}()
	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("server listening",
		logging.String("address", listener.Addr().String()),
		logging.String(logging.FieldModel, s.opts.DefaultModel),
	)
	return nil
}

// Addr is the bound address, empty before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the server down and releases the lock. It is safe to call more
// than once.
func (s *Server) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	s.server = nil
	s.listener = nil
	s.releaseLock()
	s.logger.Info("server stopped")
}

// Run starts the server and blocks until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	if err := s.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	s.Stop()
	return nil
}

func (s *Server) acquireLock() error {
	if strings.TrimSpace(s.opts.LockDir) == "" {
		return nil
	}
	if err := os.MkdirAll(s.opts.LockDir, 0o755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(filepath.Join(s.opts.LockDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrAlreadyRunning
	}
	s.lock = lock
	return nil
}

func (s *Server) releaseLock() {
	if s.lock == nil {
		return
	}
	_ = s.lock.Unlock()
	s.lock = nil
}
