// Package httpserver wires the mdwiki HTTP endpoints: the generated site,
// health and Prometheus metrics.
package httpserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	derrors "git.home.luguber.info/inful/mdwiki/internal/foundation/errors"
	"git.home.luguber.info/inful/mdwiki/internal/logfields"
	"git.home.luguber.info/inful/mdwiki/internal/metrics"
	"git.home.luguber.info/inful/mdwiki/internal/server/handlers"
	smw "git.home.luguber.info/inful/mdwiki/internal/server/middleware"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "localhost:5000"

// ErrListen indicates the listen address could not be bound.
var ErrListen = derrors.NetworkError("failed to bind HTTP listener").Fatal().Build()

// Options configures a Server.
type Options struct {
	Addr      string
	Root      string
	IndexName string
	// Registry backs /metrics; the default registry is used when nil.
	Registry *prometheus.Registry
	Logger   *slog.Logger
}

// Server serves an output tree over HTTP.
type Server struct {
	opts       Options
	logger     *slog.Logger
	monitoring *handlers.MonitoringHandlers
	handler    http.Handler

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	done     chan error
}

// New constructs a Server.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	s := &Server{
		opts:       opts,
		logger:     opts.Logger,
		monitoring: handlers.NewMonitoringHandlers(opts.Root, opts.Logger),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.monitoring.HandleHealthCheck)
	mux.Handle("/metrics", metrics.HTTPHandler(opts.Registry))
	mux.Handle("/", handlers.NewFileHandler(opts.Root, opts.IndexName, opts.Logger))

	s.handler = smw.Chain(opts.Logger, derrors.NewHTTPErrorAdapter(opts.Logger))(mux)
	return s
}

// Handler returns the complete request handler including middleware.
func (s *Server) Handler() http.Handler { return s.handler }

// Monitoring exposes the health handlers so callers can publish build status.
func (s *Server) Monitoring() *handlers.MonitoringHandlers { return s.monitoring }

// Start binds the listen address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return errors.New("server already started")
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.opts.Addr)
	if err != nil {
		return derrors.Wrap(err, ErrListen).WithContext("addr", s.opts.Addr).Build()
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.done = make(chan error, 1)

	go func(srv *http.Server, done chan<- error) {
		err := srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		if err != nil {
			s.logger.Error("HTTP server stopped", logfields.Error(err))
		}
		done <- err
	}(s.srv, s.done)

	s.logger.Info("Serving output directory", logfields.Addr(ln.Addr().String()), logfields.Path(s.opts.Root))
	return nil
}

// Addr returns the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// Wait blocks until the server stops and returns its terminal error.
func (s *Server) Wait() error {
	s.mu.Lock()
	done := s.done
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	err := <-done
	done <- err
	return err
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
