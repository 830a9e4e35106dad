package admin

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/songzhibin97/stargate-stats/internal/config"
	"github.com/songzhibin97/stargate-stats/pkg/log"
	"go.opentelemetry.io/otel"
	"go.uber.org/multierr"
)

// ShutdownHook releases a resource when the server shuts down
type ShutdownHook func(ctx context.Context) error

// ServerOption configures a Server
type ServerOption func(*Server)

// WithRequestObserver reports every admin request to observe
func WithRequestObserver(observe RequestObserver) ServerOption {
	return func(s *Server) {
		s.observer = observe
	}
}

// WithShutdownHook runs hook after the HTTP server has stopped. Hooks run in
// registration order.
func WithShutdownHook(hook ShutdownHook) ServerOption {
	return func(s *Server) {
		s.hooks = append(s.hooks, hook)
	}
}

// WithLogger sets the server logger
func WithLogger(logger log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// Server serves the admin endpoints
type Server struct {
	config     config.AdminConfig
	handler    *Handler
	engine     *gin.Engine
	httpServer *http.Server
	logger     log.Logger
	observer   RequestObserver
	hooks      []ShutdownHook

	mu      sync.Mutex
	running bool
}

// NewServer creates a new admin server
func NewServer(cfg config.AdminConfig, handler *Handler, opts ...ServerOption) (*Server, error) {
	if handler == nil {
		return nil, fmt.Errorf("admin handler is required")
	}

	s := &Server{
		config:  cfg,
		handler: handler,
		logger:  log.Component("admin.server"),
	}
	for _, opt := range opts {
		opt(s)
	}

	engine := gin.New()
	engine.HandleMethodNotAllowed = true
	engine.Use(gin.Recovery())
	engine.Use(Tracing(otel.Tracer("stargate-stats/admin"), otel.GetTextMapPropagator()))
	engine.Use(RequestLogger(s.logger))
	if s.observer != nil {
		engine.Use(Instrument(s.observer))
	}
	handler.RegisterRoutes(engine)
	s.engine = engine

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      engine,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s, nil
}

// Handler returns the HTTP handler serving the admin routes
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start listens on the configured address and serves until Shutdown
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Address, err)
	}
	return s.Serve(listener)
}

// Serve serves on listener until Shutdown. It returns nil after a graceful
// shutdown.
func (s *Server) Serve(listener net.Listener) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.running = true
	s.mu.Unlock()

	s.logger.Info("Admin server listening", log.String("address", listener.Addr().String()))
	if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("admin server failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server, then runs every shutdown hook. All errors
// are returned together.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	if s.running {
		s.running = false
		err = multierr.Append(err, s.httpServer.Shutdown(ctx))
	}
	for _, hook := range s.hooks {
		err = multierr.Append(err, hook(ctx))
	}
	s.hooks = nil

	if err != nil {
		s.logger.Error("Admin server shutdown incomplete", log.Error(err))
		return err
	}
	s.logger.Info("Admin server stopped")
	return nil
}
