package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/cors"

	"github.com/fredcamaral/stepdeck/internal/adapters/secondary/monitoring"
	"github.com/fredcamaral/stepdeck/internal/domain/entities"
	"github.com/fredcamaral/stepdeck/internal/domain/ports"
	"github.com/fredcamaral/stepdeck/internal/logging"
)

// Server implements the HTTPServer interface for the browser presenter
type Server struct {
	session   ports.SessionService
	pages     ports.PageRenderer
	progress  ports.ProgressRenderer
	config    *entities.ServerConfig
	logger    *logging.Logger
	sanitizer *bluemonday.Policy
	hub       *Hub
	limiter   *rateLimiter
	monitor   *monitoring.Monitor
	handler   http.Handler

	mu      sync.RWMutex
	server  *http.Server
	addr    string
	running bool
}

// NewServer creates a new HTTP server over a presentation session.
// config must not be nil; use config.GetDefaultConfig().Server if needed.
func NewServer(session ports.SessionService, pages ports.PageRenderer, progress ports.ProgressRenderer, config *entities.ServerConfig, logger *logging.Logger) *Server {
	if config == nil {
		panic("server config cannot be nil - provide a valid ServerConfig")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		session:   session,
		pages:     pages,
		progress:  progress,
		config:    config,
		logger:    logger,
		sanitizer: bluemonday.UGCPolicy(),
		hub:       NewHub(logger.With("ws")),
		limiter:   newRateLimiter(config.GetRateLimit(), time.Minute),
		monitor:   monitoring.NewMonitor(),
	}
	s.handler = s.buildHandler()

	return s
}

var _ ports.HTTPServer = (*Server)(nil)

// Handler returns the fully wrapped handler (routes, middleware and CORS)
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on host:port and serves in the background. Port 0 picks a
// free port; Addr reports the one chosen.
func (s *Server) Start(ctx context.Context, port int, host string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return errors.New("server already running")
	}

	listener, err := net.Listen("tcp", net.JoinHostPort(host, fmt.Sprintf("%d", port)))
	if err != nil {
		return fmt.Errorf("listening on %s:%d: %w", host, port, err)
	}

	s.server = &http.Server{
		Handler:           s.handler,
		ReadTimeout:       s.config.GetReadTimeout(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.config.GetWriteTimeout(),
		IdleTimeout:       60 * time.Second,
	}
	s.addr = listener.Addr().String()
	s.running = true

	go s.limiter.cleanupLoop(ctx)
	s.monitor.Start(ctx)

	go func(srv *http.Server) {
		s.logger.Info("listening on %s", listener.Addr())
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error: %v", err)
		}
	}(s.server)

	return nil
}

// Stop closes websocket clients and shuts the server down gracefully
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.hub.CloseAll()
	s.monitor.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.GetShutdownTimeout())
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.running = false
	return nil
}

// NotifyClients sends an event to every connected websocket client
func (s *Server) NotifyClients(event ports.UpdateEvent) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.running {
		return errors.New("server not running")
	}

	s.hub.Broadcast(event)
	return nil
}

// IsRunning returns whether the server is currently running
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the listening address once started
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// buildHandler registers routes and applies, from the inside out:
// security headers, rate limiting, request logging, request counting,
// panic recovery, CORS
func (s *Server) buildHandler() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleCurrentSlide).Methods(http.MethodGet)
	router.HandleFunc("/slides/{n:[0-9]+}", s.handleSlide).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/deck", s.handleDeck).Methods(http.MethodGet)
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/navigate", s.handleNavigate).Methods(http.MethodPost)

	router.HandleFunc("/progress.svg", s.handleProgress).Methods(http.MethodGet)
	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path), http.StatusNotFound)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.handleError(w, fmt.Errorf("%s not allowed on %s", r.Method, r.URL.Path), http.StatusMethodNotAllowed)
	})

	var handler http.Handler = router
	handler = securityHeadersMiddleware(handler)
	handler = rateLimitMiddleware(handler, s.limiter)
	handler = loggingMiddleware(handler, s.logger.With("http"))
	handler = metricsMiddleware(handler, s.monitor)
	handler = recoveryMiddleware(handler, s.logger.With("http"))

	c := cors.New(cors.Options{
		AllowedOrigins:   s.config.GetCORSOrigins(),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           300,
	})

	return c.Handler(handler)
}
