package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"erp-import-platform/internal/config"
	"erp-import-platform/internal/handlers"
	"erp-import-platform/internal/logger"
	"erp-import-platform/internal/middleware"
	"erp-import-platform/internal/services"
)

// Server represents the HTTP server
type Server struct {
	config            *config.Config
	logger            *logger.Logger
	router            *mux.Router
	httpServer        *http.Server
	healthHandler     *handlers.HealthHandler
	connectionHandler *handlers.ConnectionHandler
	entityHandler     *handlers.EntityHandler
	templateHandler   *handlers.TemplateHandler
	validationHandler *handlers.ValidationHandler
	importHandler     *handlers.ImportHandler
	sessionHandler    *handlers.SessionHandler
	authMiddleware    *middleware.AuthMiddleware
	metrics           *services.Metrics
}

// NewServer creates a new HTTP server
func NewServer(
	cfg *config.Config,
	log *logger.Logger,
	healthHandler *handlers.HealthHandler,
	connectionHandler *handlers.ConnectionHandler,
	entityHandler *handlers.EntityHandler,
	templateHandler *handlers.TemplateHandler,
	validationHandler *handlers.ValidationHandler,
	importHandler *handlers.ImportHandler,
	sessionHandler *handlers.SessionHandler,
	authMiddleware *middleware.AuthMiddleware,
	metrics *services.Metrics,
) *Server {
	router := mux.NewRouter()

	server := &Server{
		config:            cfg,
		logger:            log,
		router:            router,
		healthHandler:     healthHandler,
		connectionHandler: connectionHandler,
		entityHandler:     entityHandler,
		templateHandler:   templateHandler,
		validationHandler: validationHandler,
		importHandler:     importHandler,
		sessionHandler:    sessionHandler,
		authMiddleware:    authMiddleware,
		metrics:           metrics,
	}

	server.setupRoutes()
	server.setupHTTPServer()

	return server
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoints (no auth required)
	s.router.HandleFunc("/health", s.healthHandler.HandleHealthCheck).Methods("GET")
	s.router.HandleFunc("/health/live", s.healthHandler.HandleLivenessProbe).Methods("GET")

	// Metrics endpoint (no auth required for monitoring systems)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{})).Methods("GET")

	// API routes require a bearer token
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.Use(s.authMiddleware.RequireAuth)

	s.connectionHandler.RegisterRoutes(api)
	s.entityHandler.RegisterRoutes(api)
	s.templateHandler.RegisterRoutes(api)
	s.validationHandler.RegisterRoutes(api)
	s.importHandler.RegisterRoutes(api)
	s.sessionHandler.RegisterRoutes(api)

	s.router.Use(s.loggingMiddleware)
}

// setupHTTPServer configures the HTTP server. The write timeout must cover
// a full import stream, not a single response write.
func (s *Server) setupHTTPServer() {
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  time.Duration(s.config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.config.Server.IdleTimeout) * time.Second,
	}
}

// Start starts the HTTP server
func (s *Server) Start(ctx context.Context) error {
	s.logger.WithField("port", s.config.Server.Port).Info("Starting HTTP server")

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		s.logger.WithError(err).Error("HTTP server error")
		return err
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop() error {
	s.logger.Info("Shutting down HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.httpServer.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.WithFields(map[string]interface{}{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      wrapped.statusCode,
			"duration_ms": time.Since(start).Milliseconds(),
			"remote_addr": r.RemoteAddr,
		}).Info("HTTP request")
	})
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Flush passes through to the underlying writer so event streams work
// behind the logging middleware
func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
