// Package api provides the HTTP API server and handlers for the chapterforge server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/chapterforge/chapterforge-server/internal/http/response"
	"github.com/chapterforge/chapterforge-server/internal/service"
	"github.com/chapterforge/chapterforge-server/internal/sse"
	"github.com/chapterforge/chapterforge-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	generateService *service.GenerateService
	sseHandler      *sse.Handler
	validator       *validation.Validator
	router          *chi.Mux
	logger          *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(generateService *service.GenerateService, sseHandler *sse.Handler, logger *slog.Logger) *Server {
	s := &Server{
		generateService: generateService,
		sseHandler:      sseHandler,
		validator:       validation.New(),
		router:          chi.NewRouter(),
		logger:          logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/items/{id}/generate", s.handleGenerateItem)
		r.Get("/runs/latest", s.handleLatestRun)

		// Event stream.
		r.Get("/events", s.sseHandler.ServeHTTP)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
