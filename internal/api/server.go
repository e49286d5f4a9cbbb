// Package api provides the HTTP API server and handlers for the Paginoid server.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paginoid/paginoid-server/internal/service"
	"github.com/paginoid/paginoid-server/internal/sse"
	"github.com/paginoid/paginoid-server/internal/store"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Book    *service.BookService
	Profile *service.ProfileService
	Reading *service.ReadingService
	Goal    *service.GoalService
	Search  *service.SearchService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           *store.Store
	services        *Services
	router          *chi.Mux
	api             huma.API
	sseHandler      *sse.Handler
	sseManager      *sse.Manager
	streamHandler   *sse.StreamHandler
	logger          *slog.Logger
	authRateLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
// corsOrigins lists the allowed CORS origins for the PWA; nil allows any origin.
func NewServer(st *store.Store, services *Services, sseHandler *sse.Handler, sseManager *sse.Manager, streamHandler *sse.StreamHandler, corsOrigins []string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "Last-Event-ID"},
		MaxAge:         300,
	}))
	router.Use(authMiddleware(services.Auth))

	s := &Server{
		store:           st,
		services:        services,
		router:          router,
		sseHandler:      sseHandler,
		sseManager:      sseManager,
		streamHandler:   streamHandler,
		logger:          logger,
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
	}

	router.Use(s.rateLimitAuth)

	humaConfig := huma.DefaultConfig("Paginoid API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerBookRoutes()
	s.registerProfileRoutes()
	s.registerReadingRoutes()
	s.registerGoalRoutes()
	s.registerSearchRoutes()

	// SSE endpoints bypass huma: they hold the connection open and write
	// raw text/event-stream frames.
	if s.sseHandler != nil {
		router.Get("/api/v1/events", s.sseHandler.ServeHTTP)
	}
	if s.streamHandler != nil {
		router.Get("/api/v1/shelf/stream", s.streamHandler.ServeHTTP)
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
