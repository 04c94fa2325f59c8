// Package api provides the HTTP API server and handlers for the lost-and-found service.
package api

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/24061269-star/um-lost-and-found/internal/auth"
	"github.com/24061269-star/um-lost-and-found/internal/config"
	"github.com/24061269-star/um-lost-and-found/internal/ratelimit"
	"github.com/24061269-star/um-lost-and-found/internal/store"
	"github.com/24061269-star/um-lost-and-found/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store         store.Store
	services      *Services
	router        *chi.Mux
	api           huma.API
	validator     *validation.Validator
	searchLimiter *ratelimit.KeyedRateLimiter
	logger        *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, tokens *auth.TokenService, cfg *config.Config, logger *slog.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   splitOrigins(cfg.Server.CORSOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(authMiddleware(tokens))

	s := &Server{
		store:         st,
		services:      services,
		router:        router,
		validator:     validation.New(),
		searchLimiter: ratelimit.New(cfg.Search.RatePerMinute/60, cfg.Search.RateBurst),
		logger:        logger,
	}

	// The search endpoint is the only one that turns a request into model
	// calls, so it gets its own per-caller limiter in front of huma.
	router.Use(s.searchRateLimit)

	humaConfig := huma.DefaultConfig("Lost & Found API", "1.0.0")
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
	s.registerItemRoutes()
	s.registerSearchRoutes()
	s.registerAdminRoutes()
	s.registerEnrichmentRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.searchLimiter.Stop()
}

// splitOrigins parses the comma-separated CORS origin list.
func splitOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		out = []string{"*"}
	}
	return out
}

// MessageResponse contains a simple status message.
type MessageResponse struct {
	Message string `json:"message" doc:"Status message"`
}

// MessageOutput wraps a message response for Huma.
type MessageOutput struct {
	Body MessageResponse
}
