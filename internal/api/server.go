// Package api provides the HTTP API server and handlers for the Colored In palette service.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coloredin/coloredin-server/internal/auth"
	"github.com/coloredin/coloredin-server/internal/ratelimit"
	"github.com/coloredin/coloredin-server/internal/service"
)

// Options carries server settings that are not services.
type Options struct {
	Title         string
	Version       string
	CORSOrigins   []string
	BillingSecret string                      // Empty disables the billing webhook
	Limiter       *ratelimit.KeyedRateLimiter // Per-IP limit on /api, nil disables
	Checks        map[string]HealthCheck      // Health checks by component name
	RequestLog    bool                        // chi request logging
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	router   *chi.Mux
	api      huma.API
	services *Services
	tokens   *auth.TokenService
	opts     Options
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, tokens *auth.TokenService, opts Options, logger *slog.Logger) *Server {
	if opts.Title == "" {
		opts.Title = "Colored In API"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		router:   chi.NewRouter(),
		services: services,
		tokens:   tokens,
		opts:     opts,
		logger:   logger,
	}

	s.setupMiddleware()
	s.api = humachi.New(s.router, s.humaConfig())
	RegisterErrorHandler()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// API returns the huma API, mostly for OpenAPI generation.
func (s *Server) API() huma.API {
	return s.api
}

func (s *Server) humaConfig() huma.Config {
	config := huma.DefaultConfig(s.opts.Title, s.opts.Version)
	config.Info.Description = "Procedurally generated color palettes, user palettes and plan-gated catalog access."
	config.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	config.Transformers = append(config.Transformers, EnvelopeTransformer)
	return config
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(requestLogContext)
	s.router.Use(middleware.RealIP)
	if s.opts.RequestLog {
		s.router.Use(middleware.Logger)
	}
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", service.SignatureHeader},
		ExposedHeaders:   []string{"Retry-After", "X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(metricsMiddleware)
	s.router.Use(RateLimitMiddleware(s.opts.Limiter, s.logger))
	s.router.Use(authMiddleware(s.tokens))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Handle("/metrics", promhttp.Handler())

	s.registerHealthRoutes()
	s.registerCatalogRoutes()
	s.registerPaletteRoutes()
	s.registerFeedRoutes()
	s.registerSubscriptionRoutes()
	s.registerAIRoutes()
}
