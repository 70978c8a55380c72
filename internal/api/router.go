package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"
)

// DefaultRequestsPerMinute is the per-IP rate limit when none is configured.
const DefaultRequestsPerMinute = 60

// RouterConfig carries the optional parts of the router.
type RouterConfig struct {
	// Token enables bearer auth on itinerary routes when non-empty.
	Token string
	// AllowedOrigins for CORS. Empty allows any origin.
	AllowedOrigins []string
	// RequestsPerMinute per client IP; zero selects DefaultRequestsPerMinute.
	RequestsPerMinute int
	// Health lists the dependencies pinged by /api/v1/health.
	Health []HealthCheck
	// Metrics is mounted at /metrics when non-nil.
	Metrics http.Handler
}

// NewRouter builds and returns the Chi router with all routes configured.
// Health, currencies and metrics are unauthenticated; itinerary generation
// requires bearer auth when a token is configured.
func NewRouter(handlers *Handlers, cfg RouterConfig, log *slog.Logger) *chi.Mux {
	r := chi.NewRouter()

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = DefaultRequestsPerMinute
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         600,
	}).Handler)

	r.Get("/api/v1/health", HealthHandlerFunc(cfg.Health, log))
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(rpm, time.Minute))
		r.Get("/api/v1/currencies", handlers.ListCurrencies)

		r.Group(func(r chi.Router) {
			if cfg.Token != "" {
				r.Use(BearerAuth(cfg.Token))
			}
			r.Post("/api/v1/itineraries", handlers.GenerateItinerary)
			// Legacy path still posted to by older form clients.
			r.Post("/api/generate-itinerary", handlers.GenerateItinerary)
		})
	})

	return r
}

// Ensure chi.Mux implements http.Handler.
var _ http.Handler = (*chi.Mux)(nil)
