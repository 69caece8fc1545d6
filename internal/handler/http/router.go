package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jannat-miftahul/plantnet/internal/service"
	"github.com/jannat-miftahul/plantnet/pkg/health"
	"github.com/jannat-miftahul/plantnet/pkg/middleware"
)

// NewRouter creates a chi router with all catalog service routes registered.
func NewRouter(
	catalogService *service.CatalogService,
	healthHandler *health.Handler,
	corsConfig middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("catalog"))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Catalog API endpoints
	catalogHandler := NewCatalogHandler(catalogService, logger)

	r.Route("/api/v1/plants", func(r chi.Router) {
		r.Get("/", catalogHandler.Browse)
		r.Get("/categories", catalogHandler.Categories)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/refresh", catalogHandler.Refresh)
		})
	})

	return r
}
