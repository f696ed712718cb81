package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/catalog-readpath/internal/cache"
	"github.com/utafrali/catalog-readpath/pkg/health"
	"github.com/utafrali/catalog-readpath/pkg/middleware"
)

// RouterDeps carries everything the router wires together. Store and
// Coordinator may be nil, in which case the read path serves uncached and
// writes skip invalidation.
type RouterDeps struct {
	Search      *SearchHandler
	Store       cache.Store
	Coordinator *cache.Coordinator
	Health      *health.Handler
	SearchTTL   time.Duration
	Logger      *slog.Logger
}

// NewRouter assembles the HTTP surface: middleware stack, operational
// endpoints and the versioned API.
func NewRouter(deps RouterDeps) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.Identity())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics("catalog-readpath"))

	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	cached := passthrough
	invalidated := passthrough
	if deps.Store != nil {
		cached = cache.ResponseCache(deps.Store, deps.SearchTTL, cache.SearchKey, deps.Logger)
	}
	if deps.Coordinator != nil {
		invalidated = cache.Invalidation(deps.Coordinator, cache.FamilyCatalog)
	}

	r.Route("/api/v1/search", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(cached)
			r.Get("/", deps.Search.Search)
			r.Get("/suggest", deps.Search.Suggest)
		})

		r.Group(func(r chi.Router) {
			r.Use(invalidated)
			r.Post("/index", deps.Search.Index)
			r.Post("/bulk", deps.Search.BulkIndex)
			r.Post("/reindex", deps.Search.Reindex)
			r.Delete("/{id}", deps.Search.Remove)
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
