package rest

import (
	"net/http"

	"tangle-backend/application/store"
	"tangle-backend/infrastructure/config"
	"tangle-backend/interfaces/http/rest/handlers"
	"tangle-backend/interfaces/http/rest/middleware"
	"tangle-backend/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Router creates and configures the HTTP router
type Router struct {
	cfg      *config.Config
	registry *store.Registry
	watcher  *config.Watcher
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewRouter creates a new router instance
func NewRouter(
	cfg *config.Config,
	registry *store.Registry,
	watcher *config.Watcher,
	metrics *observability.Collector,
	logger *zap.Logger,
) *Router {
	return &Router{
		cfg:      cfg,
		registry: registry,
		watcher:  watcher,
		metrics:  metrics,
		logger:   logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	if rt.cfg.EnableMetrics {
		router.Use(middleware.Metrics(rt.metrics))
	}

	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   []string{"http://localhost:3000"},
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", middleware.IdentityHeader},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}

	// Health checks
	router.Get("/health", rt.healthCheck)
	router.Get("/ready", rt.readinessCheck)

	if rt.cfg.EnableMetrics {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	// API v1 routes
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity())

		captureHandler := handlers.NewCaptureHandler(rt.registry, rt.watcher, rt.logger)
		r.Route("/captures", func(r chi.Router) {
			r.Post("/", captureHandler.CreateCapture)
			r.Post("/import", captureHandler.ImportCaptures)
			r.Delete("/{captureID}", captureHandler.DeleteCapture)
			r.Delete("/", captureHandler.ClearCaptures)
		})

		r.Get("/graph", handlers.NewGraphHandler(rt.registry, rt.logger).GetGraph)
		r.Get("/search", handlers.NewSearchHandler(rt.registry, rt.logger).Search)
		r.Post("/publish", handlers.NewPublishHandler(rt.registry, rt.logger).Publish)
	})

	return router
}

// healthCheck handles health check requests
func (rt *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}

// readinessCheck handles readiness check requests
func (rt *Router) readinessCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ready"}`))
}
