package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	appMiddleware "github.com/FACorreiaa/go-user-insights/app/middleware"
	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	_ "github.com/FACorreiaa/go-user-insights/docs"
	"github.com/FACorreiaa/go-user-insights/internal/api/insights"
)

// Config contains dependencies needed for the router setup
type Config struct {
	InsightsHandler *insights.HandlerImpl
	Metrics         *metrics.AppMetrics
	AllowedOrigins  []string
	// RateLimit is requests per minute per client IP; zero disables it.
	RateLimit int
}

// SetupRouter initializes and configures the application router.
// Server-wide middleware (logger, requestID, recoverer) is applied in
// main.go before mounting this router.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300, // Maximum value not ignored by any major browsers
	}))
	if cfg.Metrics != nil {
		r.Use(appMiddleware.RequestMetrics(cfg.Metrics))
	}

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("User insights API. See /api/v1/insights/report"))
	})

	// Heartbeat/Health check endpoint
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("pong"))
	})

	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(appMiddleware.RateLimit(cfg.RateLimit))
		r.Mount("/insights", cfg.InsightsHandler.Routes())
	})

	return r
}
