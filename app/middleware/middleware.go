package appMiddleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	"github.com/FACorreiaa/go-user-insights/internal/api"
)

// RequestMetrics counts every served request by method, matched route
// pattern and status.
func RequestMetrics(m *metrics.AppMetrics) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.RecordHTTPRequest(r.Context(), r.Method, route, status)
		})
	}
}

// RateLimit allows requestsPerMinute per client IP. A non-positive limit
// disables it.
func RateLimit(requestsPerMinute int) func(next http.Handler) http.Handler {
	if requestsPerMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		requestsPerMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			api.ErrorResponse(w, r, http.StatusTooManyRequests, "Too many requests")
		}),
	)
}
