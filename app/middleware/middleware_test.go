package appMiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestRateLimit(t *testing.T) {
	r := chi.NewRouter()
	r.Use(RateLimit(2))
	r.Get("/", okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.7:4000"
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "198.51.100.1:4000"
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, other)
	assert.Equal(t, http.StatusOK, rr.Code, "limit is per client IP")
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0)(http.HandlerFunc(okHandler))
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
	}
}

func TestRequestMetrics(t *testing.T) {
	metrics.InitAppMetrics()

	r := chi.NewRouter()
	r.Use(RequestMetrics(metrics.Get()))
	r.Get("/items/{id}", okHandler)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/items/42", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}
