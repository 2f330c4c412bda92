package router

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-user-insights/internal/api/insights"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

func setupRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return SetupRouter(&Config{
		InsightsHandler: insights.NewHandlerImpl(nil, types.QueryDefaults{}, logger),
		AllowedOrigins:  []string{"*"},
	})
}

func TestSetupRouter(t *testing.T) {
	r := setupRouter(t)

	t.Run("Ping", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "pong", rr.Body.String())
	})

	t.Run("SwaggerDoc", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/doc.json", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		body := rr.Body.String()
		assert.Contains(t, body, `"basePath": "/api/v1"`)
		assert.Contains(t, body, `"/insights/report"`)
		assert.Contains(t, body, `"/insights/top-cities"`)
	})

	t.Run("UnknownRoute", func(t *testing.T) {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/insights/nope", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}
