package tracer

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInitTracingAndMetrics(t *testing.T) {
	providers, err := InitTracingAndMetrics("user-insights-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	counter, err := otel.GetMeterProvider().Meter("test").Int64Counter("tracer_test_events_total")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	srv := MetricsServer(":0")
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "tracer_test_events_total")
}
