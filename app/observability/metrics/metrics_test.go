package metrics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitAppMetrics(t *testing.T) {
	InitAppMetrics()
	m := Get()
	require.NotNil(t, m)

	// A second init keeps the first instance.
	InitAppMetrics()
	assert.Same(t, m, Get())

	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordQuery(ctx, "income-car", 10*time.Millisecond, 3, nil)
		m.RecordQuery(ctx, "income-car", time.Millisecond, 0, errors.New("boom"))
		m.RecordDBQuery(ctx, "select", time.Millisecond, nil)
		m.RecordCache(ctx, "file:embedded", true)
		m.RecordCache(ctx, "file:embedded", false)
		m.RecordHTTPRequest(ctx, "GET", "/api/v1/insights/report", 200)
	})
}
