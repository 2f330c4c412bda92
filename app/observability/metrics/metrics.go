package metrics

import (
	"context"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	QueryRequestsTotal     metric.Int64Counter
	QueryErrorsTotal       metric.Int64Counter
	QueryDurationSeconds   metric.Float64Histogram
	QueryResultSize        metric.Int64Histogram
	DbQueryDurationSeconds metric.Float64Histogram
	DbQueryErrorsTotal     metric.Int64Counter
	SourceCacheHitsTotal   metric.Int64Counter
	SourceCacheMissesTotal metric.Int64Counter
	HTTPRequestsTotal      metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider, so call it
// after the provider is installed.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("UserInsights")
		var err error
		m := &AppMetrics{}

		m.QueryRequestsTotal, err = meter.Int64Counter(
			"insight_queries_total",
			metric.WithDescription("Total number of insight queries executed"),
			metric.WithUnit("{query}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create insight_queries_total: %v", err)
		}

		m.QueryErrorsTotal, err = meter.Int64Counter(
			"insight_query_errors_total",
			metric.WithDescription("Total number of insight queries that failed"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create insight_query_errors_total: %v", err)
		}

		m.QueryDurationSeconds, err = meter.Float64Histogram(
			"insight_query_duration_seconds",
			metric.WithDescription("Duration of insight queries including record loading"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create insight_query_duration_seconds: %v", err)
		}

		m.QueryResultSize, err = meter.Int64Histogram(
			"insight_query_result_size",
			metric.WithDescription("Number of rows returned by an insight query"),
			metric.WithUnit("{row}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create insight_query_result_size: %v", err)
		}

		m.DbQueryDurationSeconds, err = meter.Float64Histogram(
			"db_query_duration_seconds",
			metric.WithDescription("Duration of database queries in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_duration_seconds: %v", err)
		}

		m.DbQueryErrorsTotal, err = meter.Int64Counter(
			"db_query_errors_total",
			metric.WithDescription("Total number of database query errors"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create db_query_errors_total: %v", err)
		}

		m.SourceCacheHitsTotal, err = meter.Int64Counter(
			"source_cache_hits_total",
			metric.WithDescription("Record snapshots served from cache"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create source_cache_hits_total: %v", err)
		}

		m.SourceCacheMissesTotal, err = meter.Int64Counter(
			"source_cache_misses_total",
			metric.WithDescription("Record snapshots loaded from the underlying source"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create source_cache_misses_total: %v", err)
		}

		m.HTTPRequestsTotal, err = meter.Int64Counter(
			"http_requests_total",
			metric.WithDescription("Total number of HTTP requests served"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create http_requests_total: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// RecordQuery records one insight query execution.
func (m *AppMetrics) RecordQuery(ctx context.Context, query string, d time.Duration, rows int, err error) {
	attrs := metric.WithAttributes(attribute.String("query", query))
	m.QueryRequestsTotal.Add(ctx, 1, attrs)
	m.QueryDurationSeconds.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		m.QueryErrorsTotal.Add(ctx, 1, attrs)
		return
	}
	m.QueryResultSize.Record(ctx, int64(rows), attrs)
}

// RecordDBQuery records the duration and outcome of one database operation.
func (m *AppMetrics) RecordDBQuery(ctx context.Context, op string, d time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.String("db.operation", op))
	m.DbQueryDurationSeconds.Record(ctx, d.Seconds(), attrs)
	if err != nil {
		m.DbQueryErrorsTotal.Add(ctx, 1, attrs)
	}
}

// RecordCache counts a cache lookup for the named source.
func (m *AppMetrics) RecordCache(ctx context.Context, source string, hit bool) {
	attrs := metric.WithAttributes(attribute.String("source", source))
	if hit {
		m.SourceCacheHitsTotal.Add(ctx, 1, attrs)
		return
	}
	m.SourceCacheMissesTotal.Add(ctx, 1, attrs)
}

// RecordHTTPRequest counts a served HTTP request.
func (m *AppMetrics) RecordHTTPRequest(ctx context.Context, method, route string, status int) {
	m.HTTPRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", status),
	))
}
