package users

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-insights/data"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

// MaxPayloadBytes caps a record payload read from a remote source or a
// request body.
const MaxPayloadBytes = 1 << 20

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*HTTPSource)(nil)
)

// Source supplies the record snapshot a query runs against. Implementations
// return canonical, validated records.
type Source interface {
	Load(ctx context.Context) ([]types.UserRecord, error)
	// Name identifies the source in logs, cache keys and reports.
	Name() string
}

// FileSource reads users from a JSON file. An empty path serves the
// embedded sample dataset.
type FileSource struct {
	logger *slog.Logger
	path   string
}

func NewFileSource(path string, logger *slog.Logger) *FileSource {
	return &FileSource{
		logger: logger,
		path:   path,
	}
}

func (s *FileSource) Name() string {
	if s.path == "" {
		return "file:embedded"
	}
	return "file:" + s.path
}

func (s *FileSource) Load(ctx context.Context) ([]types.UserRecord, error) {
	ctx, span := otel.Tracer("UserSource").Start(ctx, "FileSource.Load", trace.WithAttributes(
		attribute.String("source.name", s.Name()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "FileSource.Load"), slog.String("source", s.Name()))

	content := data.SampleUsers
	if s.path != "" {
		var err error
		content, err = os.ReadFile(s.path)
		if err != nil {
			l.ErrorContext(ctx, "Failed to read user file", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to read user file")
			return nil, fmt.Errorf("%w: reading %s: %v", types.ErrSourceUnavailable, s.path, err)
		}
	}

	records, err := DecodeRecords(bytes.NewReader(content))
	if err != nil {
		l.ErrorContext(ctx, "User file holds invalid records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid records")
		return nil, fmt.Errorf("loading %s: %w", s.Name(), err)
	}

	l.DebugContext(ctx, "Loaded users from file", slog.Int("count", len(records)))
	span.SetAttributes(attribute.Int("records.count", len(records)))
	span.SetStatus(codes.Ok, "Users loaded")
	return records, nil
}

// HTTPSource fetches users from a backend endpoint returning a JSON array.
type HTTPSource struct {
	logger *slog.Logger
	url    string
	client *http.Client
}

func NewHTTPSource(url string, timeout time.Duration, logger *slog.Logger) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		logger: logger,
		url:    url,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (s *HTTPSource) Name() string {
	return "http:" + s.url
}

func (s *HTTPSource) Load(ctx context.Context) ([]types.UserRecord, error) {
	ctx, span := otel.Tracer("UserSource").Start(ctx, "HTTPSource.Load", trace.WithAttributes(
		attribute.String("source.name", s.Name()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "HTTPSource.Load"), slog.String("url", s.url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid request")
		return nil, fmt.Errorf("%w: building request: %v", types.ErrSourceUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch users", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Fetch failed")
		return nil, fmt.Errorf("%w: fetching %s: %v", types.ErrSourceUnavailable, s.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		l.ErrorContext(ctx, "Backend returned non-success status", slog.Int("status", resp.StatusCode))
		span.SetStatus(codes.Error, "Unexpected status")
		return nil, fmt.Errorf("%w: %s returned status %d", types.ErrSourceUnavailable, s.url, resp.StatusCode)
	}

	body := &io.LimitedReader{R: resp.Body, N: MaxPayloadBytes + 1}
	records, err := DecodeRecords(body)
	if body.N <= 0 {
		l.ErrorContext(ctx, "Backend payload too large", slog.Int64("limit", MaxPayloadBytes))
		span.SetStatus(codes.Error, "Payload too large")
		return nil, fmt.Errorf("%w: %s returned more than %d bytes", types.ErrSourceUnavailable, s.url, MaxPayloadBytes)
	}
	if err != nil {
		l.ErrorContext(ctx, "Backend returned invalid records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid records")
		return nil, fmt.Errorf("loading %s: %w", s.Name(), err)
	}

	l.DebugContext(ctx, "Fetched users", slog.Int("count", len(records)))
	span.SetAttributes(attribute.Int("records.count", len(records)))
	span.SetStatus(codes.Ok, "Users fetched")
	return records, nil
}
