package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	"github.com/FACorreiaa/go-user-insights/internal/api/users"
	"github.com/FACorreiaa/go-user-insights/internal/query"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

// Ensure implementation satisfies the interface
var _ Service = (*ServiceImpl)(nil)

// Service runs insight queries against the configured record source.
type Service interface {
	IncomeAndCar(ctx context.Context, params types.IncomeAndCarParams) ([]types.UserRecord, error)
	GenderAndPhonePrice(ctx context.Context, params types.GenderAndPhonePriceParams) ([]types.UserRecord, error)
	NameQuoteEmail(ctx context.Context, params types.NameQuoteEmailParams) ([]types.UserRecord, error)
	CarAndDigitFreeEmail(ctx context.Context, params types.CarAndDigitFreeEmailParams) ([]types.UserRecord, error)
	TopCities(ctx context.Context, params types.TopCitiesParams) ([]types.CityAggregate, error)

	// Report runs every query over a single snapshot of the source.
	Report(ctx context.Context, params types.QueryDefaults) (*types.Report, error)
	// EvaluateReport runs every query over caller supplied records.
	EvaluateReport(ctx context.Context, records []types.UserRecord, params types.QueryDefaults) (*types.Report, error)
}

// ServiceImpl provides the implementation for Service.
type ServiceImpl struct {
	logger   *slog.Logger
	source   users.Source
	defaults types.QueryDefaults
	metrics  *metrics.AppMetrics
}

// NewInsightsService creates a new insights service instance. defaults
// supply the predicate parameters of a scoped top-cities query.
func NewInsightsService(source users.Source, defaults types.QueryDefaults, appMetrics *metrics.AppMetrics, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:   logger,
		source:   source,
		defaults: defaults,
		metrics:  appMetrics,
	}
}

func (s *ServiceImpl) IncomeAndCar(ctx context.Context, params types.IncomeAndCarParams) ([]types.UserRecord, error) {
	return s.runFilter(ctx, types.QueryIncomeAndCar, []attribute.KeyValue{
		attribute.StringSlice("query.cars", params.Cars),
		attribute.Float64("query.max_income", params.MaxIncome),
	}, func(records []types.UserRecord) []types.UserRecord {
		return query.ByIncomeAndCar(records, params.Cars, params.MaxIncome)
	})
}

func (s *ServiceImpl) GenderAndPhonePrice(ctx context.Context, params types.GenderAndPhonePriceParams) ([]types.UserRecord, error) {
	return s.runFilter(ctx, types.QueryGenderAndPhonePrice, []attribute.KeyValue{
		attribute.String("query.gender", string(params.Gender)),
		attribute.Float64("query.min_phone_price", params.MinPhonePrice),
	}, func(records []types.UserRecord) []types.UserRecord {
		return query.ByGenderAndPhonePrice(records, params.Gender, params.MinPhonePrice)
	})
}

func (s *ServiceImpl) NameQuoteEmail(ctx context.Context, params types.NameQuoteEmailParams) ([]types.UserRecord, error) {
	return s.runFilter(ctx, types.QueryNameQuoteEmail, []attribute.KeyValue{
		attribute.String("query.prefix", params.Prefix),
		attribute.Int("query.min_quote_length", params.MinQuoteLength),
	}, func(records []types.UserRecord) []types.UserRecord {
		return query.ByNameQuoteEmail(records, params.Prefix, params.MinQuoteLength)
	})
}

func (s *ServiceImpl) CarAndDigitFreeEmail(ctx context.Context, params types.CarAndDigitFreeEmailParams) ([]types.UserRecord, error) {
	return s.runFilter(ctx, types.QueryCarAndDigitFreeEmail, []attribute.KeyValue{
		attribute.StringSlice("query.cars", params.Cars),
	}, func(records []types.UserRecord) []types.UserRecord {
		return query.ByCarAndDigitFreeEmail(records, params.Cars)
	})
}

// TopCities aggregates users per city. A non-empty Scope first narrows the
// records to the named predicate query, run with the service defaults.
func (s *ServiceImpl) TopCities(ctx context.Context, params types.TopCitiesParams) ([]types.CityAggregate, error) {
	ctx, span := otel.Tracer("InsightsService").Start(ctx, "TopCities", trace.WithAttributes(
		attribute.Int("query.limit", params.Limit),
		attribute.String("query.scope", string(params.Scope)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "TopCities"), slog.String("scope", string(params.Scope)))
	l.DebugContext(ctx, "Aggregating top cities")
	start := time.Now()

	if params.Scope != "" && !params.Scope.Predicate() {
		err := &types.ParamsError{Details: []types.FieldError{{
			Field: "scope", Message: "unknown query " + string(params.Scope), Type: "oneof",
		}}}
		s.record(ctx, types.QueryTopCities, start, 0, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid scope")
		return nil, err
	}

	records, err := s.load(ctx)
	if err != nil {
		s.record(ctx, types.QueryTopCities, start, 0, err)
		l.ErrorContext(ctx, "Failed to load user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user records")
		return nil, fmt.Errorf("error loading users for %s: %w", types.QueryTopCities, err)
	}

	cities := s.topCities(records, params, s.defaults)
	s.record(ctx, types.QueryTopCities, start, len(cities), nil)

	l.InfoContext(ctx, "Top cities aggregated", slog.Int("users", len(records)), slog.Int("cities", len(cities)))
	span.SetAttributes(attribute.Int("results.count", len(cities)))
	span.SetStatus(codes.Ok, "Top cities aggregated")
	return cities, nil
}

func (s *ServiceImpl) Report(ctx context.Context, params types.QueryDefaults) (*types.Report, error) {
	ctx, span := otel.Tracer("InsightsService").Start(ctx, "Report", trace.WithAttributes(
		attribute.String("source", s.source.Name()),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "Report"))
	l.DebugContext(ctx, "Building report")
	start := time.Now()

	records, err := s.load(ctx)
	if err != nil {
		s.record(ctx, types.QueryReport, start, 0, err)
		l.ErrorContext(ctx, "Failed to load user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user records")
		return nil, fmt.Errorf("error loading users for %s: %w", types.QueryReport, err)
	}

	report := s.buildReport(records, params, s.source.Name())
	s.record(ctx, types.QueryReport, start, report.TotalUsers, nil)

	l.InfoContext(ctx, "Report built", slog.String("reportID", report.ID.String()), slog.Int("users", report.TotalUsers))
	span.SetAttributes(attribute.String("report.id", report.ID.String()))
	span.SetStatus(codes.Ok, "Report built")
	return report, nil
}

func (s *ServiceImpl) EvaluateReport(ctx context.Context, records []types.UserRecord, params types.QueryDefaults) (*types.Report, error) {
	ctx, span := otel.Tracer("InsightsService").Start(ctx, "EvaluateReport", trace.WithAttributes(
		attribute.Int("records.count", len(records)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "EvaluateReport"))
	start := time.Now()

	if err := query.Validate(records); err != nil {
		s.record(ctx, types.QueryReport, start, 0, err)
		l.WarnContext(ctx, "Rejected supplied user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid records")
		return nil, err
	}

	report := s.buildReport(records, params, "request")
	s.record(ctx, types.QueryReport, start, report.TotalUsers, nil)

	l.InfoContext(ctx, "Report evaluated", slog.String("reportID", report.ID.String()), slog.Int("users", report.TotalUsers))
	span.SetStatus(codes.Ok, "Report evaluated")
	return report, nil
}

func (s *ServiceImpl) buildReport(records []types.UserRecord, params types.QueryDefaults, source string) *types.Report {
	return &types.Report{
		ID:                   uuid.New(),
		GeneratedAt:          time.Now().UTC(),
		Source:               source,
		TotalUsers:           len(records),
		IncomeAndCar:         query.ByIncomeAndCar(records, params.IncomeAndCar.Cars, params.IncomeAndCar.MaxIncome),
		GenderAndPhonePrice:  query.ByGenderAndPhonePrice(records, params.GenderAndPhonePrice.Gender, params.GenderAndPhonePrice.MinPhonePrice),
		NameQuoteEmail:       query.ByNameQuoteEmail(records, params.NameQuoteEmail.Prefix, params.NameQuoteEmail.MinQuoteLength),
		CarAndDigitFreeEmail: query.ByCarAndDigitFreeEmail(records, params.CarAndDigitFreeEmail.Cars),
		TopCities:            s.topCities(records, params.TopCities, params),
	}
}

// topCities applies the optional scope before aggregating, so counts and
// averages only ever reflect the scoped subset.
func (s *ServiceImpl) topCities(records []types.UserRecord, params types.TopCitiesParams, scope types.QueryDefaults) []types.CityAggregate {
	switch params.Scope {
	case types.QueryIncomeAndCar:
		records = query.ByIncomeAndCar(records, scope.IncomeAndCar.Cars, scope.IncomeAndCar.MaxIncome)
	case types.QueryGenderAndPhonePrice:
		records = query.ByGenderAndPhonePrice(records, scope.GenderAndPhonePrice.Gender, scope.GenderAndPhonePrice.MinPhonePrice)
	case types.QueryNameQuoteEmail:
		records = query.ByNameQuoteEmail(records, scope.NameQuoteEmail.Prefix, scope.NameQuoteEmail.MinQuoteLength)
	case types.QueryCarAndDigitFreeEmail:
		records = query.ByCarAndDigitFreeEmail(records, scope.CarAndDigitFreeEmail.Cars)
	}
	return query.TopCitiesByUserCount(records, params.Limit)
}

func (s *ServiceImpl) runFilter(
	ctx context.Context,
	name types.QueryName,
	attrs []attribute.KeyValue,
	filter func([]types.UserRecord) []types.UserRecord,
) ([]types.UserRecord, error) {
	spanName := queryMethodName(name)
	ctx, span := otel.Tracer("InsightsService").Start(ctx, spanName, trace.WithAttributes(attrs...))
	defer span.End()

	l := s.logger.With(slog.String("method", spanName))
	l.DebugContext(ctx, "Running insight query")
	start := time.Now()

	records, err := s.load(ctx)
	if err != nil {
		s.record(ctx, name, start, 0, err)
		l.ErrorContext(ctx, "Failed to load user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load user records")
		return nil, fmt.Errorf("error loading users for %s: %w", name, err)
	}

	result := filter(records)
	s.record(ctx, name, start, len(result), nil)

	l.InfoContext(ctx, "Insight query completed", slog.Int("users", len(records)), slog.Int("matches", len(result)))
	span.SetAttributes(attribute.Int("results.count", len(result)))
	span.SetStatus(codes.Ok, "Insight query completed")
	return result, nil
}

func (s *ServiceImpl) load(ctx context.Context) ([]types.UserRecord, error) {
	records, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", s.source.Name(), err)
	}
	return records, nil
}

func (s *ServiceImpl) record(ctx context.Context, name types.QueryName, start time.Time, rows int, err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordQuery(ctx, string(name), time.Since(start), rows, err)
}

// queryMethodName turns "gender-phone" into "GenderPhone".
func queryMethodName(name types.QueryName) string {
	var b strings.Builder
	for _, part := range strings.Split(string(name), "-") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
