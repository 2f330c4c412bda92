package users

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	"github.com/FACorreiaa/go-user-insights/internal/query"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

var _ Source = (*PostgresSource)(nil)

// DBPool is the subset of *pgxpool.Pool the source needs.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

var userRecordColumns = []string{
	"id", "position", "first_name", "last_name", "email", "gender",
	"income", "car_brand", "phone_price", "quote", "city",
}

// PostgresSource reads users from the user_records table in position order.
type PostgresSource struct {
	logger  *slog.Logger
	pgpool  DBPool
	metrics *metrics.AppMetrics
}

func NewPostgresSource(pool DBPool, appMetrics *metrics.AppMetrics, logger *slog.Logger) *PostgresSource {
	return &PostgresSource{
		logger:  logger,
		pgpool:  pool,
		metrics: appMetrics,
	}
}

func (r *PostgresSource) Name() string {
	return "postgres:user_records"
}

func (r *PostgresSource) Load(ctx context.Context) ([]types.UserRecord, error) {
	ctx, span := otel.Tracer("UserSource").Start(ctx, "PostgresSource.Load", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "user_records"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "PostgresSource.Load"))
	start := time.Now()

	q := `
        SELECT first_name, last_name, email, gender, income,
               car_brand, phone_price, quote, city
        FROM user_records
        ORDER BY position
    `
	rows, err := r.pgpool.Query(ctx, q)
	if err != nil {
		r.recordQuery(ctx, "select", start, err)
		l.ErrorContext(ctx, "Failed to query user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB query failed")
		return nil, fmt.Errorf("%w: querying user_records: %v", types.ErrSourceUnavailable, err)
	}
	defer rows.Close()

	records := make([]types.UserRecord, 0)
	for rows.Next() {
		var rec types.UserRecord
		var gender string
		if err := rows.Scan(
			&rec.FirstName, &rec.LastName, &rec.Email, &gender, &rec.Income,
			&rec.CarBrand, &rec.PhonePrice, &rec.Quote, &rec.City,
		); err != nil {
			r.recordQuery(ctx, "select", start, err)
			l.ErrorContext(ctx, "Failed to scan user record", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "DB scan failed")
			return nil, fmt.Errorf("%w: scanning user record: %v", types.ErrSourceUnavailable, err)
		}
		rec.Gender = types.ParseGender(gender)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		r.recordQuery(ctx, "select", start, err)
		l.ErrorContext(ctx, "Error iterating user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB iteration failed")
		return nil, fmt.Errorf("%w: iterating user records: %v", types.ErrSourceUnavailable, err)
	}
	r.recordQuery(ctx, "select", start, nil)

	if err := query.Validate(records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid records")
		return nil, fmt.Errorf("loading %s: %w", r.Name(), err)
	}

	l.DebugContext(ctx, "Loaded users from database", slog.Int("count", len(records)))
	span.SetAttributes(attribute.Int("records.count", len(records)))
	span.SetStatus(codes.Ok, "Users loaded")
	return records, nil
}

// Import replaces the content of user_records with records in a single
// transaction. Input order becomes the position column.
func (r *PostgresSource) Import(ctx context.Context, records []types.UserRecord) (int64, error) {
	ctx, span := otel.Tracer("UserSource").Start(ctx, "PostgresSource.Import", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "COPY"),
		attribute.Int("records.count", len(records)),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "PostgresSource.Import"))
	start := time.Now()

	if err := query.Validate(records); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid records")
		return 0, err
	}

	tx, err := r.pgpool.Begin(ctx)
	if err != nil {
		r.recordQuery(ctx, "import", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Begin failed")
		return 0, fmt.Errorf("failed to start transaction: %w", err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM user_records"); err != nil {
		_ = tx.Rollback(ctx)
		r.recordQuery(ctx, "import", start, err)
		l.ErrorContext(ctx, "Failed to clear user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Delete failed")
		return 0, fmt.Errorf("failed to clear user_records: %w", err)
	}

	rows := make([][]any, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []any{
			uuid.New(), i, rec.FirstName, rec.LastName, rec.Email, string(rec.Gender),
			rec.Income, rec.CarBrand, rec.PhonePrice, rec.Quote, rec.City,
		})
	}

	copied, err := tx.CopyFrom(ctx, pgx.Identifier{"user_records"}, userRecordColumns, pgx.CopyFromRows(rows))
	if err != nil {
		_ = tx.Rollback(ctx)
		r.recordQuery(ctx, "import", start, err)
		l.ErrorContext(ctx, "Failed to copy user records", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Copy failed")
		return 0, fmt.Errorf("failed to copy user records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.recordQuery(ctx, "import", start, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Commit failed")
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	r.recordQuery(ctx, "import", start, nil)

	l.InfoContext(ctx, "Imported user records", slog.Int64("count", copied))
	span.SetStatus(codes.Ok, "Users imported")
	return copied, nil
}

func (r *PostgresSource) recordQuery(ctx context.Context, op string, start time.Time, err error) {
	if r.metrics == nil {
		return
	}
	r.metrics.RecordDBQuery(ctx, op, time.Since(start), err)
}
