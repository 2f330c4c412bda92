package users

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/patrickmn/go-cache"
	goredis "github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	"github.com/FACorreiaa/go-user-insights/internal/types"
)

var (
	_ Source        = (*CachedSource)(nil)
	_ SnapshotStore = (*MemoryStore)(nil)
	_ SnapshotStore = (*RedisStore)(nil)
)

// SnapshotStore keeps loaded record snapshots keyed by source name.
// Implementations treat every failure as a miss.
type SnapshotStore interface {
	Get(ctx context.Context, key string) ([]types.UserRecord, bool)
	Set(ctx context.Context, key string, records []types.UserRecord)
}

// MemoryStore is an in-process SnapshotStore.
type MemoryStore struct {
	cache *cache.Cache
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: cache.New(ttl, 2*ttl)}
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]types.UserRecord, bool) {
	cached, found := s.cache.Get(key)
	if !found {
		return nil, false
	}
	records, ok := cached.([]types.UserRecord)
	if !ok {
		return nil, false
	}
	return slices.Clone(records), true
}

func (s *MemoryStore) Set(_ context.Context, key string, records []types.UserRecord) {
	s.cache.Set(key, slices.Clone(records), cache.DefaultExpiration)
}

// RedisStore is a JSON-encoded SnapshotStore shared between instances.
type RedisStore struct {
	client *goredis.Client
	ttl    time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedisStore(client *goredis.Client, ttl time.Duration, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
		prefix: "user-insights:snapshot:",
		logger: logger,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) ([]types.UserRecord, bool) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if err != goredis.Nil {
			s.logger.WarnContext(ctx, "Redis snapshot read failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}
	var records []types.UserRecord
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.WarnContext(ctx, "Redis snapshot is corrupt", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return records, true
}

// Set stores records under key. Write errors are logged, not returned.
func (s *RedisStore) Set(ctx context.Context, key string, records []types.UserRecord) {
	data, err := json.Marshal(records)
	if err != nil {
		s.logger.WarnContext(ctx, "Redis snapshot marshal failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.ttl).Err(); err != nil {
		s.logger.WarnContext(ctx, "Redis snapshot write failed", slog.String("key", key), slog.Any("error", err))
	}
}

// NewRedisClient connects to Redis and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return rdb, nil
}

// CachedSource serves snapshots of an inner Source from a SnapshotStore.
type CachedSource struct {
	inner   Source
	store   SnapshotStore
	metrics *metrics.AppMetrics
	logger  *slog.Logger
}

func NewCachedSource(inner Source, store SnapshotStore, appMetrics *metrics.AppMetrics, logger *slog.Logger) *CachedSource {
	return &CachedSource{
		inner:   inner,
		store:   store,
		metrics: appMetrics,
		logger:  logger,
	}
}

func (c *CachedSource) Name() string {
	return c.inner.Name()
}

func (c *CachedSource) Load(ctx context.Context) ([]types.UserRecord, error) {
	key := c.inner.Name()
	ctx, span := otel.Tracer("UserSource").Start(ctx, "CachedSource.Load", trace.WithAttributes(
		attribute.String("cache.key", key),
	))
	defer span.End()

	if records, ok := c.store.Get(ctx, key); ok {
		c.record(ctx, key, true)
		span.SetAttributes(attribute.Bool("cache.hit", true))
		c.logger.DebugContext(ctx, "Serving users from cache", slog.String("source", key), slog.Int("count", len(records)))
		return records, nil
	}
	c.record(ctx, key, false)
	span.SetAttributes(attribute.Bool("cache.hit", false))

	records, err := c.inner.Load(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(ctx, key, records)
	return records, nil
}

func (c *CachedSource) record(ctx context.Context, key string, hit bool) {
	if c.metrics != nil {
		c.metrics.RecordCache(ctx, key, hit)
	}
}
