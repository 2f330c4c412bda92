package container

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	database "github.com/FACorreiaa/go-user-insights/app/db"
	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	"github.com/FACorreiaa/go-user-insights/config"
	"github.com/FACorreiaa/go-user-insights/internal/api/insights"
	"github.com/FACorreiaa/go-user-insights/internal/api/users"
	"github.com/FACorreiaa/go-user-insights/internal/router"
)

const defaultCacheTTL = 30 * time.Second

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *slog.Logger
	Metrics         *metrics.AppMetrics
	Pool            *pgxpool.Pool
	Redis           *goredis.Client
	DatabaseURL     string
	Source          users.Source
	Postgres        *users.PostgresSource
	InsightsService *insights.ServiceImpl
	InsightsHandler *insights.HandlerImpl
}

// NewContainer wires the record source selected by cfg.Source.Driver, the
// snapshot cache and the insights service. The Postgres pool and Redis
// client are only opened when the configuration asks for them.
func NewContainer(ctx context.Context, cfg *config.Config, appMetrics *metrics.AppMetrics, logger *slog.Logger) (*Container, error) {
	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: appMetrics,
	}

	defaults := cfg.QueryDefaults()
	if err := insights.ValidateDefaults(defaults); err != nil {
		return nil, fmt.Errorf("invalid query defaults in config: %w", err)
	}

	source, err := c.newSource(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}

	source, err = c.withCache(ctx, source)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Source = source

	c.InsightsService = insights.NewInsightsService(source, defaults, appMetrics, logger)
	c.InsightsHandler = insights.NewHandlerImpl(c.InsightsService, defaults, logger)

	logger.Info("Container initialised",
		slog.String("source", source.Name()),
		slog.String("cache", cfg.Cache.Driver))
	return c, nil
}

func (c *Container) newSource(ctx context.Context) (users.Source, error) {
	src := c.Config.Source
	switch src.Driver {
	case "", "file":
		return users.NewFileSource(src.File, c.Logger), nil
	case "http":
		if src.URL == "" {
			return nil, errors.New("source.url is required for the http driver")
		}
		return users.NewHTTPSource(src.URL, src.Timeout, c.Logger), nil
	case "postgres":
		dbConfig, err := database.NewDatabaseConfig(c.Config, c.Logger)
		if err != nil {
			c.Logger.Error("Failed to generate database config", slog.Any("error", err))
			return nil, err
		}
		pool, err := database.Init(ctx, dbConfig.ConnectionURL, c.Logger)
		if err != nil {
			c.Logger.Error("Failed to initialize database pool", slog.Any("error", err))
			return nil, err
		}
		c.Pool = pool
		c.DatabaseURL = dbConfig.ConnectionURL
		c.Postgres = users.NewPostgresSource(pool, c.Metrics, c.Logger)
		return c.Postgres, nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", src.Driver)
	}
}

func (c *Container) withCache(ctx context.Context, source users.Source) (users.Source, error) {
	ttl := c.Config.Source.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}

	switch c.Config.Cache.Driver {
	case "none":
		return source, nil
	case "", "memory":
		return users.NewCachedSource(source, users.NewMemoryStore(ttl), c.Metrics, c.Logger), nil
	case "redis":
		rc := c.Config.Repositories.Redis
		client, err := users.NewRedisClient(ctx, net.JoinHostPort(rc.Host, rc.Port), rc.Password, rc.DB)
		if err != nil {
			c.Logger.Error("Failed to connect to redis", slog.Any("error", err))
			return nil, err
		}
		c.Redis = client
		return users.NewCachedSource(source, users.NewRedisStore(client, ttl, c.Logger), c.Metrics, c.Logger), nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", c.Config.Cache.Driver)
	}
}

// Router builds the HTTP router for the wired handlers.
func (c *Container) Router() chi.Router {
	return router.SetupRouter(&router.Config{
		InsightsHandler: c.InsightsHandler,
		Metrics:         c.Metrics,
		AllowedOrigins:  c.Config.Server.AllowedOrigins,
		RateLimit:       c.Config.Server.RateLimit,
	})
}

// Close releases all resources held by the container
func (c *Container) Close() {
	if c.Pool != nil {
		c.Pool.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			c.Logger.Warn("Failed to close redis client", slog.Any("error", err))
		}
	}
}

// WaitForDB waits for the database to be ready. Without a pool there is
// nothing to wait for.
func (c *Container) WaitForDB(ctx context.Context) bool {
	if c.Pool == nil {
		return true
	}
	return database.WaitForDB(ctx, c.Pool, c.Logger)
}

// RunMigrations applies the schema migrations when the source is Postgres.
func (c *Container) RunMigrations() error {
	if c.DatabaseURL == "" {
		return nil
	}
	return database.RunMigrations(c.DatabaseURL, c.Logger)
}

// Seed loads the embedded sample dataset into an empty Postgres source.
func (c *Container) Seed(ctx context.Context) error {
	if c.Postgres == nil {
		return nil
	}
	existing, err := c.Postgres.Load(ctx)
	if err != nil {
		return fmt.Errorf("checking existing user records: %w", err)
	}
	if len(existing) > 0 {
		c.Logger.InfoContext(ctx, "User records already present, skipping seed", slog.Int("count", len(existing)))
		return nil
	}

	sample, err := users.NewFileSource(c.Config.Source.File, c.Logger).Load(ctx)
	if err != nil {
		return fmt.Errorf("loading seed records: %w", err)
	}
	n, err := c.Postgres.Import(ctx, sample)
	if err != nil {
		return fmt.Errorf("seeding user records: %w", err)
	}
	c.Logger.InfoContext(ctx, "Seeded user records", slog.Int64("count", n))
	return nil
}
