package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	appLogger "github.com/FACorreiaa/go-user-insights/app/logger"
	"github.com/FACorreiaa/go-user-insights/app/observability/metrics"
	"github.com/FACorreiaa/go-user-insights/app/tracer"
	"github.com/FACorreiaa/go-user-insights/config"
	"github.com/FACorreiaa/go-user-insights/internal/container"
)

//go:generate swag init -g main.go -o docs

const shutdownTimeout = 10 * time.Second

// @title       User Insights API
// @version     1.0
// @description Read-only queries and reports over user records.
// @BasePath    /api/v1
func main() {
	// Use standard log until slog is configured, in case godotenv fails
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := appLogger.New(os.Getenv("APP_ENV"), os.Stdout)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Application stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("Server exited gracefully")
}

func run(cfg config.Config, logger *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	providers, err := tracer.InitTracingAndMetrics("user-insights")
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Warn("Telemetry shutdown failed", slog.Any("error", err))
		}
	}()
	metrics.InitAppMetrics()

	c, err := container.NewContainer(ctx, &cfg, metrics.Get(), logger)
	if err != nil {
		return fmt.Errorf("building container: %w", err)
	}
	defer c.Close()

	if !c.WaitForDB(ctx) {
		return errors.New("database not ready after waiting")
	}
	if err := c.RunMigrations(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if cfg.Source.SeedOnStart {
		if err := c.Seed(ctx); err != nil {
			return fmt.Errorf("seeding: %w", err)
		}
	}

	timeout := cfg.Server.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      otelhttp.NewHandler(newHandler(c, logger, timeout), "user-insights"),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: timeout + 5*time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError), // Pipe server errors to slog
	}

	servers := []*http.Server{srv}
	if cfg.Handlers.Prometheus.Enabled {
		servers = append(servers, tracer.MetricsServer(fmt.Sprintf(":%s", cfg.Handlers.Prometheus.Port)))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error {
			logger.Info("Starting HTTP server", slog.String("address", s.Addr))
			if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("server %s: %w", s.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received, starting graceful shutdown...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		var errs []error
		for _, s := range servers {
			if err := s.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", s.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// newHandler wraps the application router with the server-wide middleware.
func newHandler(c *container.Container, logger *slog.Logger, timeout time.Duration) http.Handler {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(timeout))
	router.Use(middleware.Compress(5, "application/json", "text/html"))
	router.Mount("/", c.Router())
	return router
}
