package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/clinicware/agenda/internal/api/router"
	"github.com/clinicware/agenda/internal/appointments"
	"github.com/clinicware/agenda/internal/catalog"
	"github.com/clinicware/agenda/internal/clients"
	appconfig "github.com/clinicware/agenda/internal/config"
	"github.com/clinicware/agenda/internal/observability/metrics"
	"github.com/clinicware/agenda/internal/scheduling"
	"github.com/clinicware/agenda/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.Env)
	logger.Info("starting agenda API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		defer pool.Close()
	}
	repo, dir, cat := setupPersistence(pool, logger)

	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		defer func() { _ = rdb.Close() }()
		cat = catalog.NewStore(cat, rdb, cfg.CatalogCacheTTL)
		logger.Info("catalog cache enabled", "addr", cfg.RedisAddr, "ttl", cfg.CatalogCacheTTL)
	}

	metricsHandler, schedulingMetrics := setupSchedulingMetrics()

	engineOpts := []scheduling.Option{
		scheduling.WithLogger(logger),
		scheduling.WithMetrics(schedulingMetrics),
		scheduling.WithFallbackDuration(time.Duration(cfg.DefaultDurationMins) * time.Minute),
	}
	if cfg.PreventOverlap {
		engineOpts = append(engineOpts, scheduling.WithOverlapCheck())
	}
	engine := scheduling.NewEngine(repo, dir, cat, engineOpts...)

	handler := appointments.NewHandler(engine, repo, cat, logger)

	// Setup router
	routerCfg := &router.Config{
		Logger:              logger,
		AppointmentsHandler: handler,
		StaffJWTSecret:      cfg.StaffJWTSecret,
		MetricsHandler:      metricsHandler,
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// connectPostgresPool returns nil when no DATABASE_URL is configured;
// callers fall back to in-memory persistence.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create postgres pool", "error", err)
		os.Exit(1)
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		os.Exit(1)
	}
	return pool
}

func setupPersistence(pool *pgxpool.Pool, logger *logging.Logger) (scheduling.Repository, scheduling.ClientDirectory, catalog.Catalog) {
	if pool != nil {
		logger.Info("using postgres persistence")
		return appointments.NewPostgresRepository(pool),
			clients.NewPostgresDirectory(pool),
			catalog.NewPostgres(pool)
	}
	logger.Warn("DATABASE_URL not set, using in-memory persistence")
	return appointments.NewInMemoryRepository(),
		clients.NewInMemoryDirectory(),
		catalog.Default()
}

func setupSchedulingMetrics() (http.Handler, *metrics.SchedulingMetrics) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	schedulingMetrics := metrics.NewSchedulingMetrics(registry)
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), schedulingMetrics
}
