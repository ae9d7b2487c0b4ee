package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	portsrepo "github.com/SscSPs/ledger_txn_processor/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_txn_processor/internal/core/services"
	"github.com/SscSPs/ledger_txn_processor/internal/handlers"
	"github.com/SscSPs/ledger_txn_processor/internal/middleware"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/config"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/logger"
	"github.com/SscSPs/ledger_txn_processor/internal/platform/metrics"
	"github.com/SscSPs/ledger_txn_processor/internal/repositories/database/pgsql"
	"github.com/SscSPs/ledger_txn_processor/internal/repositories/memory"
	"github.com/SscSPs/ledger_txn_processor/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Ledger Transaction Processor API
// @version 1.0
// @description Registers and atomically processes deposits, withdrawals and transfers against ledger accounts.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	appLogger := logger.New(cfg.LogLevel)
	slog.SetDefault(appLogger)

	ctx := context.Background()
	repos, closeStore, err := openRepositories(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to initialize storage", slog.String("backend", cfg.StorageBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serviceContainer := services.NewServiceContainer(cfg, repos, metrics.NewPrometheus(registry))

	r, err := newRouter(cfg, appLogger)
	if err != nil {
		appLogger.Error("Failed to build router", slog.String("error", err.Error()))
		os.Exit(1)
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer, registry)

	httpServer := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		appLogger.Info("Server starting", slog.String("port", cfg.Port), slog.String("storage", cfg.StorageBackend))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutdown signal received, shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
		return
	}
	appLogger.Info("HTTP server shut down gracefully.")
}

// openRepositories builds the repository set for the configured backend. The returned func
// releases whatever the backend holds open.
func openRepositories(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.StorageBackend == config.StorageMemory {
		appLogger.Warn("Using in-memory storage, data is lost on restart")
		return memory.NewRepositoryProvider(memory.NewStore(cfg.LockTimeout)), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.WithConnectTimeout(10*time.Second))
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	if err := runMigrations(cfg, appLogger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool, cfg.LockTimeout), func() { database.ClosePgxPool(dbPool) }, nil
}

// runMigrations applies every pending "up" migration from cfg.MigrationsPath.
func runMigrations(cfg *config.Config, appLogger *slog.Logger) error {
	appLogger.Info("Running database migrations...")
	// Open a temporary standard sql.DB connection for migrations
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			appLogger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}
	// Check for dirty migrations after running Up.
	if sourceErr, dbErr := m.Close(); sourceErr != nil || dbErr != nil {
		return errors.Join(sourceErr, dbErr)
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		appLogger.Info("No new migrations to apply.")
	} else {
		appLogger.Info("Database migrations applied successfully.")
	}
	return nil
}

// newRouter creates the engine with the global middleware chain.
func newRouter(cfg *config.Config, appLogger *slog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery)
	r.Use(middleware.StructuredLoggingMiddleware(appLogger), gin.Recovery())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	rateLimiter, err := middleware.NewMemoryRateLimiter(cfg.RateLimit)
	if err != nil {
		return nil, err
	}
	r.Use(middleware.RateLimit(rateLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, err
	}
	return r, nil
}
