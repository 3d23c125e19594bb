package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/amirhossein-jamali/arena-ledger/internal/domain/entity"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/audit"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/auth"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/ledger"
	"github.com/amirhossein-jamali/arena-ledger/internal/domain/usecase/session"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/idgen"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/metrics"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/repository"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/store"
	timeProvider "github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/arena-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate essential configuration
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create logger
	appLogger, err := logger.NewZapLogger(logger.Options{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		CallerInfo: cfg.Logger.CallerInfo,
	})
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = appLogger.Flush() }()

	tp := timeProvider.NewRealTimeProvider()
	ids := idgen.NewUUIDGenerator()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Open the key-value store selected by configuration
	ctx := context.Background()
	be, err := openBackend(ctx, cfg, appLogger, tp, ids, registry)
	if err != nil {
		appLogger.Error("Failed to open store", map[string]any{
			"driver": cfg.Store.Driver,
			"error":  err.Error(),
		})
		os.Exit(1)
	}
	defer func() {
		if err := be.close(); err != nil {
			appLogger.Error("Failed to close store", map[string]any{"error": err.Error()})
		}
	}()

	// Initialize repositories
	seeder := repository.NewSeeder(be.store, repository.SeedConfig{
		AdminWallet:   entity.WholeUnits(cfg.Ledger.AdminSeedWallet),
		AvatarBaseURL: repository.DefaultSeedConfig().AvatarBaseURL,
		EmailDomain:   cfg.Ledger.EmailDomain,
	}, tp)
	repos := ledger.Repositories{
		Users:         repository.NewUserRepository(be.store, seeder, appLogger),
		Sessions:      repository.NewSessionRepository(be.store, appLogger),
		Tournaments:   repository.NewTournamentRepository(be.store, seeder, appLogger),
		Transactions:  repository.NewTransactionRepository(be.store, appLogger),
		History:       repository.NewMatchHistoryRepository(be.store, appLogger),
		Notifications: repository.NewNotificationRepository(be.store),
		Settings:      repository.NewSettingsRepository(be.store),
		Seeder:        seeder,
	}

	// Unit of work and session context
	uow := store.NewUnitOfWork(be.store, appLogger)
	sessionCtx := session.NewContext(repos.Sessions)

	policy := ledger.DefaultPolicy()
	policy.MinDeposit = entity.WholeUnits(cfg.Ledger.MinDeposit)
	policy.MinWithdrawal = entity.WholeUnits(cfg.Ledger.MinWithdrawal)
	policy.WelcomeBonus = entity.WholeUnits(cfg.Ledger.WelcomeBonus)
	policy.EmailDomain = cfg.Ledger.EmailDomain
	policy.LockTimeout = time.Duration(cfg.Transaction.LockTimeoutMs) * time.Millisecond

	appMetrics := metrics.NewPrometheus(registry)

	// Initialize use cases
	engine := ledger.NewEngine(repos, sessionCtx, uow, be.lock, ids, tp, appLogger, appMetrics, policy)
	if err := engine.Open(ctx); err != nil {
		appLogger.Error("Failed to open ledger", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	cooldown := time.Duration(cfg.Ledger.OTPCooldownSeconds) * time.Second
	flow := auth.NewFlow(engine, tp, appLogger, cooldown)

	// Start the invariant auditor
	var scheduler *audit.Scheduler
	if cfg.Audit.Enabled {
		auditor := audit.NewAuditor(repos.Users, repos.Tournaments, repos.Transactions, appLogger, appMetrics)
		scheduler, err = audit.NewScheduler(auditor, time.Duration(cfg.Audit.IntervalSeconds)*time.Second, appLogger)
		if err != nil {
			appLogger.Error("Failed to create audit scheduler", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
		scheduler.Start()
	}

	// Initialize API handlers
	handlers := routes.Handlers{
		Auth:       handler.NewAuthHandler(flow, engine, appLogger),
		Account:    handler.NewAccountHandler(engine, appLogger),
		Tournament: handler.NewTournamentHandler(engine, appLogger),
		Admin:      handler.NewAdminHandler(engine, appLogger),
	}

	// Initialize Gin router
	router := gin.New()

	// Setup middlewares
	routes.SetupMiddlewares(router, appLogger, tp, registry)

	// Setup routes
	routes.SetupRoutes(router, handlers, engine, be.health, registry)

	// Create HTTP server with configurable timeout values
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	// Start the server in a goroutine
	go func() {
		appLogger.Info("Starting server", map[string]any{
			"addr":   server.Addr,
			"env":    cfg.Environment,
			"driver": cfg.Store.Driver,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	// Create a deadline to wait for
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Shutdown the server first so no mutation starts after the auditor stops
	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	if scheduler != nil {
		appLogger.Info("Shutting down audit scheduler...", nil)
		if err := scheduler.Shutdown(); err != nil {
			appLogger.Error("Audit scheduler shutdown failed", map[string]any{
				"error": err.Error(),
			})
		}
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	// Validate server configuration
	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}

	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}

	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}

	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	// Validate store configuration
	switch cfg.Store.Driver {
	case config.DriverMemory, config.DriverRedis:
	case config.DriverFile:
		if cfg.Store.Dir == "" {
			missingConfigs = append(missingConfigs, "store.dir (or ARENA_STORE_DIR environment variable)")
		}
	case config.DriverPostgres:
		if cfg.Database.Host == "" {
			missingConfigs = append(missingConfigs, "database.host (or ARENA_DB_HOST environment variable)")
		}
		if cfg.Database.Username == "" {
			missingConfigs = append(missingConfigs, "database.username (or ARENA_DB_USERNAME environment variable)")
		}
		if cfg.Database.Database == "" {
			missingConfigs = append(missingConfigs, "database.database (or ARENA_DB_NAME environment variable)")
		}
		if cfg.Database.QueryTimeout == 0 {
			missingConfigs = append(missingConfigs, "database.queryTimeout")
		}
	case "":
		missingConfigs = append(missingConfigs, "store.driver")
	default:
		return fmt.Errorf("invalid store driver: %s, must be one of: %s, %s, %s, or %s",
			cfg.Store.Driver, config.DriverMemory, config.DriverFile, config.DriverPostgres, config.DriverRedis)
	}

	// Validate write lock configuration
	if cfg.Transaction.LockTimeoutMs == 0 {
		missingConfigs = append(missingConfigs, "transaction.lockTimeoutMs")
	}

	if cfg.Transaction.LockTTLMs == 0 {
		missingConfigs = append(missingConfigs, "transaction.lockTTLMs")
	}

	if cfg.Audit.Enabled && cfg.Audit.IntervalSeconds <= 0 {
		missingConfigs = append(missingConfigs, "audit.intervalSeconds")
	}

	// Environment should be set with a valid value
	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	// Logger configuration
	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	// Return error with list of missing configurations
	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	// If we're in production, do additional validation for sensitive settings
	if cfg.Environment == config.Production {
		var warnings []string

		if cfg.Store.Driver == config.DriverPostgres {
			sslMode := strings.ToLower(cfg.Database.SSLMode)
			if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
				warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
			}
		}

		if cfg.Store.Driver == config.DriverMemory {
			warnings = append(warnings, "store.driver memory loses all state on restart")
		}

		if cfg.Server.Host != "127.0.0.1" && cfg.Server.Host != "localhost" {
			warnings = append(warnings, "server.host exposes the ledger beyond this device")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
