package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/brixal/wallet-backend/internal/core/services"
	"github.com/brixal/wallet-backend/internal/handlers"
	"github.com/brixal/wallet-backend/internal/middleware"
	"github.com/brixal/wallet-backend/internal/platform/config"
	"github.com/brixal/wallet-backend/internal/platform/events"
	"github.com/brixal/wallet-backend/internal/platform/jobs"
	"github.com/brixal/wallet-backend/internal/ratelimit"
	"github.com/brixal/wallet-backend/internal/repositories/database/pgsql"
	portssvc "github.com/brixal/wallet-backend/internal/core/ports/services"
	"github.com/brixal/wallet-backend/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Wallet Backend API
// @version 1.0
// @description Ledger, transfers and transaction approval for the wallet platform.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Per-account transfer window: shared via Redis when configured, else
	// an in-process window.
	var transferLimiter portssvc.TransferRateLimiter
	if cfg.RedisAddr != "" {
		redisClient := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
		transferLimiter = ratelimit.NewRedisLimiter(redisClient, cfg.TransferRateLimit, cfg.TransferRateWindow)
		logger.Info("Using Redis transfer rate limiter", slog.String("addr", cfg.RedisAddr))
	} else {
		transferLimiter = ratelimit.NewMemoryLimiter(cfg.TransferRateLimit, cfg.TransferRateWindow)
		logger.Info("Using in-memory transfer rate limiter")
	}

	// Event delivery: AMQP when configured, else log-only.
	var notifier portssvc.Notifier
	if cfg.AMQPURL != "" {
		amqpNotifier, err := events.NewAMQPNotifier(cfg.AMQPURL, logger)
		if err != nil {
			logger.Error("Failed to connect to AMQP broker", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer amqpNotifier.Close()
		notifier = amqpNotifier
		logger.Info("Publishing events to AMQP", slog.String("exchange", events.Exchange))
	} else {
		notifier = events.NewLogNotifier(logger)
		logger.Info("No AMQP broker configured, logging events only")
	}

	repos := pgsql.NewRepositoryContainer(dbPool)
	svcs := services.NewContainer(repos, transferLimiter, notifier)

	sweeper := jobs.NewSweeper(svcs.PendingFunds, cfg.PendingFundSweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Error("Failed to start pending fund sweeper", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer sweeper.Stop()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Coarse per-IP limiting in front of the whole API.
	ipLimiter := limiter.New(memory.NewStore(), limiter.Rate{Period: time.Minute, Limit: 300})
	r.Use(middleware.RateLimit(ipLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svcs, dbPool)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending "up" migrations over a temporary
// database/sql connection compatible with the pgx pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
