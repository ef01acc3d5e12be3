package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	httpAdapter "github.com/hansu/dayledger/internal/adapter/http"
	"github.com/hansu/dayledger/internal/adapter/http/handler"
	postgresRepo "github.com/hansu/dayledger/internal/adapter/repository/postgres"
	redisRepo "github.com/hansu/dayledger/internal/adapter/repository/redis"
	"github.com/hansu/dayledger/internal/infrastructure/config"
	"github.com/hansu/dayledger/internal/infrastructure/logging"
	"github.com/hansu/dayledger/internal/infrastructure/metrics"
	"github.com/hansu/dayledger/internal/infrastructure/postgres"
	"github.com/hansu/dayledger/internal/infrastructure/redis"
	"github.com/hansu/dayledger/internal/usecase"
)

func main() {
	// Setup logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	slogger := logging.New(logging.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns, cfg.DatabaseTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations when a path is configured
	if cfg.MigrationsPath != "" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
			log.Fatal().Err(err).Msg("failed to run migrations")
		}
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	journalRepo := postgresRepo.NewJournalRepository(pool)
	attendanceRepo := postgresRepo.NewAttendanceRepository(pool)
	policyRepo := postgresRepo.NewPolicyRepository(pool)
	registryRepo := postgresRepo.NewRegistryRepository(pool)
	statsCache := redisRepo.NewStatsCache(redisClient)
	statsRetrier := postgresRepo.NewStatsRetrier(
		cfg.StatsPollMaxRetries,
		cfg.StatsPollInitialInterval,
		cfg.StatsPollMaxInterval,
		slogger.Logger,
	)
	idGen := postgresRepo.NewULIDGenerator()

	// Initialize metrics
	appMetrics := metrics.New()

	// Initialize use cases
	attendanceUC := usecase.NewAttendanceUseCase(
		attendanceRepo, policyRepo, statsCache, statsRetrier, slogger.Logger, cfg.StatsCacheTTL, appMetrics)
	journalUC := usecase.NewJournalUseCase(txManager, journalRepo, registryRepo, attendanceUC, idGen, appMetrics)
	syncUC := usecase.NewSyncUseCase(journalUC, slogger.Logger, appMetrics)

	// Initialize handlers
	journalHandler := handler.NewJournalHandler(journalUC, syncUC)
	attendanceHandler := handler.NewAttendanceHandler(attendanceUC)
	policyHandler := handler.NewPolicyHandler(attendanceUC)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		JournalHandler:    journalHandler,
		AttendanceHandler: attendanceHandler,
		PolicyHandler:     policyHandler,
		HealthHandler:     healthHandler,
		Logger:            log.Logger,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
