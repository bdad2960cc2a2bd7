// Package main is the entry point for the progression API server.
//
// The binary wires the full stack: PostgreSQL for the source of truth,
// Redis for the leaderboard projection, an in-memory event bus connecting
// the write side to the projections, a scheduler for the periodic ranking
// rebuild, and the JSON REST API on top.
//
// The architecture follows Clean Architecture and DDD:
// - Domain: pure business logic without external dependencies
// - Application: use case orchestration (Commands/Queries/Sagas)
// - Infrastructure: repository implementations, cache, scheduler
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fitplay-hub/fitplay-progression/config"

	// Application layer
	"github.com/fitplay-hub/fitplay-progression/internal/application/command"
	"github.com/fitplay-hub/fitplay-progression/internal/application/eventhandler"
	"github.com/fitplay-hub/fitplay-progression/internal/application/query"
	"github.com/fitplay-hub/fitplay-progression/internal/application/saga"

	// Infrastructure layer
	"github.com/fitplay-hub/fitplay-progression/internal/infrastructure/messaging"
	"github.com/fitplay-hub/fitplay-progression/internal/infrastructure/persistence/postgres"
	"github.com/fitplay-hub/fitplay-progression/internal/infrastructure/persistence/redis"
	"github.com/fitplay-hub/fitplay-progression/internal/infrastructure/scheduler"
	"github.com/fitplay-hub/fitplay-progression/internal/infrastructure/scheduler/jobs"
	"github.com/fitplay-hub/fitplay-progression/internal/infrastructure/service"

	// Interface layer
	httpserver "github.com/fitplay-hub/fitplay-progression/internal/interface/http"

	// Packages
	"github.com/fitplay-hub/fitplay-progression/pkg/logger"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting progression API",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("version", cfg.App.Version),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. DATABASE (PostgreSQL)
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}

	log.Info("connecting to database")
	dbConn, err := postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer func() {
		log.Info("closing database connection")
		dbConn.Close()
	}()

	if err := dbConn.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	log.Info("database connection established")

	// ─────────────────────────────────────────────────────────────────────────
	// 4. MIGRATIONS
	// ─────────────────────────────────────────────────────────────────────────
	if cfg.Database.MigrateOnStart {
		log.Info("running database migrations")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info("migrations completed")
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. REDIS (leaderboard projection)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("connecting to Redis")
	redisCfg := redis.DefaultConfig()
	redisCfg.Host = cfg.Redis.Host
	redisCfg.Port = cfg.Redis.Port
	redisCfg.Password = cfg.Redis.Password
	redisCfg.DB = cfg.Redis.DB
	redisCfg.PoolSize = cfg.Redis.PoolSize
	redisCfg.MinIdleConns = cfg.Redis.MinIdleConns
	redisCfg.DialTimeout = cfg.Redis.DialTimeout
	redisCfg.ReadTimeout = cfg.Redis.ReadTimeout
	redisCfg.WriteTimeout = cfg.Redis.WriteTimeout

	redisCache, err := redis.NewCache(redisCfg)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	defer func() {
		log.Info("closing Redis connection")
		_ = redisCache.Close()
	}()
	log.Info("Redis connection established")

	// The ranking cache sits behind a circuit breaker so a degraded Redis
	// never takes down the write path.
	leaderboardCache := service.NewGuardedLeaderboardCache(
		redis.NewLeaderboardCache(redisCache),
		log,
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. EVENT BUS
	// ─────────────────────────────────────────────────────────────────────────
	eventBusConfig := messaging.DefaultInMemoryEventBusConfig()
	eventBusConfig.Logger = log
	eventBus := messaging.NewInMemoryEventBus(eventBusConfig)
	defer func() {
		log.Info("closing event bus")
		_ = eventBus.Close()
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 7. REPOSITORIES
	// ─────────────────────────────────────────────────────────────────────────
	trainingRepo := postgres.NewTrainingRepository(dbConn)
	completionRepo := postgres.NewCompletionRepository(dbConn)
	progressRepo := postgres.NewProgressRepository(dbConn)
	achievementRepo := postgres.NewAchievementRepository(dbConn)

	// ─────────────────────────────────────────────────────────────────────────
	// 8. APPLICATION LAYER (Commands, Queries, Sagas)
	// ─────────────────────────────────────────────────────────────────────────
	achievementFlow := saga.NewAchievementFlow(achievementRepo, completionRepo, eventBus, log)

	completeTrainingCmd := command.NewCompleteTrainingHandler(
		trainingRepo, completionRepo, progressRepo, achievementFlow, eventBus, log)
	validateCompletionCmd := command.NewValidateCompletionHandler(
		completionRepo, progressRepo, achievementFlow, eventBus, log)
	awardBonusXpCmd := command.NewAwardBonusXpHandler(progressRepo, eventBus, log)
	resetXpCmd := command.NewResetXpHandler(progressRepo, eventBus, log)
	logExerciseCmd := command.NewLogExerciseHandler(trainingRepo, eventBus, log)
	createTrainingCmd := command.NewCreateTrainingHandler(trainingRepo, log)

	userProgressQuery := query.NewGetUserProgressHandler(progressRepo, completionRepo)
	xpHistoryQuery := query.NewGetXpHistoryHandler(progressRepo)
	trainingsQuery := query.NewGetTrainingsHandler(trainingRepo)
	completionsQuery := query.NewGetCompletionsHandler(completionRepo)
	exerciseLogsQuery := query.NewGetExerciseLogsHandler(trainingRepo)
	achievementsQuery := query.NewGetAchievementsHandler(achievementRepo)
	leaderboardQuery := query.NewGetLeaderboardHandler(leaderboardCache)

	// ─────────────────────────────────────────────────────────────────────────
	// 9. EVENT HANDLERS
	// ─────────────────────────────────────────────────────────────────────────
	xpChangedHandler := eventhandler.NewXPChangedHandler(leaderboardCache, log)
	for _, eventType := range xpChangedHandler.EventTypes() {
		if err := eventBus.Subscribe(eventType, xpChangedHandler); err != nil {
			return fmt.Errorf("failed to subscribe %s handler: %w", eventType, err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 10. SCHEDULER
	// ─────────────────────────────────────────────────────────────────────────
	sched := scheduler.NewScheduler(scheduler.SchedulerConfig{Logger: log})

	rebuildCfg := jobs.DefaultRebuildLeaderboardConfig()
	rebuildCfg.Timeout = cfg.Scheduler.JobTimeout
	rebuildJob := jobs.NewRebuildLeaderboardJob(
		progressRepo, leaderboardCache, eventBus, log, rebuildCfg)

	rebuildSchedule, err := scheduler.ParseCron(cfg.Scheduler.RebuildLeaderboardCron)
	if err != nil {
		return fmt.Errorf("invalid leaderboard rebuild schedule %q: %w",
			cfg.Scheduler.RebuildLeaderboardCron, err)
	}
	if err := sched.Register(rebuildJob, rebuildSchedule); err != nil {
		return fmt.Errorf("failed to register rebuild job: %w", err)
	}

	if cfg.Scheduler.Enabled {
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer func() {
			log.Info("stopping scheduler")
			_ = sched.Stop()
		}()
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 11. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout
	httpConfig.EnableCORS = cfg.HTTP.EnableCORS
	httpConfig.AllowedOrigins = cfg.HTTP.AllowedOrigins
	httpConfig.RateLimitPerMinute = cfg.HTTP.RateLimitPerMinute

	httpDeps := httpserver.Dependencies{
		CompleteTraining:   completeTrainingCmd,
		ValidateCompletion: validateCompletionCmd,
		AwardBonusXp:       awardBonusXpCmd,
		ResetXp:            resetXpCmd,
		LogExercise:        logExerciseCmd,
		CreateTraining:     createTrainingCmd,

		GetUserProgress: userProgressQuery,
		GetXpHistory:    xpHistoryQuery,
		GetTrainings:    trainingsQuery,
		GetCompletions:  completionsQuery,
		GetExerciseLogs: exerciseLogsQuery,
		GetAchievements: achievementsQuery,
		GetLeaderboard:  leaderboardQuery,

		Scheduler: sched,
		HealthChecker: httpserver.NewDependencyChecker(map[string]httpserver.Pinger{
			"postgres": dbConn,
			"redis":    redisCache,
		}),
		Logger: log,
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting HTTP server", logger.String("address", server.Address()))
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 12. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("progression API is running",
		logger.String("http_address", server.Address()),
		logger.Bool("scheduler_enabled", cfg.Scheduler.Enabled),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown",
		logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	// Scheduler, event bus, Redis and the database close via defers.

	log.Info("shutdown completed")
	return nil
}

// setupLogger builds the root structured logger from configuration.
func setupLogger(cfg *config.Config) *logger.Logger {
	opts := logger.DefaultOptions()
	opts.Level = logger.ParseLevel(cfg.Observability.LogLevel)
	if cfg.App.Debug {
		opts.Level = logger.LevelDebug
	}
	return logger.New(opts)
}
