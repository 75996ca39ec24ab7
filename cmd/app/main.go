package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/emberfall-studios/skillforge/internal/ability"
	"github.com/emberfall-studios/skillforge/internal/achievement"
	"github.com/emberfall-studios/skillforge/internal/challenge"
	"github.com/emberfall-studios/skillforge/internal/clock"
	"github.com/emberfall-studios/skillforge/internal/concurrency"
	"github.com/emberfall-studios/skillforge/internal/config"
	"github.com/emberfall-studios/skillforge/internal/database"
	"github.com/emberfall-studios/skillforge/internal/database/memory"
	"github.com/emberfall-studios/skillforge/internal/database/postgres"
	"github.com/emberfall-studios/skillforge/internal/event"
	"github.com/emberfall-studios/skillforge/internal/handler"
	"github.com/emberfall-studios/skillforge/internal/metrics"
	"github.com/emberfall-studios/skillforge/internal/migration"
	"github.com/emberfall-studios/skillforge/internal/progression"
	"github.com/emberfall-studios/skillforge/internal/repository"
	"github.com/emberfall-studios/skillforge/internal/scheduler"
	"github.com/emberfall-studios/skillforge/internal/server"
	"github.com/emberfall-studios/skillforge/internal/synergy"
	"github.com/emberfall-studios/skillforge/internal/worker"
)

const (
	dbMaxConns          = 10
	dbMaxIdleTime       = 5 * time.Minute
	dbMaxLifetime       = 30 * time.Minute
	workerPoolSize      = 2
	workerQueueSize     = 16
	rolloverInterval    = time.Hour
	shutdownGracePeriod = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	tuning, err := config.LoadTuning(cfg.TuningPath)
	if err != nil {
		slog.Error("Failed to load progression tuning", "error", err)
		os.Exit(1)
	}

	handler.InitValidator()

	// Event system: memory bus behind a resilient publisher with
	// linear-backoff retries and a dead-letter file.
	if err := os.MkdirAll(filepath.Dir(cfg.DeadLetterPath), 0755); err != nil {
		slog.Error("Failed to create dead-letter directory", "error", err)
		os.Exit(1)
	}
	eventBus := event.NewMemoryBus()
	publisher := event.NewResilientPublisher(eventBus, event.ResilientConfig{
		MaxRetries:     event.RetryMaxAttempts,
		RetryDelay:     event.RetryInitialDelaySeconds * time.Second,
		DeadLetterPath: cfg.DeadLetterPath,
	})

	if err := metrics.NewEventMetricsCollector().Register(eventBus); err != nil {
		slog.Error("Failed to register metrics collector", "error", err)
		os.Exit(1)
	}

	// Storage: Postgres with goose migrations, or in-memory when
	// DB_DISABLED is set for local runs.
	var (
		playerRepo    repository.Progression
		challengeRepo repository.Challenge
		dbPool        database.Pool
	)
	if cfg.DBDisabled {
		slog.Info("Database disabled, using in-memory repositories")
		playerRepo = memory.NewProgressionRepository()
		challengeRepo = memory.NewChallengeRepository()
		dbPool = memory.NoopPool{}
	} else {
		connString := cfg.GetDBConnString()
		if err := database.RunMigrations(connString); err != nil {
			slog.Error("Failed to run database migrations", "error", err)
			os.Exit(1)
		}
		pool, err := database.NewPool(connString, dbMaxConns, dbMaxIdleTime, dbMaxLifetime)
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		playerRepo = postgres.NewProgressionRepository(pool)
		challengeRepo = postgres.NewChallengeRepository(pool)
		dbPool = pool
	}

	// One lock manager serializes per-player record mutations across
	// the progression service and the ability controller.
	locks := concurrency.NewLockManager()
	clk := clock.NewSystemClock()

	synergies := synergy.NewEvaluator(tuning.SynergyRules)
	challengeEngine := challenge.NewEngine(challengeRepo, tuning, clk, publisher)
	achievements := achievement.NewTracker(tuning.Achievements, publisher)

	var legacySource migration.Source
	if cfg.LegacySavePath != "" {
		legacySource = migration.NewFileSource(cfg.LegacySavePath)
		slog.Info("Legacy save import enabled", "path", cfg.LegacySavePath)
	}

	progressionService := progression.NewService(
		playerRepo, tuning, synergies, challengeEngine, achievements, legacySource, locks, publisher)

	effects := ability.NewRegistry()
	abilityController := ability.NewController(
		playerRepo, tuning, clk, locks, publisher, synergies, challengeEngine, achievements, progressionService, effects)

	// Tick driver: advances the simulation clock and sweeps ability
	// lifecycles once per second of game time.
	driverCtx, stopDriver := context.WithCancel(context.Background())
	driver := ability.NewDriver(clk, abilityController)
	go driver.Run(driverCtx)

	// Background jobs: the hourly rollover walks known players and
	// materializes fresh challenge sets after the date key flips.
	pool := worker.NewPool(workerPoolSize, workerQueueSize)
	pool.Start()
	sched := scheduler.New(pool)
	sched.Schedule(rolloverInterval, challenge.NewRolloverJob(challengeEngine, playerRepo))

	srv := server.NewServer(cfg.Port, cfg.APIKey, nil, dbPool, progressionService, abilityController, challengeEngine)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		slog.Error("Server failed", "error", err)
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		slog.Error("Server forced to shut down", "error", err)
	}

	stopDriver()
	sched.Stop()
	pool.Stop()

	slog.Info("Server stopped")
}
