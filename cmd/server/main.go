// Package main is the entry point for the qlab service: a qudit simulation
// lab that runs experiments, benchmarks and factoring attempts, persists
// their results and serves them over an HTTP API.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/blackroad/qlab/internal/benchmarks"
	"github.com/blackroad/qlab/internal/config"
	"github.com/blackroad/qlab/internal/database"
	"github.com/blackroad/qlab/internal/events"
	"github.com/blackroad/qlab/internal/experiments"
	"github.com/blackroad/qlab/internal/reliability"
	"github.com/blackroad/qlab/internal/results"
	"github.com/blackroad/qlab/internal/runner"
	"github.com/blackroad/qlab/internal/scheduler"
	"github.com/blackroad/qlab/internal/server"
	"github.com/blackroad/qlab/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting qlab")

	// Results database
	db, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "results.db"),
		Profile: database.ProfileStandard,
		Name:    "results",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open results database")
	}
	defer db.Close()

	if err := results.InitSchema(db.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize schema")
	}

	repo := results.NewRepository(db.Conn(), log)

	artifacts, err := results.NewArtifactWriter(cfg.DataDir, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create artifact writer")
	}

	// Event bus, registries and the async runner
	bus := events.NewBus()
	exps := experiments.NewPopulatedRegistry(log)
	benches := benchmarks.NewPopulatedRegistry(log, cfg.MonteCarloSamp, cfg.Workers)

	run := runner.New(exps, benches, repo, artifacts, bus, cfg.Workers, log)

	runnerCtx, runnerCancel := context.WithCancel(context.Background())
	defer runnerCancel()
	run.Start(runnerCtx)

	// Background jobs
	sched := scheduler.New(log)

	sweep := scheduler.NewBenchmarkSweepJob(run, benches.Names(), bus, log)
	if err := sched.AddJob("0 0 */6 * * *", sweep); err != nil {
		log.Fatal().Err(err).Msg("Failed to register benchmark sweep job")
	}

	retention := scheduler.NewRetentionJob(repo, artifacts, cfg.RetentionDays, log)
	if err := sched.AddJob("0 30 2 * * *", retention); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retention job")
	}

	maintenance := reliability.NewMaintenanceJob(db, cfg.DataDir, log)
	if err := sched.AddJob("0 0 3 * * 0", maintenance); err != nil {
		log.Fatal().Err(err).Msg("Failed to register maintenance job")
	}

	if cfg.Backup.Enabled() {
		s3Client, err := reliability.NewS3Client(context.Background(), cfg.Backup, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 client")
		}

		backupSvc := reliability.NewBackupService(
			s3Client,
			cfg.DataDir,
			filepath.Join(cfg.DataDir, "results.db"),
			cfg.Backup.Keep,
			bus,
			log,
		)

		backup := scheduler.NewBackupJob(backupSvc, log)
		if err := sched.AddJob("0 0 4 * * *", backup); err != nil {
			log.Fatal().Err(err).Msg("Failed to register backup job")
		}
	} else {
		log.Info().Msg("Cloud backup not configured, skipping backup job")
	}

	sched.Start()

	// HTTP server
	srv := server.New(server.Config{
		Log:         log,
		Config:      cfg,
		DB:          db,
		Repo:        repo,
		Runner:      run,
		Experiments: exps,
		Benchmarks:  benches,
		Bus:         bus,
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")

	// Stop accepting HTTP requests before tearing down the runner so no
	// handler can enqueue into a stopping queue.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	sched.Stop()
	runnerCancel()
	run.Stop()

	log.Info().Msg("Server stopped")
}
