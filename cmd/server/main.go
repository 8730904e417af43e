package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/leaguesim/internal/api"
	"github.com/vytor/leaguesim/internal/config"
	"github.com/vytor/leaguesim/internal/db"
	"github.com/vytor/leaguesim/internal/jobs"
	"github.com/vytor/leaguesim/internal/logger"
	"github.com/vytor/leaguesim/internal/repository/sqlite"
	"github.com/vytor/leaguesim/internal/services"
	"github.com/vytor/leaguesim/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LeagueSim Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("sim_worker_count=%d", cfg.SimWorkerCount)
	log.Debug("sim_queue_size=%d", cfg.SimQueueSize)
	log.Debug("trial_worker_count=%d", cfg.TrialWorkerCount)
	log.Debug("max_trials=%d", cfg.MaxTrials)
	log.Debug("sync_trial_limit=%d", cfg.SyncTrialLimit)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize worker pool for queued runs
	simPool := worker.NewPool(cfg.SimWorkerCount, cfg.SimQueueSize)

	// Initialize repositories and services
	runRepo := sqlite.NewRunRepository(database.DB)
	metricRepo := sqlite.NewMetricRepository(database.DB)
	simulationService := services.NewSimulationService(cfg.TrialWorkerCount)
	runService := services.NewRunService(runRepo, metricRepo, simulationService)
	queue := jobs.NewWorkerQueue(simPool, runService)

	srv := &api.Server{
		DB:                database,
		RunService:        runService,
		SimulationService: simulationService,
		Queue:             queue,
		MaxTrials:         cfg.MaxTrials,
		SyncTrialLimit:    cfg.SyncTrialLimit,
	}

	ctx, cancel := context.WithCancel(context.Background())
	simPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for in-flight runs to finish
	simPool.Stop()

	log.Info("===========================================")
	log.Info("LeagueSim Server Stopped")
	log.Info("===========================================")
}
