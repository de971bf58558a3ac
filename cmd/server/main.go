package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/vytor/lingoflash/internal/api"
	"github.com/vytor/lingoflash/internal/config"
	"github.com/vytor/lingoflash/internal/db"
	"github.com/vytor/lingoflash/internal/flashcard"
	"github.com/vytor/lingoflash/internal/jobs"
	"github.com/vytor/lingoflash/internal/logger"
	"github.com/vytor/lingoflash/internal/repository/sqlite"
	"github.com/vytor/lingoflash/internal/services"
	"github.com/vytor/lingoflash/internal/worker"
)

func main() {
	cfg := config.Load()

	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("LingoFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("cors_origins=%s", strings.Join(cfg.CORSOrigins, ","))
	log.Debug("import_worker_count=%d", cfg.ImportWorkerCount)
	log.Debug("import_queue_size=%d", cfg.ImportQueueSize)
	log.Debug("max_import_bytes=%d", cfg.MaxImportBytes)
	log.Debug("mastery_streak=%d", cfg.MasteryStreak)
	log.Debug("difficult_threshold=%d", cfg.DifficultThreshold)
	log.Debug("relearn_interval=%s", cfg.RelearnInterval)
	log.Debug("session_ttl=%s", cfg.SessionTTL)

	policy := flashcard.DefaultPolicy()
	policy.MasteryStreak = cfg.MasteryStreak
	policy.DifficultThreshold = cfg.DifficultThreshold
	policy.RelearnInterval = cfg.RelearnInterval
	if err := policy.Validate(); err != nil {
		log.Error("invalid scheduling policy: %v", err)
		os.Exit(1)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	cardRepo := sqlite.NewFlashcardRepository(database.DB)
	setRepo := sqlite.NewSetRepository(database.DB)
	reviewRepo := sqlite.NewReviewRepository(database.DB)

	setService := services.NewSetService(setRepo)
	flashcardService := services.NewFlashcardService(cardRepo, setRepo, reviewRepo, policy)
	importService := services.NewImportService(cardRepo, setRepo)
	practiceService := services.NewPracticeService(cardRepo, reviewRepo, policy, cfg.SessionTTL)

	importPool := worker.NewPool(cfg.ImportWorkerCount, cfg.ImportQueueSize)
	jobQueue := jobs.NewWorkerQueue(importPool, importService)

	srv := &api.Server{
		DB:               database,
		SetService:       setService,
		FlashcardService: flashcardService,
		ImportService:    importService,
		PracticeService:  practiceService,
		JobQueue:         jobQueue,
		CORSOrigins:      cfg.CORSOrigins,
		MaxImportBytes:   cfg.MaxImportBytes,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	importPool.Start(ctx)
	go sweepSessions(ctx, practiceService, cfg.SessionTTL)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Queued imports drain before the database closes.
	log.Debug("stopping import pool")
	importPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("LingoFlash Server Stopped")
	log.Info("===========================================")
}

// sweepSessions drops expired practice sessions until ctx is cancelled.
func sweepSessions(ctx context.Context, practice services.PracticeService, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	ticker := time.NewTicker(ttl / 2)
	defer ticker.Stop()

	log := logger.Default().WithPrefix("session-sweeper")
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := practice.Sweep(); n > 0 {
				log.Debug("dropped %d expired practice sessions", n)
			}
		}
	}
}
