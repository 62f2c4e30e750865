package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jlin/hanziflash/internal/api"
	"github.com/jlin/hanziflash/internal/autostart"
	"github.com/jlin/hanziflash/internal/config"
	"github.com/jlin/hanziflash/internal/db"
	"github.com/jlin/hanziflash/internal/logger"
	"github.com/jlin/hanziflash/internal/repository/sqlite"
	"github.com/jlin/hanziflash/internal/selection"
	"github.com/jlin/hanziflash/internal/session"
	"github.com/jlin/hanziflash/internal/worker"
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
	log.Info("HanziFlash Server Starting")
	log.Info("===========================================")

	if err := cfg.Validate(); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("default_domain=%s", cfg.DefaultDomain)
	log.Debug("summary_worker_count=%d", cfg.SummaryWorkerCount)
	log.Debug("summary_queue_size=%d", cfg.SummaryQueueSize)

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

	// Repositories
	cards := sqlite.NewCardRepository(database.DB)
	connections := sqlite.NewConnectionRepository(database.DB)
	sessionLog := sqlite.NewSessionLogRepository(database.DB)
	sessionStore := sqlite.NewSessionStore(database.DB)

	// Worker pool for best-effort summary writes
	summaryPool := worker.NewPool(cfg.SummaryWorkerCount, cfg.SummaryQueueSize)

	// Services
	sessions := session.NewManager(
		selection.NewSelector(cards),
		selection.NewConnectionAware(cards, connections),
		cards,
		sessionLog,
		sessionStore,
		summaryPool,
		cfg.DefaultDomain,
	)
	orchestrator := autostart.New(cards, sessions, cfg.DefaultDomain)

	srv := &api.Server{
		DB:            database,
		Sessions:      sessions,
		AutoStart:     orchestrator,
		Cards:         cards,
		APIToken:      cfg.APIToken,
		DefaultDomain: cfg.DefaultDomain,
	}

	ctx, cancel := context.WithCancel(context.Background())
	summaryPool.Start(ctx)

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

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Drain pending summary writes before cancelling the root context, or
	// the workers would exit with jobs still queued.
	log.Debug("stopping worker pool")
	summaryPool.Stop()
	cancel()

	log.Info("===========================================")
	log.Info("HanziFlash Server Stopped")
	log.Info("===========================================")
}
