package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dukerupert/ghosthunt/internal/database"
	"github.com/dukerupert/ghosthunt/internal/logging"
	"github.com/dukerupert/ghosthunt/internal/roster"
	"github.com/dukerupert/ghosthunt/internal/server"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	logger := logging.Setup(os.Getenv("GHOSTHUNT_LOG_LEVEL"))

	port := envOr("PORT", "5000")
	dbPath := envOr("GHOSTHUNT_DB_PATH", "ghosthunt.db")

	cfg := server.Config{
		RosterFile: envOr("GHOSTHUNT_ROSTER_FILE", "members.xlsx"),
		CodesFile:  envOr("GHOSTHUNT_CODES_FILE", "codes.xlsx"),
		ExemptPage: envOr("GHOSTHUNT_EXEMPT_PAGE", "fake_ghost.html"),
		StaticDir:  envOr("GHOSTHUNT_STATIC_DIR", "."),
	}

	db, err := database.Open(dbPath)
	if err != nil {
		logger.Error("open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.New(db, cfg, logger)

	// Load the roster once at startup; a missing spreadsheet is not fatal,
	// the watcher picks it up when it appears.
	if _, err := srv.Syncer().Reload(); err != nil {
		logger.Warn("initial roster load failed", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	watcher := roster.NewWatcher(srv.Syncer(), cfg.RosterFile, logger.With("component", "watcher"))
	if err := watcher.Start(ctx); err != nil {
		logger.Error("start roster watcher", "error", err)
		os.Exit(1)
	}
	defer watcher.Stop()

	// Hourly housekeeping: expired sessions and stale rate-limit entries.
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n, err := srv.SessionStore().DeleteExpired(); err != nil {
					logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					logger.Info("expired sessions removed", "count", n)
				}
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("ghosthunt listening", "port", port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
	}
}
