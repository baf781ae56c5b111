/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the booth ledger server. Handles
  configuration, dependency wiring, and graceful shutdown.

STARTUP SEQUENCE:
  1. Configure structured logging
  2. Load configuration from environment
  3. Initialize SQLite store and load persisted state
  4. Wire the sale engine, CSV exporter, and API handler
  5. Start the backup scheduler
  6. Start server with graceful shutdown

ENVIRONMENT:
  PORT                     HTTP server port (default: 8080)
  APP_ENV                  development | production (default: development)
  ALLOWED_ORIGINS          Comma-separated CORS origins (default: *)
  DB_PATH                  SQLite database path (default: ./data/booth.db)
                           Use ":memory:" for an in-memory database
  EXPORT_PATH              Sales CSV path (default: ./data/sales.csv)
  BACKUP_INTERVAL_MINUTES  Blob backup interval, 0 disables (default: 10)

  Variables can also come from an optional .env file in the working
  directory.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the backup scheduler
  4. Close the database
  5. Exit

EXAMPLES:
  # Run with defaults
  ./server

  # Run with in-memory database on another port
  PORT=3000 DB_PATH=":memory:" ./server

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/warp/booth-ledger/api"
	"github.com/warp/booth-ledger/config"
	"github.com/warp/booth-ledger/export"
	"github.com/warp/booth-ledger/pos"
	"github.com/warp/booth-ledger/store/sqlite"
)

func main() {
	// Pretty console logging until config tells us otherwise
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.Env == "production" {
		// JSON logs in production
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}

	// Make sure the data directories exist
	for _, p := range []string{cfg.DBPath, cfg.ExportPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatal().Err(err).Str("dir", dir).Msg("failed to create data directory")
			}
		}
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// Load persisted state. A failed load is logged and the component
	// starts empty rather than blocking startup.
	ctx := context.Background()

	catalog, err := pos.LoadCatalog(ctx, store)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load catalog, starting empty")
	}
	events, err := pos.LoadEvents(ctx, store)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load events, starting empty")
	}
	ledger, err := pos.LoadLedger(ctx, store)
	if err != nil {
		log.Warn().Err(err).Msg("failed to load ledger, starting empty")
	}

	// Wire the engine and API handler
	csv := export.NewCSV(cfg.ExportPath, catalog, events)

	engine := pos.NewEngine(catalog, events, ledger, csv)
	engine.Log = log.Logger

	session := pos.NewSession()
	handler := api.NewHandler(engine, session, csv, log.Logger)

	origins := strings.Split(cfg.AllowedOrigins, ",")
	router := api.NewRouter(handler, origins)

	// Periodic blob backups
	scheduler := api.NewBackupScheduler(store, handler)
	scheduler.Interval = time.Duration(cfg.BackupIntervalMinutes) * time.Minute
	scheduler.Log = log.Logger
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Msgf("booth ledger listening on http://localhost:%d", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}

	scheduler.Stop()

	log.Info().Msg("server stopped")
}
