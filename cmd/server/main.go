/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payroll engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load configuration (.env, environment, flags)
  2. Load statutory rate tables (embedded or RATES_FILE)
  3. Open the SQLite store and seed the holiday calendar
  4. Create API handler, router and retention scheduler
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port
  -db      SQLite database path; ":memory:" for an in-memory database
  -env     Additional .env file to load

ENVIRONMENT:
  APP_PORT, APP_ENV, LOG_LEVEL, ALLOWED_ORIGINS, DB_PATH, RATES_FILE,
  RECORD_RETENTION_DAYS. See config/config.go for defaults.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the retention scheduler
  4. Close database connection

EXAMPLES:
  # Run with file database
  ./server -db="./data/payroll.db"

  # Run with in-memory database on another port
  ./server -db=":memory:" -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Environment configuration
  - rates/statutory.yaml: Embedded rate tables
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/warp/payroll-engine/api"
	"github.com/warp/payroll-engine/config"
	"github.com/warp/payroll-engine/rates"
	"github.com/warp/payroll-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "payroll-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	port := flag.Int("port", 0, "HTTP server port (overrides APP_PORT)")
	dbPath := flag.String("db", "", "SQLite database path (overrides DB_PATH)")
	envFile := flag.String("env", "", "additional .env file")
	flag.Parse()

	files := []string{".env"}
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.App.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := api.NewLogger(os.Stdout, cfg.App.LogLevel, cfg.App.Env)
	slog.SetDefault(logger)

	// Rate tables
	book := rates.Default()
	if cfg.RatesFile != "" {
		if book, err = rates.LoadFile(cfg.RatesFile); err != nil {
			return err
		}
	}
	logger.Info("rate tables loaded", slog.Any("years", book.Years()))

	// Initialize store
	if cfg.Database.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return fmt.Errorf("create database directory: %w", err)
		}
	}
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	for _, year := range book.Years() {
		t, err := book.Table(year)
		if err != nil {
			return err
		}
		if err := store.SeedHolidays(ctx, t.Holidays); err != nil {
			return fmt.Errorf("seed %d holidays: %w", year, err)
		}
	}

	// Handler, router and background jobs
	handler := api.NewHandler(store, book, logger)
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.App.AllowedOrigins,
		Logger:         logger,
		LogLevel:       cfg.App.LogLevel,
	})

	retention := api.NewRetentionScheduler(store, time.Duration(cfg.Records.RetentionDays)*24*time.Hour, logger)
	retention.Start()
	defer retention.Stop()

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("addr", server.Addr), slog.String("db", cfg.Database.Path))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
