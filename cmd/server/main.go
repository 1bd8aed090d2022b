/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave engine server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Load configuration (defaults, YAML file, LEAVE_* environment, flags)
  3. Build the zap logger
  4. Initialize SQLite store
  5. Select the bank-holiday source
  6. Create API handler and router
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML configuration file (default: config.yaml, optional)
  -port    HTTP server port (overrides server.port)
  -db      SQLite database path (overrides database.path)
           Use ":memory:" for in-memory database

HOLIDAY SOURCES (holidays.source):
  computed  Calendar computed in-process
  govuk     Stored holidays, then the GOV.UK feed, then computed;
            the feed is synced into the store in the background
  store     Stored holidays, then computed

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the holiday sync
  2. Stop accepting new connections
  3. Wait for active requests to complete (server.shutdown_timeout)
  4. Close database connection

EXAMPLES:
  ./server -db="./data/leave.db"
  LEAVE_HOLIDAYS_SOURCE=govuk ./server -port=3000

SEE ALSO:
  - config/config.go: Settings and defaults
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/warp/leave-engine/api"
	"github.com/warp/leave-engine/config"
	"github.com/warp/leave-engine/holidays"
	"github.com/warp/leave-engine/logging"
	"github.com/warp/leave-engine/store/sqlite"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "leave-engine: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Flags
	configPath := flag.String("config", "config.yaml", "YAML configuration file")
	port := flag.Int("port", 0, "HTTP server port")
	dbPath := flag.String("db", "", "SQLite database path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logger)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Initialize store
	store, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	// Holiday source
	var (
		source    holidays.Source = holidays.Computed{}
		scheduler *api.HolidaySyncScheduler
	)
	stored := holidays.Stored{Store: store}
	switch cfg.Holidays.Source {
	case config.SourceGovUK:
		feed := holidays.NewGovUK(cfg.Holidays.GovUKURL, cfg.Holidays.FetchTimeout, logger)
		source = holidays.NewChain(logger, stored, feed, holidays.Computed{})
		if cfg.Holidays.SyncInterval > 0 {
			scheduler = api.NewHolidaySyncScheduler(store, feed, nil, logger)
			scheduler.CheckInterval = cfg.Holidays.SyncInterval
		}
	case config.SourceStore:
		source = holidays.NewChain(logger, stored, holidays.Computed{})
	}

	handler := api.NewHandler(store)
	handler.Holidays = source
	handler.Region = cfg.Holidays.Region
	handler.Decoder.Location = cfg.Location()
	handler.Logger = logger

	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	if scheduler != nil {
		scheduler.Start()
		defer scheduler.Stop()
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.String("database", cfg.Database.Path),
			zap.String("holiday_source", cfg.Holidays.Source),
			zap.String("region", cfg.Holidays.Region))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}
