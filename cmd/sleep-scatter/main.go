package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/belphemur/sleep-scatter/internal/config"
	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/database"
	"github.com/belphemur/sleep-scatter/internal/dataset"
	"github.com/belphemur/sleep-scatter/internal/display"
	"github.com/belphemur/sleep-scatter/internal/handlers"
	"github.com/belphemur/sleep-scatter/internal/logging"
	appSignals "github.com/belphemur/sleep-scatter/internal/signals"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	isDev := os.Getenv("ENV") != "production"
	logging.Initialize(isDev)
	logger := logging.GetLogger("main")

	logger.Info().
		Str("version", version).
		Str("commit", commit).
		Str("build_date", date).
		Msg("Starting " + constants.AppName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("Received signal, initiating shutdown")
		cancel()
	}()

	if err := run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("Application run failed")
	}
}

func run(ctx context.Context) error {
	logger := logging.GetLogger("main")

	configPath := os.Getenv("CONFIG_FILE")
	if configPath == "" {
		configPath = "configs/sleep-scatter.toml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error().Err(err).Str("config_path", configPath).Msg("Failed to load configuration")
		return err
	}

	logging.SetLogLevel(cfg.Service.LogLevel)
	logger.Info().Str("log_level", cfg.Service.LogLevel).Msg("Log level set")

	if err := os.MkdirAll(filepath.Dir(cfg.Service.StateFile), 0755); err != nil {
		logger.Error().Err(err).Str("path", filepath.Dir(cfg.Service.StateFile)).Msg("Failed to create data directory")
		return err
	}

	db, err := database.New(database.NewDefaultOptions(cfg.Service.StateFile))
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database: %w", err)
		logger.Error().Err(wrappedErr).Str("db_path", cfg.Service.StateFile).Msg("Database initialization failed")
		return wrappedErr
	}
	defer db.Close()

	if err := db.MigrateDatabase(); err != nil {
		wrappedErr := fmt.Errorf("failed to initialize database schema: %w", err)
		logger.Error().Err(wrappedErr).Msg("Database schema initialization failed")
		return wrappedErr
	}

	sessions := database.NewSessionStore(db)
	history := database.NewLoadHistory(db)

	// The dataset is loaded once; a source that cannot be read stops the service.
	loader := dataset.NewLoader(cfg.Service.FetchTimeout)
	ds, err := loader.Load(ctx, cfg.Plot.Datasource)
	if err != nil {
		var loadErr *dataset.LoadError
		if errors.As(err, &loadErr) {
			logger.Error().Err(loadErr.Err).Str("source", loadErr.Source).Msg("Data source unavailable")
		}
		return err
	}
	if err := history.Record(ctx, database.DatasetLoad{
		Source:   ds.Source,
		Records:  ds.Len(),
		Skipped:  ds.SkippedCount(),
		LoadedAt: ds.LoadedAt,
	}); err != nil {
		logger.Warn().Err(err).Msg("Failed to record dataset load")
	}

	cache := display.NewCache(cfg.Plot.Geometry(), ds.Records)
	unsubscribe := cache.Subscribe()
	defer unsubscribe()

	registerSignalLogging()

	staticHandler, err := handlers.NewStaticHandler()
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize static handler: %w", err)
		logger.Error().Err(wrappedErr).Msg("Static handler initialization failed")
		return wrappedErr
	}

	baseHandler, err := handlers.NewBaseHandler(cfg, sessions, cache)
	if err != nil {
		wrappedErr := fmt.Errorf("failed to initialize base handler: %w", err)
		logger.Error().Err(wrappedErr).Msg("Base handler initialization failed")
		return wrappedErr
	}

	mux := http.NewServeMux()
	staticHandler.RegisterRoutes(mux)
	handlers.NewPlotHandler(baseHandler, ds.Source, ds.SkippedCount()).RegisterRoutes(mux)
	handlers.NewPickerHandler(baseHandler).RegisterRoutes(mux)
	handlers.NewExportHandler(baseHandler).RegisterRoutes(mux)
	handlers.NewStatisticsHandler(baseHandler, history).RegisterRoutes(mux)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info().Int("port", cfg.App.Port).Int("records", ds.Len()).Msg("Starting web server")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	ticker := time.NewTicker(pruneInterval(cfg.Service.SessionTTL))
	defer ticker.Stop()

	logger.Info().Dur("session_ttl", cfg.Service.SessionTTL).Msg("Starting session maintenance loop")
	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("Context cancelled, initiating shutdown sequence")
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("HTTP server shutdown error")
			} else {
				logger.Info().Msg("HTTP server shut down gracefully")
			}
			logger.Info().Msg("Shutdown complete")
			return nil

		case err := <-serverErr:
			logger.Error().Err(err).Msg("HTTP server error")
			return fmt.Errorf("http server failed: %w", err)

		case <-ticker.C:
			pruneSessions(ctx, sessions, cfg.Service.SessionTTL)
			logger.Debug().Int("cached_graphs", cache.Len()).Msg("Session maintenance done")
		}
	}
}

// pruneSessions deletes sessions idle for longer than ttl and tells listeners about it
func pruneSessions(ctx context.Context, sessions *database.SessionStore, ttl time.Duration) {
	logger := logging.GetLogger("session-prune")

	ids, err := sessions.PruneBefore(ctx, time.Now().Add(-ttl))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to prune sessions")
		return
	}
	if len(ids) == 0 {
		logger.Debug().Msg("No idle sessions to prune")
		return
	}
	remaining, err := sessions.Count(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to count remaining sessions")
	}
	logger.Info().Int("pruned", len(ids)).Int("remaining", remaining).Msg("Pruned idle sessions")
	appSignals.EmitSessionsPruned(ctx, ids)
}

// pruneInterval checks for idle sessions a few times per ttl, at most every hour
func pruneInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval <= 0 || interval > time.Hour {
		return time.Hour
	}
	if interval < time.Minute {
		return time.Minute
	}
	return interval
}

func registerSignalLogging() {
	appSignals.OnDaysChanged(func(ctx context.Context, data appSignals.DaysChangedData) {
		signalLogger := logging.GetLogger("signal-days-changed")
		signalLogger.Debug().
			Str("session_id", data.SessionID).
			Str("day", data.Day).
			Bool("checked", data.Checked).
			Msg("Day selection changed")
	}, "main-days-changed-logger")

	appSignals.OnColorModeChanged(func(ctx context.Context, data appSignals.ColorModeChangedData) {
		signalLogger := logging.GetLogger("signal-color-mode")
		signalLogger.Debug().
			Str("session_id", data.SessionID).
			Str("color_mode", data.Mode.String()).
			Msg("Color mode changed")
	}, "main-color-mode-logger")
}
