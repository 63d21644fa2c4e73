package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/belphemur/sleep-scatter/internal/logging"
)

// DatasetLoad records one load of the CSV data source
type DatasetLoad struct {
	ID       int64
	Source   string
	Records  int
	Skipped  int
	LoadedAt time.Time
}

// LoadHistory keeps track of dataset loads
type LoadHistory struct {
	db     *DB
	logger zerolog.Logger
}

// NewLoadHistory creates a new load history store
func NewLoadHistory(db *DB) *LoadHistory {
	return &LoadHistory{db: db, logger: logging.GetLogger("load-history")}
}

// Record stores a dataset load
func (h *LoadHistory) Record(ctx context.Context, load DatasetLoad) error {
	if load.LoadedAt.IsZero() {
		load.LoadedAt = time.Now()
	}
	_, err := h.db.Conn().ExecContext(ctx, `
		INSERT INTO dataset_loads (source, records, skipped, loaded_at)
		VALUES (?, ?, ?, ?)
	`, load.Source, load.Records, load.Skipped, load.LoadedAt.Unix())
	if err != nil {
		h.logger.Error().Err(err).Str("source", load.Source).Msg("Failed to record dataset load")
		return fmt.Errorf("failed to record dataset load: %w", err)
	}
	return nil
}

// Recent returns the latest loads, newest first
func (h *LoadHistory) Recent(ctx context.Context, limit int) ([]DatasetLoad, error) {
	rows, err := h.db.Conn().QueryContext(ctx, `
		SELECT id, source, records, skipped, loaded_at
		FROM dataset_loads
		ORDER BY loaded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset loads: %w", err)
	}
	defer rows.Close()

	var loads []DatasetLoad
	for rows.Next() {
		var (
			load     DatasetLoad
			loadedAt int64
		)
		if err := rows.Scan(&load.ID, &load.Source, &load.Records, &load.Skipped, &loadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan dataset load: %w", err)
		}
		load.LoadedAt = time.Unix(loadedAt, 0)
		loads = append(loads, load)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate dataset loads: %w", err)
	}
	return loads, nil
}
