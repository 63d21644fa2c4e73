package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/logging"
)

// SessionState is the persisted view model of one browser session
type SessionState struct {
	ID           string
	SelectedDays []string
	ColorMode    constants.ColorMode
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SessionStore handles view session storage in SQLite
type SessionStore struct {
	db     *DB
	logger zerolog.Logger
	now    func() time.Time
}

// NewSessionStore creates a new session store
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{
		db:     db,
		logger: logging.GetLogger("session-store"),
		now:    time.Now,
	}
}

// Get retrieves a session; it returns nil without error when the session does not exist
func (s *SessionStore) Get(ctx context.Context, id string) (*SessionState, error) {
	var (
		state             SessionState
		daysJSON          string
		mode              string
		created, modified int64
	)
	err := s.db.Conn().QueryRowContext(ctx, `
		SELECT id, selected_days, color_mode, created_at, updated_at
		FROM view_sessions
		WHERE id = ?
	`, id).Scan(&state.ID, &daysJSON, &mode, &created, &modified)

	if errors.Is(err, sql.ErrNoRows) {
		s.logger.Debug().Str("session_id", id).Msg("Session not found")
		return nil, nil
	}
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", id).Msg("Failed to retrieve session")
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	if err := json.Unmarshal([]byte(daysJSON), &state.SelectedDays); err != nil {
		return nil, fmt.Errorf("failed to unmarshal selected days: %w", err)
	}
	if state.ColorMode, err = constants.ParseColorMode(mode); err != nil {
		return nil, fmt.Errorf("failed to read session color mode: %w", err)
	}
	state.CreatedAt = time.Unix(created, 0)
	state.UpdatedAt = time.Unix(modified, 0)
	return &state, nil
}

// Save inserts or updates a session and refreshes its activity time
func (s *SessionStore) Save(ctx context.Context, state *SessionState) error {
	if state.ID == "" {
		return fmt.Errorf("session id cannot be empty")
	}
	if !state.ColorMode.IsValid() {
		return fmt.Errorf("invalid color mode for session %s: %q", state.ID, state.ColorMode)
	}
	for _, day := range state.SelectedDays {
		if !constants.IsValidDayOfWeek(day) {
			return fmt.Errorf("invalid day of week for session %s: %q", state.ID, day)
		}
	}

	days := state.SelectedDays
	if days == nil {
		days = []string{}
	}
	daysJSON, err := json.Marshal(days)
	if err != nil {
		return fmt.Errorf("failed to marshal selected days: %w", err)
	}

	now := s.now().Unix()
	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO view_sessions (id, selected_days, color_mode, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			selected_days = excluded.selected_days,
			color_mode = excluded.color_mode,
			updated_at = excluded.updated_at
	`, state.ID, string(daysJSON), state.ColorMode.String(), now, now)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", state.ID).Msg("Failed to save session")
		return fmt.Errorf("failed to save session: %w", err)
	}

	state.UpdatedAt = time.Unix(now, 0)
	if state.CreatedAt.IsZero() {
		state.CreatedAt = state.UpdatedAt
	}
	s.logger.Debug().Str("session_id", state.ID).Strs("selected_days", days).Str("color_mode", state.ColorMode.String()).Msg("Session saved")
	return nil
}

// Touch refreshes the activity time of a session
func (s *SessionStore) Touch(ctx context.Context, id string) error {
	_, err := s.db.Conn().ExecContext(ctx, `UPDATE view_sessions SET updated_at = ? WHERE id = ?`, s.now().Unix(), id)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *SessionStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.Conn().ExecContext(ctx, `DELETE FROM view_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// PruneBefore deletes the sessions idle since before cutoff and returns their ids
func (s *SessionStore) PruneBefore(ctx context.Context, cutoff time.Time) ([]string, error) {
	var ids []string
	err := s.db.WithTransaction(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM view_sessions WHERE updated_at < ? ORDER BY id`, cutoff.Unix())
		if err != nil {
			return fmt.Errorf("failed to query expired sessions: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return fmt.Errorf("failed to scan session id: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			return fmt.Errorf("failed to iterate expired sessions: %w", err)
		}
		rows.Close()

		if len(ids) == 0 {
			return nil
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM view_sessions WHERE updated_at < ?`, cutoff.Unix()); err != nil {
			return fmt.Errorf("failed to delete expired sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Time("cutoff", cutoff).Msg("Failed to prune sessions")
		return nil, err
	}

	if len(ids) > 0 {
		s.logger.Info().Int("pruned", len(ids)).Time("cutoff", cutoff).Msg("Pruned idle sessions")
	}
	return ids, nil
}

// Count returns the number of stored sessions
func (s *SessionStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.Conn().QueryRowContext(ctx, `SELECT COUNT(*) FROM view_sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
