package main

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/database"
	appSignals "github.com/belphemur/sleep-scatter/internal/signals"
)

func TestPruneInterval(t *testing.T) {
	tests := []struct {
		ttl      time.Duration
		expected time.Duration
	}{
		{24 * time.Hour, time.Hour},
		{2 * time.Hour, 30 * time.Minute},
		{time.Minute, time.Minute},
		{0, time.Hour},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.expected, pruneInterval(tc.ttl), tc.ttl.String())
	}
}

func TestPruneSessions_EmitsPrunedIDs(t *testing.T) {
	db, err := database.New(database.NewDefaultOptions(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.MigrateDatabase())

	ctx := context.Background()
	sessions := database.NewSessionStore(db)
	require.NoError(t, sessions.Save(ctx, &database.SessionState{
		ID:           "idle",
		SelectedDays: constants.Weekdays[:],
		ColorMode:    constants.ColorModeMono,
	}))

	var (
		mu     sync.Mutex
		pruned []string
	)
	appSignals.OnSessionsPruned(func(ctx context.Context, data appSignals.SessionsPrunedData) {
		mu.Lock()
		defer mu.Unlock()
		pruned = append(pruned, data.SessionIDs...)
	}, "main-test-pruned")
	t.Cleanup(func() { appSignals.RemoveListeners("main-test-pruned") })

	// a one hour ttl keeps the fresh session
	pruneSessions(ctx, sessions, time.Hour)
	mu.Lock()
	assert.Empty(t, pruned)
	mu.Unlock()

	// a negative ttl puts the cutoff in the future
	pruneSessions(ctx, sessions, -time.Hour)
	mu.Lock()
	assert.Equal(t, []string{"idle"}, pruned)
	mu.Unlock()

	n, err := sessions.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
