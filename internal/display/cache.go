// Package display keeps the rendered graph of every active session and restyles it when the
// session's view model changes.
package display

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/belphemur/sleep-scatter/internal/dataset"
	"github.com/belphemur/sleep-scatter/internal/logging"
	"github.com/belphemur/sleep-scatter/internal/plot"
	"github.com/belphemur/sleep-scatter/internal/signals"
)

// Cache maps session ids to their last rendered graph
type Cache struct {
	mu      sync.Mutex
	cfg     plot.Config
	scales  plot.Scales
	records []*dataset.Record
	graphs  map[string]*plot.Graph
	logger  zerolog.Logger
}

// NewCache creates a cache for the given plot configuration and dataset.
// The scales are built once and shared by every session.
func NewCache(cfg plot.Config, records []*dataset.Record) *Cache {
	return &Cache{
		cfg:     cfg,
		scales:  plot.NewScales(cfg),
		records: records,
		graphs:  make(map[string]*plot.Graph),
		logger:  logging.GetLogger("display"),
	}
}

// Subscribe attaches the cache to view model signals and returns a function detaching it
func (c *Cache) Subscribe() func() {
	key := "display-" + uuid.NewString()

	signals.OnDaysChanged(func(ctx context.Context, data signals.DaysChangedData) {
		c.restyle(data.SessionID, func(g *plot.Graph) { g.UpdateVisibility(data.View) })
	}, key)
	signals.OnColorModeChanged(func(ctx context.Context, data signals.ColorModeChangedData) {
		c.restyle(data.SessionID, func(g *plot.Graph) { g.UpdateColors(data.View) })
	}, key)
	signals.OnSessionsPruned(func(ctx context.Context, data signals.SessionsPrunedData) {
		c.Evict(data.SessionIDs...)
	}, key)

	c.logger.Debug().Str("listener_key", key).Msg("Subscribed to view model signals")
	return func() {
		signals.RemoveListeners(key)
	}
}

// Graph returns the session's graph, building it on first use.
// The returned graph is a copy the caller may keep.
func (c *Cache) Graph(sessionID string, view plot.View) *plot.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()

	g, ok := c.graphs[sessionID]
	if !ok {
		g = plot.Build(c.cfg, c.scales, c.records, view)
		c.graphs[sessionID] = g
		c.logger.Debug().Str("session_id", sessionID).Int("points", len(g.Points)).Msg("Built graph")
	}
	return g.Clone()
}

// Evict drops the graphs of the given sessions
func (c *Cache) Evict(sessionIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range sessionIDs {
		delete(c.graphs, id)
	}
}

// Len is the number of cached graphs
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.graphs)
}

// Records returns the dataset the cache renders
func (c *Cache) Records() []*dataset.Record {
	return c.records
}

// Scales returns the shared scales
func (c *Cache) Scales() plot.Scales {
	return c.scales
}

func (c *Cache) restyle(sessionID string, update func(g *plot.Graph)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, ok := c.graphs[sessionID]
	if !ok {
		return
	}
	update(g)
	c.logger.Debug().Str("session_id", sessionID).Int("visible", g.VisibleCount()).Msg("Restyled graph")
}
