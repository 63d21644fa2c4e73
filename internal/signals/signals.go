package signals

import (
	"context"

	"github.com/maniartech/signals"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/plot"
)

// DaysChangedData is emitted after a weekday was added to or removed from a session's selection
type DaysChangedData struct {
	SessionID string
	Day       string
	Checked   bool
	View      plot.View
}

// ColorModeChangedData is emitted after a session's display flag flipped
type ColorModeChangedData struct {
	SessionID string
	Mode      constants.ColorMode
	View      plot.View
}

// SessionsPrunedData lists the sessions removed for inactivity
type SessionsPrunedData struct {
	SessionIDs []string
}

// Signal definitions using generics
var DaysChanged = signals.New[DaysChangedData]()
var ColorModeChanged = signals.New[ColorModeChangedData]()
var SessionsPruned = signals.New[SessionsPrunedData]()

// EmitDaysChanged emits a signal when the weekday selection of a session changed
func EmitDaysChanged(ctx context.Context, sessionID, day string, checked bool, view plot.View) {
	DaysChanged.Emit(ctx, DaysChangedData{
		SessionID: sessionID,
		Day:       day,
		Checked:   checked,
		View:      view,
	})
}

// EmitColorModeChanged emits a signal when the color mode of a session changed
func EmitColorModeChanged(ctx context.Context, sessionID string, mode constants.ColorMode, view plot.View) {
	ColorModeChanged.Emit(ctx, ColorModeChangedData{
		SessionID: sessionID,
		Mode:      mode,
		View:      view,
	})
}

// EmitSessionsPruned emits a signal when expired sessions were deleted
func EmitSessionsPruned(ctx context.Context, ids []string) {
	SessionsPruned.Emit(ctx, SessionsPrunedData{SessionIDs: ids})
}

// OnDaysChanged registers a handler for selection changes
func OnDaysChanged(handler func(ctx context.Context, data DaysChangedData), key ...string) {
	if len(key) > 0 {
		DaysChanged.AddListener(handler, key[0])
	} else {
		DaysChanged.AddListener(handler)
	}
}

// OnColorModeChanged registers a handler for color mode changes
func OnColorModeChanged(handler func(ctx context.Context, data ColorModeChangedData), key ...string) {
	if len(key) > 0 {
		ColorModeChanged.AddListener(handler, key[0])
	} else {
		ColorModeChanged.AddListener(handler)
	}
}

// OnSessionsPruned registers a handler for pruned sessions
func OnSessionsPruned(handler func(ctx context.Context, data SessionsPrunedData), key ...string) {
	if len(key) > 0 {
		SessionsPruned.AddListener(handler, key[0])
	} else {
		SessionsPruned.AddListener(handler)
	}
}

// RemoveListeners detaches every handler registered under key
func RemoveListeners(key string) {
	DaysChanged.RemoveListener(key)
	ColorModeChanged.RemoveListener(key)
	SessionsPruned.RemoveListener(key)
}
