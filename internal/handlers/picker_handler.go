package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/belphemur/sleep-scatter/internal/signals"
	"github.com/belphemur/sleep-scatter/internal/viewmodel"
)

// PickerHandler applies day picker and color toggle changes to the caller's view model
type PickerHandler struct {
	*BaseHandler
}

// NewPickerHandler creates a new picker handler
func NewPickerHandler(baseHandler *BaseHandler) *PickerHandler {
	return &PickerHandler{BaseHandler: baseHandler}
}

// RegisterRoutes registers day picker and color toggle routes
func (h *PickerHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /days", h.handleDays)
	mux.HandleFunc("POST /color", h.handleColor)
}

// handleDays adds a weekday to or removes it from the selection.
// Form fields: day (weekday name) and checked (boolean, "on" counts as true).
// Without a checked field the day is toggled.
func (h *PickerHandler) handleDays(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleDays").Logger()
	handlerLogger.Info().Str("method", r.Method).Msg("Handling day picker update")

	if err := r.ParseForm(); err != nil {
		handlerLogger.Warn().Err(err).Msg("Failed to parse form")
		h.redirectWithError(w, r, ErrCodeInvalidFormData)
		return
	}

	day := strings.TrimSpace(r.PostForm.Get("day"))
	checked, err := parseChecked(r.PostForm.Get("checked"))
	if day == "" || err != nil {
		handlerLogger.Warn().Err(err).Str("day", day).Msg("Invalid day picker form")
		h.redirectWithError(w, r, ErrCodeInvalidFormData)
		return
	}

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		h.redirectWithError(w, r, ErrCodeSessionLoadFailed)
		return
	}

	changed := true
	if r.PostForm.Has("checked") {
		changed, err = session.View.SetDay(day, checked)
	} else {
		checked, err = session.View.ToggleDay(day)
	}
	if err != nil {
		code := ErrCodeUnknown
		if errors.Is(err, viewmodel.ErrUnknownDay) {
			code = ErrCodeInvalidDayOfWeek
		}
		handlerLogger.Warn().Err(err).Str("day", day).Msg("Rejected day picker update")
		h.redirectWithError(w, r, code)
		return
	}

	if changed {
		if err := h.SaveSession(r.Context(), session); err != nil {
			handlerLogger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to save session")
			h.redirectWithError(w, r, ErrCodeSessionSaveFailed)
			return
		}
		signals.EmitDaysChanged(r.Context(), session.ID, day, checked, session.View)
	}

	handlerLogger.Debug().Str("day", day).Bool("checked", checked).Bool("changed", changed).Msg("Day picker updated")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleColor flips the display flag
func (h *PickerHandler) handleColor(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleColor").Logger()
	handlerLogger.Info().Str("method", r.Method).Msg("Handling color toggle")

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		h.redirectWithError(w, r, ErrCodeSessionLoadFailed)
		return
	}

	session.View.ToggleColors()
	if err := h.SaveSession(r.Context(), session); err != nil {
		handlerLogger.Error().Err(err).Str("session_id", session.ID).Msg("Failed to save session")
		h.redirectWithError(w, r, ErrCodeSessionSaveFailed)
		return
	}
	signals.EmitColorModeChanged(r.Context(), session.ID, session.View.ColorMode(), session.View)

	handlerLogger.Debug().Str("color_mode", session.View.ColorMode().String()).Msg("Color mode toggled")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// parseChecked reads a checkbox value. A missing value means unchecked.
func parseChecked(v string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "off":
		return false, nil
	case "on":
		return true, nil
	}
	return strconv.ParseBool(v)
}
