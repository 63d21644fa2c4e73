package handlers

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/plot"
	"github.com/belphemur/sleep-scatter/internal/viewhelpers"
)

// PlotHandler serves the scatter plot page and its machine-readable variants
type PlotHandler struct {
	*BaseHandler
	Skipped int
	Source  string
}

// NewPlotHandler creates a new plot handler. skipped is the number of rows dropped at load.
func NewPlotHandler(baseHandler *BaseHandler, source string, skipped int) *PlotHandler {
	return &PlotHandler{
		BaseHandler: baseHandler,
		Skipped:     skipped,
		Source:      source,
	}
}

// RegisterRoutes registers plot related routes
func (h *PlotHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.handlePlotPage)
	mux.HandleFunc("GET /plot.svg", h.handlePlotSVG)
	mux.HandleFunc("GET /api/points", h.handlePoints)
}

// PlotPageData contains data for the plot page template
type PlotPageData struct {
	BasePageData
	ErrorMessage  string
	SVG           template.HTML
	Days          []viewhelpers.DayOption
	ColorsEnabled bool
	TotalPoints   int
	VisiblePoints int
	SkippedRows   int
	Source        string
}

// PointsResponse is the JSON body of /api/points
type PointsResponse struct {
	ColorMode    constants.ColorMode `json:"color_mode"`
	SelectedDays []string            `json:"selected_days"`
	Points       []plot.Point        `json:"points"`
}

func (h *PlotHandler) handlePlotPage(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handlePlotPage").Logger()
	handlerLogger.Info().Str("method", r.Method).Msg("Handling plot page request")

	data := PlotPageData{
		BasePageData: h.NewBasePageData(r),
		ErrorMessage: h.processMessages(r, handlerLogger),
		SkippedRows:  h.Skipped,
		Source:       h.Source,
	}

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		data.ErrorMessage = GetErrorMessage(ErrCodeSessionLoadFailed)
		h.RenderTemplate(w, "plot.html", data)
		return
	}

	g := h.Display.Graph(session.ID, session.View)
	svg, err := plot.InlineSVG(g)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to render plot")
		data.ErrorMessage = GetErrorMessage(ErrCodeRenderFailed)
	}

	data.SVG = svg
	data.Days = viewhelpers.BuildDayOptions(session.View)
	data.ColorsEnabled = session.View.ColorsEnabled()
	data.TotalPoints = len(g.Points)
	data.VisiblePoints = g.VisibleCount()

	handlerLogger.Debug().Str("session_id", session.ID).Int("visible", data.VisiblePoints).Msg("Rendering plot template")
	h.RenderTemplate(w, "plot.html", data)
}

func (h *PlotHandler) handlePlotSVG(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handlePlotSVG").Logger()

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		http.Error(w, GetErrorMessage(ErrCodeSessionLoadFailed), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	if err := plot.WriteSVG(w, h.Display.Graph(session.ID, session.View)); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to write svg")
	}
}

func (h *PlotHandler) handlePoints(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handlePoints").Logger()

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		http.Error(w, GetErrorMessage(ErrCodeSessionLoadFailed), http.StatusInternalServerError)
		return
	}

	g := h.Display.Graph(session.ID, session.View)
	resp := PointsResponse{
		ColorMode:    session.View.ColorMode(),
		SelectedDays: session.View.SelectedDays(),
		Points:       g.Points,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to encode points")
	}
}
