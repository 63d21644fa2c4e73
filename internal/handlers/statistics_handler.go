package handlers

import (
	"net/http"

	"github.com/belphemur/sleep-scatter/internal/database"
	"github.com/belphemur/sleep-scatter/internal/viewhelpers"
)

// recentLoads is the number of dataset loads listed on the statistics page
const recentLoads = 5

// StatisticsPageData contains data for the statistics page template.
type StatisticsPageData struct {
	BasePageData
	ErrorMessage string
	Summaries    []viewhelpers.WeekdaySummary
	Selected     viewhelpers.WeekdaySummary
	FirstDate    string
	LastDate     string
	HasData      bool
	Loads        []database.DatasetLoad
}

// StatisticsHandler manages statistics page functionality.
type StatisticsHandler struct {
	*BaseHandler
	History *database.LoadHistory
}

// NewStatisticsHandler creates a new statistics page handler.
func NewStatisticsHandler(baseHandler *BaseHandler, history *database.LoadHistory) *StatisticsHandler {
	return &StatisticsHandler{
		BaseHandler: baseHandler,
		History:     history,
	}
}

// RegisterRoutes registers statistics page related routes.
func (h *StatisticsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /statistics", h.handleStatisticsPage)
}

// handleStatisticsPage shows per-weekday counts and means for the caller's selection.
func (h *StatisticsHandler) handleStatisticsPage(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleStatisticsPage").Logger()
	handlerLogger.Info().Str("method", r.Method).Msg("Handling statistics page request")

	data := StatisticsPageData{BasePageData: h.NewBasePageData(r)}

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		data.ErrorMessage = GetErrorMessage(ErrCodeSessionLoadFailed)
		h.RenderTemplate(w, "statistics.html", data)
		return
	}

	records := h.Display.Records()
	data.Summaries = viewhelpers.SummarizeByWeekday(records, session.View)
	data.Selected = viewhelpers.SelectedTotals(data.Summaries)
	if first, last, ok := viewhelpers.DateRange(records); ok {
		data.HasData = true
		data.FirstDate = first.Format("2006-01-02")
		data.LastDate = last.Format("2006-01-02")
	}

	if h.History != nil {
		loads, err := h.History.Recent(r.Context(), recentLoads)
		if err != nil {
			handlerLogger.Error().Err(err).Msg("Failed to read dataset load history")
			data.ErrorMessage = "Could not retrieve the dataset load history."
		}
		data.Loads = loads
	}

	handlerLogger.Debug().Int("records", len(records)).Int("selected_records", data.Selected.Count).Msg("Processed statistics data for template")
	h.RenderTemplate(w, "statistics.html", data)
}
