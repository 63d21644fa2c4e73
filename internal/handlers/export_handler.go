package handlers

import (
	"bytes"
	"net/http"
	"path"
	"strconv"

	"github.com/belphemur/sleep-scatter/internal/export"
)

// ExportHandler renders the caller's view to an image file
type ExportHandler struct {
	*BaseHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(baseHandler *BaseHandler) *ExportHandler {
	return &ExportHandler{BaseHandler: baseHandler}
}

// RegisterRoutes registers export routes
func (h *ExportHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /export.png", h.handleExport)
	mux.HandleFunc("GET /export.svg", h.handleExport)
}

func (h *ExportHandler) handleExport(w http.ResponseWriter, r *http.Request) {
	handlerLogger := h.logger.With().Str("handler", "handleExport").Logger()

	format, err := export.ParseFormat(path.Ext(r.URL.Path))
	if err != nil {
		handlerLogger.Debug().Err(err).Msg("Unsupported export format")
		http.NotFound(w, r)
		return
	}
	handlerLogger = handlerLogger.With().Str("format", string(format)).Logger()
	handlerLogger.Info().Msg("Handling export request")

	session, err := h.LoadSession(w, r, handlerLogger)
	if err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to load session")
		http.Error(w, GetErrorMessage(ErrCodeSessionLoadFailed), http.StatusInternalServerError)
		return
	}

	// render into a buffer so a failure still gets a proper status code
	var buf bytes.Buffer
	g := h.Display.Graph(session.ID, session.View)
	if err := export.Write(&buf, format, g, h.Display.Scales()); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to export chart")
		http.Error(w, GetErrorMessage(ErrCodeRenderFailed), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", "inline; filename=\"sleep-scatter."+string(format)+"\"")
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		handlerLogger.Error().Err(err).Msg("Failed to write export response")
	}
}
