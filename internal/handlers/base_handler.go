package handlers

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/belphemur/sleep-scatter/internal/config"
	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/database"
	"github.com/belphemur/sleep-scatter/internal/display"
	"github.com/belphemur/sleep-scatter/internal/logging"
	"github.com/belphemur/sleep-scatter/internal/viewmodel"
)

//go:embed templates/*.html
var templateFS embed.FS

// BaseHandler contains common handler functionality
type BaseHandler struct {
	tmpl     *template.Template
	Config   *config.Config
	Sessions *database.SessionStore
	Display  *display.Cache
	logger   zerolog.Logger
}

// Session is the view model of the caller, bound to its cookie
type Session struct {
	ID   string
	View *viewmodel.ViewModel
}

// NewBaseHandler creates a common base handler with shared components
func NewBaseHandler(cfg *config.Config, sessions *database.SessionStore, cache *display.Cache) (*BaseHandler, error) {
	logger := logging.GetLogger("base-handler")
	logger.Debug().Msg("Parsing templates")

	funcMap := template.FuncMap{
		"js": func(v interface{}) template.JS {
			a, _ := json.Marshal(v)
			return template.JS(a)
		},
		// colors come from the fixed palette, never from user input
		"textColor": func(color string) template.CSS {
			return template.CSS("color: " + color)
		},
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse templates")
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &BaseHandler{
		tmpl:     tmpl,
		Config:   cfg,
		Sessions: sessions,
		Display:  cache,
		logger:   logger,
	}, nil
}

// RenderTemplate renders a template with the given data
func (h *BaseHandler) RenderTemplate(w http.ResponseWriter, name string, data interface{}) {
	h.logger.Debug().Str("template_name", name).Msg("Executing template")

	tmpl, err := h.tmpl.Clone()
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to clone template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err = tmpl.ParseFS(templateFS, "templates/"+name); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to parse page template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.Error().Err(err).Str("template", name).Msg("Failed to execute template")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// LoadSession returns the caller's session, starting a new one with default state
// when the cookie is missing, malformed or points to a pruned session.
func (h *BaseHandler) LoadSession(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (*Session, error) {
	ctx := r.Context()

	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		if id, parseErr := uuid.Parse(cookie.Value); parseErr == nil {
			state, err := h.Sessions.Get(ctx, id.String())
			if err != nil {
				return nil, fmt.Errorf("failed to load session: %w", err)
			}
			if state != nil {
				view, err := viewmodel.Restore(state.SelectedDays, state.ColorMode.Enabled())
				if err == nil {
					if err := h.Sessions.Touch(ctx, state.ID); err != nil {
						logger.Warn().Err(err).Str("session_id", state.ID).Msg("Failed to refresh session activity")
					}
					h.setSessionCookie(w, state.ID)
					return &Session{ID: state.ID, View: view}, nil
				}
				logger.Warn().Err(err).Str("session_id", state.ID).Msg("Discarding unreadable session")
				if err := h.Sessions.Delete(ctx, state.ID); err != nil {
					return nil, fmt.Errorf("failed to discard session %s: %w", state.ID, err)
				}
			} else {
				logger.Debug().Str("session_id", id.String()).Msg("Session expired, starting a new one")
			}
		} else {
			logger.Debug().Err(parseErr).Msg("Ignoring malformed session cookie")
		}
	}

	session := &Session{
		ID:   uuid.NewString(),
		View: viewmodel.New(h.Config.Plot.ColorMode),
	}
	if err := h.SaveSession(ctx, session); err != nil {
		return nil, err
	}
	h.setSessionCookie(w, session.ID)
	logger.Info().Str("session_id", session.ID).Msg("Started new session")
	return session, nil
}

// SaveSession persists the view model of a session
func (h *BaseHandler) SaveSession(ctx context.Context, s *Session) error {
	return h.Sessions.Save(ctx, &database.SessionState{
		ID:           s.ID,
		SelectedDays: s.View.SelectedDays(),
		ColorMode:    s.View.ColorMode(),
	})
}

// setSessionCookie issues a browser-session cookie: without Max-Age it ends when the browser closes.
// Server side state is pruned separately after the session TTL.
func (h *BaseHandler) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// redirectWithError sends the caller back to the plot page with an error code
func (h *BaseHandler) redirectWithError(w http.ResponseWriter, r *http.Request, code string) {
	http.Redirect(w, r, "/?error="+url.QueryEscape(code), http.StatusSeeOther)
}

// processMessages translates the error code of a redirect into a message
func (h *BaseHandler) processMessages(r *http.Request, logger zerolog.Logger) string {
	errorCode := r.URL.Query().Get("error")
	if errorCode == "" {
		return ""
	}
	logger.Debug().Str("error_code", errorCode).Msg("Checked query parameters")
	return GetErrorMessage(errorCode)
}

// BasePageData contains common data for all pages
type BasePageData struct {
	AppName     string
	CurrentYear int
	CurrentPath string
	PlotDiv     string
	DaysForm    string
}

// NewBasePageData creates a new BasePageData with common fields populated
func (h *BaseHandler) NewBasePageData(r *http.Request) BasePageData {
	return BasePageData{
		AppName:     constants.AppName,
		CurrentYear: time.Now().Year(),
		CurrentPath: r.URL.Path,
		PlotDiv:     h.Config.Plot.PlotDiv,
		DaysForm:    h.Config.Plot.DaysForm,
	}
}
