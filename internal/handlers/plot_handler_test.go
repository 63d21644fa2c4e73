package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/plot"
)

func TestPlotPage_RendersPlotAndPicker(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, `<div id="plot" class="plot"><svg`)
	assert.Contains(t, body, `<form id="days"`)
	for _, day := range constants.Weekdays {
		assert.Contains(t, body, `value="`+day+`" checked`)
	}
	assert.Contains(t, body, "Showing 3 of 3 days, 1 malformed rows skipped.")
	assert.Contains(t, body, "Steps: 8000")
	assert.NotContains(t, body, "ZgotmplZ")

	id := env.sessionID(t)
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
}

func TestSessionCookie_EndsWithBrowserSession(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/")
	require.Equal(t, http.StatusOK, w.Code)

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == constants.SessionCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Zero(t, cookie.MaxAge)
	assert.True(t, cookie.Expires.IsZero())
	assert.True(t, cookie.HttpOnly)

	raw := w.Header().Get("Set-Cookie")
	assert.NotContains(t, raw, "Max-Age")
	assert.NotContains(t, raw, "Expires")
}

func TestPlotPage_UnreadableSessionIsReplaced(t *testing.T) {
	env := newTestEnv(t)
	broken := uuid.NewString()
	_, err := env.db.Conn().Exec(`
		INSERT INTO view_sessions (id, selected_days, color_mode, created_at, updated_at)
		VALUES (?, '["Blursday"]', 'mono', 0, 0)
	`, broken)
	require.NoError(t, err)
	env.cookies = []*http.Cookie{{Name: constants.SessionCookieName, Value: broken}}

	require.Equal(t, http.StatusOK, env.get("/").Code)
	assert.NotEqual(t, broken, env.sessionID(t))

	state, err := env.sessions.Get(context.Background(), broken)
	require.NoError(t, err)
	assert.Nil(t, state, "the unreadable session is deleted")
}

func TestPlotPage_ShowsErrorMessage(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/?error=" + ErrCodeInvalidDayOfWeek)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid day of week.")
}

func TestPlotPage_ReusesSession(t *testing.T) {
	env := newTestEnv(t)

	env.get("/")
	first := env.sessionID(t)
	env.get("/")
	assert.Equal(t, first, env.sessionID(t))
}

func TestPlotPage_UnknownSessionStartsFresh(t *testing.T) {
	env := newTestEnv(t)
	stale := uuid.NewString()
	env.cookies = []*http.Cookie{{Name: constants.SessionCookieName, Value: stale}}

	require.Equal(t, http.StatusOK, env.get("/").Code)
	assert.NotEqual(t, stale, env.sessionID(t))
}

func TestPlotPage_MalformedCookieStartsFresh(t *testing.T) {
	env := newTestEnv(t)
	env.cookies = []*http.Cookie{{Name: constants.SessionCookieName, Value: "not-a-uuid"}}

	require.Equal(t, http.StatusOK, env.get("/").Code)
	_, err := uuid.Parse(env.sessionID(t))
	assert.NoError(t, err)
}

func TestPlotSVG(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/plot.svg")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "<svg")
	assert.Contains(t, w.Body.String(), "Sleep (h)")
}

func TestPoints_DefaultView(t *testing.T) {
	env := newTestEnv(t)

	resp := env.points(t)
	assert.Equal(t, constants.ColorModeMono, resp.ColorMode)
	assert.Equal(t, constants.Weekdays[:], resp.SelectedDays)
	require.Len(t, resp.Points, 3)
	for _, p := range resp.Points {
		assert.Equal(t, plot.VisibleOpacity, p.Opacity)
		assert.Equal(t, plot.Black, p.Fill)
	}
	assert.Equal(t, "Sunday", resp.Points[0].DayOfWeek)
	assert.InDelta(t, 260, resp.Points[2].CX, 1e-9)
	assert.InDelta(t, 160, resp.Points[2].CY, 1e-9)
}

func TestUnknownRoute(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNotFound, env.get("/nope").Code)
}
