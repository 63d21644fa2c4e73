package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/belphemur/sleep-scatter/internal/config"
	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/database"
	"github.com/belphemur/sleep-scatter/internal/dataset"
	"github.com/belphemur/sleep-scatter/internal/display"
)

type testEnv struct {
	mux      *http.ServeMux
	db       *database.DB
	sessions *database.SessionStore
	history  *database.LoadHistory
	cache    *display.Cache
	cookies  []*http.Cookie
}

// newTestEnv wires every handler against a temporary database and three records:
// a Sunday, a Monday and another Monday.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(database.NewDefaultOptions(filepath.Join(t.TempDir(), "state.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.MigrateDatabase())

	cfg := &config.Config{
		App: config.AppConfig{Port: 8888},
		Plot: config.PlotConfig{
			Width:       600,
			Height:      400,
			Padding:     40,
			XDomain:     []float64{0, 25000},
			YDomain:     []float64{0, 12},
			Datasource:  "data/sleep.csv",
			PointRadius: 5,
			ColorMode:   constants.ColorModeMono,
			PlotDiv:     "plot",
			DaysForm:    "days",
		},
		Service: config.ServiceConfig{
			LogLevel:     "info",
			SessionTTL:   time.Hour,
			FetchTimeout: time.Second,
		},
	}

	records, skipped := dataset.AddDayOfWeek([]*dataset.Record{
		{Date: "2023-01-01", Steps: 8000, StepsText: "8000", Sleep: 6.5},
		{Date: "2023-01-02", Steps: 5000, StepsText: "5000", Sleep: 7.5},
		{Date: "2023-01-09", Steps: 13000, StepsText: "13000", Sleep: 6},
	})
	require.Nil(t, skipped)

	cache := display.NewCache(cfg.Plot.Geometry(), records)
	t.Cleanup(cache.Subscribe())

	sessions := database.NewSessionStore(db)
	history := database.NewLoadHistory(db)
	require.NoError(t, history.Record(context.Background(), database.DatasetLoad{
		Source:  "data/sleep.csv",
		Records: len(records),
		Skipped: 1,
	}))

	base, err := NewBaseHandler(cfg, sessions, cache)
	require.NoError(t, err)
	static, err := NewStaticHandler()
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewPlotHandler(base, cfg.Plot.Datasource, 1).RegisterRoutes(mux)
	NewPickerHandler(base).RegisterRoutes(mux)
	NewExportHandler(base).RegisterRoutes(mux)
	NewStatisticsHandler(base, history).RegisterRoutes(mux)
	static.RegisterRoutes(mux)

	return &testEnv{mux: mux, db: db, sessions: sessions, history: history, cache: cache}
}

// do sends a request carrying the cookies collected so far and keeps the returned ones
func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range e.cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	if set := w.Result().Cookies(); len(set) > 0 {
		e.cookies = set
	}
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

func (e *testEnv) sessionID(t *testing.T) string {
	t.Helper()
	for _, c := range e.cookies {
		if c.Name == constants.SessionCookieName {
			return c.Value
		}
	}
	t.Fatal("no session cookie")
	return ""
}

func (e *testEnv) points(t *testing.T) PointsResponse {
	t.Helper()
	w := e.get("/api/points")
	require.Equal(t, http.StatusOK, w.Code)
	var resp PointsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}
