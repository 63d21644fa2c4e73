package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,steps,sleep
2023-01-01,8000,6.5
2023-01-02,5000,7.5
2023-01-07,12000,8.25
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sleep.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeTempCSV(t, sampleCSV)

	ds, err := NewLoader(time.Second).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	assert.Equal(t, 0, ds.SkippedCount())
	assert.Equal(t, path, ds.Source)
	assert.False(t, ds.LoadedAt.IsZero())

	first := ds.Records[0]
	assert.Equal(t, "2023-01-01", first.Date)
	assert.Equal(t, 8000.0, first.Steps)
	assert.Equal(t, "8000", first.StepsText)
	assert.Equal(t, 6.5, first.Sleep)
	assert.Equal(t, "Sunday", first.DayOfWeek)
	assert.Equal(t, 2, first.Line)

	assert.Equal(t, "Monday", ds.Records[1].DayOfWeek)
	assert.Equal(t, "Saturday", ds.Records[2].DayOfWeek)
}

func TestLoader_LoadHTTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	ds, err := NewLoader(time.Second).Load(context.Background(), server.URL+"/data.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())
}

func TestLoader_FetchFailures(t *testing.T) {
	notFound := httptest.NewServer(http.NotFoundHandler())
	defer notFound.Close()

	tests := []struct {
		name          string
		source        string
		expectedError string
	}{
		{name: "missing file", source: filepath.Join(t.TempDir(), "nope.csv"), expectedError: "failed to open file"},
		{name: "http 404", source: notFound.URL + "/data.csv", expectedError: "unexpected status 404"},
		{name: "empty source", source: "", expectedError: "empty data source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewLoader(time.Second).Load(context.Background(), tt.source)
			require.Error(t, err)
			assert.Nil(t, ds)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "expected a *LoadError, got %T", err)
			assert.Equal(t, tt.source, loadErr.Source)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestLoader_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLoader(time.Second).Load(ctx, server.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoader_SkipsMalformedRows(t *testing.T) {
	content := `date,steps,sleep
2023-01-02,5000,7.5
not-a-date,4000,6
2023-01-03,lots,7
2023-01-04,6000,
2023-01-05,7000,8
`
	ds, err := NewLoader(time.Second).Load(context.Background(), writeTempCSV(t, content))
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "2023-01-02", ds.Records[0].Date)
	assert.Equal(t, "2023-01-05", ds.Records[1].Date)

	require.Equal(t, 3, ds.SkippedCount())
	msg := ds.Skipped.Error()
	assert.Contains(t, msg, "invalid steps")
	assert.Contains(t, msg, "invalid sleep")
	assert.Contains(t, msg, "invalid date")

	lines := make([]int, 0, len(ds.Skipped.Errors))
	for _, err := range ds.Skipped.Errors {
		var rowErr *RowError
		require.True(t, errors.As(err, &rowErr))
		lines = append(lines, rowErr.Line)
	}
	assert.Equal(t, []int{3, 4, 5}, lines, "skipped rows are reported in file order")
}

func TestLoader_SkipsNonFiniteNumbers(t *testing.T) {
	content := `date,steps,sleep
2023-01-01,8000,6.5
2023-01-02,NaN,7.5
2023-01-03,5000,Inf
2023-01-04,-infinity,7
2023-01-05,4000,nan
2023-01-06,7000,8
`
	ds, err := NewLoader(time.Second).Load(context.Background(), writeTempCSV(t, content))
	require.NoError(t, err)

	require.Equal(t, 2, ds.Len())
	assert.Equal(t, "2023-01-01", ds.Records[0].Date)
	assert.Equal(t, "2023-01-06", ds.Records[1].Date)
	require.Equal(t, 4, ds.SkippedCount())
	assert.Contains(t, ds.Skipped.Error(), "not a finite number")
}

func TestParse_Header(t *testing.T) {
	tests := []struct {
		name          string
		content       string
		expectedError string
		expectedLen   int
	}{
		{
			name:        "columns in any order with extras",
			content:     "Sleep,notes,Date,STEPS\n7.5,ok,2023-01-02,5000\n",
			expectedLen: 1,
		},
		{
			name:        "byte order mark",
			content:     "\ufeffdate,steps,sleep\n2023-01-02,5000,7.5\n",
			expectedLen: 1,
		},
		{
			name:          "missing sleep column",
			content:       "date,steps\n2023-01-02,5000\n",
			expectedError: "missing required columns: sleep",
		},
		{
			name:          "empty input",
			content:       "",
			expectedError: "missing header",
		},
		{
			name:        "header only",
			content:     "date,steps,sleep\n",
			expectedLen: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, skipped, err := Parse(strings.NewReader(tt.content))
			if tt.expectedError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				return
			}
			require.NoError(t, err)
			assert.Nil(t, skipped)
			assert.Len(t, records, tt.expectedLen)
		})
	}
}

func TestParse_ShortRowIsSkipped(t *testing.T) {
	records, skipped, err := Parse(strings.NewReader("date,steps,sleep\n2023-01-02,5000\n2023-01-03,4000,6\n"))
	require.NoError(t, err)
	assert.Len(t, records, 1)
	require.NotNil(t, skipped)
	assert.Len(t, skipped.Errors, 1)
}
