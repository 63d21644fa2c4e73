package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"

	"github.com/belphemur/sleep-scatter/internal/logging"
)

// Required CSV columns
const (
	ColumnDate  = "date"
	ColumnSteps = "steps"
	ColumnSleep = "sleep"
)

// Loader fetches and parses the dataset from a file path or an http(s) URL
type Loader struct {
	client *http.Client
	logger zerolog.Logger
}

// NewLoader creates a loader whose HTTP fetches give up after timeout
func NewLoader(timeout time.Duration) *Loader {
	return &Loader{
		client: &http.Client{Timeout: timeout},
		logger: logging.GetLogger("dataset-loader"),
	}
}

// Load fetches source, parses every row and derives weekdays.
// A fetch or header failure returns a *LoadError; bad rows are skipped and listed in Dataset.Skipped.
func (l *Loader) Load(ctx context.Context, source string) (*Dataset, error) {
	logger := l.logger.With().Str("source", source).Logger()
	logger.Info().Msg("Loading dataset")

	body, err := l.open(ctx, source)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to open data source")
		return nil, &LoadError{Source: source, Err: err}
	}
	defer body.Close()

	records, skipped, err := Parse(body)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to parse data source")
		return nil, &LoadError{Source: source, Err: err}
	}

	records, badDates := AddDayOfWeek(records)
	if badDates != nil {
		skipped = multierror.Append(skipped, badDates.Errors...)
		sortByLine(skipped.Errors)
	}

	ds := &Dataset{
		Source:   source,
		Records:  records,
		Skipped:  skipped,
		LoadedAt: time.Now(),
	}

	if ds.SkippedCount() > 0 {
		logger.Warn().Err(skipped.ErrorOrNil()).Int("skipped_rows", ds.SkippedCount()).Msg("Skipped malformed rows")
	}
	logger.Info().Int("records", ds.Len()).Msg("Dataset loaded")
	return ds, nil
}

func (l *Loader) open(ctx context.Context, source string) (io.ReadCloser, error) {
	if source == "" {
		return nil, errors.New("empty data source")
	}
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return resp.Body, nil
}

// Parse reads CSV rows into records. The header must name the date, steps and sleep
// columns (any order, case-insensitive); other columns are ignored.
// Rows with unparseable numbers are skipped and returned in skipped.
func Parse(r io.Reader) (records []*Record, skipped *multierror.Error, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, errors.New("empty CSV: missing header")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read header: %w", err)
	}

	columns, err := indexColumns(header)
	if err != nil {
		return nil, nil, err
	}

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				skipped = multierror.Append(skipped, &RowError{Line: parseErr.Line, Column: "row", Err: parseErr.Err})
				continue
			}
			return nil, nil, fmt.Errorf("failed to read rows: %w", err)
		}
		if isBlank(row) {
			continue
		}
		line, _ := reader.FieldPos(0)

		rec, rowErr := parseRow(row, columns, line)
		if rowErr != nil {
			skipped = multierror.Append(skipped, rowErr)
			continue
		}
		records = append(records, rec)
	}

	return records, skipped, nil
}

type columnIndex struct {
	date, steps, sleep int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{date: -1, steps: -1, sleep: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case ColumnDate:
			idx.date = i
		case ColumnSteps:
			idx.steps = i
		case ColumnSleep:
			idx.sleep = i
		}
	}

	var missing []string
	if idx.date < 0 {
		missing = append(missing, ColumnDate)
	}
	if idx.steps < 0 {
		missing = append(missing, ColumnSteps)
	}
	if idx.sleep < 0 {
		missing = append(missing, ColumnSleep)
	}
	if len(missing) > 0 {
		return idx, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, columns columnIndex, line int) (*Record, error) {
	field := func(i int) string {
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date := field(columns.date)
	if date == "" {
		return nil, &RowError{Line: line, Column: ColumnDate, Err: errors.New("empty value")}
	}

	stepsText := field(columns.steps)
	steps, err := parseNumber(stepsText)
	if err != nil {
		return nil, &RowError{Line: line, Column: ColumnSteps, Value: stepsText, Err: err}
	}

	sleepText := field(columns.sleep)
	sleep, err := parseNumber(sleepText)
	if err != nil {
		return nil, &RowError{Line: line, Column: ColumnSleep, Value: sleepText, Err: err}
	}

	return &Record{
		Date:      date,
		Steps:     steps,
		StepsText: stepsText,
		Sleep:     sleep,
		Line:      line,
	}, nil
}

// parseNumber accepts finite numbers only; NaN and infinities cannot be placed on an axis
func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	return v, nil
}

func isBlank(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// sortByLine orders skipped rows by their line in the source
func sortByLine(errs []error) {
	sort.SliceStable(errs, func(i, j int) bool {
		return errorLine(errs[i]) < errorLine(errs[j])
	})
}

func errorLine(err error) int {
	var rowErr *RowError
	if errors.As(err, &rowErr) {
		return rowErr.Line
	}
	return 0
}
