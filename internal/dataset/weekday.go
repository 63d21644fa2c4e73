package dataset

import (
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/belphemur/sleep-scatter/internal/constants"
)

// dateLayouts are tried in order. The date is a calendar day: no time zone is applied,
// so "2023-01-01" is a Sunday wherever the server runs.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"1/2/2006",
	"01/02/2006",
	time.RFC3339,
}

// ParseDate parses a calendar date in one of the supported layouts
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date format")
}

// DayOfWeek returns the weekday name of a date string
func DayOfWeek(date string) (string, error) {
	t, err := ParseDate(date)
	if err != nil {
		return "", err
	}
	return constants.WeekdayName(t.Weekday()), nil
}

// AddDayOfWeek augments every record with its weekday so it is never recomputed.
// Records whose date does not parse are dropped and reported in the returned error.
func AddDayOfWeek(records []*Record) ([]*Record, *multierror.Error) {
	var skipped *multierror.Error
	kept := make([]*Record, 0, len(records))
	for _, r := range records {
		t, err := ParseDate(r.Date)
		if err != nil {
			skipped = multierror.Append(skipped, &RowError{Line: r.Line, Column: "date", Value: r.Date, Err: err})
			continue
		}
		r.Day = t
		r.DayOfWeek = constants.WeekdayName(t.Weekday())
		kept = append(kept, r)
	}
	return kept, skipped
}
