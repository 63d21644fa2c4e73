// Package dataset loads the steps/sleep CSV and derives the weekday of every row.
package dataset

import (
	"time"

	"github.com/hashicorp/go-multierror"
)

// Record is one day of data. DayOfWeek is derived once at load time.
type Record struct {
	Date      string    `json:"date"`
	Steps     float64   `json:"steps"`
	StepsText string    `json:"-"` // steps exactly as written in the CSV
	Sleep     float64   `json:"sleep"`
	DayOfWeek string    `json:"dayOfWeek"`
	Day       time.Time `json:"-"`
	Line      int       `json:"-"`
}

// Dataset is the result of a load: usable records plus the rows that were skipped
type Dataset struct {
	Source   string
	Records  []*Record
	Skipped  *multierror.Error
	LoadedAt time.Time
}

// SkippedCount returns the number of rows left out of Records
func (d *Dataset) SkippedCount() int {
	if d == nil || d.Skipped == nil {
		return 0
	}
	return len(d.Skipped.Errors)
}

// Len returns the number of usable records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Records)
}
