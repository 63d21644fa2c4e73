package viewhelpers

import (
	"time"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/dataset"
	"github.com/belphemur/sleep-scatter/internal/plot"
)

// DayOption is one checkbox of the day picker.
type DayOption struct {
	Name    string
	Index   int
	Checked bool
	Color   string // label color, identical to the fill of the day's points
}

// BuildDayOptions lists the picker checkboxes in weekday order, Sunday first.
func BuildDayOptions(view plot.View) []DayOption {
	colors := view.ColorsEnabled()
	options := make([]DayOption, 0, len(constants.Weekdays))
	for i, day := range constants.Weekdays {
		options = append(options, DayOption{
			Name:    day,
			Index:   i,
			Checked: view.IsSelected(day),
			Color:   plot.ColorForDay(day, colors),
		})
	}
	return options
}

// WeekdaySummary aggregates the records of one weekday.
type WeekdaySummary struct {
	Day        string
	Color      string
	Selected   bool
	Count      int
	TotalSteps float64
	TotalSleep float64
}

// MeanSteps is the average step count, zero without records.
func (s WeekdaySummary) MeanSteps() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalSteps / float64(s.Count)
}

// MeanSleep is the average sleep in hours, zero without records.
func (s WeekdaySummary) MeanSleep() float64 {
	if s.Count == 0 {
		return 0
	}
	return s.TotalSleep / float64(s.Count)
}

// SummarizeByWeekday returns one summary per weekday in weekday order.
// Every weekday is listed; deselected ones are flagged rather than dropped.
func SummarizeByWeekday(records []*dataset.Record, view plot.View) []WeekdaySummary {
	colors := view.ColorsEnabled()
	summaries := make([]WeekdaySummary, len(constants.Weekdays))
	for i, day := range constants.Weekdays {
		summaries[i] = WeekdaySummary{
			Day:      day,
			Color:    plot.ColorForDay(day, colors),
			Selected: view.IsSelected(day),
		}
	}

	for _, rec := range records {
		i := constants.WeekdayIndex(rec.DayOfWeek)
		if i < 0 {
			continue
		}
		summaries[i].Count++
		summaries[i].TotalSteps += rec.Steps
		summaries[i].TotalSleep += rec.Sleep
	}
	return summaries
}

// SelectedTotals folds the summaries of the selected weekdays into one row.
func SelectedTotals(summaries []WeekdaySummary) WeekdaySummary {
	total := WeekdaySummary{Day: "Selected", Color: plot.Black, Selected: true}
	for _, s := range summaries {
		if !s.Selected {
			continue
		}
		total.Count += s.Count
		total.TotalSteps += s.TotalSteps
		total.TotalSleep += s.TotalSleep
	}
	return total
}

// DateRange returns the first and last calendar day covered by the records.
// ok is false when there are no records.
func DateRange(records []*dataset.Record) (first, last time.Time, ok bool) {
	for _, rec := range records {
		if rec.Day.IsZero() {
			continue
		}
		if !ok || rec.Day.Before(first) {
			first = rec.Day
		}
		if !ok || rec.Day.After(last) {
			last = rec.Day
		}
		ok = true
	}
	return first, last, ok
}
