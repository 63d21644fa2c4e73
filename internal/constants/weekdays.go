package constants

import "time"

// Weekdays holds the canonical weekday names, Sunday first.
// The position of a name is its palette index and its picker order.
var Weekdays = [7]string{
	"Sunday",
	"Monday",
	"Tuesday",
	"Wednesday",
	"Thursday",
	"Friday",
	"Saturday",
}

// WeekdayName returns the canonical name for a time.Weekday
func WeekdayName(d time.Weekday) string {
	return Weekdays[int(d)%len(Weekdays)]
}

// WeekdayIndex returns the position of day in Weekdays, or -1 when day is not a weekday name
func WeekdayIndex(day string) int {
	for i, name := range Weekdays {
		if name == day {
			return i
		}
	}
	return -1
}

// IsValidDayOfWeek checks if a given day string is a valid day of the week
func IsValidDayOfWeek(day string) bool {
	return WeekdayIndex(day) >= 0
}

// AllWeekdays returns a copy of the weekday names for callers that need a slice
func AllWeekdays() []string {
	days := make([]string, len(Weekdays))
	copy(days, Weekdays[:])
	return days
}
