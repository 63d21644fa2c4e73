package plot

import "github.com/belphemur/sleep-scatter/internal/constants"

// Category10 is the ten color ordinal palette; weekdays index it Sunday=0..Saturday=6
var Category10 = []string{
	"#1f77b4",
	"#ff7f0e",
	"#2ca02c",
	"#d62728",
	"#9467bd",
	"#8c564b",
	"#e377c2",
	"#7f7f7f",
	"#bcbd22",
	"#17becf",
}

// Fixed colors
const (
	Black     = "rgb(0,0,0)"
	Highlight = "orange"
)

// PaletteColor returns the palette entry at index, cycling through the palette
func PaletteColor(index int) string {
	if index < 0 {
		return Black
	}
	return Category10[index%len(Category10)]
}

// ColorForDay returns the fill of a weekday: its palette color in color mode, black otherwise.
// Legend labels and data points share this function so the legend matches the points.
func ColorForDay(day string, colors bool) string {
	if !colors {
		return Black
	}
	return PaletteColor(constants.WeekdayIndex(day))
}
