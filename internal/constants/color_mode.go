package constants

import "fmt"

// ColorMode represents how data points are filled
type ColorMode string

const (
	// ColorModeMono renders every point black
	ColorModeMono ColorMode = "mono"
	// ColorModeWeekday tints every point by its weekday
	ColorModeWeekday ColorMode = "weekday"
)

// IsValid checks if the color mode value is valid
func (c ColorMode) IsValid() bool {
	return c == ColorModeMono || c == ColorModeWeekday
}

// String returns the string representation of the color mode
func (c ColorMode) String() string {
	return string(c)
}

// Enabled reports whether the mode tints points
func (c ColorMode) Enabled() bool {
	return c == ColorModeWeekday
}

// ColorModeFor maps the display flag back to a ColorMode
func ColorModeFor(enabled bool) ColorMode {
	if enabled {
		return ColorModeWeekday
	}
	return ColorModeMono
}

// ParseColorMode parses a string into a ColorMode type
// Returns an error if the value is invalid
func ParseColorMode(s string) (ColorMode, error) {
	mode := ColorMode(s)
	if !mode.IsValid() {
		return "", fmt.Errorf("invalid color mode: %s (must be 'mono' or 'weekday')", s)
	}
	return mode, nil
}

// GetAllColorModes returns all valid color modes, default first
func GetAllColorModes() []ColorMode {
	return []ColorMode{ColorModeMono, ColorModeWeekday}
}
