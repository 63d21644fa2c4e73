package plot

import (
	"fmt"
	"strconv"

	"github.com/belphemur/sleep-scatter/internal/dataset"
)

// Point opacities
const (
	VisibleOpacity = 0.75
	HiddenOpacity  = 0.0
)

// Axis titles
const (
	XAxisTitle = "Steps"
	YAxisTitle = "Sleep (h)"
)

// Config is the geometry and data domain of the plot
type Config struct {
	Width       int
	Height      int
	Padding     int
	XDomain     [2]float64
	YDomain     [2]float64
	PointRadius float64
}

// ContentWidth is the plotting width inside the padding
func (c Config) ContentWidth() float64 {
	return float64(c.Width - 2*c.Padding)
}

// ContentHeight is the plotting height inside the padding
func (c Config) ContentHeight() float64 {
	return float64(c.Height - 2*c.Padding)
}

// View is the read side of a view model: which weekdays are shown and whether points are tinted
type View interface {
	IsSelected(day string) bool
	ColorsEnabled() bool
}

// BuildXScale maps the steps domain onto [0, contentWidth]
func BuildXScale(cfg Config) *LinearScale {
	return NewLinearScale(cfg.XDomain, [2]float64{0, cfg.ContentWidth()}).Nice(DefaultTickCount)
}

// BuildYScale maps the sleep domain onto [contentHeight, 0] so larger values render higher
func BuildYScale(cfg Config) *LinearScale {
	return NewLinearScale(cfg.YDomain, [2]float64{cfg.ContentHeight(), 0}).Nice(DefaultTickCount)
}

// Scales holds both niced scales of a plot
type Scales struct {
	X *LinearScale
	Y *LinearScale
}

// NewScales builds the x and y scales from the configuration
func NewScales(cfg Config) Scales {
	return Scales{X: BuildXScale(cfg), Y: BuildYScale(cfg)}
}

// Point is one rendered circle
type Point struct {
	Date      string   `json:"date"`
	DayOfWeek string   `json:"day_of_week"`
	Steps     float64  `json:"steps"`
	Sleep     float64  `json:"sleep"`
	CX        float64  `json:"cx"`
	CY        float64  `json:"cy"`
	R         float64  `json:"r"`
	Opacity   float64  `json:"opacity"`
	Fill      string   `json:"fill"`
	Tooltip   []string `json:"tooltip"`
}

// Graph is the complete render state of the scatter plot
type Graph struct {
	Width         int
	Height        int
	Padding       int
	ContentWidth  float64
	ContentHeight float64
	XAxis         *Axis
	YAxis         *Axis
	Points        []Point
}

// Build lays out one point per record and applies the view's visibility and colors
func Build(cfg Config, scales Scales, records []*dataset.Record, view View) *Graph {
	g := &Graph{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Padding:       cfg.Padding,
		ContentWidth:  cfg.ContentWidth(),
		ContentHeight: cfg.ContentHeight(),
	}

	g.XAxis = NewAxis(scales.X, OrientBottom).
		Translate(0, g.ContentHeight).
		WithTitle(XAxisTitle, g.ContentWidth, -6, "end")
	g.YAxis = NewAxis(scales.Y, OrientLeft).
		WithTitle(YAxisTitle, 6, 6, "start")

	g.Points = make([]Point, 0, len(records))
	for _, rec := range records {
		g.Points = append(g.Points, Point{
			Date:      rec.Date,
			DayOfWeek: rec.DayOfWeek,
			Steps:     rec.Steps,
			Sleep:     rec.Sleep,
			CX:        scales.X.Scale(rec.Steps),
			CY:        scales.Y.Scale(rec.Sleep),
			R:         cfg.PointRadius,
			Tooltip:   TooltipLines(rec),
		})
	}

	g.UpdateVisibility(view)
	g.UpdateColors(view)
	return g
}

// UpdateVisibility sets each point's opacity from the selection. Hidden points are kept.
func (g *Graph) UpdateVisibility(view View) {
	for i := range g.Points {
		g.Points[i].Opacity = Opacity(g.Points[i].DayOfWeek, view)
	}
}

// UpdateColors sets each point's fill from the display flag
func (g *Graph) UpdateColors(view View) {
	colors := view.ColorsEnabled()
	for i := range g.Points {
		g.Points[i].Fill = ColorForDay(g.Points[i].DayOfWeek, colors)
	}
}

// Clone returns a copy whose points can be restyled without touching g
func (g *Graph) Clone() *Graph {
	c := *g
	c.Points = make([]Point, len(g.Points))
	copy(c.Points, g.Points)
	return &c
}

// VisibleCount is the number of points currently shown
func (g *Graph) VisibleCount() int {
	n := 0
	for _, p := range g.Points {
		if p.Opacity > 0 {
			n++
		}
	}
	return n
}

// ContentTransform offsets the content group by the padding
func (g *Graph) ContentTransform() string {
	return translate(float64(g.Padding), float64(g.Padding))
}

// Opacity of a point on day under view
func Opacity(day string, view View) float64 {
	if view.IsSelected(day) {
		return VisibleOpacity
	}
	return HiddenOpacity
}

// TooltipLines are the three lines shown when hovering a record
func TooltipLines(rec *dataset.Record) []string {
	steps := rec.StepsText
	if steps == "" {
		steps = strconv.FormatFloat(rec.Steps, 'f', -1, 64)
	}
	return []string{
		"Date: " + rec.Date,
		"Steps: " + steps,
		fmt.Sprintf("Sleep: %.1f", rec.Sleep),
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
