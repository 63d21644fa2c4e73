// Package export renders the scatter plot of a session to PNG or SVG with go-chart.
package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/belphemur/sleep-scatter/internal/plot"
)

// Format is an export image format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// ParseFormat maps a file extension to a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimPrefix(s, "."))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	}
	return "", fmt.Errorf("unsupported export format: %s", s)
}

// Build converts a rendered graph into a go-chart scatter chart.
// Axis ranges and ticks come from the same niced scales as the SVG plot,
// and hidden points keep their place with a transparent dot.
func Build(g *plot.Graph, scales plot.Scales) chart.Chart {
	xs := make([]float64, 0, len(g.Points))
	ys := make([]float64, 0, len(g.Points))
	colors := make([]drawing.Color, 0, len(g.Points))
	radius := 0.0
	for _, p := range g.Points {
		xs = append(xs, p.Steps)
		ys = append(ys, p.Sleep)
		colors = append(colors, DotColor(p))
		radius = p.R
	}

	xDomain, yDomain := scales.X.Domain(), scales.Y.Domain()
	if len(xs) == 0 {
		// go-chart refuses empty series
		xs = append(xs, xDomain[0])
		ys = append(ys, yDomain[0])
		colors = append(colors, drawing.ColorTransparent)
	}

	return chart.Chart{
		Width:  g.Width,
		Height: g.Height,
		Background: chart.Style{Padding: chart.Box{
			Top:    g.Padding,
			Left:   g.Padding,
			Right:  g.Padding,
			Bottom: g.Padding,
		}},
		XAxis: chart.XAxis{
			Name:  plot.XAxisTitle,
			Range: &chart.ContinuousRange{Min: xDomain[0], Max: xDomain[1]},
			Ticks: ticks(g.XAxis),
		},
		YAxis: chart.YAxis{
			Name:  plot.YAxisTitle,
			Range: &chart.ContinuousRange{Min: min(yDomain[0], yDomain[1]), Max: max(yDomain[0], yDomain[1])},
			Ticks: ticks(g.YAxis),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "records",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeWidth: chart.Disabled,
					DotWidth:    radius,
					DotColorProvider: func(_, _ chart.Range, index int, _, _ float64) drawing.Color {
						return colors[index]
					},
				},
			},
		},
	}
}

// Write renders g in the given format
func Write(w io.Writer, format Format, g *plot.Graph, scales plot.Scales) error {
	provider := chart.PNG
	if format == FormatSVG {
		provider = chart.SVG
	}
	c := Build(g, scales)
	if err := c.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", format, err)
	}
	return nil
}

// DotColor converts a point's fill and opacity to a drawing color
func DotColor(p plot.Point) drawing.Color {
	c := drawing.ColorBlack
	if strings.HasPrefix(p.Fill, "#") {
		c = drawing.ColorFromHex(strings.TrimPrefix(p.Fill, "#"))
	}
	c.A = uint8(p.Opacity*255 + 0.5)
	return c
}

func ticks(a *plot.Axis) []chart.Tick {
	out := make([]chart.Tick, 0, len(a.Ticks))
	for _, t := range a.Ticks {
		out = append(out, chart.Tick{Value: t.Value, Label: t.Label})
	}
	return out
}
