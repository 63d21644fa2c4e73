package plot

import "fmt"

// Orientation says on which side of the content area an axis is drawn
type Orientation string

const (
	OrientBottom Orientation = "bottom"
	OrientLeft   Orientation = "left"
)

// Axis geometry, in pixels
const (
	TickSize    = 6
	TickPadding = 3
)

// Tick is one tick mark with its pixel offset along the axis
type Tick struct {
	Value  float64
	Offset float64
	Label  string
}

// Axis is a rendered axis: tick marks, the domain line and a trailing title
type Axis struct {
	Orient    Orientation
	Ticks     []Tick
	Transform string
	Title     string
	TitleX    float64
	TitleY    float64
	Anchor    string
	rng       [2]float64
}

// NewAxis builds the ticks of scale for the given orientation
func NewAxis(scale *LinearScale, orient Orientation) *Axis {
	format := scale.TickFormat(DefaultTickCount)
	values := scale.Ticks(DefaultTickCount)
	ticks := make([]Tick, 0, len(values))
	for _, v := range values {
		ticks = append(ticks, Tick{Value: v, Offset: scale.Scale(v), Label: format(v)})
	}
	return &Axis{Orient: orient, Ticks: ticks, rng: scale.Range()}
}

// WithTitle places a title at (x, y) relative to the axis group
func (a *Axis) WithTitle(title string, x, y float64, anchor string) *Axis {
	a.Title = title
	a.TitleX = x
	a.TitleY = y
	a.Anchor = anchor
	return a
}

// Translate moves the whole axis group
func (a *Axis) Translate(x, y float64) *Axis {
	a.Transform = translate(x, y)
	return a
}

// DomainPath is the SVG path of the axis line with outer ticks at both ends
func (a *Axis) DomainPath() string {
	r0, r1 := a.rng[0], a.rng[1]
	if a.Orient == OrientLeft {
		return fmt.Sprintf("M-%d,%sH0V%sH-%d", TickSize, formatNumber(r0), formatNumber(r1), TickSize)
	}
	return fmt.Sprintf("M%s,%dV0H%sV%d", formatNumber(r0), TickSize, formatNumber(r1), TickSize)
}

// TickTransform positions one tick group along the axis
func (a *Axis) TickTransform(t Tick) string {
	if a.Orient == OrientLeft {
		return translate(0, t.Offset)
	}
	return translate(t.Offset, 0)
}

// IsLeft reports whether the axis is vertical
func (a *Axis) IsLeft() bool {
	return a.Orient == OrientLeft
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s,%s)", formatNumber(x), formatNumber(y))
}
