// Package plot maps records to an SVG scatter plot: scales, axes, palette and point styling.
package plot

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// DefaultTickCount is the approximate number of ticks an axis aims for
const DefaultTickCount = 10

// Thresholds between 1, 2, 5 and 10 multiples when picking a tick step
var (
	e10 = math.Sqrt(50)
	e5  = math.Sqrt(10)
	e2  = math.Sqrt(2)
)

// LinearScale maps a numeric domain onto a pixel range
type LinearScale struct {
	domain [2]float64
	rng    [2]float64
}

// NewLinearScale creates a scale from domain to rng
func NewLinearScale(domain, rng [2]float64) *LinearScale {
	return &LinearScale{domain: domain, rng: rng}
}

// Domain returns the (possibly niced) domain
func (s *LinearScale) Domain() [2]float64 {
	return s.domain
}

// Range returns the pixel range
func (s *LinearScale) Range() [2]float64 {
	return s.rng
}

// Scale maps v from the domain to the range. A degenerate domain maps to the range midpoint.
func (s *LinearScale) Scale(v float64) float64 {
	d0, d1 := s.domain[0], s.domain[1]
	r0, r1 := s.rng[0], s.rng[1]
	if d1 == d0 {
		return (r0 + r1) / 2
	}
	t := (v - d0) / (d1 - d0)
	return r0 + t*(r1-r0)
}

// Nice extends the domain outwards to round tick boundaries for about count ticks.
// The niced domain always contains the original one.
func (s *LinearScale) Nice(count int) *LinearScale {
	if count <= 0 {
		count = DefaultTickCount
	}
	d0, d1 := s.domain[0], s.domain[1]
	reversed := d1 < d0
	start, stop := d0, d1
	if reversed {
		start, stop = d1, d0
	}

	var prestep float64
refine:
	for i := 0; i < 10; i++ {
		step := tickIncrement(start, stop, count)
		if step == prestep {
			break
		}
		switch {
		case step > 0:
			start = math.Floor(start/step) * step
			stop = math.Ceil(stop/step) * step
		case step < 0:
			start = math.Ceil(start*step) / step
			stop = math.Floor(stop*step) / step
		default:
			break refine
		}
		prestep = step
	}

	if reversed {
		s.domain = [2]float64{stop, start}
	} else {
		s.domain = [2]float64{start, stop}
	}
	return s
}

// Ticks returns round tick values inside the domain, about count of them
func (s *LinearScale) Ticks(count int) []float64 {
	if count <= 0 {
		count = DefaultTickCount
	}
	start, stop := s.domain[0], s.domain[1]
	if start > stop {
		start, stop = stop, start
	}
	if start == stop {
		return []float64{start}
	}

	step := tickIncrement(start, stop, count)
	var ticks []float64
	switch {
	case step > 0:
		r0, r1 := math.Ceil(start/step), math.Floor(stop/step)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i*step)
		}
	case step < 0:
		inv := -step
		r0, r1 := math.Ceil(start*inv), math.Floor(stop*inv)
		for i := r0; i <= r1; i++ {
			ticks = append(ticks, i/inv)
		}
	}
	return ticks
}

// TickFormat returns a formatter printing ticks with the precision of the tick step
// and thousands separators, e.g. "5,000" or "7.5".
func (s *LinearScale) TickFormat(count int) func(float64) string {
	if count <= 0 {
		count = DefaultTickCount
	}
	start, stop := s.domain[0], s.domain[1]
	if start > stop {
		start, stop = stop, start
	}
	precision := 0
	if step := tickStep(start, stop, count); step > 0 {
		precision = max(0, -int(math.Floor(math.Log10(step)+1e-9)))
	}
	format := "#,###." + strings.Repeat("#", precision)
	return func(v float64) string {
		if v == 0 {
			v = 0 // drop the sign of -0
		}
		return humanize.FormatFloat(format, v)
	}
}

// tickIncrement returns the tick step for [start, stop]. Steps below one are returned
// as the negative inverse (e.g. -5 for 0.2) to keep the arithmetic exact.
func tickIncrement(start, stop float64, count int) float64 {
	step := (stop - start) / float64(count)
	if step <= 0 || math.IsInf(step, 0) || math.IsNaN(step) {
		return 0
	}
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= e10:
		factor = 10
	case e >= e5:
		factor = 5
	case e >= e2:
		factor = 2
	}
	if power >= 0 {
		return factor * math.Pow(10, power)
	}
	return -math.Pow(10, -power) / factor
}

func tickStep(start, stop float64, count int) float64 {
	inc := tickIncrement(start, stop, count)
	if inc < 0 {
		return -1 / inc
	}
	return inc
}
