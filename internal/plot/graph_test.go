package plot

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belphemur/sleep-scatter/internal/constants"
	"github.com/belphemur/sleep-scatter/internal/dataset"
)

type stubView struct {
	hidden map[string]bool
	colors bool
}

func (v *stubView) IsSelected(day string) bool { return !v.hidden[day] }
func (v *stubView) ColorsEnabled() bool        { return v.colors }

func newStubView() *stubView {
	return &stubView{hidden: map[string]bool{}}
}

func testConfig() Config {
	return Config{
		Width:       600,
		Height:      400,
		Padding:     40,
		XDomain:     [2]float64{0, 25000},
		YDomain:     [2]float64{0, 12},
		PointRadius: 5,
	}
}

func weekRecords(t *testing.T) []*dataset.Record {
	t.Helper()
	var records []*dataset.Record
	// 2023-01-01 is a Sunday; two weeks give two records per weekday
	for i, date := range []string{
		"2023-01-01", "2023-01-02", "2023-01-03", "2023-01-04", "2023-01-05", "2023-01-06", "2023-01-07",
		"2023-01-08", "2023-01-09", "2023-01-10", "2023-01-11", "2023-01-12", "2023-01-13", "2023-01-14",
	} {
		records = append(records, &dataset.Record{Date: date, Steps: float64(1000 * (i + 1)), Sleep: 5 + float64(i%7)/2})
	}
	records, skipped := dataset.AddDayOfWeek(records)
	require.Nil(t, skipped)
	return records
}

func TestBuild_SingleMondayEndToEnd(t *testing.T) {
	records, skipped := dataset.AddDayOfWeek([]*dataset.Record{
		{Date: "2023-01-02", Steps: 5000, StepsText: "5000", Sleep: 7.5},
	})
	require.Nil(t, skipped)

	cfg := testConfig()
	view := newStubView()
	g := Build(cfg, NewScales(cfg), records, view)

	require.Len(t, g.Points, 1)
	p := g.Points[0]
	assert.Equal(t, "Monday", p.DayOfWeek)
	assert.Equal(t, VisibleOpacity, p.Opacity)
	assert.Equal(t, Black, p.Fill)

	view.hidden["Monday"] = true
	g.UpdateVisibility(view)
	assert.Equal(t, HiddenOpacity, g.Points[0].Opacity)
	assert.Equal(t, Black, g.Points[0].Fill)
	assert.Len(t, g.Points, 1, "hidden points stay in the graph")
}

func TestBuild_Positions(t *testing.T) {
	cfg := testConfig()
	records := []*dataset.Record{{Date: "2023-01-02", DayOfWeek: "Monday", Steps: 13000, Sleep: 6}}
	g := Build(cfg, NewScales(cfg), records, newStubView())

	assert.Equal(t, 520.0, g.ContentWidth)
	assert.Equal(t, 320.0, g.ContentHeight)
	// x domain nices to [0, 26000], y stays [0, 12]
	assert.InDelta(t, 260.0, g.Points[0].CX, 1e-9)
	assert.InDelta(t, 160.0, g.Points[0].CY, 1e-9)
	assert.Equal(t, 5.0, g.Points[0].R)
	assert.Equal(t, "translate(40,40)", g.ContentTransform())
}

func TestUpdateVisibility_RemovedDays(t *testing.T) {
	cfg := testConfig()
	records := weekRecords(t)

	for _, removed := range constants.AllWeekdays() {
		t.Run(removed, func(t *testing.T) {
			view := newStubView()
			view.hidden[removed] = true
			g := Build(cfg, NewScales(cfg), records, view)

			for _, p := range g.Points {
				if p.DayOfWeek == removed {
					assert.Equal(t, HiddenOpacity, p.Opacity, p.Date)
				} else {
					assert.Equal(t, VisibleOpacity, p.Opacity, p.Date)
				}
			}
			assert.Equal(t, len(records)-2, g.VisibleCount())
		})
	}
}

func TestUpdateColors(t *testing.T) {
	cfg := testConfig()
	records := weekRecords(t)
	view := newStubView()
	g := Build(cfg, NewScales(cfg), records, view)

	for _, p := range g.Points {
		assert.Equal(t, Black, p.Fill)
	}

	view.colors = true
	g.UpdateColors(view)

	byDay := map[string]string{}
	for _, p := range g.Points {
		if fill, ok := byDay[p.DayOfWeek]; ok {
			assert.Equal(t, fill, p.Fill, "same weekday shares a fill")
		}
		byDay[p.DayOfWeek] = p.Fill
	}
	require.Len(t, byDay, 7)

	distinct := map[string]bool{}
	for _, fill := range byDay {
		distinct[fill] = true
	}
	assert.Len(t, distinct, 7, "distinct weekdays get distinct fills")
	assert.Equal(t, Category10[0], byDay["Sunday"])
	assert.Equal(t, Category10[6], byDay["Saturday"])
}

func TestColorForDay(t *testing.T) {
	assert.Equal(t, Black, ColorForDay("Wednesday", false))
	assert.Equal(t, "#d62728", ColorForDay("Wednesday", true))
	assert.Equal(t, Black, ColorForDay("Someday", true))
}

func TestTooltipLines(t *testing.T) {
	lines := TooltipLines(&dataset.Record{Date: "2023-01-02", Steps: 5000, StepsText: "5000", Sleep: 7.46})
	assert.Equal(t, []string{"Date: 2023-01-02", "Steps: 5000", "Sleep: 7.5"}, lines)

	lines = TooltipLines(&dataset.Record{Date: "2023-01-03", Steps: 4200.5, Sleep: 8})
	assert.Equal(t, "Steps: 4200.5", lines[1])
	assert.Equal(t, "Sleep: 8.0", lines[2])
}

func TestClone(t *testing.T) {
	cfg := testConfig()
	g := Build(cfg, NewScales(cfg), weekRecords(t), newStubView())
	c := g.Clone()

	hideAll := newStubView()
	for _, d := range constants.AllWeekdays() {
		hideAll.hidden[d] = true
	}
	c.UpdateVisibility(hideAll)

	assert.Equal(t, 0, c.VisibleCount())
	assert.Equal(t, len(g.Points), g.VisibleCount())
}

func TestNewAxis(t *testing.T) {
	cfg := testConfig()
	scales := NewScales(cfg)

	x := NewAxis(scales.X, OrientBottom)
	require.NotEmpty(t, x.Ticks)
	assert.Equal(t, "0", x.Ticks[0].Label)
	assert.Equal(t, 0.0, x.Ticks[0].Offset)
	last := x.Ticks[len(x.Ticks)-1]
	assert.Equal(t, "26,000", last.Label)
	assert.InDelta(t, 520.0, last.Offset, 1e-9)
	assert.Equal(t, "M0,6V0H520V6", x.DomainPath())
	assert.Equal(t, "translate(520,0)", x.TickTransform(last))

	y := NewAxis(scales.Y, OrientLeft)
	assert.True(t, y.IsLeft())
	assert.Equal(t, 320.0, y.Ticks[0].Offset)
	assert.Equal(t, "M-6,320H0V0H-6", y.DomainPath())
}

func TestWriteSVG(t *testing.T) {
	cfg := testConfig()
	view := newStubView()
	view.hidden["Sunday"] = true
	g := Build(cfg, NewScales(cfg), weekRecords(t), view)

	var buf bytes.Buffer
	require.NoError(t, WriteSVG(&buf, g))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `width="600"`)
	assert.Contains(t, out, `height="400"`)
	assert.Contains(t, out, `transform="translate(40,40)"`)
	assert.Contains(t, out, XAxisTitle)
	assert.Contains(t, out, "Sleep (h)")
	assert.Equal(t, 14, strings.Count(out, "<circle"))
	assert.Contains(t, out, `opacity="0"`)
	assert.Contains(t, out, `data-day="Monday"`)
	assert.Contains(t, out, "Date: 2023-01-02")

	inline, err := InlineSVG(g)
	require.NoError(t, err)
	assert.Equal(t, out, string(inline))
}
