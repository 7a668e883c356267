package charts

import (
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

// wedge is a single pie slice. gonum/plot has no pie plotter, so wedges draw
// themselves directly in canvas space; the plot's axes are hidden and the
// data transforms are unused.
type wedge struct {
	start, sweep float64 // radians
	color        color.Color
}

func (w *wedge) Plot(c draw.Canvas, _ *plot.Plot) {
	center := vg.Point{
		X: (c.Min.X + c.Max.X) / 2,
		Y: (c.Min.Y + c.Max.Y) / 2,
	}
	radius := c.Max.X - c.Min.X
	if h := c.Max.Y - c.Min.Y; h < radius {
		radius = h
	}
	radius *= 0.4

	arcStart := vg.Point{
		X: center.X + radius*vg.Length(math.Cos(w.start)),
		Y: center.Y + radius*vg.Length(math.Sin(w.start)),
	}

	var path vg.Path
	path.Move(arcStart)
	path.Arc(center, radius, w.start, w.sweep)
	path.Line(center)
	path.Close()

	c.SetColor(w.color)
	c.Fill(path)
}

// Thumbnail draws the legend swatch.
func (w *wedge) Thumbnail(c *draw.Canvas) {
	pts := []vg.Point{
		{X: c.Min.X, Y: c.Min.Y},
		{X: c.Min.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Max.Y},
		{X: c.Max.X, Y: c.Min.Y},
	}
	c.FillPolygon(w.color, pts)
}

// latencyTier classifies a percentile value into one of the three fixed
// report tiers.
func latencyTier(ms float64) int {
	switch {
	case ms < 10:
		return 0
	case ms < 100:
		return 1
	default:
		return 2
	}
}

func latencyTiers(rec *summary.StatsRecord, path string) error {
	tierLabels := []string{"Excellent (<10ms)", "Good (10-100ms)", "Poor (>100ms)"}
	tierColors := []color.RGBA{
		colorRGBA(46, 139, 87, 255), // sea green
		colorRGBA(255, 215, 0, 255), // gold
		colorRGBA(255, 99, 71, 255), // tomato
	}

	values := percentileValues(rec)
	counts := make([]int, len(tierLabels))
	for _, v := range values {
		counts[latencyTier(v)]++
	}

	p := plot.New()
	p.Title.Text = "Latency Distribution by Performance Tier"
	p.HideAxes()
	p.X.Min, p.X.Max = -1, 1
	p.Y.Min, p.Y.Max = -1, 1

	total := float64(len(values))
	start := math.Pi / 2 // start at 12 o'clock like the report always has
	for tier, count := range counts {
		if count == 0 {
			continue
		}
		sweep := 2 * math.Pi * float64(count) / total
		w := &wedge{start: start, sweep: sweep, color: tierColors[tier]}
		p.Add(w)
		p.Legend.Add(fmt.Sprintf("%s: %d (%.0f%%)", tierLabels[tier], count, 100*float64(count)/total), w)
		start += sweep
	}
	p.Legend.Top = true

	return p.Save(5*vg.Inch, 5*vg.Inch, path)
}
