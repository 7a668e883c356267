package charts

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

// percentileSeries describes one tracked percentile across runs.
type percentileSeries struct {
	name  string
	value func(summary.LatencyPercentiles) float64
	col   color.RGBA
}

func trackedPercentiles() []percentileSeries {
	return []percentileSeries{
		{"P50", func(p summary.LatencyPercentiles) float64 { return p.P50 }, colorRGBA(46, 139, 87, 255)},
		{"P90", func(p summary.LatencyPercentiles) float64 { return p.P90 }, colorRGBA(255, 215, 0, 255)},
		{"P95", func(p summary.LatencyPercentiles) float64 { return p.P95 }, colorRGBA(255, 140, 0, 255)},
		{"P99", func(p summary.LatencyPercentiles) float64 { return p.P99 }, colorRGBA(220, 20, 60, 255)},
	}
}

func runTicks(series []summary.StatsRecord) []plot.Tick {
	ticks := make([]plot.Tick, len(series))
	for i, rec := range series {
		ticks[i] = plot.Tick{Value: float64(i), Label: rec.Timestamp.Format("01-02 15:04")}
	}
	return ticks
}

// historicalCorrelation scatters each tracked percentile's latency against
// the run's average throughput, one point per run.
func historicalCorrelation(series []summary.StatsRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Latency vs Throughput Across Runs"
	p.X.Label.Text = "Average Throughput (RPS)"
	p.Y.Label.Text = "Latency (ms)"

	for _, ps := range trackedPercentiles() {
		xys := make(plotter.XYs, len(series))
		for i, rec := range series {
			xys[i] = plotter.XY{
				X: rec.AverageThroughputRPS,
				Y: ps.value(rec.LatencyPercentiles),
			}
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = ps.col
		s.GlyphStyle.Radius = vg.Points(4)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(ps.name, s)
	}
	p.Legend.Top = true
	p.Y.Min = 0

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

// historicalTimeline combines throughput bars with a P99 latency line over
// run order.
func historicalTimeline(series []summary.StatsRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Throughput and P99 Latency Over Time"
	p.Y.Label.Text = "RPS / P99 latency (ms)"

	rps := make(plotter.Values, len(series))
	p99 := make(plotter.XYs, len(series))
	for i, rec := range series {
		rps[i] = rec.AverageThroughputRPS
		p99[i] = plotter.XY{X: float64(i), Y: rec.LatencyPercentiles.P99}
	}

	bar, err := plotter.NewBarChart(rps, vg.Points(25))
	if err != nil {
		return err
	}
	bar.Color = colorRGBA(70, 130, 180, 255)
	p.Add(bar)
	p.Legend.Add("Avg RPS", bar)

	line, err := plotter.NewLine(p99)
	if err != nil {
		return err
	}
	line.LineStyle.Width = vg.Points(1.5)
	line.LineStyle.Color = colorRGBA(220, 20, 60, 255)
	p.Add(line)
	p.Legend.Add("P99 latency (ms)", line)

	p.Legend.Top = true
	p.X.Min = -0.5
	p.X.Max = float64(len(series)) - 0.5
	p.Y.Min = 0
	p.X.Tick.Marker = plot.ConstantTicks(runTicks(series))

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}

// percentileProgression draws one line per tracked percentile over run
// order, with the P50-P99 spread shaded behind them.
func percentileProgression(series []summary.StatsRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Percentile Progression"
	p.Y.Label.Text = "Latency (ms)"

	// Band outline: P99 forward, then P50 back.
	band := make(plotter.XYs, 0, 2*len(series))
	for i, rec := range series {
		band = append(band, plotter.XY{X: float64(i), Y: rec.LatencyPercentiles.P99})
	}
	for i := len(series) - 1; i >= 0; i-- {
		band = append(band, plotter.XY{X: float64(i), Y: series[i].LatencyPercentiles.P50})
	}
	poly, err := plotter.NewPolygon(band)
	if err != nil {
		return err
	}
	poly.Color = color.NRGBA{R: 100, G: 149, B: 237, A: 60}
	poly.LineStyle.Color = color.NRGBA{}
	p.Add(poly)

	for _, ps := range trackedPercentiles() {
		xys := make(plotter.XYs, len(series))
		for i, rec := range series {
			xys[i] = plotter.XY{X: float64(i), Y: ps.value(rec.LatencyPercentiles)}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.LineStyle.Width = vg.Points(1.5)
		line.LineStyle.Color = ps.col
		p.Add(line)
		p.Legend.Add(ps.name, line)
	}

	p.Legend.Top = true
	p.X.Min = -0.5
	p.X.Max = float64(len(series)) - 0.5
	p.Y.Min = 0
	p.X.Tick.Marker = plot.ConstantTicks(runTicks(series))

	return p.Save(8*vg.Inch, 4*vg.Inch, path)
}
