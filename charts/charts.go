// Package charts renders the fixed set of report chart PNGs from a
// StatsRecord, plus the historical trend charts when at least two prior
// runs are available.
package charts

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

// Set holds the path of every produced chart. Historical fields stay empty
// when fewer than two prior runs exist.
type Set struct {
	LatencyDistribution   string
	LatencyTiers          string
	ThroughputAnalysis    string
	LatencyThroughput     string
	HistoricalCorrelation string
	HistoricalTimeline    string
	PercentileProgression string
}

// Paths returns the produced chart paths in render order.
func (s Set) Paths() []string {
	var paths []string
	for _, p := range []string{
		s.LatencyDistribution, s.LatencyTiers, s.ThroughputAnalysis, s.LatencyThroughput,
		s.HistoricalCorrelation, s.HistoricalTimeline, s.PercentileProgression,
	} {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}

// HasHistorical reports whether the trend charts were produced.
func (s Set) HasHistorical() bool {
	return s.HistoricalCorrelation != ""
}

func colorRGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{R: r, G: g, B: b, A: a}
}

// Render produces every chart into outDir, overwriting existing files. The
// historical charts are skipped (not an error) when series has fewer than
// two records.
func Render(rec *summary.StatsRecord, series []summary.StatsRecord, outDir string) (Set, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return Set{}, fmt.Errorf("creating chart directory: %w", err)
	}

	var set Set
	steps := []struct {
		dst    *string
		name   string
		render func(string) error
	}{
		{&set.LatencyDistribution, "latency_distribution.png", func(p string) error { return latencyDistribution(rec, p) }},
		{&set.LatencyTiers, "latency_tiers.png", func(p string) error { return latencyTiers(rec, p) }},
		{&set.ThroughputAnalysis, "throughput_analysis.png", func(p string) error { return throughputAnalysis(rec, p) }},
		{&set.LatencyThroughput, "latency_throughput.png", func(p string) error { return latencyThroughput(rec, p) }},
	}
	for _, s := range steps {
		path := filepath.Join(outDir, s.name)
		if err := s.render(path); err != nil {
			return set, fmt.Errorf("rendering %s: %w", s.name, err)
		}
		*s.dst = path
	}

	if len(series) >= 2 {
		hist := []struct {
			dst    *string
			name   string
			render func([]summary.StatsRecord, string) error
		}{
			{&set.HistoricalCorrelation, "historical_correlation.png", historicalCorrelation},
			{&set.HistoricalTimeline, "historical_timeline.png", historicalTimeline},
			{&set.PercentileProgression, "percentile_progression.png", percentileProgression},
		}
		for _, h := range hist {
			path := filepath.Join(outDir, h.name)
			if err := h.render(series, path); err != nil {
				return set, fmt.Errorf("rendering %s: %w", h.name, err)
			}
			*h.dst = path
		}
	}

	return set, nil
}

func percentileLabels() []string {
	return []string{"P50", "P90", "P95", "P99", "P99.9"}
}

func percentileValues(rec *summary.StatsRecord) []float64 {
	p := rec.LatencyPercentiles
	return []float64{p.P50, p.P90, p.P95, p.P99, p.P999}
}

func constantTicks(labels []string) []plot.Tick {
	ticks := make([]plot.Tick, len(labels))
	for i, l := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: l}
	}
	return ticks
}

// valueLabels places a formatted value above each bar.
func valueLabels(values []float64, format string) (*plotter.Labels, error) {
	xys := make(plotter.XYs, len(values))
	labels := make([]string, len(values))
	for i, v := range values {
		xys[i] = plotter.XY{X: float64(i), Y: v}
		labels[i] = fmt.Sprintf(format, v)
	}
	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	l.Offset = vg.Point{X: vg.Points(-8), Y: vg.Points(3)}
	return l, nil
}

func latencyDistribution(rec *summary.StatsRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Response Time Percentiles"
	p.Y.Label.Text = "Latency (ms)"

	values := percentileValues(rec)
	bar, err := plotter.NewBarChart(plotter.Values(values), vg.Points(40))
	if err != nil {
		return err
	}
	bar.Color = colorRGBA(46, 139, 87, 255) // sea green
	p.Add(bar)

	labels, err := valueLabels(values, "%.1fms")
	if err != nil {
		return err
	}
	p.Add(labels)

	p.X.Min = -0.5
	p.X.Max = float64(len(values)) - 0.5
	p.Y.Min = 0
	p.X.Tick.Marker = plot.ConstantTicks(constantTicks(percentileLabels()))

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func throughputAnalysis(rec *summary.StatsRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Throughput Analysis"
	p.Y.Label.Text = "Requests per Second"

	ta := rec.ThroughputAnalysis
	values := []float64{ta.AverageThroughputRPS, ta.PeakRPS, ta.SustainedRPS}
	bar, err := plotter.NewBarChart(plotter.Values(values), vg.Points(55))
	if err != nil {
		return err
	}
	bar.Color = colorRGBA(70, 130, 180, 255) // steel blue
	p.Add(bar)

	labels, err := valueLabels(values, "%.1f")
	if err != nil {
		return err
	}
	p.Add(labels)

	p.X.Min = -0.5
	p.X.Max = 2.5
	p.Y.Min = 0
	p.X.Tick.Marker = plot.ConstantTicks(constantTicks([]string{"Average RPS", "Peak RPS", "Sustained RPS"}))

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}

func latencyThroughput(rec *summary.StatsRecord, path string) error {
	p := plot.New()
	p.Title.Text = "Latency vs Throughput"
	p.X.Label.Text = "Throughput (RPS)"
	p.Y.Label.Text = "Latency (ms)"

	rps := rec.ThroughputAnalysis.AverageThroughputRPS
	pcts := rec.LatencyPercentiles
	points := []struct {
		label string
		value float64
		col   color.RGBA
	}{
		{"P50", pcts.P50, colorRGBA(46, 139, 87, 255)},
		{"P90", pcts.P90, colorRGBA(255, 215, 0, 255)},
		{"P95", pcts.P95, colorRGBA(255, 140, 0, 255)},
		{"P99", pcts.P99, colorRGBA(220, 20, 60, 255)},
	}

	xys := make(plotter.XYs, 0, len(points))
	labels := make([]string, 0, len(points))
	for _, pt := range points {
		s, err := plotter.NewScatter(plotter.XYs{{X: rps, Y: pt.value}})
		if err != nil {
			return err
		}
		s.GlyphStyle.Color = pt.col
		s.GlyphStyle.Radius = vg.Points(5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)

		xys = append(xys, plotter.XY{X: rps, Y: pt.value})
		labels = append(labels, fmt.Sprintf("%s: %.1fms", pt.label, pt.value))
	}

	l, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return err
	}
	l.Offset = vg.Point{X: vg.Points(6), Y: vg.Points(3)}
	p.Add(l)

	// All points share the same x, so pick a window around it by hand.
	p.X.Min = rps * 0.8
	p.X.Max = rps * 1.2
	if rps == 0 {
		p.X.Min, p.X.Max = -1, 1
	}
	p.Y.Min = 0

	return p.Save(6*vg.Inch, 4*vg.Inch, path)
}
