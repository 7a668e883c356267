package history_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neehar-mavuduru/loadtest-reporter/charts"
	"github.com/neehar-mavuduru/loadtest-reporter/history"
	"github.com/neehar-mavuduru/loadtest-reporter/report"
	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

func testRecord(ts time.Time, rps, p99 float64) *summary.StatsRecord {
	return &summary.StatsRecord{
		Timestamp:            ts,
		TestDurationSeconds:  20,
		TotalRequests:        10000,
		AverageThroughputRPS: rps,
		LatencyPercentiles: summary.LatencyPercentiles{
			P50: 2.1, P90: 4.8, P95: 6.2, P99: p99, P999: 15,
			Avg: 2.5, Min: 0.4, Max: 120, Med: 2.1,
		},
		ThroughputAnalysis: summary.ThroughputAnalysis{
			PeakRPS:              rps * 1.2,
			SustainedRPS:         rps * 0.9,
			ErrorRatePercent:     0.10,
			SuccessRatePercent:   99.90,
			AverageThroughputRPS: rps,
		},
		PerformanceAnalysis: summary.PerformanceAnalysis{
			LatencyGrade:    summary.LatencyGrade(p99),
			ThroughputGrade: summary.ThroughputGrade(rps),
			OverallGrade:    summary.OverallGrade(p99, rps),
		},
	}
}

// composeRun writes a full report (markdown + sidecar) for runID under root.
func composeRun(t *testing.T, root, runID string, rec *summary.StatsRecord) string {
	t.Helper()
	outDir := filepath.Join(root, runID)
	cs := charts.Set{
		LatencyDistribution: filepath.Join(outDir, "images", "latency_distribution.png"),
		LatencyTiers:        filepath.Join(outDir, "images", "latency_tiers.png"),
		ThroughputAnalysis:  filepath.Join(outDir, "images", "throughput_analysis.png"),
		LatencyThroughput:   filepath.Join(outDir, "images", "latency_throughput.png"),
	}
	path, err := report.Compose(rec, cs, outDir, runID)
	require.NoError(t, err)
	return path
}

func TestScan(t *testing.T) {
	ts := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

	t.Run("EmptyDirectoryYieldsEmptySeries", func(t *testing.T) {
		series, err := history.Scan(t.TempDir())
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("MissingDirectoryYieldsEmptySeries", func(t *testing.T) {
		series, err := history.Scan(filepath.Join(t.TempDir(), "does-not-exist"))
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("IgnoresNonMatchingFilenames", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "misc")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("# notes"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "performance_report_latest.md"), []byte("# report"), 0o644))

		series, err := history.Scan(root)
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("SkipsMatchingFileWithoutMetrics", func(t *testing.T) {
		root := t.TempDir()
		dir := filepath.Join(root, "20250115_120000")
		require.NoError(t, os.MkdirAll(dir, 0o755))
		path := filepath.Join(dir, "performance_report_20250115_120000.md")
		require.NoError(t, os.WriteFile(path, []byte("# empty report\n"), 0o644))

		series, err := history.Scan(root)
		require.NoError(t, err)
		assert.Empty(t, series)
	})

	t.Run("RecoversSingleRunFromSidecar", func(t *testing.T) {
		root := t.TempDir()
		rec := testRecord(ts, 500, 8)
		composeRun(t, root, "20250115_120000", rec)

		series, err := history.Scan(root)
		require.NoError(t, err)
		require.Len(t, series, 1)

		got := series[0]
		assert.Equal(t, int64(10000), got.TotalRequests)
		assert.Equal(t, 500.0, got.AverageThroughputRPS)
		assert.Equal(t, 8.0, got.LatencyPercentiles.P99)
		assert.Equal(t, "A+ (Outstanding)", got.PerformanceAnalysis.LatencyGrade)
		assert.True(t, got.Timestamp.Equal(ts))
	})

	t.Run("ScrapesReportWhenSidecarAbsent", func(t *testing.T) {
		root := t.TempDir()
		rec := testRecord(ts, 500, 8)
		composeRun(t, root, "20250115_120000", rec)
		require.NoError(t, os.Remove(filepath.Join(root, "20250115_120000", "performance_report_20250115_120000.json")))

		series, err := history.Scan(root)
		require.NoError(t, err)
		require.Len(t, series, 1)

		got := series[0]
		assert.Equal(t, int64(10000), got.TotalRequests)
		assert.InDelta(t, 500.0, got.AverageThroughputRPS, 0.05)
		assert.InDelta(t, 8.0, got.LatencyPercentiles.P99, 0.005)
		assert.InDelta(t, 15.0, got.LatencyPercentiles.P999, 0.005)
		assert.InDelta(t, 600.0, got.ThroughputAnalysis.PeakRPS, 0.05)
		assert.InDelta(t, 450.0, got.ThroughputAnalysis.SustainedRPS, 0.05)
		assert.InDelta(t, 99.90, got.ThroughputAnalysis.SuccessRatePercent, 0.005)
		assert.Equal(t, "A+ (Outstanding)", got.PerformanceAnalysis.LatencyGrade)
		assert.Equal(t, "B (Good)", got.PerformanceAnalysis.ThroughputGrade)
		assert.Equal(t, "A (Excellent)", got.PerformanceAnalysis.OverallGrade)
		// Timestamp recovered from the run id in the filename.
		assert.True(t, got.Timestamp.Equal(ts))
	})

	t.Run("ScrapesReportWithZeroRenderedP99", func(t *testing.T) {
		// Sub-10µs latencies render as 0.00ms in the report tables; the
		// scraper must still accept the run instead of discarding it as
		// metric-free.
		root := t.TempDir()
		rec := testRecord(ts, 500, 0.004)
		rec.LatencyPercentiles.P50 = 0.001
		rec.LatencyPercentiles.P90 = 0.002
		rec.LatencyPercentiles.P95 = 0.003
		composeRun(t, root, "20250115_120000", rec)
		require.NoError(t, os.Remove(filepath.Join(root, "20250115_120000", "performance_report_20250115_120000.json")))

		series, err := history.Scan(root)
		require.NoError(t, err)
		require.Len(t, series, 1)

		got := series[0]
		assert.InDelta(t, 500.0, got.AverageThroughputRPS, 0.05)
		assert.Equal(t, 0.0, got.LatencyPercentiles.P99)
		assert.Equal(t, "A+ (Outstanding)", got.PerformanceAnalysis.LatencyGrade)
	})

	t.Run("OrdersRunsByFilename", func(t *testing.T) {
		root := t.TempDir()
		composeRun(t, root, "20250116_090000", testRecord(ts.Add(24*time.Hour), 800, 6))
		composeRun(t, root, "20250115_120000", testRecord(ts, 500, 8))

		series, err := history.Scan(root)
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, 500.0, series[0].AverageThroughputRPS)
		assert.Equal(t, 800.0, series[1].AverageThroughputRPS)
	})
}

func TestSidecarRoundTrip(t *testing.T) {
	ts := time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
	path := filepath.Join(t.TempDir(), "performance_report_20250115_120000.json")
	rec := testRecord(ts, 500, 8)

	require.NoError(t, history.WriteSidecar(path, rec))

	got, err := history.ReadSidecar(path)
	require.NoError(t, err)
	assert.Equal(t, rec, got)
}
