// Package report writes the markdown performance report for one run, plus
// the JSON sidecar the history scanner prefers over re-parsing markdown.
package report

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/neehar-mavuduru/loadtest-reporter/charts"
	"github.com/neehar-mavuduru/loadtest-reporter/history"
	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

// Percentile rows get an Outstanding badge below this latency.
const outstandingThresholdMs = 10.0

func badge(ms float64) string {
	if ms < outstandingThresholdMs {
		return "✅ Outstanding"
	}
	return "🟡 Good"
}

// Compose writes performance_report_<runID>.md (and its sidecar) into
// outDir and returns the report path. Chart references are embedded by path
// relative to outDir; the historical trends section is emitted only when
// the trend charts were actually produced.
func Compose(rec *summary.StatsRecord, cs charts.Set, outDir, runID string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("creating report directory: %w", err)
	}

	reportPath := filepath.Join(outDir, fmt.Sprintf("performance_report_%s.md", runID))
	file, err := os.Create(reportPath)
	if err != nil {
		return "", fmt.Errorf("creating report file: %w", err)
	}

	// Printer with comma grouping for the request count.
	en := message.NewPrinter(language.English)
	w := func(format string, args ...interface{}) {
		fmt.Fprintf(file, format, args...)
	}
	rel := func(chart string) string {
		r, err := filepath.Rel(outDir, chart)
		if err != nil {
			return chart
		}
		return filepath.ToSlash(r)
	}

	pcts := rec.LatencyPercentiles
	ta := rec.ThroughputAnalysis
	pa := rec.PerformanceAnalysis

	w("# Performance Test Results\n\n")
	w("**Test Date:** %s\n", rec.Timestamp.UTC().Format("2006-01-02 15:04:05 UTC"))
	w("**Duration:** %.1f seconds (%.1f minutes)\n", rec.TestDurationSeconds, rec.TestDurationSeconds/60)
	w("**Run ID:** %s\n\n", runID)

	w("## Performance Results Summary\n\n")
	w("| Metric | Value | Status |\n")
	w("|--------|--------|--------|\n")
	w("| **Total Requests** | %s | ✅ |\n", en.Sprintf("%d", rec.TotalRequests))
	w("| **Test Duration** | %.1fs | ✅ |\n", rec.TestDurationSeconds)
	w("| **Average RPS** | %.1f | ✅ |\n", rec.AverageThroughputRPS)
	w("| **Error Rate** | %.2f%% | ✅ |\n", ta.ErrorRatePercent)
	w("| **Success Rate** | %.2f%% | ✅ |\n\n", ta.SuccessRatePercent)

	w("## Latency Analysis\n\n")
	w("![Latency Distribution](%s)\n\n", rel(cs.LatencyDistribution))
	w("![Latency Tiers](%s)\n\n", rel(cs.LatencyTiers))
	w("### Response Time Percentiles\n\n")
	w("| Percentile | Value | Status |\n")
	w("|------------|--------|--------|\n")
	w("| **P50 (Median)** | %.2fms | %s |\n", pcts.P50, badge(pcts.P50))
	w("| **P90** | %.2fms | %s |\n", pcts.P90, badge(pcts.P90))
	w("| **P95** | %.2fms | %s |\n", pcts.P95, badge(pcts.P95))
	w("| **P99** | %.2fms | %s |\n", pcts.P99, badge(pcts.P99))
	w("| **P99.9** | %.2fms | %s |\n\n", pcts.P999, badge(pcts.P999))

	w("## Throughput Analysis\n\n")
	w("![Throughput Analysis](%s)\n\n", rel(cs.ThroughputAnalysis))
	w("![Latency vs Throughput](%s)\n\n", rel(cs.LatencyThroughput))
	w("| Metric | Value |\n")
	w("|--------|--------|\n")
	w("| **Average Throughput** | %.1f RPS |\n", ta.AverageThroughputRPS)
	w("| **Peak RPS** | %.1f RPS |\n", ta.PeakRPS)
	w("| **Sustained RPS** | %.1f RPS |\n\n", ta.SustainedRPS)

	w("## Performance Grades\n\n")
	w("| Category | Grade | Analysis |\n")
	w("|----------|--------|----------|\n")
	w("| **Latency** | %s | Response time performance |\n", pa.LatencyGrade)
	w("| **Throughput** | %s | Request handling capacity |\n", pa.ThroughputGrade)
	w("| **Overall** | %s | Combined performance assessment |\n\n", pa.OverallGrade)

	w("## Performance Insights\n\n")
	w("### ✅ Strengths\n\n")
	w("- **Latency Performance**: P99 latency of %.2fms\n", pcts.P99)
	w("- **Reliability**: %.2f%% success rate\n", ta.SuccessRatePercent)
	w("- **Throughput**: %.1f RPS sustained\n\n", ta.AverageThroughputRPS)
	w("### 🎯 Key Metrics\n\n")
	w("- **Total Requests Processed**: %s\n", en.Sprintf("%d", rec.TotalRequests))
	w("- **Average Response Time**: %.2fms\n", pcts.Avg)
	w("- **Fastest Response**: %.2fms\n", pcts.Min)
	w("- **Slowest Response**: %.2fms\n\n", pcts.Max)

	if cs.HasHistorical() {
		w("## Historical Trends\n\n")
		w("![Latency vs Throughput Across Runs](%s)\n\n", rel(cs.HistoricalCorrelation))
		w("![Throughput and Latency Timeline](%s)\n\n", rel(cs.HistoricalTimeline))
		w("![Percentile Progression](%s)\n\n", rel(cs.PercentileProgression))
	}

	w("## Conclusion\n\n")
	w("The service demonstrates **%s** performance characteristics. ", pa.OverallGrade)
	w("The system processed %s requests with a P99 latency of %.2fms.\n\n", en.Sprintf("%d", rec.TotalRequests), pcts.P99)
	w("---\n\n")
	w("*Generated from k6 test results*\n")

	if err := file.Close(); err != nil {
		return "", fmt.Errorf("writing report file: %w", err)
	}

	sidecarPath := filepath.Join(outDir, fmt.Sprintf("performance_report_%s.json", runID))
	if err := history.WriteSidecar(sidecarPath, rec); err != nil {
		return "", err
	}

	return reportPath, nil
}
