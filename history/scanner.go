// Package history rebuilds the series of prior run statistics from
// previously generated reports. The JSON sidecar written alongside each
// report is the preferred source; reports that predate the sidecar are
// recovered by scraping the markdown tables, which round-trips only the
// fields the report template exposes.
package history

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

// Series is an ordered sequence of prior-run records. Order follows
// filename sort, which coincides with chronological order for the
// fixed-width run-id format.
type Series []summary.StatsRecord

// Report files carry the run id as a 14-digit timestamp split by an
// underscore (20060102_150405).
var reportName = regexp.MustCompile(`^performance_report_(\d{8}_\d{6})\.md$`)

// Scan walks root for performance_report_<run-id>.md files and recovers one
// record per readable report. Files that do not match the naming convention
// are skipped silently; matching files that yield no metrics are skipped
// with a warning. An empty or missing root yields an empty series.
func Scan(root string) (Series, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*", "performance_report_*.md"))
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}
	// filepath.Glob returns sorted paths already, which is the order we want.

	var series Series
	for _, path := range matches {
		m := reportName.FindStringSubmatch(filepath.Base(path))
		if m == nil {
			continue
		}
		ts, err := time.Parse("20060102_150405", m[1])
		if err != nil {
			continue
		}

		rec := loadRecord(path)
		if rec == nil {
			continue
		}
		if rec.Timestamp.IsZero() {
			rec.Timestamp = ts
		}
		series = append(series, *rec)
	}
	return series, nil
}

// loadRecord prefers the sidecar and falls back to scraping the markdown.
func loadRecord(reportPath string) *summary.StatsRecord {
	sidecar := strings.TrimSuffix(reportPath, ".md") + ".json"
	if _, err := os.Stat(sidecar); err == nil {
		rec, err := ReadSidecar(sidecar)
		if err == nil {
			return rec
		}
		fmt.Fprintf(os.Stderr, "Warning: unreadable sidecar %s (%v), falling back to report\n", sidecar, err)
	}

	rec, err := scrapeReport(reportPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", reportPath, err)
		return nil
	}
	return rec
}

var (
	reTotalRequests = regexp.MustCompile(`\| \*\*Total Requests\*\* \| ([\d,]+) \|`)
	reDuration      = regexp.MustCompile(`\| \*\*Test Duration\*\* \| ([0-9.]+)s \|`)
	reAverageRPS    = regexp.MustCompile(`\| \*\*Average RPS\*\* \| ([0-9.]+) \|`)
	reErrorRate     = regexp.MustCompile(`\| \*\*Error Rate\*\* \| ([0-9.]+)% \|`)
	reSuccessRate   = regexp.MustCompile(`\| \*\*Success Rate\*\* \| ([0-9.]+)% \|`)
	reP50           = regexp.MustCompile(`\| \*\*P50 \(Median\)\*\* \| ([0-9.]+)ms \|`)
	reP90           = regexp.MustCompile(`\| \*\*P90\*\* \| ([0-9.]+)ms \|`)
	reP95           = regexp.MustCompile(`\| \*\*P95\*\* \| ([0-9.]+)ms \|`)
	reP99           = regexp.MustCompile(`\| \*\*P99\*\* \| ([0-9.]+)ms \|`)
	reP999          = regexp.MustCompile(`\| \*\*P99\.9\*\* \| ([0-9.]+)ms \|`)
	rePeakRPS       = regexp.MustCompile(`\| \*\*Peak RPS\*\* \| ([0-9.]+) RPS \|`)
	reSustainedRPS  = regexp.MustCompile(`\| \*\*Sustained RPS\*\* \| ([0-9.]+) RPS \|`)
	reAvgLatency    = regexp.MustCompile(`\*\*Average Response Time\*\*: ([0-9.]+)ms`)
	reMinLatency    = regexp.MustCompile(`\*\*Fastest Response\*\*: ([0-9.]+)ms`)
	reMaxLatency    = regexp.MustCompile(`\*\*Slowest Response\*\*: ([0-9.]+)ms`)
	reLatencyGrade  = regexp.MustCompile(`\| \*\*Latency\*\* \| ([^|]+?) \| Response time`)
	reThruGrade     = regexp.MustCompile(`\| \*\*Throughput\*\* \| ([^|]+?) \| Request handling`)
	reOverallGrade  = regexp.MustCompile(`\| \*\*Overall\*\* \| ([^|]+?) \| Combined`)
)

func matchFloat(re *regexp.Regexp, body string, dst *float64) bool {
	m := re.FindStringSubmatch(body)
	if m == nil {
		return false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return false
	}
	*dst = v
	return true
}

func matchString(re *regexp.Regexp, body string, dst *string) {
	if m := re.FindStringSubmatch(body); m != nil {
		*dst = strings.TrimSpace(m[1])
	}
}

// scrapeReport recovers the rendered StatsRecord fields from a report's
// markdown tables. Brittle against template wording changes, kept only for
// reports written before the sidecar existed.
func scrapeReport(path string) (*summary.StatsRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	body := string(data)

	var rec summary.StatsRecord
	var totalRequests float64
	found := 0
	optional := func(re *regexp.Regexp, dst *float64) {
		if matchFloat(re, body, dst) {
			found++
		}
	}

	// Average RPS and P99 anchor the record; every other field is
	// best-effort. Presence is judged by the regex matching, never by the
	// extracted value: a sub-5µs service legitimately renders P99 as 0.00ms.
	hasRPS := matchFloat(reAverageRPS, body, &rec.AverageThroughputRPS)
	hasP99 := matchFloat(reP99, body, &rec.LatencyPercentiles.P99)

	optional(reTotalRequests, &totalRequests)
	optional(reDuration, &rec.TestDurationSeconds)
	optional(reErrorRate, &rec.ThroughputAnalysis.ErrorRatePercent)
	optional(reSuccessRate, &rec.ThroughputAnalysis.SuccessRatePercent)
	optional(reP50, &rec.LatencyPercentiles.P50)
	optional(reP90, &rec.LatencyPercentiles.P90)
	optional(reP95, &rec.LatencyPercentiles.P95)
	optional(reP999, &rec.LatencyPercentiles.P999)
	optional(rePeakRPS, &rec.ThroughputAnalysis.PeakRPS)
	optional(reSustainedRPS, &rec.ThroughputAnalysis.SustainedRPS)
	optional(reAvgLatency, &rec.LatencyPercentiles.Avg)
	optional(reMinLatency, &rec.LatencyPercentiles.Min)
	optional(reMaxLatency, &rec.LatencyPercentiles.Max)
	matchString(reLatencyGrade, body, &rec.PerformanceAnalysis.LatencyGrade)
	matchString(reThruGrade, body, &rec.PerformanceAnalysis.ThroughputGrade)
	matchString(reOverallGrade, body, &rec.PerformanceAnalysis.OverallGrade)

	if !hasRPS || !hasP99 || found < 5 {
		return nil, fmt.Errorf("no extractable metrics")
	}

	rec.TotalRequests = int64(totalRequests)
	rec.LatencyPercentiles.Med = rec.LatencyPercentiles.P50
	rec.ThroughputAnalysis.AverageThroughputRPS = rec.AverageThroughputRPS
	return &rec, nil
}
