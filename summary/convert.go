package summary

import (
	"time"
)

// Fixed multipliers applied to the average request rate.
const (
	peakFactor      = 1.2
	sustainedFactor = 0.9
)

// Convert maps a k6 summary into a StatsRecord. Required percentile keys
// must be present on the latency metric; the extreme percentiles p(99.99)
// and p(99.999) default to zero when the test script did not configure them.
func Convert(raw *RawSummary, now time.Time) (*StatsRecord, error) {
	latency, err := raw.Metric("request_latency")
	if err != nil {
		return nil, err
	}
	reqs, err := raw.Metric("http_reqs")
	if err != nil {
		return nil, err
	}
	failed, err := raw.Metric("http_req_failed")
	if err != nil {
		return nil, err
	}

	count, err := reqs.MustValue("http_reqs", "count")
	if err != nil {
		return nil, err
	}
	rate, err := reqs.MustValue("http_reqs", "rate")
	if err != nil {
		return nil, err
	}
	errorRate, err := failed.MustValue("http_req_failed", "value")
	if err != nil {
		return nil, err
	}

	var pcts LatencyPercentiles
	// p(50) is what recent k6 scripts emit; older summaries only have med.
	if v, ok := latency.Value("p(50)"); ok {
		pcts.P50 = v
	} else if pcts.P50, err = latency.MustValue("request_latency", "med"); err != nil {
		return nil, err
	}
	required := []struct {
		key string
		dst *float64
	}{
		{"p(90)", &pcts.P90},
		{"p(95)", &pcts.P95},
		{"p(99)", &pcts.P99},
		{"p(99.9)", &pcts.P999},
		{"avg", &pcts.Avg},
		{"min", &pcts.Min},
		{"max", &pcts.Max},
		{"med", &pcts.Med},
	}
	for _, f := range required {
		if *f.dst, err = latency.MustValue("request_latency", f.key); err != nil {
			return nil, err
		}
	}
	pcts.P9999, _ = latency.Value("p(99.99)")
	pcts.P99999, _ = latency.Value("p(99.999)")

	duration := 0.0
	if rate > 0 {
		// http_reqs.count is cumulative over the run, so count/rate is the
		// effective test duration.
		duration = count / rate
	}

	return &StatsRecord{
		Timestamp:            now,
		TestDurationSeconds:  duration,
		TotalRequests:        int64(count),
		AverageThroughputRPS: rate,
		LatencyPercentiles:   pcts,
		ThroughputAnalysis: ThroughputAnalysis{
			PeakRPS:              rate * peakFactor,
			SustainedRPS:         rate * sustainedFactor,
			ErrorRatePercent:     errorRate * 100,
			SuccessRatePercent:   (1 - errorRate) * 100,
			AverageThroughputRPS: rate,
		},
		PerformanceAnalysis: PerformanceAnalysis{
			LatencyGrade:    LatencyGrade(pcts.P99),
			ThroughputGrade: ThroughputGrade(rate),
			OverallGrade:    OverallGrade(pcts.P99, rate),
		},
	}, nil
}

// LatencyGrade grades the p99 latency in milliseconds.
func LatencyGrade(p99 float64) string {
	switch {
	case p99 < 10:
		return "A+ (Outstanding)"
	case p99 < 50:
		return "A (Very Good)"
	case p99 < 100:
		return "B (Good)"
	case p99 < 500:
		return "C (Acceptable)"
	default:
		return "D (Poor)"
	}
}

// ThroughputGrade grades the average request rate.
func ThroughputGrade(avgRPS float64) string {
	switch {
	case avgRPS > 1000:
		return "A (Very Good)"
	case avgRPS >= 500:
		return "B (Good)"
	case avgRPS > 100:
		return "C (Basic Performance)"
	default:
		return "D (Limited)"
	}
}

// OverallGrade combines the latency and throughput thresholds.
func OverallGrade(p99, avgRPS float64) string {
	if p99 < 10 && avgRPS >= 500 {
		return "A (Excellent)"
	}
	return "B (Good)"
}
