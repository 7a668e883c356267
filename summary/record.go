package summary

import "time"

// StatsRecord is the normalized snapshot of one load-test run. It is built
// once by Convert (or recovered by the history scanner) and never mutated
// afterwards; every downstream stage reads from the same fully populated
// value.
type StatsRecord struct {
	Timestamp            time.Time           `json:"timestamp"`
	TestDurationSeconds  float64             `json:"test_duration_seconds"`
	TotalRequests        int64               `json:"total_requests"`
	AverageThroughputRPS float64             `json:"average_throughput_rps"`
	LatencyPercentiles   LatencyPercentiles  `json:"latency_percentiles"`
	ThroughputAnalysis   ThroughputAnalysis  `json:"throughput_analysis"`
	PerformanceAnalysis  PerformanceAnalysis `json:"performance_analysis"`
}

// LatencyPercentiles holds latency values in milliseconds. P9999 and P99999
// are optional in the k6 summary and default to zero when absent.
type LatencyPercentiles struct {
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
	P999   float64 `json:"p99_9"`
	P9999  float64 `json:"p99_99"`
	P99999 float64 `json:"p99_999"`
	Avg    float64 `json:"avg"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Med    float64 `json:"med"`
}

// ThroughputAnalysis holds throughput figures derived from the request rate.
// Peak and sustained RPS are fixed multiples (1.2x and 0.9x) of the average.
type ThroughputAnalysis struct {
	PeakRPS              float64 `json:"peak_rps"`
	SustainedRPS         float64 `json:"sustained_rps"`
	ErrorRatePercent     float64 `json:"error_rate_percent"`
	SuccessRatePercent   float64 `json:"success_rate_percent"`
	AverageThroughputRPS float64 `json:"average_throughput_rps"`
}

// PerformanceAnalysis holds the qualitative grade labels.
type PerformanceAnalysis struct {
	LatencyGrade    string `json:"latency_grade"`
	ThroughputGrade string `json:"throughput_grade"`
	OverallGrade    string `json:"overall_grade"`
}
