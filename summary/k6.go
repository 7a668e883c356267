package summary

import (
	"encoding/json"
	"fmt"
	"os"
)

// RawSummary mirrors the k6 end-of-test summary JSON: a flat mapping of
// metric name to metric fields. Consumed once by Convert.
type RawSummary struct {
	Metrics map[string]Metric `json:"metrics"`
}

// Metric is one k6 metric's field map. Trend metrics carry percentile keys
// like "p(99)" alongside avg/min/med/max; counters carry count/rate; rate
// metrics carry value. Non-numeric fields (thresholds etc.) are tolerated
// and ignored.
type Metric map[string]any

// Load reads and decodes a k6 summary file.
func Load(path string) (*RawSummary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading results file: %w", err)
	}
	var raw RawSummary
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing results file %s: %w", path, err)
	}
	if len(raw.Metrics) == 0 {
		return nil, fmt.Errorf("results file %s has no metrics section", path)
	}
	return &raw, nil
}

// Metric returns the named metric or an error if the summary does not
// contain it.
func (r *RawSummary) Metric(name string) (Metric, error) {
	m, ok := r.Metrics[name]
	if !ok {
		return nil, fmt.Errorf("metric %q missing from summary", name)
	}
	return m, nil
}

// Value returns the numeric field, reporting whether it was present and
// numeric.
func (m Metric) Value(key string) (float64, bool) {
	v, ok := m[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// MustValue returns the numeric field or an error naming the missing key.
func (m Metric) MustValue(metricName, key string) (float64, error) {
	v, ok := m.Value(key)
	if !ok {
		return 0, fmt.Errorf("metric %q missing key %q", metricName, key)
	}
	return v, nil
}
