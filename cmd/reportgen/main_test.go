package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSummaryJSON = `{
  "metrics": {
    "request_latency": {
      "avg": 2.5, "min": 0.4, "max": 120.0, "med": 2.1,
      "p(50)": 2.1, "p(90)": 4.8, "p(95)": 6.2, "p(99)": 8.0, "p(99.9)": 15.0
    },
    "http_reqs": {"count": 10000, "rate": 500},
    "http_req_failed": {"value": 0.001}
  }
}`

func writeSummary(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "test-summary.json")
	require.NoError(t, os.WriteFile(path, []byte(testSummaryJSON), 0o644))
	return path
}

func TestRun(t *testing.T) {
	t.Run("GeneratesReportAndCharts", func(t *testing.T) {
		tmp := t.TempDir()
		root := filepath.Join(tmp, "performance_results")
		summaryPath := writeSummary(t, tmp)

		err := run([]string{"-results-root", root, summaryPath, "20250115_120000"})
		require.NoError(t, err)

		outDir := filepath.Join(root, "20250115_120000")
		for _, f := range []string{
			"performance_report_20250115_120000.md",
			"performance_report_20250115_120000.json",
			filepath.Join("images", "latency_distribution.png"),
			filepath.Join("images", "latency_tiers.png"),
			filepath.Join("images", "throughput_analysis.png"),
			filepath.Join("images", "latency_throughput.png"),
		} {
			_, err := os.Stat(filepath.Join(outDir, f))
			assert.NoError(t, err, f)
		}
	})

	t.Run("ThirdRunGetsTrendCharts", func(t *testing.T) {
		tmp := t.TempDir()
		root := filepath.Join(tmp, "performance_results")
		summaryPath := writeSummary(t, tmp)

		for _, runID := range []string{"20250115_120000", "20250116_120000"} {
			require.NoError(t, run([]string{"-results-root", root, summaryPath, runID}))
			// Two prior runs are required before trend charts appear.
			_, err := os.Stat(filepath.Join(root, runID, "images", "historical_correlation.png"))
			assert.True(t, os.IsNotExist(err))
		}

		require.NoError(t, run([]string{"-results-root", root, summaryPath, "20250117_120000"}))
		outDir := filepath.Join(root, "20250117_120000")
		for _, f := range []string{
			"historical_correlation.png",
			"historical_timeline.png",
			"percentile_progression.png",
		} {
			_, err := os.Stat(filepath.Join(outDir, "images", f))
			assert.NoError(t, err, f)
		}

		data, err := os.ReadFile(filepath.Join(outDir, "performance_report_20250117_120000.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "## Historical Trends")
	})

	t.Run("FailsOnMissingResultsFile", func(t *testing.T) {
		tmp := t.TempDir()
		err := run([]string{"-results-root", filepath.Join(tmp, "r"), filepath.Join(tmp, "missing.json"), "20250115_120000"})
		assert.Error(t, err)
	})

	t.Run("FailsOnIncompleteSchema", func(t *testing.T) {
		tmp := t.TempDir()
		path := filepath.Join(tmp, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"metrics":{"http_reqs":{"count":1,"rate":1}}}`), 0o644))

		err := run([]string{"-results-root", filepath.Join(tmp, "r"), path, "20250115_120000"})
		assert.ErrorContains(t, err, "request_latency")
	})
}
