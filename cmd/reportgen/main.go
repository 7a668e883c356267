// reportgen turns a k6 test summary into a markdown performance report
// with charts, and folds previously generated reports into historical
// trend views.
//
// Usage:
//
//	reportgen [flags] [results.json] [run-id]
//
// results.json defaults to k6/results/test-summary.json and run-id to the
// current timestamp (YYYYMMDD_HHMMSS).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/neehar-mavuduru/loadtest-reporter/charts"
	"github.com/neehar-mavuduru/loadtest-reporter/gcsupload"
	"github.com/neehar-mavuduru/loadtest-reporter/history"
	"github.com/neehar-mavuduru/loadtest-reporter/report"
	"github.com/neehar-mavuduru/loadtest-reporter/summary"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("reportgen", flag.ExitOnError)
	resultsRoot := fs.String("results-root", "performance_results", "Directory holding per-run report directories")
	bucket := fs.String("bucket", "", "Optional GCS bucket to upload the run's artifacts to")
	prefix := fs.String("prefix", "", "Object prefix inside the bucket")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resultsFile := "k6/results/test-summary.json"
	runID := time.Now().Format("20060102_150405")
	if fs.NArg() > 0 {
		resultsFile = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		runID = fs.Arg(1)
	}

	fmt.Println("🎯 Performance Report Generator")
	fmt.Println("================================")

	raw, err := summary.Load(resultsFile)
	if err != nil {
		return err
	}
	fmt.Printf("📊 Loaded results from: %s\n", resultsFile)

	rec, err := summary.Convert(raw, time.Now())
	if err != nil {
		return err
	}
	fmt.Println("✅ Data converted successfully")

	// Prior runs only; this run's report is not written yet.
	series, err := history.Scan(*resultsRoot)
	if err != nil {
		return err
	}
	if len(series) > 0 {
		fmt.Printf("📚 Found %d prior run(s) for trend analysis\n", len(series))
	}

	outDir := filepath.Join(*resultsRoot, runID)
	imagesDir := filepath.Join(outDir, "images")

	set, err := charts.Render(rec, series, imagesDir)
	if err != nil {
		return err
	}
	for _, p := range set.Paths() {
		fmt.Printf("📈 Saved chart: %s\n", p)
	}

	reportPath, err := report.Compose(rec, set, outDir, runID)
	if err != nil {
		return err
	}
	fmt.Printf("📝 Generated markdown report: %s\n", reportPath)

	if *bucket != "" {
		ctx := context.Background()
		client, err := gcsupload.NewClient(ctx)
		if err != nil {
			return fmt.Errorf("storage client: %w", err)
		}
		defer client.Close()

		cfg := gcsupload.Config{Bucket: *bucket, ObjectPrefix: *prefix}
		if err := gcsupload.UploadDir(ctx, client, cfg, outDir, runID); err != nil {
			return err
		}
	}

	fmt.Println()
	fmt.Println("🎉 Report generation complete!")
	fmt.Printf("📁 Results directory: %s\n", outDir)
	return nil
}
