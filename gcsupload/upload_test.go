package gcsupload

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigValidate(t *testing.T) {
	t.Run("RequiresBucket", func(t *testing.T) {
		cfg := Config{}
		assert.Error(t, cfg.Validate())
	})

	t.Run("AppliesDefaultConcurrency", func(t *testing.T) {
		cfg := Config{Bucket: "reports"}
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, 4, cfg.Concurrency)
	})

	t.Run("KeepsExplicitConcurrency", func(t *testing.T) {
		cfg := Config{Bucket: "reports", Concurrency: 16}
		assert.NoError(t, cfg.Validate())
		assert.Equal(t, 16, cfg.Concurrency)
	})
}

func TestUploadDir(t *testing.T) {
	t.Run("FailureNamesTheLocalFile", func(t *testing.T) {
		dir := t.TempDir()
		// A dangling symlink makes the read fail before any network I/O.
		broken := filepath.Join(dir, "report.md")
		require.NoError(t, os.Symlink(filepath.Join(dir, "missing"), broken))

		err := UploadDir(context.Background(), nil, Config{Bucket: "reports"}, dir, "20250115_120000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), broken)
	})

	t.Run("EmptyDirectoryErrors", func(t *testing.T) {
		dir := t.TempDir()
		err := UploadDir(context.Background(), nil, Config{Bucket: "reports"}, dir, "20250115_120000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nothing to upload")
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/png", contentType("images/latency_distribution.png"))
	assert.Equal(t, "application/json", contentType("performance_report_20250115_120000.json"))
	assert.Equal(t, "application/octet-stream", contentType("report"))
}
