// Package gcsupload pushes a run's report artifacts to a GCS bucket so
// reports survive ephemeral test machines. Upload is optional; the local
// report directory is always the source of truth.
package gcsupload

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"sync"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// Config holds the uploader settings.
type Config struct {
	Bucket       string // GCS bucket name (required)
	ObjectPrefix string // Object prefix (e.g. "perf-reports/")
	Concurrency  int    // Parallel object uploads (default: 4)
}

// Validate checks the configuration and applies defaults where needed.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket name is required")
	}
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	return nil
}

// NewClient builds the storage client used by UploadDir.
func NewClient(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
	opts = append([]option.ClientOption{option.WithUserAgent("loadtest-reporter")}, opts...)
	return storage.NewClient(ctx, opts...)
}

// UploadDir uploads every file under localDir to
// gs://<bucket>/<prefix><runID>/<relative path>, fanning the objects out
// across Concurrency goroutines. Each upload is verified against the local
// file size. The first failure is returned after all workers finish.
func UploadDir(ctx context.Context, client *storage.Client, cfg Config, localDir, runID string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	var files []string
	err := filepath.WalkDir(localDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", localDir, err)
	}
	if len(files) == 0 {
		return fmt.Errorf("nothing to upload under %s", localDir)
	}

	type uploadResult struct {
		local  string
		object string
		size   int64
		err    error
	}

	results := make([]uploadResult, len(files))
	sem := make(chan struct{}, cfg.Concurrency)
	var wg sync.WaitGroup

	for i, local := range files {
		wg.Add(1)
		go func(idx int, localPath string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rel, err := filepath.Rel(localDir, localPath)
			if err != nil {
				results[idx] = uploadResult{local: localPath, err: err}
				return
			}
			object := path.Join(cfg.ObjectPrefix, runID, filepath.ToSlash(rel))
			size, err := uploadFile(ctx, client, cfg.Bucket, object, localPath)
			results[idx] = uploadResult{local: localPath, object: object, size: size, err: err}
			if err == nil {
				fmt.Printf("☁️  Uploaded gs://%s/%s (%d bytes)\n", cfg.Bucket, object, size)
			}
		}(i, local)
	}
	wg.Wait()

	for _, r := range results {
		if r.err != nil {
			return fmt.Errorf("uploading %s: %w", r.local, r.err)
		}
	}
	return nil
}

func uploadFile(ctx context.Context, client *storage.Client, bucket, object, localPath string) (int64, error) {
	data, err := os.ReadFile(localPath)
	if err != nil {
		return 0, err
	}

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType(localPath)
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("write error: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, fmt.Errorf("close error: %w", err)
	}

	// Verify the object landed with the expected size.
	attrs, err := client.Bucket(bucket).Object(object).Attrs(ctx)
	if err != nil {
		return 0, fmt.Errorf("attrs error: %w", err)
	}
	if attrs.Size != int64(len(data)) {
		return 0, fmt.Errorf("size mismatch: expected %d bytes, got %d bytes", len(data), attrs.Size)
	}
	return attrs.Size, nil
}

func contentType(localPath string) string {
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
