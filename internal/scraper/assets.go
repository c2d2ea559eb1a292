package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

const (
	imageFetchTimeout = 15 * time.Second

	// maxImageBytes caps one download to prevent runaway reads.
	maxImageBytes = 10 << 20
)

// AssetStore writes fetched images and caption text under a base directory,
// returning store-relative paths. File names are keyed by post index and
// image index within a run, matching what the presentation layer serves.
type AssetStore struct {
	dir    string
	client *http.Client
}

// NewAssetStore creates the base directory if needed.
func NewAssetStore(dir string) (*AssetStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir %s: %w", dir, err)
	}
	return &AssetStore{
		dir:    dir,
		client: &http.Client{Timeout: imageFetchTimeout},
	}, nil
}

// SaveImage fetches one image over HTTP and writes it as
// post_<postIdx>_image_<imgIdx>.jpg. The returned path is relative to the
// store's base directory. Callers treat a failure as skippable: one bad
// image must not abort the rest of the run.
func (s *AssetStore) SaveImage(ctx context.Context, postIdx, imgIdx int, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image fetch returned %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	name := fmt.Sprintf("post_%d_image_%d.jpg", postIdx, imgIdx)
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return name, nil
}

// SaveCaption writes the post's trimmed caption text alongside its images
// for audit and debugging. A local write failure here is fatal to the run.
func (s *AssetStore) SaveCaption(postIdx int, text string) (string, error) {
	name := fmt.Sprintf("post_%d_caption.txt", postIdx)
	if err := os.WriteFile(filepath.Join(s.dir, name), []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("write caption: %w", err)
	}
	return name, nil
}
