package scraper_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"jobmate/scout-service/internal/scraper"
)

func TestAssetStore_SaveImage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("jpeg-bytes"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	store, err := scraper.NewAssetStore(dir)
	if err != nil {
		t.Fatalf("NewAssetStore: %v", err)
	}

	path, err := store.SaveImage(context.Background(), 2, 3, srv.URL)
	if err != nil {
		t.Fatalf("SaveImage: %v", err)
	}
	if path != "post_2_image_3.jpg" {
		t.Errorf("path = %q, want deterministic index-keyed name", path)
	}

	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(data) != "jpeg-bytes" {
		t.Errorf("stored %q, want fetched body", data)
	}
}

func TestAssetStore_SaveImageNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	store, err := scraper.NewAssetStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewAssetStore: %v", err)
	}

	if _, err := store.SaveImage(context.Background(), 1, 1, srv.URL); err == nil {
		t.Error("SaveImage must fail on a non-200 response")
	}
}

func TestAssetStore_SaveCaption(t *testing.T) {
	dir := t.TempDir()
	store, err := scraper.NewAssetStore(dir)
	if err != nil {
		t.Fatalf("NewAssetStore: %v", err)
	}

	path, err := store.SaveCaption(1, "Walk-in drive Saturday")
	if err != nil {
		t.Fatalf("SaveCaption: %v", err)
	}
	if path != "post_1_caption.txt" {
		t.Errorf("path = %q", path)
	}

	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatalf("caption unreadable: %v", err)
	}
	if string(data) != "Walk-in drive Saturday" {
		t.Errorf("caption = %q", data)
	}
}
