package scraper

import (
	"context"
	"fmt"
	"log"
	"strings"

	"jobmate/scout-service/internal/model"
)

// SourceLinkedIn tags records ingested from the LinkedIn feed.
const SourceLinkedIn = "linkedin"

// Crawler yields the raw HTML of one authenticated, filtered results page.
// An empty page with a nil error means the run proceeds with zero posts.
type Crawler interface {
	Crawl(ctx context.Context, searchTerm string) (string, error)
}

// Summarizer condenses the aggregated text. It never fails: degraded output
// is still output.
type Summarizer interface {
	Summarize(ctx context.Context, text string) string
}

// PostStore persists one aggregated unit idempotently.
type PostStore interface {
	Upsert(ctx context.Context, agg model.Aggregate, source string) error
}

// Assets captures images and caption text for one run.
type Assets interface {
	SaveImage(ctx context.Context, postIdx, imgIdx int, url string) (string, error)
	SaveCaption(postIdx int, text string) (string, error)
}

// Worker runs the full ingestion pipeline for a single search term:
// crawl → extract → capture assets → aggregate → summarize → persist.
// The pipeline is strictly sequential within one run.
type Worker struct {
	crawler    Crawler
	assets     Assets
	summarizer Summarizer
	store      PostStore
	maxPosts   int
}

// NewWorker constructs a Worker.
func NewWorker(crawler Crawler, assets Assets, summarizer Summarizer, store PostStore, maxPosts int) *Worker {
	return &Worker{
		crawler:    crawler,
		assets:     assets,
		summarizer: summarizer,
		store:      store,
		maxPosts:   maxPosts,
	}
}

// Run executes one best-effort ingestion run. A crawl that yields no posts
// completes the run with no persisted change; persistence and caption-write
// failures abort it.
func (w *Worker) Run(ctx context.Context, searchTerm string) error {
	log.Printf("[worker] Starting scrape for %q", searchTerm)

	pageHTML, err := w.crawler.Crawl(ctx, searchTerm)
	if err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	if strings.TrimSpace(pageHTML) == "" {
		log.Println("[worker] Crawl produced no page content — nothing to ingest")
		return nil
	}

	posts, err := ExtractPosts(pageHTML, w.maxPosts)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if len(posts) == 0 {
		log.Println("[worker] No posts found on page — nothing to ingest")
		return nil
	}
	log.Printf("[worker] Extracted %d post(s)", len(posts))

	for i := range posts {
		idx := i + 1
		if _, err := w.assets.SaveCaption(idx, posts[i].RawText); err != nil {
			return fmt.Errorf("save caption for post %d: %w", idx, err)
		}
		for j, imgURL := range posts[i].ImageURLs {
			path, err := w.assets.SaveImage(ctx, idx, j+1, imgURL)
			if err != nil {
				log.Printf("[worker] Failed to save image %s: %v — skipping", imgURL, err)
				continue
			}
			posts[i].ImagePaths = append(posts[i].ImagePaths, path)
		}
	}

	agg := Aggregate(posts)
	agg.Summary = w.summarizer.Summarize(ctx, agg.CombinedText)

	if err := w.store.Upsert(ctx, agg, SourceLinkedIn); err != nil {
		return fmt.Errorf("persist: %w", err)
	}

	log.Printf("[worker] One summarized record generated from %d post(s)", len(posts))
	return nil
}
