package scraper_test

import (
	"testing"

	"jobmate/scout-service/internal/scraper"
)

// feedPageHTML is a trimmed-down search results page with two post blocks:
// the first has a caption, an avatar image and one feed-media image, the
// second has no caption block at all.
const feedPageHTML = `<!DOCTYPE html>
<html>
<body>
  <div class="fie-impression-container">
    <img class="update-components-actor__avatar-image" src="https://media.licdn.com/avatar/anna.jpg">
    <div class="update-components-text">
      <span>Cognizant</span>
      <span>  Walk-in drive
        this Saturday </span>
    </div>
    <img src="https://media.licdn.com/dms/image/feedshare/poster.jpg">
    <img src="https://static.example.com/sprite.png">
  </div>
  <div class="fie-impression-container">
    <img src="https://media.licdn.com/dms/image/feedshare/flyer.jpg">
  </div>
</body>
</html>`

func TestExtractPosts_CaptionWhitespaceCollapsed(t *testing.T) {
	posts, err := scraper.ExtractPosts(feedPageHTML, 5)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Fatalf("ExtractPosts returned %d posts, want 2", len(posts))
	}

	want := "Cognizant Walk-in drive this Saturday"
	if posts[0].RawText != want {
		t.Errorf("posts[0].RawText = %q, want %q", posts[0].RawText, want)
	}
}

func TestExtractPosts_AdjacentInlineElementsStaySeparateWords(t *testing.T) {
	// No whitespace at all between the spans or around the <strong>; the
	// caption must still come out word-separated.
	const page = `<div class="fie-impression-container">
	  <div class="update-components-text"><span>Cognizant</span><span>Walk-in</span><strong>Kolkata</strong></div>
	</div>`

	posts, err := scraper.ExtractPosts(page, 5)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ExtractPosts returned %d posts, want 1", len(posts))
	}

	want := "Cognizant Walk-in Kolkata"
	if posts[0].RawText != want {
		t.Errorf("posts[0].RawText = %q, want %q", posts[0].RawText, want)
	}
}

func TestExtractPosts_MissingCaptionUsesSentinel(t *testing.T) {
	posts, err := scraper.ExtractPosts(feedPageHTML, 5)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if posts[1].RawText != "No caption" {
		t.Errorf("posts[1].RawText = %q, want \"No caption\"", posts[1].RawText)
	}
}

func TestExtractPosts_AvatarAndNonMediaImagesExcluded(t *testing.T) {
	posts, err := scraper.ExtractPosts(feedPageHTML, 5)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}

	// The avatar is media.licdn-hosted but avatar-tagged; the sprite is
	// neither feedshare nor media.licdn. Only the poster survives.
	if len(posts[0].ImageURLs) != 1 {
		t.Fatalf("posts[0] has %d image URLs, want 1: %v", len(posts[0].ImageURLs), posts[0].ImageURLs)
	}
	want := "https://media.licdn.com/dms/image/feedshare/poster.jpg"
	if posts[0].ImageURLs[0] != want {
		t.Errorf("posts[0].ImageURLs[0] = %q, want %q", posts[0].ImageURLs[0], want)
	}
}

func TestExtractPosts_LimitRespectedInDocumentOrder(t *testing.T) {
	posts, err := scraper.ExtractPosts(feedPageHTML, 1)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("ExtractPosts with limit 1 returned %d posts", len(posts))
	}
	if posts[0].RawText != "Cognizant Walk-in drive this Saturday" {
		t.Errorf("limit kept the wrong post: %q", posts[0].RawText)
	}
}

func TestExtractPosts_NonPositiveLimitMeansNoCap(t *testing.T) {
	posts, err := scraper.ExtractPosts(feedPageHTML, 0)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if len(posts) != 2 {
		t.Errorf("ExtractPosts with limit 0 returned %d posts, want all 2", len(posts))
	}
}

func TestExtractPosts_NoBlocks(t *testing.T) {
	posts, err := scraper.ExtractPosts("<html><body><p>nothing here</p></body></html>", 5)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("ExtractPosts on empty page returned %d posts, want 0", len(posts))
	}
}

func TestExtractPosts_DuplicateImagesKept(t *testing.T) {
	const page = `<div class="fie-impression-container">
	  <img src="https://media.licdn.com/dms/image/feedshare/a.jpg">
	  <img src="https://media.licdn.com/dms/image/feedshare/a.jpg">
	</div>`

	posts, err := scraper.ExtractPosts(page, 5)
	if err != nil {
		t.Fatalf("ExtractPosts returned unexpected error: %v", err)
	}
	if len(posts) != 1 || len(posts[0].ImageURLs) != 2 {
		t.Fatalf("duplicates must be kept at extraction: %+v", posts)
	}
}
