// Package model defines shared data structures for the scout service.
package model

import "time"

// Post is one structured extraction result from a single feed item.
// ImageURLs holds the media sources found in the post block; ImagePaths is
// filled in by the worker once the asset store has fetched local copies.
type Post struct {
	RawText    string
	ImageURLs  []string
	ImagePaths []string
}

// Aggregate is the single combined unit produced per pipeline run: all post
// texts joined with a blank line, all stored image paths in extraction order.
// Summary is filled by the summarizer before persistence.
type Aggregate struct {
	CombinedText string
	Images       []string
	Summary      string
}

// JobPost mirrors a job_posts row. Summary, PostURL and ImagePaths are
// nullable; ImagePaths is a single comma-joined string — consumers split on
// comma to enumerate images.
type JobPost struct {
	ID         int64     `json:"id"`
	Source     string    `json:"source"`
	PostURL    *string   `json:"postUrl"`
	RawText    string    `json:"rawText"`
	Summary    *string   `json:"summary"`
	ImagePaths *string   `json:"imagePaths"`
	ScrapedAt  time.Time `json:"scrapedAt"`
}
