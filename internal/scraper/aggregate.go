package scraper

import (
	"strings"

	"jobmate/scout-service/internal/model"
)

// textSeparator joins post texts in the combined unit: one blank line.
const textSeparator = "\n\n"

// Aggregate collapses a batch of posts into one unit: all raw texts joined
// with a blank line and all stored image paths concatenated, both in
// extraction order, duplicates kept. N scraped posts become exactly one
// record per run. Summary is left empty for the summarizer.
func Aggregate(posts []model.Post) model.Aggregate {
	texts := make([]string, 0, len(posts))
	var images []string
	for _, p := range posts {
		texts = append(texts, p.RawText)
		images = append(images, p.ImagePaths...)
	}
	return model.Aggregate{
		CombinedText: strings.Join(texts, textSeparator),
		Images:       images,
	}
}
