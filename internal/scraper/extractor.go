// Package scraper implements post extraction, asset capture, aggregation and
// the pipeline worker that ties one ingestion run together.
package scraper

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"jobmate/scout-service/internal/model"
)

const (
	postBlockSelector = "div.fie-impression-container"
	captionSelector   = "div.update-components-text"

	// avatarClassMarker tags actor/avatar imagery inside a post block;
	// matched on the img class, not the src.
	avatarClassMarker = "update-components-actor__avatar-image"

	// noCaption substitutes for posts without a text region.
	noCaption = "No caption"
)

// mediaURLMarkers identify feed media sources; any other img src is ignored.
var mediaURLMarkers = []string{"feedshare", "media.licdn"}

// ExtractPosts parses a results page into structured posts, at most limit,
// in document order; a limit of zero or less means no cap. Pure: no I/O, no
// side effects.
//
// Per block: the caption is the block's primary text region with whitespace
// collapsed to single spaces (sentinel when absent), and the images are every
// feed-media img that is not avatar-tagged, in document order, duplicates
// kept.
func ExtractPosts(pageHTML string, limit int) ([]model.Post, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(pageHTML))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var posts []model.Post
	doc.Find(postBlockSelector).EachWithBreak(func(_ int, block *goquery.Selection) bool {
		if limit > 0 && len(posts) >= limit {
			return false
		}

		caption := captionText(block.Find(captionSelector).First())
		if caption == "" {
			caption = noCaption
		}

		var images []string
		block.Find("img").Each(func(_ int, img *goquery.Selection) {
			if strings.Contains(img.AttrOr("class", ""), avatarClassMarker) {
				return
			}
			src := img.AttrOr("src", "")
			if isMediaURL(src) {
				images = append(images, src)
			}
		})

		posts = append(posts, model.Post{RawText: caption, ImageURLs: images})
		return true
	})

	return posts, nil
}

func isMediaURL(src string) bool {
	for _, marker := range mediaURLMarkers {
		if strings.Contains(src, marker) {
			return true
		}
	}
	return false
}

// captionText flattens a caption region into a single line: each text node
// is trimmed and internally collapsed to single spaces, empties dropped, and
// the segments joined by single spaces. Inline elements that touch with no
// whitespace between them stay separate words.
func captionText(sel *goquery.Selection) string {
	var segments []string
	for _, n := range sel.Nodes {
		collectText(n, &segments)
	}
	return strings.Join(segments, " ")
}

func collectText(n *html.Node, segments *[]string) {
	if n.Type == html.TextNode {
		if s := collapseSpace(n.Data); s != "" {
			*segments = append(*segments, s)
		}
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, segments)
	}
}

// collapseSpace joins the text's whitespace-separated segments with single
// spaces and trims the result.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
