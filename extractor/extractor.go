// Package extractor implements the content-extraction step using the
// readability algorithm plus meta-tag inspection for the fields
// readability does not surface.
package extractor

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/acollier/newswatch"
)

// Readability extracts article text with go-readability and pulls
// authors and the publish date from the page's metadata tags.
type Readability struct{}

// New creates a Readability extractor.
func New() *Readability {
	return &Readability{}
}

// Extract parses the raw markup of pageURL into an Extraction. It
// fails when the markup yields no readable article at all; an article
// with empty text is returned as-is and left to the caller to judge.
func (e *Readability) Extract(pageURL string, html []byte) (*newswatch.Extraction, error) {
	if len(html) == 0 {
		return nil, fmt.Errorf("page markup is empty")
	}

	parsedURL, _ := url.Parse(pageURL)

	article, err := readability.FromReader(bytes.NewReader(html), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract content: %w", err)
	}

	extraction := &newswatch.Extraction{
		Title: strings.TrimSpace(article.Title),
		Text:  strings.TrimSpace(article.TextContent),
	}
	if article.Byline != "" {
		extraction.Authors = append(extraction.Authors, article.Byline)
	}

	// Meta tags carry authors and the publish date more reliably than
	// the rendered page body.
	if doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html)); err == nil {
		e.fillFromMeta(doc, extraction)
	}

	return extraction, nil
}

// fillFromMeta supplements the extraction with values from <meta> and
// <time> elements.
func (e *Readability) fillFromMeta(doc *goquery.Document, extraction *newswatch.Extraction) {
	doc.Find(`meta[name="author"], meta[property="article:author"]`).Each(func(_ int, sel *goquery.Selection) {
		if content, ok := sel.Attr("content"); ok {
			content = strings.TrimSpace(content)
			// Structured author values are sometimes profile URLs;
			// those are useless as display names.
			if content != "" && !strings.HasPrefix(content, "http") {
				extraction.Authors = append(extraction.Authors, content)
			}
		}
	})

	for _, selector := range []string{
		`meta[property="article:published_time"]`,
		`meta[name="date"]`,
		`meta[name="publish-date"]`,
	} {
		if raw, ok := doc.Find(selector).First().Attr("content"); ok && strings.TrimSpace(raw) != "" {
			extraction.PublishedRaw = strings.TrimSpace(raw)
			return
		}
	}
	if raw, ok := doc.Find("time[datetime]").First().Attr("datetime"); ok && strings.TrimSpace(raw) != "" {
		extraction.PublishedRaw = strings.TrimSpace(raw)
	}
}
