package newswatch

import (
	"time"

	"github.com/google/uuid"
)

// Candidate is an unconfirmed search result: a (URL, title, source,
// keyword) tuple produced by a source adapter before deduplication and
// enrichment. Candidates are never persisted.
type Candidate struct {
	URL     string
	Title   string
	Source  string
	Keyword string
}

// Article is the durable unit of work flowing through the pipeline. The
// ID is assigned once at construction and NormalizedURL is derived from
// URL at the same moment; neither is ever recomputed. An Article with
// the scrape fields (Content, Authors, PublishedDate) unset is valid --
// scraping can fail independently of discovery.
type Article struct {
	ID            string
	Title         string
	URL           string
	NormalizedURL string
	Source        string
	Keyword       string
	Authors       []string
	Content       string
	PublishedDate string
	ScrapeError   string
	CreatedAt     time.Time
}

// NewArticle constructs an Article for a discovered URL.
func NewArticle(title, rawURL, keyword string) *Article {
	return &Article{
		ID:            uuid.New().String(),
		Title:         title,
		URL:           rawURL,
		NormalizedURL: NormalizeURL(rawURL),
		Keyword:       keyword,
		Authors:       []string{},
		CreatedAt:     time.Now(),
	}
}

// Record is the flattened article payload handed to a Notifier. Unset
// optional fields are empty strings or empty lists, never missing keys.
type Record struct {
	Title         string   `json:"title"`
	Source        string   `json:"source"`
	URL           string   `json:"url"`
	NormalizedURL string   `json:"normalized_url"`
	Authors       []string `json:"author"`
	Keyword       string   `json:"keyword"`
	Content       string   `json:"content"`
	PublishedDate string   `json:"published_date"`
	ScrapeError   string   `json:"scrape_error"`
}

// Export converts the Article to its Notifier payload.
func (a *Article) Export() Record {
	authors := a.Authors
	if authors == nil {
		authors = []string{}
	}

	return Record{
		Title:         a.Title,
		Source:        a.Source,
		URL:           a.URL,
		NormalizedURL: a.NormalizedURL,
		Authors:       authors,
		Keyword:       a.Keyword,
		Content:       a.Content,
		PublishedDate: a.PublishedDate,
		ScrapeError:   a.ScrapeError,
	}
}
