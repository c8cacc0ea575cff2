package newswatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/net/publicsuffix"
)

// defaultUserAgent mimics a desktop browser; several publishers block
// obvious bot agents outright.
const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// ArticleContent is the cleaned result of scraping one URL.
type ArticleContent struct {
	Title         string
	Authors       []string
	Source        string
	PublishedDate string
	Content       string
}

// Extraction is raw Content Extractor output, before cleanup. The
// publish date arrives either pre-parsed or as a textual (typically
// ISO-8601) value, depending on what the page exposes.
type Extraction struct {
	Title        string
	Authors      []string
	Text         string
	PublishedAt  *time.Time
	PublishedRaw string
}

// Extractor is the content-extraction collaborator: given raw page
// markup it returns text, title, authors and a publish date, or fails.
type Extractor interface {
	Extract(pageURL string, html []byte) (*Extraction, error)
}

// fetchStrategy is one way of obtaining a page's markup. Strategies run
// in order and the chain short-circuits on the first success.
type fetchStrategy struct {
	name string
	url  func(target string) string
}

// defaultFetchStrategies tries the URL directly and, when the direct
// fetch looks access-denied-like, a cached mirror of the same page.
func defaultFetchStrategies() []fetchStrategy {
	return []fetchStrategy{
		{name: "direct", url: func(target string) string { return target }},
		{name: "cache", url: func(target string) string {
			return "https://webcache.googleusercontent.com/search?q=cache:" + url.QueryEscape(target)
		}},
	}
}

// Scraper fetches article pages and turns them into cleaned
// ArticleContent via the injected Extractor.
type Scraper struct {
	client     *http.Client
	extractor  Extractor
	sourceMap  map[string]string
	strategies []fetchStrategy
	userAgent  string
}

// NewScraper creates a scraper. sourceMap maps registrable-domain
// labels to publisher display names and is treated as immutable; pass
// DefaultSourceMap() unless a custom table is needed.
func NewScraper(extractor Extractor, sourceMap map[string]string, timeout time.Duration) *Scraper {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Scraper{
		client:     &http.Client{Timeout: timeout},
		extractor:  extractor,
		sourceMap:  sourceMap,
		strategies: defaultFetchStrategies(),
		userAgent:  defaultUserAgent,
	}
}

// Scrape fetches the URL (with the one-shot fallback), extracts the
// article and normalizes title, authors, source and publish date. All
// failures come back as a *ScrapeError carrying the failure kind.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (*ArticleContent, error) {
	body, serr := s.fetch(ctx, rawURL)
	if serr != nil {
		return nil, serr
	}

	extraction, err := s.extractor.Extract(rawURL, body)
	if err != nil {
		return nil, &ScrapeError{Kind: ScrapeEmptyContent, URL: rawURL, Err: err}
	}
	text := strings.TrimSpace(extraction.Text)
	if text == "" {
		return nil, &ScrapeError{Kind: ScrapeEmptyContent, URL: rawURL, Err: errors.New("no extractable text")}
	}

	content := &ArticleContent{
		Authors:       CleanAuthors(extraction.Authors),
		Source:        s.sourceName(rawURL),
		PublishedDate: formatPublishedDate(extraction.PublishedAt, extraction.PublishedRaw),
		Content:       text,
	}
	if extraction.Title != "" {
		content.Title = TitleCase(extraction.Title)
	}

	return content, nil
}

// fetch runs the strategy chain. Only an access-denied-like first
// failure (401/403/404 or an empty body) moves on to the fallback;
// timeouts, connection errors and 5xx fail immediately. When the
// fallback also fails, the original failure is reported.
func (s *Scraper) fetch(ctx context.Context, target string) ([]byte, *ScrapeError) {
	var first *ScrapeError

	for _, strategy := range s.strategies {
		body, serr := s.fetchOnce(ctx, strategy.url(target), target)
		if serr == nil {
			return body, nil
		}

		if first != nil {
			return nil, first
		}
		first = serr
		if !triggersFallback(serr.Kind) {
			return nil, first
		}
	}

	return nil, first
}

// triggersFallback reports whether a failure kind warrants trying the
// cached-copy mirror.
func triggersFallback(kind ScrapeErrorKind) bool {
	return kind == ScrapeAccessDenied || kind == ScrapeNotFound || kind == ScrapeEmptyContent
}

func (s *Scraper) fetchOnce(ctx context.Context, fetchURL, target string) ([]byte, *ScrapeError) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, &ScrapeError{Kind: ScrapeFetchFailed, URL: target, Err: err}
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, &ScrapeError{Kind: ScrapeFetchFailed, URL: target, Err: err}
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &ScrapeError{Kind: ScrapeAccessDenied, URL: target, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	case http.StatusNotFound:
		return nil, &ScrapeError{Kind: ScrapeNotFound, URL: target, Err: errors.New("HTTP 404")}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ScrapeError{Kind: ScrapeFetchFailed, URL: target, Err: fmt.Errorf("HTTP %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ScrapeError{Kind: ScrapeFetchFailed, URL: target, Err: err}
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil, &ScrapeError{Kind: ScrapeEmptyContent, URL: target, Err: errors.New("empty response body")}
	}

	return body, nil
}

// sourceName maps the URL's registrable domain to a publisher display
// name, falling back to a title-cased domain label for unknown sites.
func (s *Scraper) sourceName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := strings.TrimPrefix(u.Hostname(), "www.")
	label := host
	if etld, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		label = etld
	}
	// "nytimes.com" -> "nytimes"
	if i := strings.Index(label, "."); i > 0 {
		label = label[:i]
	}

	if name, ok := s.sourceMap[label]; ok {
		return name
	}
	return TitleCase(label)
}

// DefaultSourceMap returns the static domain-label to publisher-name
// table for the news outlets this pipeline watches.
func DefaultSourceMap() map[string]string {
	return map[string]string{
		"abcnews":        "ABC",
		"apnews":         "Associated Press",
		"bbc":            "BBC",
		"bloomberg":      "Bloomberg",
		"bloomberglaw":   "Bloomberg",
		"cnbc":           "CNBC",
		"cnn":            "CNN",
		"foxbusiness":    "Fox Business",
		"foxnews":        "Fox News",
		"ft":             "Financial Times",
		"nbcnews":        "NBC",
		"nytimes":        "New York Times",
		"politico":       "POLITICO",
		"reuters":        "Reuters",
		"scmp":           "South China Morning Post",
		"usatoday":       "USA TODAY",
		"washingtonpost": "Washington Post",
		"wsj":            "Wall Street Journal",
	}
}

var (
	// authorBoilerplate strips bylines phrases like "By ..." and
	// "Updated On ..." as standalone words, so names such as "Byron"
	// survive.
	authorBoilerplate = regexp.MustCompile(`(?i)\b(updated on|by|from)\b`)

	// authorSeparators split several names bundled into one string.
	authorSeparators = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b)\s*`)
)

// maxAuthorWords is the longest fragment still plausible as a display
// name; anything longer is usually a mis-extracted sentence.
const maxAuthorWords = 5

// CleanAuthors normalizes raw extracted author strings into an ordered
// list of distinct display names: boilerplate stripped, bundled names
// split apart, junk fragments dropped, duplicates removed in first-seen
// order, and any name that is a strict substring of another retained
// name collapsed into the longer one.
func CleanAuthors(raw []string) []string {
	var names []string
	seen := make(map[string]struct{})

	for _, rawString := range raw {
		cleaned := authorBoilerplate.ReplaceAllString(rawString, " ")

		for _, fragment := range authorSeparators.Split(cleaned, -1) {
			name := strings.Join(strings.Fields(fragment), " ")
			if name == "" || len(strings.Fields(name)) > maxAuthorWords {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}

	return dropSubsumedNames(names)
}

// dropSubsumedNames removes names that appear inside another retained
// name, which collapses compound duplicates like a full byline
// subsuming a partial parse of the same person.
func dropSubsumedNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}

	result := make([]string, 0, len(names))

	for i, name := range names {
		subsumed := false
		for j, other := range names {
			if i != j && name != other && strings.Contains(other, name) {
				subsumed = true
				break
			}
		}
		if !subsumed {
			result = append(result, name)
		}
	}

	return result
}

// titleSmallWords stay lowercase unless they open or close the title.
var titleSmallWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {},
	"by": {}, "for": {}, "if": {}, "in": {}, "nor": {}, "of": {},
	"on": {}, "or": {}, "so": {}, "the": {}, "to": {}, "up": {},
	"via": {}, "yet": {},
}

// TitleCase applies newsroom-style title casing: each word capitalized,
// small connecting words lowercased mid-title, and words that already
// carry interior capitals (acronyms, "iPhone") left untouched.
func TitleCase(s string) string {
	words := strings.Fields(s)

	for i, word := range words {
		if hasInteriorUpper(word) {
			continue
		}

		lower := strings.ToLower(word)
		if i != 0 && i != len(words)-1 {
			if _, small := titleSmallWords[lower]; small {
				words[i] = lower
				continue
			}
		}
		words[i] = capitalizeFirst(lower)
	}

	return strings.Join(words, " ")
}

// hasInteriorUpper reports whether a word is uppercase anywhere past
// its first rune, the signature of an acronym or branded spelling.
func hasInteriorUpper(word string) bool {
	for i, r := range word {
		if i > 0 && r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}

func capitalizeFirst(word string) string {
	for i, r := range word {
		if r >= 'a' && r <= 'z' {
			return word[:i] + strings.ToUpper(string(r)) + word[i+len(string(r)):]
		}
		if r >= 'A' && r <= 'Z' {
			return word
		}
	}
	return word
}

// formatPublishedDate canonicalizes a publish date to M/D/YYYY with no
// zero padding. It accepts a pre-parsed timestamp or a textual date (a
// Z suffix is treated as UTC); anything unparseable yields an empty
// string rather than an error.
func formatPublishedDate(ts *time.Time, raw string) string {
	var t time.Time

	switch {
	case ts != nil:
		t = *ts
	case strings.TrimSpace(raw) != "":
		parsed, err := dateparse.ParseAny(strings.TrimSpace(raw))
		if err != nil {
			return ""
		}
		t = parsed
	default:
		return ""
	}

	return t.Format("1/2/2006")
}
