package newswatch

import (
	"errors"
	"fmt"
)

// Failure values shared across pipeline stages. Scrape failures are
// data rather than control flow: they attach to the Article that
// triggered them and never abort sibling work in the same cycle.

var (
	// ErrStorePersist reports that the duplicate store could not append
	// to its backing log. The in-memory set is still updated so the
	// current run behaves consistently even though durability failed.
	ErrStorePersist = errors.New("duplicate store persist failed")

	// ErrRateLimited reports an HTTP 429 from the search API, most
	// likely an exhausted daily quota.
	ErrRateLimited = errors.New("search API rate limit exceeded")
)

// ScrapeErrorKind classifies why a scrape failed.
type ScrapeErrorKind string

const (
	// ScrapeFetchFailed covers timeouts, connection failures and
	// server-side HTTP errors. These do not trigger the fallback fetch.
	ScrapeFetchFailed ScrapeErrorKind = "fetch_failed"

	// ScrapeAccessDenied covers HTTP 401/403 after the fallback fetch
	// also failed.
	ScrapeAccessDenied ScrapeErrorKind = "access_denied"

	// ScrapeNotFound covers HTTP 404 after the fallback fetch also
	// failed.
	ScrapeNotFound ScrapeErrorKind = "not_found"

	// ScrapeEmptyContent means the fetch succeeded but no article text
	// could be extracted.
	ScrapeEmptyContent ScrapeErrorKind = "empty_content"
)

// ScrapeError is the typed failure returned by the scrape orchestrator.
type ScrapeError struct {
	Kind ScrapeErrorKind
	URL  string
	Err  error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.URL, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.URL)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// ScrapeKind extracts the failure kind from an error returned by
// Scraper.Scrape, or an empty kind for nil and foreign errors.
func ScrapeKind(err error) ScrapeErrorKind {
	var se *ScrapeError
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
