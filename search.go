package newswatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// defaultSearchEndpoint is the Google Custom Search JSON API.
const defaultSearchEndpoint = "https://www.googleapis.com/customsearch/v1"

// SearchClient finds candidate article URLs via a paginated search API.
// Each keyword is queried independently and a failure for one keyword
// never aborts the remaining keywords.
type SearchClient struct {
	APIKey       string
	EngineID     string
	Endpoint     string
	DateRestrict string
	HTTPClient   *http.Client
}

// NewSearchClient creates a search client restricted to results from
// the last day, with a bounded request timeout.
func NewSearchClient(apiKey, engineID string) *SearchClient {
	return &SearchClient{
		APIKey:       apiKey,
		EngineID:     engineID,
		Endpoint:     defaultSearchEndpoint,
		DateRestrict: "d1",
		HTTPClient:   &http.Client{Timeout: 20 * time.Second},
	}
}

// searchResponse is the subset of the API response the pipeline reads.
type searchResponse struct {
	Items   []searchItem `json:"items"`
	Queries struct {
		NextPage []struct {
			StartIndex int `json:"startIndex"`
		} `json:"nextPage"`
	} `json:"queries"`
}

type searchItem struct {
	Link        string `json:"link"`
	Title       string `json:"title"`
	DisplayLink string `json:"displayLink"`
}

// Search queries every keyword and returns the classified candidates.
// Rejected results and per-keyword failures are logged; rate-limit
// responses get a more specific message than generic network failures.
func (c *SearchClient) Search(ctx context.Context, keywords []string) []Candidate {
	var candidates []Candidate

	for _, keyword := range keywords {
		log.Printf("INFO: Searching for new articles for keyword %q", keyword)

		found, err := c.searchKeyword(ctx, keyword)
		if err != nil {
			if ctx.Err() != nil {
				log.Printf("WARN: Search cancelled during keyword %q", keyword)
				return candidates
			}
			switch {
			case errors.Is(err, ErrRateLimited):
				log.Printf("ERROR: Search rate limited for keyword %q: daily API quota likely exceeded: %v", keyword, err)
			default:
				log.Printf("ERROR: Search failed for keyword %q: %v", keyword, err)
			}
			// Partial results for this keyword are kept; move on.
		}
		candidates = append(candidates, found...)
	}

	if len(candidates) == 0 {
		log.Printf("INFO: No new articles found across all keywords")
	}

	return candidates
}

// searchKeyword follows the pagination cursor for one keyword until the
// API stops returning one. On error it returns whatever candidates the
// earlier pages produced.
func (c *SearchClient) searchKeyword(ctx context.Context, keyword string) ([]Candidate, error) {
	var candidates []Candidate
	start := 0

	for {
		page, err := c.fetchPage(ctx, keyword, start)
		if err != nil {
			return candidates, err
		}

		for _, item := range page.Items {
			isArticle, reason := Classify(item.Link, item.Title)
			if !isArticle {
				log.Printf("INFO: Skipping non-article (%s): %s | %s", reason, item.Title, item.Link)
				continue
			}

			candidates = append(candidates, Candidate{
				URL:     item.Link,
				Title:   item.Title,
				Source:  item.DisplayLink,
				Keyword: keyword,
			})
		}

		if len(page.Queries.NextPage) == 0 {
			return candidates, nil
		}
		start = page.Queries.NextPage[0].StartIndex
	}
}

// fetchPage issues a single API request for one page of results.
func (c *SearchClient) fetchPage(ctx context.Context, keyword string, start int) (*searchResponse, error) {
	params := url.Values{}
	params.Set("key", c.APIKey)
	params.Set("cx", c.EngineID)
	params.Set("q", keyword)
	params.Set("dateRestrict", c.DateRestrict)
	if start > 0 {
		params.Set("start", strconv.Itoa(start))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, fmt.Errorf("%w (HTTP 429)", ErrRateLimited)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API returned HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var page searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	return &page, nil
}
