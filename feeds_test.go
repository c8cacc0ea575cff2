package newswatch

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testFeedXML = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>Test Wire</title>
	<item>
		<title>Fed weighs economy outlook</title>
		<link>https://wire.example.com/2024/05/02/fed-economy</link>
		<description>The central bank weighs its options.</description>
		<pubDate>Thu, 02 May 2024 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Local bake sale results</title>
		<link>https://wire.example.com/2024/05/01/bake-sale</link>
		<description>Cookies were sold.</description>
		<pubDate>Wed, 01 May 2024 10:00:00 GMT</pubDate>
	</item>
	<item>
		<title>Quiet title</title>
		<link>https://wire.example.com/2024/05/03/markets-deep</link>
		<description>Summary mentions the economy in passing.</description>
		<pubDate>Fri, 03 May 2024 10:00:00 GMT</pubDate>
	</item>
</channel>
</rss>`

func TestFeedFetcher_FetchAll(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFeedXML)
	}))
	defer server.Close()

	fetcher := NewFeedFetcher()
	articles := fetcher.FetchAll(context.Background(),
		map[string]string{"Test Wire": server.URL},
		[]string{"economy"})

	require.Len(t, articles, 2, "only keyword-matching entries should survive")

	// Entries are processed newest first, so the May 3rd summary match
	// precedes the May 2nd title match.
	assert.Equal(t, "Quiet title", articles[0].Title)
	assert.Equal(t, "Summary mentions the economy in passing.", articles[0].Content)
	assert.Equal(t, "economy", articles[0].Keyword)
	assert.Equal(t, "Test Wire", articles[0].Source)
	assert.Equal(t, "wire.example.com/2024/05/03/markets-deep", articles[0].NormalizedURL)
	assert.Empty(t, articles[0].Authors)

	assert.Equal(t, "Fed weighs economy outlook", articles[1].Title)
}

// TestFeedFetcher_BrokenFeedIsSkipped verifies one unparseable feed
// never aborts the remaining feeds.
func TestFeedFetcher_BrokenFeedIsSkipped(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "this is not xml at all")
	}))
	defer broken.Close()

	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, testFeedXML)
	}))
	defer working.Close()

	fetcher := NewFeedFetcher()
	articles := fetcher.FetchAll(context.Background(),
		map[string]string{
			"A Broken": broken.URL,
			"B Works":  working.URL,
		},
		[]string{"economy"})

	require.Len(t, articles, 2)
	for _, a := range articles {
		assert.Equal(t, "B Works", a.Source)
	}
}

func TestSortEntriesByRecency(t *testing.T) {
	published := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	updated := time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC)

	items := []*gofeed.Item{
		{Title: "undated"},
		{Title: "published", PublishedParsed: &published},
		{Title: "updated only", UpdatedParsed: &updated},
	}

	sorted := sortEntriesByRecency(items)

	require.Len(t, sorted, 3)
	assert.Equal(t, "updated only", sorted[0].Title, "update time is the fallback ordering key")
	assert.Equal(t, "published", sorted[1].Title)
	assert.Equal(t, "undated", sorted[2].Title, "undated entries sort last")

	// The input slice is left untouched.
	assert.Equal(t, "undated", items[0].Title)
}
