package newswatch

import (
	"context"
	"log"
	"sort"
	"time"

	"github.com/mmcdole/gofeed"
)

// FeedFetcher turns configured RSS/Atom feeds into Articles. Feed
// entries already carry enough fields to build a full Article directly,
// unlike search results, which start life as Candidates.
type FeedFetcher struct {
	parser *gofeed.Parser
}

// NewFeedFetcher creates a fetcher. The gofeed parser detects and
// handles both RSS and Atom automatically.
func NewFeedFetcher() *FeedFetcher {
	parser := gofeed.NewParser()
	parser.UserAgent = defaultUserAgent

	return &FeedFetcher{parser: parser}
}

// FetchAll parses every configured (source name, feed URL) pair and
// returns the entries that match a keyword, newest first. A feed that
// fails to parse is logged and skipped; it never aborts the remaining
// feeds. Feeds are processed in sorted source-name order so a cycle's
// output ordering is deterministic.
func (f *FeedFetcher) FetchAll(ctx context.Context, feeds map[string]string, keywords []string) []*Article {
	names := make([]string, 0, len(feeds))
	for name := range feeds {
		names = append(names, name)
	}
	sort.Strings(names)

	var articles []*Article
	for _, sourceName := range names {
		if ctx.Err() != nil {
			log.Printf("WARN: Feed fetch cancelled before source %s", sourceName)
			break
		}

		matched := f.fetchFeed(ctx, sourceName, feeds[sourceName], keywords)
		articles = append(articles, matched...)
	}

	log.Printf("INFO: Collected %d matched articles from %d feeds", len(articles), len(feeds))
	return articles
}

func (f *FeedFetcher) fetchFeed(ctx context.Context, sourceName, feedURL string, keywords []string) []*Article {
	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		log.Printf("WARN: Failed to parse feed %s (%s): %v", sourceName, feedURL, err)
		return nil
	}

	entries := sortEntriesByRecency(feed.Items)
	log.Printf("INFO: Retrieved %d entries from %s", len(entries), sourceName)

	var articles []*Article
	for _, entry := range entries {
		// Field precedence: title, then summary/description, then any
		// embedded content fragment. gofeed normalizes RSS description
		// and Atom summary into Description.
		keyword, ok := MatchEntry(keywords, []string{entry.Title, entry.Description, entry.Content})
		if !ok {
			continue
		}

		article := NewArticle(entry.Title, entry.Link, keyword)
		article.Source = sourceName
		article.Content = entry.Description
		articles = append(articles, article)
	}

	return articles
}

// sortEntriesByRecency orders entries by publish time descending,
// falling back to update time, falling back to the Unix epoch so that
// undated entries sort last deterministically.
func sortEntriesByRecency(items []*gofeed.Item) []*gofeed.Item {
	sorted := make([]*gofeed.Item, len(items))
	copy(sorted, items)

	sort.SliceStable(sorted, func(i, j int) bool {
		return entryTime(sorted[i]).After(entryTime(sorted[j]))
	})

	return sorted
}

func entryTime(item *gofeed.Item) time.Time {
	if item.PublishedParsed != nil {
		return *item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return *item.UpdatedParsed
	}
	return time.Unix(0, 0).UTC()
}
