package newswatch

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"
)

// CandidateSource produces candidates from a search API.
type CandidateSource interface {
	Search(ctx context.Context, keywords []string) []Candidate
}

// ArticleSource produces full articles from configured feeds.
type ArticleSource interface {
	FetchAll(ctx context.Context, feeds map[string]string, keywords []string) []*Article
}

// ContentScraper enriches an article URL with its extracted content.
type ContentScraper interface {
	Scrape(ctx context.Context, url string) (*ArticleContent, error)
}

// Notifier delivers a completed article record to the operator. It is
// the pipeline's downstream collaborator; once an article is handed
// over, the pipeline's responsibility for it ends.
type Notifier interface {
	Notify(ctx context.Context, rec Record) error
}

// Archiver records completed articles durably, for operator review.
type Archiver interface {
	Save(a *Article) error
}

// PipelineConfig holds per-run settings for the coordinator.
type PipelineConfig struct {
	Keywords []string
	Feeds    map[string]string
	// Concurrency bounds the number of simultaneous scrapes.
	Concurrency int
}

// Pipeline composes the source adapters, the duplicate store, the
// scrape orchestrator and the notifier into one discovery cycle.
type Pipeline struct {
	search   CandidateSource
	feeds    ArticleSource
	dedup    *DuplicateStore
	scraper  ContentScraper
	notifier Notifier
	archive  Archiver
	config   PipelineConfig
}

// NewPipeline wires a pipeline. archive may be nil to skip archiving.
func NewPipeline(
	search CandidateSource,
	feeds ArticleSource,
	dedup *DuplicateStore,
	scraper ContentScraper,
	notifier Notifier,
	archive Archiver,
	config PipelineConfig,
) *Pipeline {
	if config.Concurrency <= 0 {
		config.Concurrency = 5
	}

	return &Pipeline{
		search:   search,
		feeds:    feeds,
		dedup:    dedup,
		scraper:  scraper,
		notifier: notifier,
		archive:  archive,
		config:   config,
	}
}

// RunCycle performs one full discovery cycle: gather candidates from
// feeds and search, keep only URLs never seen before, scrape the
// survivors concurrently, and hand every survivor (scraped or not) to
// the notifier. It returns the number of articles handed off.
//
// Feeds are gathered before search, so when both discover the same URL
// in one cycle the richer feed record wins the dedup race. A URL that
// fails scraping stays marked as seen: it is never retried on a later
// run, and the operator learns about it from the failure reason on the
// notified record.
//
// Cancellation stops new scrapes but never rolls back duplicate store
// entries already committed; discovery is recorded independently of
// scrape success, so an interrupted run is safe to resume.
func (p *Pipeline) RunCycle(ctx context.Context) (int, error) {
	start := time.Now()
	log.Printf("INFO: Starting discovery cycle")

	// Gather.
	gathered := p.feeds.FetchAll(ctx, p.config.Feeds, p.config.Keywords)
	for _, c := range p.search.Search(ctx, p.config.Keywords) {
		article := NewArticle(c.Title, c.URL, c.Keyword)
		article.Source = c.Source
		gathered = append(gathered, article)
	}

	// Dedupe. Add is atomic check-and-add, so concurrent discoveries of
	// one URL resolve to exactly one winner here.
	var survivors []*Article
	persistFailures := 0
	for _, article := range gathered {
		added, err := p.dedup.Add(article.NormalizedURL)
		if err != nil {
			persistFailures++
			if errors.Is(err, ErrStorePersist) {
				log.Printf("ERROR: Duplicate store persist failed for %s: %v", article.NormalizedURL, err)
			}
		}
		if !added {
			log.Printf("INFO: Duplicate article skipped: %s (%s)", article.Title, article.NormalizedURL)
			continue
		}
		survivors = append(survivors, article)
	}

	if len(survivors) == 0 {
		log.Printf("INFO: Discovery cycle finished in %v: no new articles", time.Since(start))
		return 0, nil
	}

	// Scrape survivors with a bounded worker pool.
	if err := p.scrapeAll(ctx, survivors); err != nil {
		return 0, err
	}

	// Notify every survivor, scraped or not. A failed scrape still
	// reaches the operator, with its failure reason attached.
	notified := 0
	for _, article := range survivors {
		if err := p.notifier.Notify(ctx, article.Export()); err != nil {
			log.Printf("ERROR: Failed to notify for article %s (%s): %v", article.Title, article.URL, err)
			continue
		}
		notified++

		if p.archive != nil {
			if err := p.archive.Save(article); err != nil {
				log.Printf("WARN: Failed to archive article %s: %v", article.ID, err)
			}
		}
	}

	log.Printf("INFO: Discovery cycle finished in %v: %d new articles, %d notified, %d persist failures",
		time.Since(start), len(survivors), notified, persistFailures)

	return notified, nil
}

// scrapeAll runs scrapes concurrently up to the configured limit. On
// cancellation it stops issuing new scrapes, waits for in-flight ones,
// and returns the context error.
func (p *Pipeline) scrapeAll(ctx context.Context, articles []*Article) error {
	semaphore := make(chan struct{}, p.config.Concurrency)
	var wg sync.WaitGroup

	for _, article := range articles {
		select {
		case <-ctx.Done():
			wg.Wait()
			log.Printf("WARN: Scraping cancelled with articles outstanding")
			return ctx.Err()
		case semaphore <- struct{}{}:
		}

		wg.Add(1)
		go func(a *Article) {
			defer wg.Done()
			defer func() { <-semaphore }()

			p.scrapeArticle(ctx, a)
		}(article)
	}

	wg.Wait()
	return nil
}

// scrapeArticle enriches one article in place. Failures attach to the
// article instead of propagating; the scrape fields stay unset.
func (p *Pipeline) scrapeArticle(ctx context.Context, article *Article) {
	content, err := p.scraper.Scrape(ctx, article.URL)
	if err != nil {
		article.ScrapeError = err.Error()
		log.Printf("WARN: Scrape failed for %s: %v", article.URL, err)
		return
	}

	article.Content = content.Content
	article.Authors = content.Authors
	article.Source = content.Source
	article.PublishedDate = content.PublishedDate
	if content.Title != "" {
		article.Title = content.Title
	}
}

// Run executes cycles on a fixed interval until the context is
// cancelled, starting with an immediate cycle.
func (p *Pipeline) Run(ctx context.Context, interval time.Duration) error {
	if _, err := p.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("ERROR: Discovery cycle failed: %v", err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("INFO: Pipeline stopping (context cancelled)")
			return ctx.Err()
		case <-ticker.C:
			if _, err := p.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("ERROR: Discovery cycle failed: %v", err)
			}
		}
	}
}
