package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/acollier/newswatch"
	"github.com/acollier/newswatch/archive"
	"github.com/acollier/newswatch/config"
	"github.com/acollier/newswatch/extractor"
	"github.com/acollier/newswatch/notify"
)

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	// A missing .env file is fine; plain environment variables work too.
	if err := godotenv.Load(); err != nil {
		log.Printf("WARN: .env file not loaded: %v (using environment variables only)", err)
	}

	configPath := flag.String("config", getEnv("NEWSWATCH_CONFIG", "newswatch.yaml"), "Path to YAML config file (NEWSWATCH_CONFIG)")
	interval := flag.Duration("interval", 0, "Run a cycle on this interval; 0 runs a single cycle and exits")
	dryRun := flag.Bool("dry-run", false, "Log alerts instead of sending email")
	dump := flag.Int("dump", 0, "Print the N most recently archived articles and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Archive is also the -dump data source, so open it first.
	archiveStore, err := archive.NewStore(cfg.ArchivePath)
	if err != nil {
		log.Fatalf("Failed to open article archive: %v", err)
	}
	defer archiveStore.Close()

	if *dump > 0 {
		dumpRecent(archiveStore, *dump)
		return
	}

	log.Printf("INFO: Opening duplicate store: %s", cfg.SeenURLsPath)
	dedup, err := newswatch.OpenDuplicateStore(cfg.SeenURLsPath)
	if err != nil {
		log.Fatalf("Failed to open duplicate store: %v", err)
	}
	log.Printf("INFO: Duplicate store loaded with %d known URLs", dedup.Len())

	search := newswatch.NewSearchClient(cfg.APIKey, cfg.EngineID)
	search.DateRestrict = cfg.DateRestrict
	feeds := newswatch.NewFeedFetcher()
	scraper := newswatch.NewScraper(extractor.New(), newswatch.DefaultSourceMap(), time.Duration(cfg.FetchTimeout))

	notifier, err := buildNotifier(cfg, *dryRun)
	if err != nil {
		log.Fatalf("Failed to configure notifier: %v", err)
	}

	pipeline := newswatch.NewPipeline(search, feeds, dedup, scraper, notifier, archiveStore, newswatch.PipelineConfig{
		Keywords:    cfg.Keywords,
		Feeds:       cfg.Feeds,
		Concurrency: cfg.Concurrency,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *interval > 0 {
		log.Printf("INFO: Running discovery every %v", *interval)
		if err := pipeline.Run(ctx, *interval); err != nil && !errors.Is(err, context.Canceled) {
			log.Fatalf("Pipeline stopped: %v", err)
		}
		return
	}

	if _, err := pipeline.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Discovery cycle failed: %v", err)
	}
}

// buildNotifier picks the email notifier when configured, and the log
// notifier for dry runs or when email settings are absent.
func buildNotifier(cfg *config.Config, dryRun bool) (newswatch.Notifier, error) {
	if dryRun || cfg.Email.Host == "" {
		if !dryRun {
			log.Printf("WARN: No email host configured; alerts will only be logged")
		}
		return notify.LogNotifier{}, nil
	}

	return notify.NewEmailNotifier(cfg.Email.Host, cfg.Email.Port, cfg.Email.From, cfg.Email.Password, cfg.Email.To)
}

func dumpRecent(store *archive.Store, n int) {
	records, err := store.Recent(n)
	if err != nil {
		log.Fatalf("Failed to read archive: %v", err)
	}

	for _, rec := range records {
		fmt.Printf("%s | %s | %s | keyword=%s", rec.PublishedDate, rec.Source, rec.Title, rec.Keyword)
		if rec.ScrapeError != "" {
			fmt.Printf(" | scrape failed: %s", rec.ScrapeError)
		}
		fmt.Printf("\n  %s\n", rec.URL)
	}
}
