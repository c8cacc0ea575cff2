// Package archive keeps a durable record of every article the pipeline
// handed to the notifier, so the operator can review past alerts.
package archive

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/acollier/newswatch"
)

// Store is a SQLite-backed article archive.
type Store struct {
	db *sql.DB
}

// NewStore opens (creating if needed) the archive database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the articles table if it doesn't exist.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS articles (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		url TEXT NOT NULL,
		normalized_url TEXT NOT NULL,
		source TEXT,
		keyword TEXT,
		authors TEXT,
		content TEXT,
		published_date TEXT,
		scrape_error TEXT,
		created_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save inserts one article. Saving the same article ID twice is an
// error; the pipeline only archives an article once, at notify time.
func (s *Store) Save(a *newswatch.Article) error {
	authorsJSON, err := json.Marshal(a.Authors)
	if err != nil {
		return fmt.Errorf("failed to marshal authors: %w", err)
	}

	query := `
		INSERT INTO articles (
			id, title, url, normalized_url, source, keyword,
			authors, content, published_date, scrape_error, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.Exec(query,
		a.ID,
		a.Title,
		a.URL,
		a.NormalizedURL,
		a.Source,
		a.Keyword,
		string(authorsJSON),
		a.Content,
		a.PublishedDate,
		a.ScrapeError,
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to insert article: %w", err)
	}

	return nil
}

// Recent returns up to n of the most recently archived articles as
// notifier records, newest first.
func (s *Store) Recent(n int) ([]newswatch.Record, error) {
	query := `
		SELECT title, url, normalized_url, source, keyword,
		       authors, content, published_date, scrape_error
		FROM articles
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, n)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	var records []newswatch.Record
	for rows.Next() {
		var rec newswatch.Record
		var authorsJSON string

		if err := rows.Scan(
			&rec.Title, &rec.URL, &rec.NormalizedURL, &rec.Source,
			&rec.Keyword, &authorsJSON, &rec.Content,
			&rec.PublishedDate, &rec.ScrapeError,
		); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}

		if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil || rec.Authors == nil {
			rec.Authors = []string{}
		}

		records = append(records, rec)
	}

	return records, rows.Err()
}
