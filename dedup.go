package newswatch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// DuplicateStore is the persisted set of every normalized URL the
// pipeline has ever accepted, across all runs. The in-memory set is the
// authoritative read path; the newline-delimited backing file is an
// append-only write-ahead log that rebuilds the set at startup.
//
// Add is the single serialization point of the whole pipeline: when
// search and feeds discover the same URL concurrently, the mutex-guarded
// check-and-add resolves the race to exactly one winner.
type DuplicateStore struct {
	mu   sync.Mutex
	path string
	seen map[string]struct{}
}

// OpenDuplicateStore loads the persisted log at path into memory. A
// missing or empty file is a valid empty state, not an error.
func OpenDuplicateStore(path string) (*DuplicateStore, error) {
	store := &DuplicateStore{
		path: path,
		seen: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store, nil
		}
		return nil, fmt.Errorf("failed to read duplicate store %s: %w", path, err)
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			store.seen[line] = struct{}{}
		}
	}

	return store, nil
}

// Contains reports whether the normalized URL has been seen before.
func (s *DuplicateStore) Contains(normalized string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.seen[normalized]
	return ok
}

// Add records a normalized URL and returns true iff it was newly added.
// The membership check and the log append happen under one lock, so no
// two callers can both win for the same URL.
//
// When the append fails the URL stays in the in-memory set and the
// error is returned alongside added=true: the current run keeps
// behaving consistently at the cost of durability for that entry.
func (s *DuplicateStore) Add(normalized string) (bool, error) {
	if normalized == "" {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seen[normalized]; ok {
		return false, nil
	}
	s.seen[normalized] = struct{}{}

	if err := s.append(normalized); err != nil {
		return true, fmt.Errorf("%w: %v", ErrStorePersist, err)
	}

	return true, nil
}

// Len returns the number of URLs currently known to the store.
func (s *DuplicateStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.seen)
}

func (s *DuplicateStore) append(normalized string) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}

	if _, err := f.WriteString(normalized + "\n"); err != nil {
		f.Close()
		return err
	}

	return f.Close()
}
