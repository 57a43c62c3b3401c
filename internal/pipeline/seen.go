package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// SeenSet tracks filing index URLs that have already been processed, so
// restarts and overlapping feed pages never reclassify the same filing.
type SeenSet struct {
	mu   sync.Mutex
	urls map[string]bool
	path string
}

// NewSeenSet creates an empty in-memory set.
func NewSeenSet() *SeenSet {
	return &SeenSet{urls: make(map[string]bool)}
}

// LoadSeen reads the seen set from disk. A missing or corrupt file yields
// an empty set: worst case some filings get reprocessed, and the event
// dedupe store suppresses repeat alerts.
func LoadSeen(path string) *SeenSet {
	s := &SeenSet{urls: make(map[string]bool), path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		fmt.Fprintf(os.Stderr, "warning: corrupt seen file %s, starting fresh: %v\n", path, err)
		return s
	}
	for _, u := range urls {
		s.urls[u] = true
	}
	return s
}

// Contains reports whether a filing URL was already processed.
func (s *SeenSet) Contains(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.urls[url]
}

// Add marks a filing URL as processed.
func (s *SeenSet) Add(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.urls[url] = true
}

// Len returns the number of tracked URLs.
func (s *SeenSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}

// Save writes the set atomically via a temp file rename.
func (s *SeenSet) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.Lock()
	urls := make([]string, 0, len(s.urls))
	for u := range s.urls {
		urls = append(urls, u)
	}
	s.mu.Unlock()
	sort.Strings(urls)

	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("marshal seen set: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write seen set: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace seen set: %w", err)
	}
	return nil
}
