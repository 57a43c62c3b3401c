// Package dedupe suppresses repeat alerts for the same underlying event
// across multiple filings. Two filings describing the same regulatory
// action collapse to the same content-derived signature.
package dedupe

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/dates"
)

// phraseFamilies identify the regulatory action an excerpt describes. The
// first family found wins; excerpts with none fall into a generic bucket.
var phraseFamilies = []string{
	"license is now required",
	"license was required",
	"license required for",
	"license required to",
	"added to entity list",
	"removed from entity list",
	"bis informed",
	"bis issued",
	"bis published",
	"export control classification",
	"restoring access",
	"effective immediately",
	"unauthorized access",
	"ransomware",
	"threat actor",
}

const genericFamily = "generic-event"

// Signature reduces an excerpt to a fixed-length digest of
// (phrase family, most recent explicit date). Deterministic, and
// deliberately collision-tolerant: different prose around the same action
// and date produces the same digest.
func Signature(excerpt string) string {
	t := strings.ToLower(excerpt)

	fam := genericFamily
	for _, f := range phraseFamilies {
		if strings.Contains(t, f) {
			fam = f
			break
		}
	}

	mostRecent := "no-date"
	if found := dates.Extract(excerpt); len(found) > 0 {
		mostRecent = dates.MostRecent(found).Format("2006-01-02")
	}

	sum := sha1.Sum([]byte(fam + "|" + mostRecent))
	return hex.EncodeToString(sum[:])
}

// Store maps entity IDs to previously alerted event signatures with
// timestamps. Entries outside the dedupe window are expired lazily at
// lookup and never proactively purged; growth is bounded by entity count
// times distinct signatures, not filing volume.
type Store struct {
	mu     sync.RWMutex
	events map[string]map[string]time.Time
	path   string // empty for a purely in-memory store
	now    func() time.Time
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		events: make(map[string]map[string]time.Time),
		now:    time.Now,
	}
}

// persisted is the on-disk JSON shape: entity -> signature -> RFC3339 time.
type persisted map[string]map[string]string

// Load reads a store from path. A missing or corrupt file yields an empty
// store, never an error: losing dedupe state means at worst a repeated
// alert, which beats refusing to start.
func Load(path string) *Store {
	s := NewStore()
	s.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}

	var raw persisted
	if err := json.Unmarshal(data, &raw); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: dedupe store %s unreadable, starting empty: %v\n", path, err)
		return s
	}

	for entity, sigs := range raw {
		m := make(map[string]time.Time, len(sigs))
		for sig, ts := range sigs {
			t, err := time.Parse(time.RFC3339, ts)
			if err != nil {
				continue
			}
			m[sig] = t
		}
		s.events[entity] = m
	}
	return s
}

// Save writes the store to its path atomically (write temp, then rename).
// No-op for in-memory stores.
func (s *Store) Save() error {
	if s.path == "" {
		return nil
	}

	s.mu.RLock()
	raw := make(persisted, len(s.events))
	for entity, sigs := range s.events {
		m := make(map[string]string, len(sigs))
		for sig, t := range sigs {
			m[sig] = t.UTC().Format(time.RFC3339)
		}
		raw[entity] = m
	}
	s.mu.RUnlock()

	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal dedupe store: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create state dir: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write dedupe store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace dedupe store: %w", err)
	}
	return nil
}

// Record stores a signature for an entity at the given time.
func (s *Store) Record(entityID, signature string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.events[entityID]
	if !ok {
		m = make(map[string]time.Time)
		s.events[entityID] = m
	}
	m[signature] = at
}

// IsRecent reports whether the signature was alerted for this entity within
// windowDays of now. Stale entries are left in place (lazy expiry).
func (s *Store) IsRecent(entityID, signature string, windowDays int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	last, ok := s.events[entityID][signature]
	if !ok {
		return false
	}
	return s.now().Sub(last) <= time.Duration(windowDays)*24*time.Hour
}
