package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSeenSet_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")

	s := LoadSeen(path)
	if s.Len() != 0 {
		t.Fatalf("Expected empty set for missing file, got %d", s.Len())
	}

	s.Add("https://www.sec.gov/a-index.htm")
	s.Add("https://www.sec.gov/b-index.htm")
	s.Add("https://www.sec.gov/a-index.htm")
	if s.Len() != 2 {
		t.Errorf("Expected 2 entries, got %d", s.Len())
	}

	if err := s.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded := LoadSeen(path)
	if loaded.Len() != 2 {
		t.Errorf("Expected 2 entries after reload, got %d", loaded.Len())
	}
	if !loaded.Contains("https://www.sec.gov/a-index.htm") {
		t.Error("Expected persisted URL to be present")
	}
	if loaded.Contains("https://www.sec.gov/c-index.htm") {
		t.Error("Expected unknown URL to be absent")
	}
}

func TestLoadSeen_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seen.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := LoadSeen(path)
	if s.Len() != 0 {
		t.Errorf("Expected fresh set for corrupt file, got %d entries", s.Len())
	}

	// The set must still be usable and saveable.
	s.Add("https://www.sec.gov/x-index.htm")
	if err := s.Save(); err != nil {
		t.Fatalf("Save after corrupt load failed: %v", err)
	}
}
