package cache

import (
	"strings"
	"testing"
	"time"
)

func TestCacheKey_Deterministic(t *testing.T) {
	url := "https://www.sec.gov/Archives/edgar/data/1045810/000104581025000001/nvda-8k.htm"

	k1 := CacheKey(url)
	k2 := CacheKey(url)
	if k1 != k2 {
		t.Errorf("Expected identical keys for the same URL, got %s and %s", k1, k2)
	}
	if !strings.HasPrefix(k1, "edgarwatch:v1:") {
		t.Errorf("Expected versioned key prefix, got %s", k1)
	}
	if k1 == CacheKey(url+"?x=1") {
		t.Error("Expected different keys for different URLs")
	}
}

func TestMemoryCache_RoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := CacheKey("https://data.sec.gov/submissions/CIK0001045810.json")
	if err := c.Set(key, []byte("body"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected cache hit")
	}
	if string(got) != "body" {
		t.Errorf("Expected 'body', got %q", got)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_ExpiresEntries(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := CacheKey("https://www.sec.gov/doc.htm")
	if err := c.Set(key, []byte("stale"), time.Nanosecond); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	time.Sleep(5 * time.Millisecond)
	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestDiskCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	key := CacheKey("https://www.sec.gov/doc.htm")

	if err := NewDiskCache(dir, time.Hour).Set(key, []byte("body"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, found := NewDiskCache(dir, time.Hour).Get(key)
	if !found {
		t.Fatal("Expected hit from a fresh cache over the same directory")
	}
	if string(got) != "body" {
		t.Errorf("Expected 'body', got %q", got)
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	key := CacheKey("https://www.sec.gov/doc.htm")

	// Seed only the disk layer, then read through a layered cache.
	if err := NewDiskCache(dir, time.Hour).Set(key, []byte("body"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	c := NewLayeredCache(time.Minute, dir, time.Hour)
	if _, found := c.Get(key); !found {
		t.Fatal("Expected layered cache to fall through to disk")
	}

	// A second read must come from memory even after the disk copy is gone.
	if err := c.disk.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); !found {
		t.Error("Expected promoted entry to hit in memory")
	}
}
