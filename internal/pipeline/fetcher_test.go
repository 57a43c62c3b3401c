package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/cache"
	"github.com/edgarwatch/edgarwatch/internal/model"
)

func fetcherConfig() model.HTTPConfig {
	cfg := model.DefaultConfig().HTTP
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	cfg.Timeout = 5 * time.Second
	return cfg
}

func TestFetch_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got == "" {
			t.Error("Expected User-Agent header on request")
		}
		w.Write([]byte("<html><body>filing</body></html>"))
	}))
	defer server.Close()

	f := NewFetcher(fetcherConfig(), nil)
	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(body) != "<html><body>filing</body></html>" {
		t.Errorf("Unexpected body: %q", body)
	}
}

func TestFetch_RetryOnThrottle(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := fetcherConfig()
	cfg.MaxRetries = 4
	f := NewFetcher(cfg, nil)

	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected retry to succeed, got %v", err)
	}
	if string(body) != "ok" {
		t.Errorf("Unexpected body: %q", body)
	}
	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}
}

func TestFetch_GivesUpAfterRetries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cfg := fetcherConfig()
	cfg.MaxRetries = 2
	f := NewFetcher(cfg, nil)

	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error after exhausting retries")
	}
}

func TestFetch_NoRetryOnNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := NewFetcher(fetcherConfig(), nil)
	if _, err := f.Fetch(context.Background(), server.URL); err == nil {
		t.Error("Expected error for 404")
	}
	if calls.Load() != 1 {
		t.Errorf("Expected single attempt for 404, got %d", calls.Load())
	}
}

func TestFetch_BodySizeLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for i := 0; i < 1000; i++ {
			w.Write([]byte("0123456789"))
		}
	}))
	defer server.Close()

	cfg := fetcherConfig()
	cfg.MaxBodyBytes = 100
	f := NewFetcher(cfg, nil)

	body, err := f.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(body) != 100 {
		t.Errorf("Expected body truncated to 100 bytes, got %d", len(body))
	}
}

func TestFetch_CacheHit(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte("cached content"))
	}))
	defer server.Close()

	store := cache.NewMemoryCache(time.Minute, time.Minute)
	f := NewFetcher(fetcherConfig(), store)

	for i := 0; i < 3; i++ {
		body, err := f.Fetch(context.Background(), server.URL)
		if err != nil {
			t.Fatalf("Fetch %d failed: %v", i, err)
		}
		if string(body) != "cached content" {
			t.Errorf("Unexpected body: %q", body)
		}
	}
	if calls.Load() != 1 {
		t.Errorf("Expected 1 origin request with cache, got %d", calls.Load())
	}
}
