package pipeline

import (
	"context"
	"fmt"
	"io"
	"math"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/cache"
	"github.com/edgarwatch/edgarwatch/internal/model"
	"github.com/edgarwatch/edgarwatch/internal/util"
	"github.com/edgarwatch/edgarwatch/internal/worker"
)

const (
	retryBackoffBase = 1.5
	retryBackoffCap  = 8 * time.Second
)

// Fetcher retrieves EDGAR pages with per-domain rate limiting, retry with
// backoff on throttling statuses, and an optional fetch cache for backfill.
type Fetcher struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	robots     *util.RobotsChecker // nil when disabled
	cache      cache.Cache         // nil when disabled
	userAgent  string
	maxBytes   int64
	maxRetries int
}

// NewFetcher creates a Fetcher from HTTP config. EDGAR's fair-access policy
// caps clients at 10 req/s; both SEC hosts get the configured rate.
func NewFetcher(cfg model.HTTPConfig, store cache.Cache) *Fetcher {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
	limiter.SetDomainRate("www.sec.gov", cfg.RequestsPerSecond, cfg.Burst)
	limiter.SetDomainRate("data.sec.gov", cfg.RequestsPerSecond, cfg.Burst)

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(cfg.UserAgent, cfg.Timeout)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 4
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(cfg.HTTPProxy, cfg.HTTPSProxy, ""),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		limiter:    limiter,
		robots:     robots,
		cache:      store,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		maxRetries: maxRetries,
	}
}

// Fetch retrieves a URL's body. Cached responses bypass the network.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	if f.cache != nil {
		if body, found := f.cache.Get(cache.CacheKey(rawURL)); found {
			return body, nil
		}
	}

	if f.robots != nil && !f.robots.IsAllowed(ctx, rawURL) {
		return nil, fmt.Errorf("robots.txt disallows %s", rawURL)
	}

	body, err := f.fetchWithRetry(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		if err := f.cache.Set(cache.CacheKey(rawURL), body, 0); err != nil {
			fmt.Fprintf(os.Stderr, "  cache write failed for %s: %v\n", rawURL, err)
		}
	}
	return body, nil
}

// fetchWithRetry performs the request, backing off on 403/429/503 and on
// transport errors up to maxRetries attempts.
func (f *Fetcher) fetchWithRetry(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < f.maxRetries; attempt++ {
		if err := f.limiter.Wait(ctx, rawURL); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}

		body, retryable, err := f.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			return nil, err
		}

		delay := backoffDelay(attempt)
		fmt.Fprintf(os.Stderr, "  [backoff] %v, retrying %s in %s\n", err, rawURL, delay.Round(100*time.Millisecond))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
	return nil, fmt.Errorf("giving up on %s: %w", rawURL, lastErr)
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/json;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, true, fmt.Errorf("throttled: %d %s", resp.StatusCode, resp.Status)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, false, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, true, fmt.Errorf("read body: %w", err)
	}
	return data, false, nil
}

func backoffDelay(attempt int) time.Duration {
	delay := time.Duration(math.Pow(retryBackoffBase, float64(attempt)) * float64(time.Second))
	if delay > retryBackoffCap {
		delay = retryBackoffCap
	}
	jitter := time.Duration(rand.Int63n(int64(500 * time.Millisecond)))
	return delay + jitter
}
