// Package pipeline discovers filings on EDGAR and drives them through the
// classifier: the current-events Atom feed for polling, the submissions API
// for startup backfill.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/classify"
	"github.com/edgarwatch/edgarwatch/internal/dedupe"
	"github.com/edgarwatch/edgarwatch/internal/model"
	"github.com/edgarwatch/edgarwatch/internal/worker"
)

// Monitor polls EDGAR for new filings from the tracked universe and
// classifies each one exactly once.
type Monitor struct {
	fetcher    *Fetcher
	classifier *classify.Classifier
	universe   Universe
	targetCIKs map[string]bool
	forms      map[string]bool
	seen       *SeenSet
	events     *dedupe.Store

	interval     time.Duration
	backfillDays int
	workers      int
	verbose      bool
}

// MonitorOptions configures a Monitor.
type MonitorOptions struct {
	Fetcher      *Fetcher
	Classifier   *classify.Classifier
	Universe     Universe
	TargetForms  []string
	Seen         *SeenSet
	Events       *dedupe.Store
	Interval     time.Duration
	BackfillDays int
	Workers      int
	Verbose      bool
}

// NewMonitor creates a Monitor.
func NewMonitor(opts MonitorOptions) *Monitor {
	if opts.Universe == nil {
		opts.Universe = DefaultUniverse()
	}
	if opts.Seen == nil {
		opts.Seen = NewSeenSet()
	}
	if opts.Interval <= 0 {
		opts.Interval = 15 * time.Minute
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}

	forms := make(map[string]bool, len(opts.TargetForms))
	for _, f := range opts.TargetForms {
		forms[strings.ToUpper(f)] = true
	}
	if len(forms) == 0 {
		forms = map[string]bool{"8-K": true, "10-Q": true, "10-K": true, "6-K": true}
	}

	return &Monitor{
		fetcher:      opts.Fetcher,
		classifier:   opts.Classifier,
		universe:     opts.Universe,
		targetCIKs:   opts.Universe.CIKs(),
		forms:        forms,
		seen:         opts.Seen,
		events:       opts.Events,
		interval:     opts.Interval,
		backfillDays: opts.BackfillDays,
		workers:      opts.Workers,
		verbose:      opts.Verbose,
	}
}

// ProcessFiling fetches, extracts, and classifies one filing. The filing is
// marked seen even when the fetch fails, matching the at-most-once contract:
// a broken document never blocks the poll loop on retry loops.
func (m *Monitor) ProcessFiling(ctx context.Context, ref model.FilingRef) (*model.Verdict, error) {
	defer m.seen.Add(ref.IndexURL)

	ticker := ref.Ticker
	if ticker == "" {
		ticker = m.universe.TickerFor(ref.CIK)
	}
	fmt.Printf("\n→ %s — %s (%s) — filed %s\n  %s\n", ref.Form, ref.Company, ticker, ref.FilingDate, ref.IndexURL)

	text, err := m.fetchFilingText(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("fetch filing: %w", err)
	}

	var filedAt time.Time
	if ref.FilingDate != "" {
		if t, perr := time.Parse("2006-01-02", ref.FilingDate); perr == nil {
			filedAt = t.UTC()
		}
	}

	verdict := m.classifier.Classify(ctx, model.Document{
		Text:      text,
		EntityID:  ref.CIK,
		Ticker:    ticker,
		Company:   ref.Company,
		Form:      ref.Form,
		FiledAt:   filedAt,
		SourceURL: ref.IndexURL,
	})
	fmt.Printf("  verdict: %s (%s)\n", verdict.Label, verdict.Reason)
	if m.verbose && verdict.Excerpt != "" {
		fmt.Printf("  excerpt: %.600s\n", strings.ReplaceAll(verdict.Excerpt, "\n", " "))
	}
	return &verdict, nil
}

// fetchFilingText retrieves the filing's primary document, falling back to
// resolving it from the index page when the direct URL fails.
func (m *Monitor) fetchFilingText(ctx context.Context, ref model.FilingRef) (string, error) {
	if ref.PrimaryURL != "" && ref.PrimaryURL != ref.IndexURL {
		if body, err := m.fetcher.Fetch(ctx, ref.PrimaryURL); err == nil {
			return HTMLToText(string(body)), nil
		}
	}

	body, err := m.fetcher.Fetch(ctx, ref.IndexURL)
	if err != nil {
		return "", err
	}
	indexHTML := string(body)

	docURL := PickPrimaryDoc(indexHTML, ref.IndexURL)
	if docURL == "" || docURL == ref.IndexURL {
		return HTMLToText(indexHTML), nil
	}
	docBody, err := m.fetcher.Fetch(ctx, docURL)
	if err != nil {
		return HTMLToText(indexHTML), nil
	}
	return HTMLToText(string(docBody)), nil
}

// Backfill classifies target filings from the last n days for every tracked
// company via the submissions API, skipping already-seen filings.
func (m *Monitor) Backfill(ctx context.Context, days int) error {
	fmt.Printf("[backfill] scanning last %d day(s) across %d companies\n", days, len(m.universe))
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	var refs []model.FilingRef
	for ticker, info := range m.universe {
		doc, err := m.fetcher.FetchSubmissions(ctx, info.CIK)
		if err != nil {
			fmt.Fprintf(os.Stderr, "  [backfill] %s: %v\n", ticker, err)
			continue
		}
		candidates := doc.RecentFilings(m.forms, cutoff)
		kept := 0
		for _, ref := range candidates {
			if m.seen.Contains(ref.IndexURL) {
				continue
			}
			ref.Ticker = ticker
			refs = append(refs, ref)
			kept++
		}
		fmt.Printf("  [backfill] %s: %d candidate(s) in window, %d to process\n", ticker, len(candidates), kept)
	}

	if len(refs) == 0 {
		fmt.Println("  [backfill] nothing new in window")
		return m.saveState()
	}

	batch := worker.NewBatchProcessor(m, m.workers)
	results := batch.Process(ctx, refs)
	for _, r := range results {
		if r.Error != nil {
			fmt.Fprintf(os.Stderr, "  [backfill] %s: %v\n", r.Ref.IndexURL, r.Error)
		}
	}
	fmt.Printf("  [backfill] processed %d filing(s)\n", len(results))
	return m.saveState()
}

// PollOnce checks the current-events feed for new target filings and
// classifies them.
func (m *Monitor) PollOnce(ctx context.Context) error {
	entries, err := m.fetcher.FetchCurrentFeed(ctx, 0)
	if err != nil {
		return fmt.Errorf("poll feed: %w", err)
	}

	var refs []model.FilingRef
	for _, e := range entries {
		if !m.targetCIKs[e.CIK] || !m.forms[e.Form] || m.seen.Contains(e.URL) {
			continue
		}
		filingDate := ""
		if !e.Updated.IsZero() {
			filingDate = e.Updated.UTC().Format("2006-01-02")
		}
		refs = append(refs, model.FilingRef{
			Company:    e.Company,
			CIK:        e.CIK,
			Ticker:     m.universe.TickerFor(e.CIK),
			Form:       e.Form,
			FilingDate: filingDate,
			IndexURL:   e.URL,
		})
	}

	if len(refs) == 0 {
		fmt.Println("  no new filings for target companies")
		return m.saveState()
	}

	fmt.Printf("  found %d new filing(s) for target companies\n", len(refs))
	for _, ref := range refs {
		if _, err := m.ProcessFiling(ctx, ref); err != nil {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", ref.IndexURL, err)
		}
	}
	return m.saveState()
}

// Run executes the monitor loop: optional backfill, then repeated polls
// until the context is canceled. With runOnce, a single poll and return.
func (m *Monitor) Run(ctx context.Context, runOnce bool) error {
	if m.backfillDays > 0 {
		if err := m.Backfill(ctx, m.backfillDays); err != nil {
			fmt.Fprintf(os.Stderr, "backfill: %v\n", err)
		}
	}

	for {
		fmt.Printf("\n[%s] checking EDGAR feed\n", time.Now().Format("2006-01-02 15:04:05"))
		if err := m.PollOnce(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(os.Stderr, "poll: %v\n", err)
		}

		if runOnce {
			return nil
		}

		select {
		case <-ctx.Done():
			return m.saveState()
		case <-time.After(m.interval):
		}
	}
}

// saveState persists the seen set and the event dedupe store.
func (m *Monitor) saveState() error {
	if err := m.seen.Save(); err != nil {
		return fmt.Errorf("save seen state: %w", err)
	}
	if m.events != nil {
		if err := m.events.Save(); err != nil {
			return fmt.Errorf("save event state: %w", err)
		}
	}
	return nil
}
