package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/edgarwatch/edgarwatch/internal/classify"
	"github.com/edgarwatch/edgarwatch/internal/dedupe"
	"github.com/edgarwatch/edgarwatch/internal/lexicon"
	"github.com/edgarwatch/edgarwatch/internal/model"
)

const filingHTML = `<html><body>
<p>Item 8.01 Other Events.</p>
<p>On August 15, 2026, the Bureau of Industry and Security informed the
Company that a license is now required for exports of certain products to
customers in China, effective immediately.</p>
</body></html>`

func TestProcessFiling_NewVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Archives/edgar/data/1045810/acc/nvda-8k.htm":
			w.Write([]byte(filingHTML))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	classifier := classify.New(classify.Options{
		Lexicon: lexicon.ExportControl(),
		Store:   dedupe.NewStore(),
	})
	m := NewMonitor(MonitorOptions{
		Fetcher:    newTestFetcher(t),
		Classifier: classifier,
	})

	ref := model.FilingRef{
		Company:    "NVIDIA Corp",
		CIK:        "0001045810",
		Ticker:     "NVDA",
		Form:       "8-K",
		FilingDate: "2026-08-20",
		IndexURL:   server.URL + "/Archives/edgar/data/1045810/acc/acc-index.htm",
		PrimaryURL: server.URL + "/Archives/edgar/data/1045810/acc/nvda-8k.htm",
	}

	verdict, err := m.ProcessFiling(context.Background(), ref)
	if err != nil {
		t.Fatalf("ProcessFiling failed: %v", err)
	}
	if verdict.Label != model.LabelNew {
		t.Errorf("Expected NEW for fresh concrete disclosure, got %s (%s)", verdict.Label, verdict.Reason)
	}
	if !m.seen.Contains(ref.IndexURL) {
		t.Error("Expected filing marked as seen")
	}
}

func TestProcessFiling_ResolvesPrimaryFromIndex(t *testing.T) {
	var docServed bool
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/Archives/edgar/data/1/acc/acc-index.htm":
			w.Write([]byte(`<html><body><a href="acc-index.htm">index</a><a href="doc.htm">doc</a></body></html>`))
		case "/Archives/edgar/data/1/acc/doc.htm":
			docServed = true
			w.Write([]byte("<html><body>Routine quarterly update.</body></html>"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	classifier := classify.New(classify.Options{
		Lexicon: lexicon.ExportControl(),
		Store:   dedupe.NewStore(),
	})
	m := NewMonitor(MonitorOptions{
		Fetcher:    newTestFetcher(t),
		Classifier: classifier,
	})

	ref := model.FilingRef{
		CIK:      "0000000001",
		Form:     "10-Q",
		IndexURL: server.URL + "/Archives/edgar/data/1/acc/acc-index.htm",
	}

	verdict, err := m.ProcessFiling(context.Background(), ref)
	if err != nil {
		t.Fatalf("ProcessFiling failed: %v", err)
	}
	if !docServed {
		t.Error("Expected primary document resolved from the index page")
	}
	if verdict.Label != model.LabelBoilerplate || verdict.Reason != model.ReasonNoMatch {
		t.Errorf("Expected no-match boilerplate, got %+v", verdict)
	}
}

func TestProcessFiling_MarksSeenOnFetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer server.Close()

	m := NewMonitor(MonitorOptions{
		Fetcher: newTestFetcher(t),
		Classifier: classify.New(classify.Options{
			Lexicon: lexicon.ExportControl(),
			Store:   dedupe.NewStore(),
		}),
	})

	ref := model.FilingRef{CIK: "0000000001", Form: "8-K", IndexURL: server.URL + "/missing-index.htm"}
	if _, err := m.ProcessFiling(context.Background(), ref); err == nil {
		t.Error("Expected error for failed fetch")
	}
	if !m.seen.Contains(ref.IndexURL) {
		t.Error("Expected failed filing still marked seen")
	}
}
