package pipeline

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

const sampleSubmissions = `{
  "cik": 1045810,
  "name": "NVIDIA CORP",
  "filings": {
    "recent": {
      "accessionNumber": ["0001045810-26-000010", "0001045810-26-000005", "0001045810-25-000200"],
      "filingDate": ["2026-08-20", "2026-07-01", "2025-01-15"],
      "form": ["8-K", "4", "10-K"],
      "primaryDocument": ["nvda-8k.htm", "xslF345X05/form4.xml", "nvda-10k.htm"]
    }
  }
}`

func targetForms() map[string]bool {
	return map[string]bool{"8-K": true, "10-Q": true, "10-K": true, "6-K": true}
}

func TestRecentFilings(t *testing.T) {
	var doc submissionsDoc
	if err := json.Unmarshal([]byte(sampleSubmissions), &doc); err != nil {
		t.Fatalf("Failed to parse sample: %v", err)
	}

	cutoff := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	refs := doc.RecentFilings(targetForms(), cutoff)

	// The Form 4 is not a target form and the 10-K predates the cutoff.
	if len(refs) != 1 {
		t.Fatalf("Expected 1 filing, got %d", len(refs))
	}
	ref := refs[0]
	if ref.Form != "8-K" || ref.FilingDate != "2026-08-20" {
		t.Errorf("Unexpected filing: %+v", ref)
	}
	if ref.CIK != "0001045810" {
		t.Errorf("Expected padded CIK, got %s", ref.CIK)
	}
	wantIndex := "https://www.sec.gov/Archives/edgar/data/1045810/000104581026000010/000104581026000010-index.htm"
	if ref.IndexURL != wantIndex {
		t.Errorf("Expected index URL %s, got %s", wantIndex, ref.IndexURL)
	}
	wantPrimary := "https://www.sec.gov/Archives/edgar/data/1045810/000104581026000010/nvda-8k.htm"
	if ref.PrimaryURL != wantPrimary {
		t.Errorf("Expected primary URL %s, got %s", wantPrimary, ref.PrimaryURL)
	}
}

func TestRecentFilings_RaggedColumns(t *testing.T) {
	var doc submissionsDoc
	raw := `{
	  "cik": 50863,
	  "name": "INTEL CORP",
	  "filings": {"recent": {
	    "accessionNumber": ["0000050863-26-000001"],
	    "filingDate": ["2026-08-01", "2026-07-01"],
	    "form": ["8-K", "8-K"],
	    "primaryDocument": ["intc-8k.htm"]
	  }}
	}`
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		t.Fatalf("Failed to parse sample: %v", err)
	}

	refs := doc.RecentFilings(targetForms(), time.Time{})
	if len(refs) != 1 {
		t.Errorf("Expected ragged columns truncated to 1 filing, got %d", len(refs))
	}
}

func TestBuildDocURLs(t *testing.T) {
	index, primary := BuildDocURLs("0000813672", "0000813672-25-000093", "cdns-20250702.htm")
	wantIndex := "https://www.sec.gov/Archives/edgar/data/813672/000081367225000093/000081367225000093-index.htm"
	if index != wantIndex {
		t.Errorf("Expected %s, got %s", wantIndex, index)
	}
	wantPrimary := "https://www.sec.gov/Archives/edgar/data/813672/000081367225000093/cdns-20250702.htm"
	if primary != wantPrimary {
		t.Errorf("Expected %s, got %s", wantPrimary, primary)
	}
}

func TestFetchSubmissions_AliasFallback(t *testing.T) {
	hits := make(map[string]int)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits[r.URL.Path]++
		if r.URL.Path == "/submissions/CIK0000707388.json" {
			w.Write([]byte(`{"cik": 707388, "name": "ONTO INNOVATION INC", "filings": {"recent": {"accessionNumber": [], "filingDate": [], "form": [], "primaryDocument": []}}}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	f := newTestFetcher(t)
	orig := submissionsURLFor
	submissionsURLFor = func(cik string) string { return server.URL + "/submissions/CIK" + cik + ".json" }
	defer func() { submissionsURLFor = orig }()

	doc, err := f.FetchSubmissions(context.Background(), "0001784048")
	if err != nil {
		t.Fatalf("Expected alias fallback to succeed, got %v", err)
	}
	if doc.Name != "ONTO INNOVATION INC" {
		t.Errorf("Expected alias company name, got %s", doc.Name)
	}
	if hits["/submissions/CIK0001784048.json"] == 0 {
		t.Error("Expected primary CIK to be tried first")
	}
}

func newTestFetcher(t *testing.T) *Fetcher {
	t.Helper()
	cfg := model.DefaultConfig().HTTP
	cfg.RequestsPerSecond = 1000
	cfg.Burst = 1000
	cfg.MaxRetries = 1
	return NewFetcher(cfg, nil)
}
