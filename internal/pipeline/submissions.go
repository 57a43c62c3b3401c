package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

// submissionsURLFor builds the submissions API URL for a padded CIK.
// Variable so tests can point it at a local server.
var submissionsURLFor = func(cik string) string {
	return fmt.Sprintf("https://data.sec.gov/submissions/CIK%s.json", cik)
}

// submissionsDoc is the subset of the submissions JSON the backfill needs.
// The recent block is column-oriented: parallel arrays indexed per filing.
type submissionsDoc struct {
	CIK     json.Number `json:"cik"`
	Name    string      `json:"name"`
	Filings struct {
		Recent struct {
			AccessionNumber []string `json:"accessionNumber"`
			FilingDate      []string `json:"filingDate"`
			Form            []string `json:"form"`
			PrimaryDocument []string `json:"primaryDocument"`
		} `json:"recent"`
	} `json:"filings"`
}

// FetchSubmissions retrieves a company's recent filings from the submissions
// API, falling back to the legacy alias CIK when the primary record 404s.
func (f *Fetcher) FetchSubmissions(ctx context.Context, cik string) (*submissionsDoc, error) {
	body, err := f.Fetch(ctx, submissionsURLFor(cik))
	if err != nil {
		alias, ok := cikAliases[cik]
		if !ok {
			return nil, fmt.Errorf("fetch submissions for %s: %w", cik, err)
		}
		fmt.Fprintf(os.Stderr, "  retrying submissions with alias CIK %s for %s\n", alias, cik)
		body, err = f.Fetch(ctx, submissionsURLFor(alias))
		if err != nil {
			return nil, fmt.Errorf("fetch submissions for %s (alias %s): %w", cik, alias, err)
		}
	}

	var doc submissionsDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse submissions for %s: %w", cik, err)
	}
	return &doc, nil
}

// RecentFilings flattens the column-oriented recent block into filing
// references, keeping only target forms filed on or after the cutoff.
func (d *submissionsDoc) RecentFilings(targetForms map[string]bool, cutoff time.Time) []model.FilingRef {
	recent := d.Filings.Recent
	n := len(recent.Form)
	if len(recent.FilingDate) < n {
		n = len(recent.FilingDate)
	}
	if len(recent.AccessionNumber) < n {
		n = len(recent.AccessionNumber)
	}
	if len(recent.PrimaryDocument) < n {
		n = len(recent.PrimaryDocument)
	}

	cik := padCIK(d.CIK.String())
	var refs []model.FilingRef
	for i := 0; i < n; i++ {
		form := strings.ToUpper(recent.Form[i])
		if !targetForms[form] {
			continue
		}
		filed, err := time.Parse("2006-01-02", recent.FilingDate[i])
		if err != nil || filed.Before(cutoff) {
			continue
		}

		indexURL, primaryURL := BuildDocURLs(cik, recent.AccessionNumber[i], recent.PrimaryDocument[i])
		refs = append(refs, model.FilingRef{
			Company:    d.Name,
			CIK:        cik,
			Form:       form,
			FilingDate: recent.FilingDate[i],
			IndexURL:   indexURL,
			PrimaryURL: primaryURL,
		})
	}
	return refs
}

// BuildDocURLs derives the archive index and primary-document URLs from a
// filing's accession number. Archive paths use the unpadded CIK and the
// accession number with dashes stripped.
func BuildDocURLs(cik10, accession, primary string) (indexURL, primaryURL string) {
	cik := cik10
	if n, err := strconv.Atoi(cik10); err == nil {
		cik = strconv.Itoa(n)
	}
	acc := strings.ReplaceAll(accession, "-", "")
	base := fmt.Sprintf("https://www.sec.gov/Archives/edgar/data/%s/%s/", cik, acc)
	return base + acc + "-index.htm", base + primary
}
