package pipeline

import (
	"context"
	"encoding/xml"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// currentFeedURL is EDGAR's global current-events feed, newest first.
const currentFeedURL = "https://www.sec.gov/cgi-bin/browse-edgar?action=getcurrent" +
	"&CIK=&type=&company=&dateb=&owner=include&start=%d&count=100&output=atom"

// Entry titles look like "8-K - NVIDIA CORP (0001045810) (Filer)".
var feedTitlePat = regexp.MustCompile(`^([\w\-/]+)\s+-\s+(.+?)\s+\((\d+)\)`)

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Links   []atomLink `xml:"link"`
	Updated string     `xml:"updated"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
}

// FeedEntry is one filing announced on the current-events feed.
type FeedEntry struct {
	Form    string
	Company string
	CIK     string // zero-padded to 10 digits
	URL     string
	Updated time.Time // zero when the timestamp is absent or malformed
}

// FetchCurrentFeed retrieves and parses one page of the global feed.
func (f *Fetcher) FetchCurrentFeed(ctx context.Context, start int) ([]FeedEntry, error) {
	body, err := f.Fetch(ctx, fmt.Sprintf(currentFeedURL, start))
	if err != nil {
		return nil, fmt.Errorf("fetch current feed: %w", err)
	}
	return ParseAtom(body)
}

// ParseAtom extracts filing entries from the feed XML. Entries whose title
// does not carry the form/company/CIK shape are skipped, not errors: the
// feed mixes in ownership forms with other title formats.
func ParseAtom(data []byte) ([]FeedEntry, error) {
	var feed atomFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse atom feed: %w", err)
	}

	var entries []FeedEntry
	for _, e := range feed.Entries {
		title := strings.TrimSpace(e.Title)
		m := feedTitlePat.FindStringSubmatch(title)
		if m == nil || len(e.Links) == 0 || e.Links[0].Href == "" {
			continue
		}

		var updated time.Time
		if e.Updated != "" {
			if t, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Updated)); err == nil {
				updated = t
			}
		}

		entries = append(entries, FeedEntry{
			Form:    strings.ToUpper(m[1]),
			Company: m[2],
			CIK:     padCIK(m[3]),
			URL:     strings.TrimSpace(e.Links[0].Href),
			Updated: updated,
		})
	}
	return entries, nil
}

// padCIK left-pads a CIK to 10 digits.
func padCIK(cik string) string {
	if len(cik) >= 10 {
		return cik
	}
	return strings.Repeat("0", 10-len(cik)) + cik
}
