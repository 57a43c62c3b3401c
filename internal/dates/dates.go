// Package dates extracts explicit natural-language dates from filing text
// and decides whether a referenced event is stale relative to a filing date.
package dates

import (
	"regexp"
	"strings"
	"time"
)

const months = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// datePat matches "Month D, YYYY" (optionally prefixed with "on") and
// "Month YYYY". Month names may be abbreviated.
var datePat = regexp.MustCompile(`(?i)(?:(?:on\s+)?` + months + `\s+\d{1,2},\s*\d{4}|` + months + `\s+\d{4})`)

// parse layouts tried in order against each candidate.
var layouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2006",
	"Jan 2006",
}

// Extract returns every parseable explicit date in the text, in order of
// appearance. Candidates matching the pattern but failing to parse are
// silently dropped; malformed text is absence of evidence, never an error.
func Extract(text string) []time.Time {
	var out []time.Time
	for _, raw := range datePat.FindAllString(text, -1) {
		s := strings.TrimSpace(raw)
		s = strings.TrimPrefix(strings.ToLower(s), "on ")
		s = titleCase(s)
		for _, layout := range layouts {
			if d, err := time.Parse(layout, s); err == nil {
				out = append(out, d.UTC())
				break
			}
		}
	}
	return out
}

// MostRecent returns the latest date in ts, or a zero time when ts is empty.
func MostRecent(ts []time.Time) time.Time {
	var max time.Time
	for _, t := range ts {
		if t.After(max) {
			max = t
		}
	}
	return max
}

// updateMarkers indicate the excerpt describes a fresh change to an older
// dated event, which exempts it from staleness.
var updateMarkers = []string{
	"updated", "subsequently", "later", "amended", "modified",
	"rescinded", "revoked", "extended", "effective immediately",
}

// IsStale reports whether the most recent explicit date in the excerpt is
// older than thresholdDays before the filing date, with no update language
// present. No extractable dates means not stale: absence of staleness
// evidence must not suppress an alert.
func IsStale(excerpt string, filingDate time.Time, thresholdDays int) bool {
	if filingDate.IsZero() {
		return false
	}

	found := Extract(excerpt)
	if len(found) == 0 {
		return false
	}

	ageDays := int(filingDate.Sub(MostRecent(found)).Hours() / 24)

	t := " " + strings.ToLower(excerpt) + " "
	for _, m := range updateMarkers {
		if strings.Contains(t, m) {
			return false
		}
	}

	return ageDays > thresholdDays
}

// titleCase uppercases the first letter of each word. strings.Title is
// deprecated and Unicode-aware casing is unnecessary for month names.
func titleCase(s string) string {
	var b strings.Builder
	prevSpace := true
	for _, r := range s {
		if prevSpace && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		prevSpace = r == ' '
		b.WriteRune(r)
	}
	return b.String()
}
