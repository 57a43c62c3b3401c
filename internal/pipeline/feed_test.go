package pipeline

import (
	"testing"
	"time"
)

const sampleAtom = `<?xml version="1.0" encoding="ISO-8859-1" ?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Latest Filings - Sat, 30 Aug 2026</title>
  <entry>
    <title>8-K - NVIDIA CORP (0001045810) (Filer)</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/Archives/edgar/data/1045810/000104581026000001/0001045810-26-000001-index.htm"/>
    <updated>2026-08-30T12:04:05-04:00</updated>
  </entry>
  <entry>
    <title>10-Q - Some Fund LP (1234567) (Filer)</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/example"/>
    <updated>not-a-timestamp</updated>
  </entry>
  <entry>
    <title>malformed title without the usual shape</title>
    <link rel="alternate" type="text/html" href="https://www.sec.gov/other"/>
  </entry>
</feed>`

func TestParseAtom(t *testing.T) {
	entries, err := ParseAtom([]byte(sampleAtom))
	if err != nil {
		t.Fatalf("ParseAtom failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("Expected 2 parseable entries, got %d", len(entries))
	}

	first := entries[0]
	if first.Form != "8-K" {
		t.Errorf("Expected form 8-K, got %s", first.Form)
	}
	if first.Company != "NVIDIA CORP" {
		t.Errorf("Expected company NVIDIA CORP, got %s", first.Company)
	}
	if first.CIK != "0001045810" {
		t.Errorf("Expected padded CIK 0001045810, got %s", first.CIK)
	}
	if first.Updated.IsZero() {
		t.Error("Expected parsed updated timestamp")
	}
	if got := first.Updated.UTC().Format(time.RFC3339); got != "2026-08-30T16:04:05Z" {
		t.Errorf("Expected UTC-normalized timestamp, got %s", got)
	}

	// Malformed timestamp degrades to zero time, not an error.
	if !entries[1].Updated.IsZero() {
		t.Error("Expected zero time for malformed updated field")
	}
	if entries[1].CIK != "0001234567" {
		t.Errorf("Expected padded CIK 0001234567, got %s", entries[1].CIK)
	}
}

func TestParseAtom_Invalid(t *testing.T) {
	if _, err := ParseAtom([]byte("not xml at all <<<")); err == nil {
		t.Error("Expected error for invalid XML")
	}
}

func TestPadCIK(t *testing.T) {
	if got := padCIK("1045810"); got != "0001045810" {
		t.Errorf("Expected 0001045810, got %s", got)
	}
	if got := padCIK("0001045810"); got != "0001045810" {
		t.Errorf("Expected unchanged CIK, got %s", got)
	}
}
