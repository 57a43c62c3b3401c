package pipeline

import (
	"strings"
	"testing"
)

func TestHTMLToText(t *testing.T) {
	doc := `
	<html>
	<head>
		<script>var x = "script content";</script>
		<style>body { color: red; }</style>
	</head>
	<body>
		<p>On March 3, 2025, the Company received a letter.</p>
		<noscript>enable javascript</noscript>
		<div>Export controls apply to shipments to China.</div>
	</body>
	</html>`

	text := HTMLToText(doc)
	if !strings.Contains(text, "received a letter") {
		t.Error("Expected paragraph text in output")
	}
	if !strings.Contains(text, "Export controls apply") {
		t.Error("Expected div text in output")
	}
	if strings.Contains(text, "script content") || strings.Contains(text, "color: red") {
		t.Error("Expected script and style content to be stripped")
	}
	if strings.Contains(text, "enable javascript") {
		t.Error("Expected noscript content to be stripped")
	}
}

func TestHTMLToText_PlainText(t *testing.T) {
	// EDGAR serves some filings as plain text under .txt URLs.
	raw := "UNITED STATES SECURITIES AND EXCHANGE COMMISSION\nForm 8-K\nItem 8.01 Other Events."
	text := HTMLToText(raw)
	if !strings.Contains(text, "Item 8.01") {
		t.Errorf("Expected plain text preserved, got %q", text)
	}
}

func TestPickPrimaryDoc(t *testing.T) {
	indexURL := "https://www.sec.gov/Archives/edgar/data/1045810/000104581026000010/000104581026000010-index.htm"
	indexHTML := `
	<html><body><table>
		<tr><td><a href="000104581026000010-index.htm">index</a></td></tr>
		<tr><td><a href="nvda-8k.htm">8-K document</a></td></tr>
		<tr><td><a href="exhibit99.htm">exhibit</a></td></tr>
	</table></body></html>`

	got := PickPrimaryDoc(indexHTML, indexURL)
	want := "https://www.sec.gov/Archives/edgar/data/1045810/000104581026000010/nvda-8k.htm"
	if got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestPickPrimaryDoc_NoCandidates(t *testing.T) {
	indexURL := "https://www.sec.gov/Archives/edgar/data/1/2/2-index.htm"
	if got := PickPrimaryDoc(`<html><body><a href="https://www.sec.gov/">home</a></body></html>`, indexURL); got != "" {
		t.Errorf("Expected empty result, got %s", got)
	}
}
