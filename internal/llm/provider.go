// Package llm wraps the hosted language-model call behind a two-label
// classification contract. The model's free-text response never leaves
// this package: callers see a model.Label or an error.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/lexicon"
	"github.com/edgarwatch/edgarwatch/internal/model"
)

// Provider is one hosted model backend.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Classify labels an excerpt NEW or BOILERPLATE. Any transport error,
	// non-2xx status, timeout, or unparsable body is returned as an error;
	// the caller decides the conservative fallback.
	Classify(ctx context.Context, req ClassifyRequest) (model.Label, error)
}

// ClassifyRequest carries the excerpt and context for one model call.
type ClassifyRequest struct {
	Excerpt    string
	FilingDate time.Time
	Category   string // lexicon category, selects the prompt
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int

	// MaxExcerptChars truncates the excerpt sent to the model
	MaxExcerptChars int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:        "", // Disabled by default
		Timeout:         30,
		MaxExcerptChars: 2000,
	}
}

const exportControlPrompt = `You are classifying SEC filing excerpts about U.S. BIS/China export controls as NEW or BOILERPLATE.

Context:
- Filing date: %s

NEW (alert) when the excerpt reports a specific, dated, recent change directly affecting the filer, e.g.:
- "On May 29, 2025, BIS informed <Company> ..."
- "effective immediately" / "rescinded" / "added to Entity List" / "license is now required"
- concrete operational response (halted shipments, restoring access) tied to the dated action.

BOILERPLATE (reject) when the excerpt is:
- Generic risk-factor language with "may / could / might / no assurance" and compliance generalities,
- Summaries of older rules/events or background that do not report a new company-specific change,
- Mentions of proposed rules or government intention to act (not yet effective),
- Enforcement/compliance items (e.g., subpoenas) that do not describe a new export-rule change.

Return ONLY one word: NEW or BOILERPLATE.

EXCERPT:
%s`

const cyberPrompt = `You are classifying SEC filing excerpts for disclosures of cybersecurity incidents involving foreign or state-backed actors.

Context:
- Filing date: %s

Return exactly one word:
- NEW         -> a disclosure of a specific, already-occurred cybersecurity incident attributed to or reportedly involving a foreign/state-backed actor.
- BOILERPLATE -> generic risk language, hypothetical/forward-looking statements, or no concrete past-tense incident.

Output ONLY 'NEW' or 'BOILERPLATE'.

EXCERPT:
%s`

// BuildPrompt renders the category-specific classification prompt with the
// excerpt already truncated to the configured cap.
func BuildPrompt(req ClassifyRequest, maxExcerptChars int) string {
	excerpt := strings.TrimSpace(req.Excerpt)
	if maxExcerptChars > 0 && len(excerpt) > maxExcerptChars {
		excerpt = excerpt[:maxExcerptChars]
	}

	filingDate := "unknown"
	if !req.FilingDate.IsZero() {
		filingDate = req.FilingDate.Format("2006-01-02")
	}

	tmpl := exportControlPrompt
	if req.Category == lexicon.CategoryCyber {
		tmpl = cyberPrompt
	}
	return fmt.Sprintf(tmpl, filingDate, excerpt)
}

// ParseLabel maps a raw model response onto the two-label contract:
// case-insensitive substring match, tolerant of extra words, BOILERPLATE
// taking precedence when both labels appear. Anything else is an error.
func ParseLabel(raw string) (model.Label, error) {
	text := strings.ToUpper(strings.TrimSpace(raw))
	switch {
	case strings.Contains(text, "BOILERPLATE"):
		return model.LabelBoilerplate, nil
	case strings.Contains(text, "NEW"):
		return model.LabelNew, nil
	default:
		return "", fmt.Errorf("unparsable model response: %q", raw)
	}
}
