package model

import "time"

// Document is one filing's extracted text plus the metadata the classifier
// needs. It lives for a single pipeline invocation and is never persisted.
type Document struct {
	Text       string    `json:"-"`           // Plain text extracted from the filing
	EntityID   string    `json:"entity_id"`   // Zero-padded CIK
	Ticker     string    `json:"ticker,omitempty"`
	Company    string    `json:"company,omitempty"`
	Form       string    `json:"form"`        // 8-K, 10-Q, 10-K, 6-K
	FiledAt    time.Time `json:"filed_at"`    // Filing date
	SourceURL  string    `json:"source_url"`  // Filing index URL, for the alert
}

// Match is one primary/qualifier co-occurrence found by the proximity matcher.
type Match struct {
	PrimaryTerm   string `json:"primary_term"`
	QualifierTerm string `json:"qualifier_term"`
	Excerpt       string `json:"excerpt"`  // Padded window around the pair
	Position      int    `json:"position"` // Start offset of the earlier term
}

// RankedExcerpt is a match's excerpt plus its heuristic score.
type RankedExcerpt struct {
	Match Match `json:"match"`
	Score int   `json:"score"`
}

// Label is the two-way classification outcome.
type Label string

const (
	LabelNew         Label = "NEW"
	LabelBoilerplate Label = "BOILERPLATE"
)

// Verdict is the result of one classification attempt. Reason identifies
// which guard or model path produced the label; every attempt yields exactly
// one Verdict.
type Verdict struct {
	Label     Label  `json:"label"`
	Reason    string `json:"reason"`
	Excerpt   string `json:"excerpt,omitempty"`
	Signature string `json:"signature,omitempty"` // Event signature, set when an excerpt was ranked
}

// Reason tags for verdicts that never reached the model.
const (
	ReasonNoMatch            = "no_match"
	ReasonGuardStale         = "guard_stale_dated"
	ReasonGuardSection       = "guard_section_boilerplate"
	ReasonGuardTariff        = "guard_tariff_only"
	ReasonGuardPrevReported  = "guard_previously_reported"
	ReasonGuardEnforcement   = "guard_enforcement_no_change"
	ReasonGuardDedupe        = "guard_event_dedupe"
	ReasonModel              = "model"
	ReasonModelError         = "model_error"
	ReasonModelDisabled      = "model_disabled"
	ReasonConcreteOverride   = "concrete_change_no_model"
)

// FilingRef identifies one filing discovered in a feed or submissions
// index, before its document has been fetched.
type FilingRef struct {
	Company    string `json:"company"`
	CIK        string `json:"cik"` // zero-padded to 10 digits
	Ticker     string `json:"ticker,omitempty"`
	Form       string `json:"form"`
	FilingDate string `json:"filing_date"` // YYYY-MM-DD, may be empty for feed entries
	IndexURL   string `json:"index_url"`
	PrimaryURL string `json:"primary_url,omitempty"`
}

// Alert is the payload handed to the notification collaborator on NEW.
type Alert struct {
	EntityID   string    `json:"entity_id"`
	Ticker     string    `json:"ticker,omitempty"`
	Company    string    `json:"company,omitempty"`
	Category   string    `json:"category"`
	Form       string    `json:"form"`
	FiledAt    time.Time `json:"filed_at"`
	SourceURL  string    `json:"source_url"`
	Excerpt    string    `json:"excerpt"`
	Reason     string    `json:"reason"`
	DetectedAt time.Time `json:"detected_at"`
}
