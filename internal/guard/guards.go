package guard

import (
	"strings"

	"github.com/edgarwatch/edgarwatch/internal/dates"
	"github.com/edgarwatch/edgarwatch/internal/dedupe"
	"github.com/edgarwatch/edgarwatch/internal/model"
)

// StaleDated fires when the most recent explicit date in the excerpt is
// older than FreshnessDays before the filing date and no update language is
// present. A filing that merely re-cites an old dated letter is not news.
type StaleDated struct {
	FreshnessDays int
}

func (g *StaleDated) Name() string { return "stale-dated" }

func (g *StaleDated) Check(in Input) *model.Verdict {
	if HasConcreteChange(in.Excerpt) {
		return nil
	}
	if dates.IsStale(in.Excerpt, in.FilingDate, g.FreshnessDays) {
		return boilerplate(model.ReasonGuardStale, in.Excerpt)
	}
	return nil
}

// boilerplateSections are the generic headings under which a mention is
// presumed stale background rather than a disclosure.
var boilerplateSections = []string{
	"developments in export control regulations",
	"risk factors",
	"legal and regulatory",
}

// SectionBoilerplate fires when the excerpt sits under a known generic
// heading with no concrete-change phrase.
type SectionBoilerplate struct{}

func (g *SectionBoilerplate) Name() string { return "section-boilerplate" }

func (g *SectionBoilerplate) Check(in Input) *model.Verdict {
	t := " " + strings.ToLower(in.Excerpt) + " "
	for _, h := range boilerplateSections {
		if strings.Contains(t, h) && !HasConcreteChange(in.Excerpt) {
			return boilerplate(model.ReasonGuardSection, in.Excerpt)
		}
	}
	return nil
}

// markerGuard is the shared shape for the category-specific no-op guards:
// a marker phrase family present and no concrete change.
type markerGuard struct {
	name    string
	reason  string
	markers []string
}

func (g *markerGuard) Name() string { return g.name }

func (g *markerGuard) Check(in Input) *model.Verdict {
	t := " " + strings.ToLower(in.Excerpt) + " "
	for _, m := range g.markers {
		if strings.Contains(t, m) && !HasConcreteChange(in.Excerpt) {
			return boilerplate(g.reason, in.Excerpt)
		}
	}
	return nil
}

// NewTariffOnly suppresses tariff talk with no export-control action.
func NewTariffOnly() Guard {
	return &markerGuard{
		name:   "tariff-only",
		reason: model.ReasonGuardTariff,
		markers: []string{
			" tariff", " tariffs", "reciprocal tariffs", "countermeasures",
		},
	}
}

// NewPreviouslyReported suppresses "previously reported/disclosed" rehashes
// carrying no new information.
func NewPreviouslyReported() Guard {
	return &markerGuard{
		name:   "previously-reported",
		reason: model.ReasonGuardPrevReported,
		markers: []string{
			"previously reported", "previously disclosed",
			"as previously disclosed", "as previously reported",
			"as disclosed", "as reported",
		},
	}
}

// NewEnforcementOnly suppresses enforcement/investigation mentions without
// a rule change.
func NewEnforcementOnly() Guard {
	return &markerGuard{
		name:   "enforcement-only",
		reason: model.ReasonGuardEnforcement,
		markers: []string{
			"subpoena", "subpoenas", "investigation", "preliminary findings",
			"settlement", "resolution", "consent decree",
		},
	}
}

// CrossFilingDedupe fires when the excerpt's event signature was already
// alerted for this entity within the window. The event is genuine, just
// already reported.
type CrossFilingDedupe struct {
	Store      *dedupe.Store
	WindowDays int
}

func (g *CrossFilingDedupe) Name() string { return "event-dedupe" }

func (g *CrossFilingDedupe) Check(in Input) *model.Verdict {
	if g.Store == nil || in.Signature == "" {
		return nil
	}
	if g.Store.IsRecent(in.EntityID, in.Signature, g.WindowDays) {
		v := boilerplate(model.ReasonGuardDedupe, in.Excerpt)
		v.Signature = in.Signature
		return v
	}
	return nil
}

// DefaultChain wires the guards in their fixed priority order.
func DefaultChain(freshnessDays, dedupeWindowDays int, store *dedupe.Store, debug bool) *Chain {
	return NewChain(debug,
		&StaleDated{FreshnessDays: freshnessDays},
		&SectionBoilerplate{},
		NewTariffOnly(),
		NewPreviouslyReported(),
		NewEnforcementOnly(),
		&CrossFilingDedupe{Store: store, WindowDays: dedupeWindowDays},
	)
}
