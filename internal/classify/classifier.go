// Package classify orchestrates matcher, ranker, guard chain, and the
// external model call into the single verdict operation.
package classify

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/dedupe"
	"github.com/edgarwatch/edgarwatch/internal/guard"
	"github.com/edgarwatch/edgarwatch/internal/lexicon"
	"github.com/edgarwatch/edgarwatch/internal/llm"
	"github.com/edgarwatch/edgarwatch/internal/match"
	"github.com/edgarwatch/edgarwatch/internal/model"
	"github.com/edgarwatch/edgarwatch/internal/rank"
	"github.com/edgarwatch/edgarwatch/internal/worker"
)

// Notifier receives the alert payload when a verdict is NEW. Delivery is a
// collaborator concern.
type Notifier interface {
	Notify(ctx context.Context, alert model.Alert) error
}

// Classifier is the facade. The dedupe store is passed in, never a package
// singleton, so guard behavior is testable without shared state.
type Classifier struct {
	lex      lexicon.Lexicon
	chain    *guard.Chain
	provider llm.Provider // nil when the model is disabled
	store    *dedupe.Store
	notifier Notifier

	// entityLocks serializes the dedupe check-then-record sequence per
	// entity so two concurrent filings cannot both pass the dedupe guard
	// for the same event.
	entityLocks *worker.KeyedMutex

	// modelErrors counts consecutive model failures; reset on any success.
	// Surfaced to the operator through logging, not through verdicts.
	modelErrors atomic.Int64

	verbose bool
}

// Options configures a Classifier.
type Options struct {
	Lexicon          lexicon.Lexicon
	Provider         llm.Provider
	Store            *dedupe.Store
	Notifier         Notifier
	FreshnessDays    int
	DedupeWindowDays int
	DebugGuards      bool
}

// New creates a Classifier with the default guard chain.
func New(opts Options) *Classifier {
	if opts.FreshnessDays <= 0 {
		opts.FreshnessDays = 60
	}
	if opts.DedupeWindowDays <= 0 {
		opts.DedupeWindowDays = 180
	}
	if opts.Store == nil {
		opts.Store = dedupe.NewStore()
	}

	return &Classifier{
		lex:         opts.Lexicon,
		chain:       guard.DefaultChain(opts.FreshnessDays, opts.DedupeWindowDays, opts.Store, opts.DebugGuards),
		provider:    opts.Provider,
		store:       opts.Store,
		notifier:    opts.Notifier,
		entityLocks: worker.NewKeyedMutex(),
		verbose:     opts.DebugGuards,
	}
}

// ConsecutiveModelErrors returns the current run of model failures.
func (c *Classifier) ConsecutiveModelErrors() int64 {
	return c.modelErrors.Load()
}

// Classify runs the full pipeline for one document and always returns
// exactly one Verdict. No failure inside the pipeline propagates: every
// error path degrades to a BOILERPLATE verdict with a reason.
func (c *Classifier) Classify(ctx context.Context, doc model.Document) model.Verdict {
	matches := match.FindMatches(doc.Text, c.lex)
	if len(matches) == 0 {
		return model.Verdict{Label: model.LabelBoilerplate, Reason: model.ReasonNoMatch}
	}

	best := rank.Best(matches)
	excerpt := best.Match.Excerpt
	sig := dedupe.Signature(excerpt)

	// The dedupe guard reads the store and a NEW verdict writes it; hold
	// the entity lock across both so concurrent filings serialize.
	c.entityLocks.Lock(doc.EntityID)
	defer c.entityLocks.Unlock(doc.EntityID)

	in := guard.Input{
		Excerpt:    excerpt,
		FilingDate: doc.FiledAt,
		EntityID:   doc.EntityID,
		Signature:  sig,
	}
	if v := c.chain.Evaluate(in); v != nil {
		v.Signature = sig
		return *v
	}

	verdict := c.callModel(ctx, excerpt, doc)
	verdict.Excerpt = excerpt
	verdict.Signature = sig

	if verdict.Label == model.LabelNew {
		c.store.Record(doc.EntityID, sig, time.Now().UTC())
		c.notify(ctx, doc, verdict)
	}
	return verdict
}

// callModel performs the external call, degrading deterministically to
// BOILERPLATE on any failure. With no provider configured, a concrete
// change phrase substitutes for the model's judgment.
func (c *Classifier) callModel(ctx context.Context, excerpt string, doc model.Document) model.Verdict {
	if c.provider == nil {
		if guard.HasConcreteChange(excerpt) {
			return model.Verdict{Label: model.LabelNew, Reason: model.ReasonConcreteOverride}
		}
		return model.Verdict{Label: model.LabelBoilerplate, Reason: model.ReasonModelDisabled}
	}

	label, err := c.provider.Classify(ctx, llm.ClassifyRequest{
		Excerpt:    excerpt,
		FilingDate: doc.FiledAt,
		Category:   c.lex.Category,
	})
	if err != nil {
		n := c.modelErrors.Add(1)
		fmt.Fprintf(os.Stderr, "  model error (consecutive: %d): %v\n", n, err)
		return model.Verdict{Label: model.LabelBoilerplate, Reason: model.ReasonModelError}
	}

	c.modelErrors.Store(0)
	return model.Verdict{Label: label, Reason: model.ReasonModel}
}

func (c *Classifier) notify(ctx context.Context, doc model.Document, v model.Verdict) {
	if c.notifier == nil {
		return
	}
	alert := model.Alert{
		EntityID:   doc.EntityID,
		Ticker:     doc.Ticker,
		Company:    doc.Company,
		Category:   c.lex.Category,
		Form:       doc.Form,
		FiledAt:    doc.FiledAt,
		SourceURL:  doc.SourceURL,
		Excerpt:    v.Excerpt,
		Reason:     v.Reason,
		DetectedAt: time.Now().UTC(),
	}
	if err := c.notifier.Notify(ctx, alert); err != nil {
		// Alert delivery failure never changes the verdict.
		fmt.Fprintf(os.Stderr, "  notify failed: %v\n", err)
	}
}
