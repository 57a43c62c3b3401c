// Package guard implements the ordered rule chain that short-circuits the
// pipeline to a BOILERPLATE verdict before the model call is paid for.
package guard

import (
	"fmt"
	"os"
	"time"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

// Input is what every guard sees for one excerpt.
type Input struct {
	Excerpt    string
	FilingDate time.Time
	EntityID   string
	Signature  string // precomputed event signature for the dedupe guard
}

// Guard is one boolean policy. Check returns a forced verdict, or nil to
// let the next guard (and ultimately the model) decide.
type Guard interface {
	Name() string
	Check(in Input) *model.Verdict
}

// Chain evaluates guards in fixed priority order; the first non-nil verdict
// wins and later guards never run.
type Chain struct {
	guards []Guard
	debug  bool
}

// NewChain builds a chain over the given guards, in order.
func NewChain(debug bool, guards ...Guard) *Chain {
	return &Chain{guards: guards, debug: debug}
}

// Evaluate runs the chain. A nil result means no guard fired: defer to the
// external model.
func (c *Chain) Evaluate(in Input) *model.Verdict {
	for _, g := range c.guards {
		if v := g.Check(in); v != nil {
			if c.debug {
				fmt.Fprintf(os.Stderr, "  guard(%s) -> %s\n", g.Name(), v.Label)
			}
			return v
		}
	}
	return nil
}

// boilerplate is the shared forced-verdict constructor.
func boilerplate(reason, excerpt string) *model.Verdict {
	return &model.Verdict{
		Label:   model.LabelBoilerplate,
		Reason:  reason,
		Excerpt: excerpt,
	}
}
