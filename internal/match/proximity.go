package match

import (
	"strings"

	"github.com/edgarwatch/edgarwatch/internal/lexicon"
	"github.com/edgarwatch/edgarwatch/internal/model"
)

const (
	// avgWordLen approximates word distance as character distance / 6.
	// Changing this shifts every excerpt boundary, so it stays fixed.
	avgWordLen = 6

	// excerptPad is the character padding on each side of a matched pair.
	excerptPad = 300
)

// FindMatches scans text for primary/qualifier term pairs whose start
// offsets fall within the lexicon's word window and returns one Match per
// pair, with an excerpt padded around the pair and clamped to text bounds.
//
// Matching is case-insensitive substring matching, not tokenized: a term
// hitting inside a longer word counts. Pure function; no matches is an
// empty slice, not an error.
func FindMatches(text string, lex lexicon.Lexicon) []model.Match {
	lower := asciiLower(text)

	primary := positions(lower, lex.PrimaryTerms)
	qualifier := positions(lower, lex.QualifierTerms)
	if len(primary) == 0 || len(qualifier) == 0 {
		return []model.Match{}
	}

	window := lex.Window
	if window <= 0 {
		window = lexicon.DefaultWindow
	}

	matches := []model.Match{}
	for _, p := range primary {
		for _, q := range qualifier {
			dist := p.offset - q.offset
			if dist < 0 {
				dist = -dist
			}
			if dist > window*avgWordLen {
				continue
			}

			lo, hi := p.offset, q.offset
			if lo > hi {
				lo, hi = hi, lo
			}
			start := lo - excerptPad
			if start < 0 {
				start = 0
			}
			end := hi + excerptPad
			if end > len(text) {
				end = len(text)
			}
			if start > end {
				start = end
			}

			matches = append(matches, model.Match{
				PrimaryTerm:   p.term,
				QualifierTerm: q.term,
				Excerpt:       text[start:end],
				Position:      lo,
			})
		}
	}
	return matches
}

type hit struct {
	offset int
	term   string
}

// asciiLower folds ASCII letters only. Full Unicode folding can change
// rune byte widths, which would desync term offsets from the excerpt
// slice taken from the original text.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// positions finds every occurrence of every term, overlapping included.
func positions(lower string, terms []string) []hit {
	var out []hit
	for _, term := range terms {
		q := asciiLower(term)
		if q == "" {
			continue
		}
		for i := 0; ; {
			j := strings.Index(lower[i:], q)
			if j == -1 {
				break
			}
			out = append(out, hit{offset: i + j, term: term})
			i += j + 1
		}
	}
	return out
}
