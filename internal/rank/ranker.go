// Package rank scores candidate excerpts by lexical and structural signals
// and picks the best one. The underlying bet: specific + dated + active-voice
// reads like a genuinely new disclosure; hedged + generic-section reads like
// boilerplate.
package rank

import (
	"regexp"
	"sort"
	"strings"

	"github.com/edgarwatch/edgarwatch/internal/dates"
	"github.com/edgarwatch/edgarwatch/internal/model"
)

// responseVerbs are the bounded action/response verb list. Each distinct
// verb found adds one point. Stems like "exfiltrat" and "remediat" cover
// the -ed/-ing/-ion variants.
var responseVerbs = []string{
	"halted", "suspended", "rescinded", "revoked", "informed", "notified",
	"learned", "discovered", "detected", "became aware",
	"gained unauthorized access", "exfiltrat",
	"initiated incident response", "activated incident response",
	"engaged third-party", "forensic", "law enforcement",
	"contained", "remediat", "ceased",
}

var (
	materialSectionPat = regexp.MustCompile(`(?i)item\s+1\.05|item\s+8\.01`)
	otherInfoPat       = regexp.MustCompile(`(?i)item\s+5\.\s*other information`)
	disclosurePat      = regexp.MustCompile(`(?i)(cybersecurity incident|material definitive agreement) disclosure`)
	riskSectionPat     = regexp.MustCompile(`(?i)item\s+1a\.\s*risk factors|forward-looking statements`)
	modalPat           = regexp.MustCompile(`(?i)\b(may|could|might|would)\b`)
	tokenPat           = regexp.MustCompile(`\w+`)
)

// modalDensityThreshold is the hedge-word density above which an excerpt
// takes the hedging penalty.
const modalDensityThreshold = 0.02

// Score computes the heuristic score for one excerpt. Fixed integer
// weights; all signals are independent so the sum is order-free.
func Score(excerpt string) int {
	score := 0

	if len(dates.Extract(excerpt)) > 0 {
		score += 2 // recency-anchored
	}

	score += VerbSignals(excerpt)
	score += sectionScore(excerpt)

	if ModalDensity(excerpt) > modalDensityThreshold {
		score -= 2
	}
	if riskSectionPat.MatchString(excerpt) {
		score -= 3
	}

	return score
}

// VerbSignals counts distinct action/response verbs present in the excerpt.
func VerbSignals(excerpt string) int {
	t := strings.ToLower(excerpt)
	n := 0
	for _, v := range responseVerbs {
		if strings.Contains(t, v) {
			n++
		}
	}
	return n
}

// ModalDensity is hedge words per token.
func ModalDensity(excerpt string) float64 {
	tokens := tokenPat.FindAllString(excerpt, -1)
	if len(tokens) == 0 {
		return 0
	}
	return float64(len(modalPat.FindAllString(excerpt, -1))) / float64(len(tokens))
}

func sectionScore(excerpt string) int {
	s := 0
	if materialSectionPat.MatchString(excerpt) {
		s += 2
	}
	if otherInfoPat.MatchString(excerpt) {
		s++
	}
	if disclosurePat.MatchString(excerpt) {
		s++
	}
	if riskSectionPat.MatchString(excerpt) {
		s -= 2
	}
	return s
}

// Rank scores every match and returns them best-first. The order is total:
// score descending, then position ascending, then input order, so selection
// is deterministic for identical input text.
func Rank(matches []model.Match) []model.RankedExcerpt {
	ranked := make([]model.RankedExcerpt, len(matches))
	for i, m := range matches {
		ranked[i] = model.RankedExcerpt{Match: m, Score: Score(m.Excerpt)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Match.Position < ranked[j].Match.Position
	})
	return ranked
}

// Best returns the top-ranked excerpt, or nil when there are no matches.
func Best(matches []model.Match) *model.RankedExcerpt {
	if len(matches) == 0 {
		return nil
	}
	ranked := Rank(matches)
	return &ranked[0]
}
