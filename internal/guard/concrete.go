package guard

import (
	"regexp"
	"strings"
)

// concretePhrases indicate an actual, specific regulatory or security
// action rather than hypothetical or generic language. Shared by nearly
// every guard; a concrete change always defeats suppression.
var concretePhrases = []string{
	"effective immediately",
	"added to entity list",
	"removed from entity list",
	"license is now required",
	"license was required",
	"license required for",
	"license required to",
	"rescinded",
	"revoked",
	"denied",
	"halted shipments",
	"suspended",
	"ceased",
	"restoring access",
}

const months = `(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)`

// datedActionPats match an explicit date adjacent to an issuing-body verb.
var datedActionPats = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bon\s+` + months + `\s+\d{1,2},\s*\d{4}[, ]+\s*(bis|bureau of industry and security|department of commerce)\s+(informed|notified|issued|published|added|required)`),
	regexp.MustCompile(`(?i)\b(effective)\s+` + months + `\s+\d{1,2},\s*\d{4}\b`),
}

// issuingBodies must co-occur with a dated action for it to count.
var issuingBodies = []string{
	" bureau of industry and security ",
	" bis ",
	" department of commerce ",
	" entity list ",
}

// HasConcreteChange reports whether the excerpt contains a fixed concrete
// phrase, or a dated-action pattern co-occurring with an issuing-body token.
func HasConcreteChange(excerpt string) bool {
	t := " " + strings.ToLower(excerpt) + " "

	for _, p := range concretePhrases {
		if strings.Contains(t, p) {
			return true
		}
	}

	for _, pat := range datedActionPats {
		if !pat.MatchString(excerpt) {
			continue
		}
		for _, body := range issuingBodies {
			if strings.Contains(t, body) {
				return true
			}
		}
	}
	return false
}
