package lexicon

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon defines what a relevant co-occurrence means for one monitored
// category: primary terms are the regulatory/incident phrases, qualifier
// terms are the jurisdiction/actor phrases. Both sets are matched lowercase.
type Lexicon struct {
	Category       string   `yaml:"category"`
	PrimaryTerms   []string `yaml:"primary_terms"`
	QualifierTerms []string `yaml:"qualifier_terms"`
	Window         int      `yaml:"window"` // proximity window, in words
}

const (
	CategoryExportControl = "export-control"
	CategoryCyber         = "cyber"

	// DefaultWindow is the co-occurrence window in words.
	DefaultWindow = 150
)

// ExportControl is the built-in export-control/trade-restriction lexicon.
func ExportControl() Lexicon {
	return Lexicon{
		Category: CategoryExportControl,
		PrimaryTerms: []string{
			"bureau of industry and security",
			"export control", "export controls",
			"export restriction", "export restrictions",
			"export administration regulations",
			"commerce department",
			"trade restriction", "trade restrictions",
			"entity list",
			"denied persons list",
			"unverified list",
			"license required", "license is required", "license is now required", "license was required",
			"licensing requirement", "licensing requirements",
			"export license",
			"commerce control list",
			"military end use", "military end user",
			"unacceptable risk",
			"export control classification",
		},
		QualifierTerms: []string{
			"china", "chinese", "prc", "people's republic of china",
		},
		Window: DefaultWindow,
	}
}

// Cyber is the built-in nation-state cyber-incident lexicon.
func Cyber() Lexicon {
	return Lexicon{
		Category: CategoryCyber,
		PrimaryTerms: []string{
			"cybersecurity incident", "cybersecurity", "cyber attack", "cyberattack",
			"threat actor", "threat actors", "unauthorized access", "compromise",
			"breach", "ransomware", "malware", "exfiltrat", "intrusion", "lateral movement",
			"advanced persistent threat", "credential theft",
		},
		QualifierTerms: []string{
			"nation-state", "state-sponsored", "state-affiliated", "state-backed", "government-backed",
			"foreign intelligence", "foreign adversary", "advanced persistent threat",
			"prc", "chinese", "china", "russia", "russian", "gru", "fsb", "svr", "mss",
			"iran", "irgc", "dprk", "north korean",
			"lazarus", "sandworm", "cozy bear", "apt29", "apt28", "volt typhoon",
			"believed to be", "linked to", "attributed to", "suspected",
		},
		Window: DefaultWindow,
	}
}

// ForCategory returns the built-in lexicon for a category name.
func ForCategory(category string) (Lexicon, error) {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case CategoryExportControl, "bis", "export":
		return ExportControl(), nil
	case CategoryCyber, "cybersecurity":
		return Cyber(), nil
	default:
		return Lexicon{}, fmt.Errorf("unknown category: %s (supported: %s, %s)",
			category, CategoryExportControl, CategoryCyber)
	}
}

// LoadFile reads a lexicon override from a YAML file. Missing window falls
// back to the default; empty term sets are rejected since a lexicon with no
// terms can never match.
func LoadFile(path string) (Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Lexicon{}, fmt.Errorf("read lexicon file: %w", err)
	}

	var lex Lexicon
	if err := yaml.Unmarshal(data, &lex); err != nil {
		return Lexicon{}, fmt.Errorf("parse lexicon file: %w", err)
	}

	if len(lex.PrimaryTerms) == 0 || len(lex.QualifierTerms) == 0 {
		return Lexicon{}, fmt.Errorf("lexicon %s: both primary_terms and qualifier_terms are required", path)
	}
	if lex.Window <= 0 {
		lex.Window = DefaultWindow
	}

	lex.normalize()
	return lex, nil
}

// normalize lowercases all terms so matching stays case-insensitive even
// when override files carry mixed case.
func (l *Lexicon) normalize() {
	for i, t := range l.PrimaryTerms {
		l.PrimaryTerms[i] = strings.ToLower(strings.TrimSpace(t))
	}
	for i, t := range l.QualifierTerms {
		l.QualifierTerms[i] = strings.ToLower(strings.TrimSpace(t))
	}
}
