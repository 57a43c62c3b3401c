package rank

import (
	"testing"

	"github.com/edgarwatch/edgarwatch/internal/model"
)

func TestScore_DatedActiveBeatsHedged(t *testing.T) {
	dated := "On March 3, 2025, the Company discovered unauthorized access and initiated incident response procedures under Item 8.01."
	hedged := "Our business may be adversely affected and could suffer if export controls might change; there can be no assurance that results would not differ."

	if Score(dated) <= Score(hedged) {
		t.Errorf("Expected dated active excerpt to outscore hedged one: %d vs %d",
			Score(dated), Score(hedged))
	}
}

func TestScore_RiskSectionPenalty(t *testing.T) {
	risk := "Item 1A. Risk Factors: export controls affecting China operations."
	neutral := "Export controls affecting China operations."

	if Score(risk) >= Score(neutral) {
		t.Errorf("Expected risk-section excerpt to score lower: %d vs %d", Score(risk), Score(neutral))
	}
}

func TestScore_MaterialSectionBonus(t *testing.T) {
	material := "Item 1.05 Material Cybersecurity Incidents. The Company detected an intrusion."
	plain := "The Company detected an intrusion."

	if Score(material) <= Score(plain) {
		t.Errorf("Expected material-section bonus: %d vs %d", Score(material), Score(plain))
	}
}

func TestVerbSignals_Distinct(t *testing.T) {
	text := "The Company halted shipments, halted orders, and suspended licenses."
	if got := VerbSignals(text); got != 2 {
		t.Errorf("Expected 2 distinct verb signals, got %d", got)
	}
}

func TestModalDensity(t *testing.T) {
	if d := ModalDensity(""); d != 0 {
		t.Errorf("Expected 0 density for empty text, got %f", d)
	}
	dense := "It may and could and might happen."
	if d := ModalDensity(dense); d <= modalDensityThreshold {
		t.Errorf("Expected density above threshold, got %f", d)
	}
}

func TestRank_Deterministic(t *testing.T) {
	matches := []model.Match{
		{Excerpt: "generic mention of export control near China", Position: 500},
		{Excerpt: "On March 3, 2025, BIS informed the Company; shipments halted under Item 8.01.", Position: 900},
		{Excerpt: "generic mention of export control near China", Position: 100},
	}

	first := Rank(matches)
	second := Rank(matches)
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Ranking not deterministic at index %d", i)
		}
	}

	if first[0].Match.Position != 900 {
		t.Errorf("Expected dated excerpt ranked first, got position %d", first[0].Match.Position)
	}
	// Tied scores resolve to the earliest position.
	if first[1].Match.Position != 100 {
		t.Errorf("Expected tie broken by earliest position, got %d", first[1].Match.Position)
	}
}

func TestBest_Empty(t *testing.T) {
	if Best(nil) != nil {
		t.Error("Expected nil for no matches")
	}
}
