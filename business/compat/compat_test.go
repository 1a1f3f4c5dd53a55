package compat

import (
	"strings"
	"testing"

	"myHairMatch/domain"
)

func TestScoreForProfile_LowPorosityHeavyOil(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	profile := domain.HairProfile{Porosity: domain.PorosityLow}
	a := e.ScoreForProfile([]string{"Coconut Oil", "Water"}, profile, nil)

	if a.Adjustment >= 0 {
		t.Errorf("expected negative adjustment, got %d", a.Adjustment)
	}

	found := false
	for _, w := range a.Warnings {
		if strings.Contains(w, "low-porosity") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a low-porosity warning, got %v", a.Warnings)
	}
}

func TestScoreForProfile_HighPorosityHeavyOil(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	profile := domain.HairProfile{Porosity: domain.PorosityHigh}
	a := e.ScoreForProfile([]string{"Shea Butter", "Hydrolyzed Keratin"}, profile, nil)

	want := DefaultConfig().HighPorosityHeavyOilBonus + DefaultConfig().HighPorosityProteinBonus
	if a.Adjustment != want {
		t.Errorf("expected adjustment %d, got %d", want, a.Adjustment)
	}
	if len(a.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", a.Warnings)
	}
}

func TestScoreForProfile_SensitiveScalpSurfactants(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	profile := domain.HairProfile{ScalpSensitive: true}

	harsh := e.ScoreForProfile([]string{"Sodium Lauryl Sulfate"}, profile, nil)
	if harsh.Adjustment != DefaultConfig().HarshSurfactantPenalty {
		t.Errorf("expected harsh surfactant penalty, got %d", harsh.Adjustment)
	}
	if len(harsh.Recommendations) == 0 {
		t.Error("expected a sulfate-free recommendation")
	}

	gentle := e.ScoreForProfile([]string{"Cocamidopropyl Betaine"}, profile, nil)
	if gentle.Adjustment != DefaultConfig().GentleSurfactantBonus {
		t.Errorf("expected gentle surfactant bonus, got %d", gentle.Adjustment)
	}
}

func TestScoreForProfile_ConcernRules(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	profile := domain.HairProfile{
		Concerns: []string{"dryness", "damage"},
	}
	a := e.ScoreForProfile([]string{"Glycerin", "Hydrolyzed Wheat Protein"}, profile, nil)

	want := DefaultConfig().DrynessHumectantBonus + DefaultConfig().DamageProteinBonus
	if a.Adjustment != want {
		t.Errorf("expected adjustment %d, got %d", want, a.Adjustment)
	}
}

func TestScoreForProfile_CurlHumectant(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	curly := e.ScoreForProfile([]string{"Glycerin"}, domain.HairProfile{HairType: domain.HairTypeCurly}, nil)
	if curly.Adjustment != DefaultConfig().CurlHumectantBonus {
		t.Errorf("expected curl humectant bonus, got %d", curly.Adjustment)
	}

	straight := e.ScoreForProfile([]string{"Glycerin"}, domain.HairProfile{HairType: domain.HairTypeStraight}, nil)
	if straight.Adjustment != 0 {
		t.Errorf("expected no adjustment for straight hair, got %d", straight.Adjustment)
	}
}

func TestScoreForProfile_ScienceFactsRefineDetection(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	// name the lexical classifier cannot recognize
	facts := map[string]domain.IngredientScienceFact{
		"sodium pca": {InciName: "sodium pca", Functions: []string{"humectant"}},
	}

	profile := domain.HairProfile{Concerns: []string{"dryness"}}

	without := e.ScoreForProfile([]string{"sodium pca"}, profile, nil)
	if without.Adjustment != 0 {
		t.Fatalf("expected classifier miss without facts, got %d", without.Adjustment)
	}

	with := e.ScoreForProfile([]string{"sodium pca"}, profile, facts)
	if with.Adjustment != DefaultConfig().DrynessHumectantBonus {
		t.Errorf("expected humectant bonus via science facts, got %d", with.Adjustment)
	}

	// label casing must not matter; facts are keyed by lowercased INCI name
	mixed := e.ScoreForProfile([]string{" Sodium PCA "}, profile, facts)
	if mixed.Adjustment != DefaultConfig().DrynessHumectantBonus {
		t.Errorf("expected humectant bonus for mixed-case ingredient, got %d", mixed.Adjustment)
	}
}

func TestScoreForProfile_NoRulesNoAdjustment(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil)

	a := e.ScoreForProfile([]string{"Water", "Citric Acid"}, domain.HairProfile{
		HairType: domain.HairTypeStraight,
		Porosity: domain.PorosityMedium,
	}, nil)

	if a.Adjustment != 0 {
		t.Errorf("expected neutral assessment, got %d", a.Adjustment)
	}
}
