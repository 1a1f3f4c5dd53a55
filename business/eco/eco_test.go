package eco

import (
	"testing"

	"myHairMatch/domain"
)

func TestScore_RangeAndGrade(t *testing.T) {
	s := NewScorer(DefaultConfig())

	records := []domain.CatalogRecord{
		{},
		{Ingredients: []string{"Water", "Aloe Vera Extract", "Shea Butter"}},
		{Ingredients: []string{"Sodium Lauryl Sulfate", "Methylparaben", "Formaldehyde", "Polyethylene"}},
		{Tags: []string{"organic", "vegan", "cruelty-free", "recyclable"},
			Ingredients: []string{"Water", "Coconut Oil", "Jojoba Seed Oil", "Tocopherol"}},
	}

	for i, record := range records {
		got := s.Score(record)
		if got.Score < 0 || got.Score > 100 {
			t.Errorf("record %d: score %v out of range", i, got.Score)
		}
		if got.Grade == "" {
			t.Errorf("record %d: missing grade", i)
		}
		if len(got.Recommendations) == 0 {
			t.Errorf("record %d: expected recommendations", i)
		}
	}
}

func TestScore_HarmfulBeatsNatural(t *testing.T) {
	s := NewScorer(DefaultConfig())

	harsh := s.Score(domain.CatalogRecord{
		Ingredients: []string{"Sodium Lauryl Sulfate", "Methylparaben", "Phenoxyethanol"},
	})
	gentle := s.Score(domain.CatalogRecord{
		Tags:        []string{"organic", "vegan"},
		Ingredients: []string{"Water", "Aloe Vera Extract", "Shea Butter", "Jojoba Seed Oil"},
	})

	if harsh.Score >= gentle.Score {
		t.Errorf("expected harsh formula (%v) to score below gentle one (%v)", harsh.Score, gentle.Score)
	}
	if len(harsh.NegativeFactors) == 0 {
		t.Error("expected negative factors for harsh formula")
	}
	if len(gentle.PositiveFactors) == 0 {
		t.Error("expected positive factors for gentle formula")
	}
}

func TestScore_WaterFirstBonus(t *testing.T) {
	s := NewScorer(DefaultConfig())

	waterFirst := s.Score(domain.CatalogRecord{Ingredients: []string{"Aqua", "Glycerin"}})
	waterLater := s.Score(domain.CatalogRecord{Ingredients: []string{"Glycerin", "Aqua"}})

	if waterFirst.Score <= waterLater.Score {
		t.Errorf("expected water-first bonus: %v vs %v", waterFirst.Score, waterLater.Score)
	}
}

func TestScore_MicroplasticPenaltyIsFlat(t *testing.T) {
	s := NewScorer(DefaultConfig())

	one := s.Score(domain.CatalogRecord{Ingredients: []string{"Polyethylene"}})
	two := s.Score(domain.CatalogRecord{Ingredients: []string{"Polyethylene", "Nylon-12"}})

	if one.Score != two.Score {
		t.Errorf("microplastic penalty should be flat, got %v and %v", one.Score, two.Score)
	}
}

func TestGradeFor(t *testing.T) {
	cases := []struct {
		score float64
		grade string
	}{
		{95, "A+"},
		{85, "A"},
		{80, "B+"},
		{72, "B"},
		{61, "C+"},
		{50, "C"},
		{45, "D"},
		{10, "F"},
	}

	for _, c := range cases {
		if got := gradeFor(c.score); got != c.grade {
			t.Errorf("gradeFor(%v) = %s, want %s", c.score, got, c.grade)
		}
	}
}
