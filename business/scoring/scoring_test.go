package scoring

import (
	"context"
	"errors"
	"testing"

	"myHairMatch/domain"
)

func TestTagMatchScore(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil)

	profile := domain.HairProfile{
		HairType: domain.HairTypeCurly,
		Concerns: []string{"frizz"},
	}

	noTags := e.tagMatchScore(domain.CatalogRecord{}, profile)
	if noTags != neutralScore {
		t.Errorf("expected neutral score without tags, got %v", noTags)
	}

	full := e.tagMatchScore(domain.CatalogRecord{
		Tags: []string{"Curly-Friendly", "anti-frizz"},
	}, profile)
	if full != 100 {
		t.Errorf("expected full match 100, got %v", full)
	}

	half := e.tagMatchScore(domain.CatalogRecord{
		Tags: []string{"anti-frizz"},
	}, profile)
	if half != 50 {
		t.Errorf("expected 50 for one of two matches, got %v", half)
	}

	emptyProfile := e.tagMatchScore(domain.CatalogRecord{
		Tags: []string{"anything"},
	}, domain.HairProfile{})
	if emptyProfile != neutralScore {
		t.Errorf("expected neutral score for empty profile, got %v", emptyProfile)
	}
}

func TestPriceMatchScore(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil)

	cases := []struct {
		name   string
		price  float64
		budget string
		want   float64
	}{
		{"no price", 0, domain.BudgetLow, neutralScore},
		{"no budget", 20, "", neutralScore},
		{"below window", 10, domain.BudgetMedium, 70},
		{"inside window", 25, domain.BudgetMedium, 100},
		{"unbounded high tier", 120, domain.BudgetHigh, 100},
		{"at window max", 35, domain.BudgetMedium, 100},
	}

	for _, c := range cases {
		got := e.priceMatchScore(
			domain.CatalogRecord{Price: c.price},
			domain.HairProfile{Budget: c.budget},
		)
		if got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, got, c.want)
		}
	}

	over := e.priceMatchScore(
		domain.CatalogRecord{Price: 70},
		domain.HairProfile{Budget: domain.BudgetMedium},
	)
	if over >= 50 {
		t.Errorf("expected degraded score above window, got %v", over)
	}
}

func TestSentimentToScore(t *testing.T) {
	cases := []struct {
		sentiment float64
		want      float64
	}{
		{-1, 0},
		{0, 50},
		{1, 100},
		{0.5, 75},
		{2, 100},
	}

	for _, c := range cases {
		if got := sentimentToScore(c.sentiment); got != c.want {
			t.Errorf("sentimentToScore(%v) = %v, want %v", c.sentiment, got, c.want)
		}
	}
}

func TestScoreAll_BrandBlacklist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BrandBlacklist = []string{"Bad Brand"}
	e := NewEngine(cfg, nil, nil)

	records := []domain.CatalogRecord{
		{ID: "a", Brand: "bad brand"},
		{ID: "b", Brand: "Fine Brand"},
	}

	out := e.ScoreAll(context.Background(), records, domain.HairProfile{})
	if len(out) != 1 || out[0].Record.ID != "b" {
		t.Fatalf("expected only the non-blacklisted record, got %v", out)
	}
}

func TestScoreAll_AllergenFilter(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil)

	profile := domain.HairProfile{Allergens: []string{"Limonene"}}

	records := []domain.CatalogRecord{
		{ID: "substring", Ingredients: []string{"Water", "D-Limonene"}},
		{ID: "safety", IngredientSafety: &domain.IngredientSafety{
			Score:           90,
			AllergenMatches: []string{"limonene"},
		}},
		{ID: "clean", Ingredients: []string{"Water", "Glycerin"}},
	}

	out := e.ScoreAll(context.Background(), records, profile)
	if len(out) != 1 || out[0].Record.ID != "clean" {
		t.Fatalf("expected allergen-conflicting records filtered, got %d", len(out))
	}
}

func TestScoreAll_SortedDescending(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil)

	profile := domain.HairProfile{
		HairType: domain.HairTypeWavy,
		Concerns: []string{"dryness"},
	}

	records := []domain.CatalogRecord{
		{ID: "weak", Tags: []string{"volume"}},
		{ID: "strong", Tags: []string{"wavy", "dryness"}},
	}

	out := e.ScoreAll(context.Background(), records, profile)
	if len(out) != 2 {
		t.Fatalf("expected 2 scored records, got %d", len(out))
	}
	if out[0].Record.ID != "strong" {
		t.Errorf("expected strongest match first, got %s", out[0].Record.ID)
	}
	if out[0].DeterministicScore < out[1].DeterministicScore {
		t.Error("scores not sorted descending")
	}
}

func TestScoreAll_UsesPrecomputedEnrichment(t *testing.T) {
	e := NewEngine(DefaultConfig(), nil, nil)

	record := domain.CatalogRecord{
		ID:               "enriched",
		Sustainability:   &domain.Sustainability{Score: 88},
		IngredientSafety: &domain.IngredientSafety{Score: 92},
		Reviews:          &domain.ReviewSummary{SentimentScore: 1},
	}

	out := e.ScoreAll(context.Background(), []domain.CatalogRecord{record}, domain.HairProfile{})
	if len(out) != 1 {
		t.Fatal("expected one scored record")
	}

	b := out[0].Breakdown
	if b.Sustainability != 88 || b.IngredientSafety != 92 || b.ReviewSentiment != 100 {
		t.Errorf("expected precomputed sub-records used, got %+v", b)
	}
}

// ---- weight overrides ----

type fakeConfigRepo struct {
	row domain.ScoringConfigRow
	ok  bool
	err error
}

func (f *fakeConfigRepo) GetConfig(ctx context.Context, slot string) (domain.ScoringConfigRow, bool, error) {
	return f.row, f.ok, f.err
}

func TestLoadWeights(t *testing.T) {
	base := DefaultConfig()

	t.Run("no repository", func(t *testing.T) {
		e := NewEngine(base, nil, nil)
		if got := e.loadWeights(context.Background(), DefaultSlot); got != base.Weights {
			t.Errorf("expected static weights, got %+v", got)
		}
	})

	t.Run("miss falls back", func(t *testing.T) {
		e := NewEngine(base, nil, nil).WithConfigRepository(&fakeConfigRepo{ok: false})
		if got := e.loadWeights(context.Background(), DefaultSlot); got != base.Weights {
			t.Errorf("expected fallback on miss, got %+v", got)
		}
	})

	t.Run("error falls back", func(t *testing.T) {
		e := NewEngine(base, nil, nil).WithConfigRepository(&fakeConfigRepo{err: errors.New("db down")})
		if got := e.loadWeights(context.Background(), DefaultSlot); got != base.Weights {
			t.Errorf("expected fallback on error, got %+v", got)
		}
	})

	t.Run("invalid sum falls back", func(t *testing.T) {
		e := NewEngine(base, nil, nil).WithConfigRepository(&fakeConfigRepo{
			ok:  true,
			row: domain.ScoringConfigRow{WTagMatch: 50, WSustainability: 10},
		})
		if got := e.loadWeights(context.Background(), DefaultSlot); got != base.Weights {
			t.Errorf("expected fallback on invalid override, got %+v", got)
		}
	})

	t.Run("valid override wins", func(t *testing.T) {
		row := domain.ScoringConfigRow{
			WTagMatch:         40,
			WSustainability:   20,
			WIngredientSafety: 20,
			WReviewSentiment:  10,
			WPriceMatch:       10,
		}
		e := NewEngine(base, nil, nil).WithConfigRepository(&fakeConfigRepo{ok: true, row: row})
		if got := e.loadWeights(context.Background(), DefaultSlot); got != WeightsFromRow(row) {
			t.Errorf("expected override weights, got %+v", got)
		}
	})
}
