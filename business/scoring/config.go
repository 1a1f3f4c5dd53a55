package scoring

import (
	"fmt"

	"myHairMatch/domain"
)

// Weights are percentages over the five sub-scores and must sum to 100.
type Weights struct {
	TagMatch         float64
	Sustainability   float64
	IngredientSafety float64
	ReviewSentiment  float64
	PriceMatch       float64
}

func (w Weights) Sum() float64 {
	return w.TagMatch + w.Sustainability + w.IngredientSafety + w.ReviewSentiment + w.PriceMatch
}

func (w Weights) Validate() error {
	if w.Sum() != 100 {
		return fmt.Errorf("scoring weights must sum to 100, got %.2f", w.Sum())
	}
	return nil
}

// BudgetRange maps a declared budget tier to a price window. Max <= 0 means
// unbounded.
type BudgetRange struct {
	Min float64
	Max float64
}

type Config struct {
	Weights        Weights
	BrandBlacklist []string
	BudgetRanges   map[string]BudgetRange
}

func DefaultConfig() Config {
	return Config{
		Weights: Weights{
			TagMatch:         35,
			Sustainability:   25,
			IngredientSafety: 20,
			ReviewSentiment:  15,
			PriceMatch:       5,
		},
		BudgetRanges: map[string]BudgetRange{
			domain.BudgetLow:    {Min: 0, Max: 15},
			domain.BudgetMedium: {Min: 15, Max: 35},
			domain.BudgetHigh:   {Min: 35, Max: 0},
		},
	}
}

// WeightsFromRow converts a persisted per-slot override into engine weights.
func WeightsFromRow(row domain.ScoringConfigRow) Weights {
	return Weights{
		TagMatch:         row.WTagMatch,
		Sustainability:   row.WSustainability,
		IngredientSafety: row.WIngredientSafety,
		ReviewSentiment:  row.WReviewSentiment,
		PriceMatch:       row.WPriceMatch,
	}
}
