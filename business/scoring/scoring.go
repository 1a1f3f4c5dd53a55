package scoring

import (
	"context"
	"sort"
	"strings"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
)

const neutralScore = 50

// SafetyAnalyzer is the external ingredient-safety collaborator.
type SafetyAnalyzer interface {
	Analyze(ctx context.Context, ingredientNames []string) (domain.IngredientSafety, error)
}

// ReviewFetcher is the external review collaborator.
type ReviewFetcher interface {
	Fetch(ctx context.Context, brand, name string) (domain.ReviewSummary, error)
}

// Engine computes the deterministic multi-factor score. Both collaborators are
// optional; missing data falls back to neutral defaults, never to an error.
type Engine struct {
	cfg     Config
	safety  SafetyAnalyzer
	reviews ReviewFetcher
	cfgRepo ConfigRepository
}

func NewEngine(cfg Config, safety SafetyAnalyzer, reviews ReviewFetcher) *Engine {
	return &Engine{
		cfg:     cfg,
		safety:  safety,
		reviews: reviews,
	}
}

// WithConfigRepository enables persisted per-slot weight overrides.
func (e *Engine) WithConfigRepository(repo ConfigRepository) *Engine {
	e.cfgRepo = repo
	return e
}

// ScoreAll applies the hard filters, scores the survivors and returns them
// sorted descending by deterministic score. Records are copied, never mutated:
// enrichment fetched here is composed onto the returned copy.
func (e *Engine) ScoreAll(
	ctx context.Context,
	records []domain.CatalogRecord,
	profile domain.HairProfile,
) []domain.ProductScore {

	weights := e.loadWeights(ctx, DefaultSlot)

	scored := make([]domain.ProductScore, 0, len(records))

	for _, record := range records {
		if e.isBlacklisted(record.Brand) {
			logger.Debug("scoring_filtered", "reason", "brand_blacklist", "id", record.ID, "brand", record.Brand)
			continue
		}
		if e.hasAllergenConflict(record, profile) {
			logger.Debug("scoring_filtered", "reason", "allergen", "id", record.ID)
			continue
		}

		scored = append(scored, e.scoreOne(ctx, record, profile, weights))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].DeterministicScore > scored[j].DeterministicScore
	})

	return scored
}

func (e *Engine) scoreOne(
	ctx context.Context,
	record domain.CatalogRecord,
	profile domain.HairProfile,
	w Weights,
) domain.ProductScore {

	breakdown := domain.ScoreBreakdown{
		TagMatch:       e.tagMatchScore(record, profile),
		Sustainability: e.sustainabilityScore(record, profile),
		PriceMatch:     e.priceMatchScore(record, profile),
	}

	breakdown.IngredientSafety, record.IngredientSafety = e.ingredientSafetyScore(ctx, record)
	breakdown.ReviewSentiment, record.Reviews = e.reviewSentimentScore(ctx, record)

	total := breakdown.TagMatch*w.TagMatch/100 +
		breakdown.Sustainability*w.Sustainability/100 +
		breakdown.IngredientSafety*w.IngredientSafety/100 +
		breakdown.ReviewSentiment*w.ReviewSentiment/100 +
		breakdown.PriceMatch*w.PriceMatch/100

	return domain.ProductScore{
		Record:             record,
		DeterministicScore: clamp(total, 0, 100),
		Breakdown:          breakdown,
	}
}

// ---- hard filters ----

func (e *Engine) isBlacklisted(brand string) bool {
	if brand == "" {
		return false
	}
	for _, blocked := range e.cfg.BrandBlacklist {
		if strings.EqualFold(brand, blocked) {
			return true
		}
	}
	return false
}

// hasAllergenConflict checks the product's known allergen matches against the
// user's declared allergens. Without safety data it falls back to a direct
// substring scan of the ingredient list.
func (e *Engine) hasAllergenConflict(record domain.CatalogRecord, profile domain.HairProfile) bool {
	if len(profile.Allergens) == 0 {
		return false
	}

	if record.IngredientSafety != nil && len(record.IngredientSafety.AllergenMatches) > 0 {
		for _, match := range record.IngredientSafety.AllergenMatches {
			for _, allergen := range profile.Allergens {
				if strings.EqualFold(match, allergen) {
					return true
				}
			}
		}
		return false
	}

	ingredients := record.NormalizedIngredients
	if len(ingredients) == 0 {
		ingredients = record.Ingredients
	}
	for _, ing := range ingredients {
		lowered := strings.ToLower(ing)
		for _, allergen := range profile.Allergens {
			if allergen != "" && strings.Contains(lowered, strings.ToLower(allergen)) {
				return true
			}
		}
	}

	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
