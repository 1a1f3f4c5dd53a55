package scoring

import (
	"context"
	"strings"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
)

// tagMatchScore counts how many profile attributes (hair type, porosity, water
// type, each concern) appear as a substring of any product tag. A product
// without tags scores neutral.
func (e *Engine) tagMatchScore(record domain.CatalogRecord, profile domain.HairProfile) float64 {
	if len(record.Tags) == 0 {
		return neutralScore
	}

	var checks []string
	if profile.HairType != "" {
		checks = append(checks, profile.HairType)
	}
	if profile.Porosity != "" {
		checks = append(checks, profile.Porosity)
	}
	if profile.WaterType != "" {
		checks = append(checks, profile.WaterType)
	}
	checks = append(checks, profile.Concerns...)

	if len(checks) == 0 {
		return neutralScore
	}

	tags := make([]string, len(record.Tags))
	for i, t := range record.Tags {
		tags[i] = strings.ToLower(t)
	}

	matches := 0
	for _, check := range checks {
		lowered := strings.ToLower(check)
		for _, tag := range tags {
			if strings.Contains(tag, lowered) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(checks)) * 100
}

// sustainabilityScore prefers the precomputed sustainability sub-record and
// otherwise derives bonuses from preference/tag overlaps on top of neutral.
func (e *Engine) sustainabilityScore(record domain.CatalogRecord, profile domain.HairProfile) float64 {
	if record.Sustainability != nil {
		return clamp(record.Sustainability.Score, 0, 100)
	}

	score := float64(neutralScore)

	tags := make([]string, len(record.Tags))
	for i, t := range record.Tags {
		tags[i] = strings.ToLower(t)
	}

	if profile.Preferences.Vegan && tagContains(tags, "vegan") {
		score += 20
	}
	if profile.Preferences.CrueltyFree && (tagContains(tags, "cruelty-free") || tagContains(tags, "cruelty free")) {
		score += 20
	}
	if profile.Preferences.Organic && tagContains(tags, "organic") {
		score += 10
	}

	return clamp(score, 0, 100)
}

// ingredientSafetyScore uses the precomputed safety sub-record when present,
// otherwise asks the external analyzer once and caches the result on the
// returned record. Analyzer failure degrades to neutral.
func (e *Engine) ingredientSafetyScore(
	ctx context.Context,
	record domain.CatalogRecord,
) (float64, *domain.IngredientSafety) {

	if record.IngredientSafety != nil {
		return clamp(record.IngredientSafety.Score, 0, 100), record.IngredientSafety
	}

	ingredients := record.NormalizedIngredients
	if len(ingredients) == 0 {
		ingredients = record.Ingredients
	}
	if e.safety == nil || len(ingredients) == 0 {
		return neutralScore, nil
	}

	safety, err := e.safety.Analyze(ctx, ingredients)
	if err != nil {
		logger.Warn("safety_analyze_failed", "id", record.ID, "error", err)
		return neutralScore, nil
	}

	return clamp(safety.Score, 0, 100), &safety
}

// reviewSentimentScore maps the [-1,1] sentiment onto [0,100], fetching the
// summary through the collaborator when it is not already on the record.
func (e *Engine) reviewSentimentScore(
	ctx context.Context,
	record domain.CatalogRecord,
) (float64, *domain.ReviewSummary) {

	if record.Reviews != nil {
		return sentimentToScore(record.Reviews.SentimentScore), record.Reviews
	}

	if e.reviews == nil || record.Brand == "" || record.Name == "" {
		return neutralScore, nil
	}

	summary, err := e.reviews.Fetch(ctx, record.Brand, record.Name)
	if err != nil {
		logger.Warn("review_fetch_failed", "id", record.ID, "error", err)
		return neutralScore, nil
	}

	return sentimentToScore(summary.SentimentScore), &summary
}

// priceMatchScore maps the declared budget tier onto a price window. Inside
// the window is a perfect fit, below is acceptable, above degrades with the
// overage relative to the window maximum.
func (e *Engine) priceMatchScore(record domain.CatalogRecord, profile domain.HairProfile) float64 {
	if record.Price <= 0 || profile.Budget == "" {
		return neutralScore
	}

	rng, ok := e.cfg.BudgetRanges[profile.Budget]
	if !ok {
		return neutralScore
	}

	price := record.Price

	switch {
	case price < rng.Min:
		return 70
	case rng.Max <= 0 || price <= rng.Max:
		return 100
	default:
		overage := price - rng.Max
		return clamp(50-(overage/rng.Max)*50, 0, 100)
	}
}

func sentimentToScore(sentiment float64) float64 {
	return clamp((sentiment+1)/2*100, 0, 100)
}

func tagContains(tags []string, keyword string) bool {
	for _, tag := range tags {
		if strings.Contains(tag, keyword) {
			return true
		}
	}
	return false
}
