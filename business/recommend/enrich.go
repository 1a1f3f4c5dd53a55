package recommend

import (
	"context"
	"strings"
	"sync"

	"myHairMatch/business/compat"
	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
)

// enrichRecords fills the sustainability, safety and review sub-records of
// each candidate. Batches are sequential with a small fixed size to respect
// external rate limits; calls inside a batch run concurrently. Each record is
// returned as a new value; nothing is mutated through shared references.
func (s *Service) enrichRecords(
	ctx context.Context,
	records []domain.CatalogRecord,
	profile domain.HairProfile,
) []domain.CatalogRecord {

	batchSize := s.cfg.EnrichBatchSize
	if batchSize <= 0 {
		batchSize = 5
	}

	out := make([]domain.CatalogRecord, len(records))

	for start := 0; start < len(records); start += batchSize {
		end := start + batchSize
		if end > len(records) {
			end = len(records)
		}

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(idx int) {
				defer wg.Done()
				out[idx] = s.enrichOne(ctx, records[idx], profile)
			}(i)
		}
		wg.Wait()
	}

	return out
}

// enrichOne composes enrichment onto a copy of the record. Collaborator
// failures degrade to whatever local data can provide; they never abort the
// run.
func (s *Service) enrichOne(
	ctx context.Context,
	record domain.CatalogRecord,
	profile domain.HairProfile,
) domain.CatalogRecord {

	ingredients := record.NormalizedIngredients
	if len(ingredients) == 0 {
		ingredients = record.Ingredients
	}

	if record.Sustainability == nil {
		sustainability := s.eco.Score(record)
		record.Sustainability = &sustainability
	}

	if record.IngredientSafety == nil && len(ingredients) > 0 {
		record.IngredientSafety = s.analyzeSafety(ctx, record.ID, ingredients, profile)
	}

	if record.Reviews == nil && s.reviewer != nil && record.Brand != "" && record.Name != "" {
		if summary, err := s.reviewer.Fetch(ctx, record.Brand, record.Name); err != nil {
			logger.Debug("enrich_reviews_failed", "id", record.ID, "error", err)
		} else {
			record.Reviews = &summary
		}
	}

	return record
}

// analyzeSafety asks the external analyzer first. When the analyzer is absent
// or fails, the compatibility rule engine provides a local estimate so the
// scoring stage still sees a populated sub-record.
func (s *Service) analyzeSafety(
	ctx context.Context,
	recordID string,
	ingredients []string,
	profile domain.HairProfile,
) *domain.IngredientSafety {

	if s.safety != nil {
		safety, err := s.safety.Analyze(ctx, ingredients)
		if err == nil {
			return &safety
		}
		logger.Debug("enrich_safety_failed", "id", recordID, "error", err)
	}

	assessment := s.compatAssessment(ctx, ingredients, profile)

	safety := domain.IngredientSafety{
		Score:           clampScore(50 + float64(assessment.Adjustment)),
		AllergenMatches: allergenMatches(ingredients, profile.Allergens),
	}
	for _, warning := range assessment.Warnings {
		safety.Flagged = append(safety.Flagged, domain.FlaggedIngredient{
			Name:     warning,
			Concern:  "profile compatibility",
			Severity: "medium",
		})
	}

	return &safety
}

// compatAssessment resolves science facts (best effort) and runs the rule
// engine once for the ingredient list.
func (s *Service) compatAssessment(
	ctx context.Context,
	ingredients []string,
	profile domain.HairProfile,
) compat.Assessment {

	facts := map[string]domain.IngredientScienceFact{}
	if s.science != nil {
		looked, err := s.science.BatchLookup(ctx, ingredients)
		if err != nil {
			logger.Debug("enrich_science_lookup_failed", "error", err)
		} else {
			facts = looked
		}
	}

	return s.compat.ScoreForProfile(ingredients, profile, facts)
}

func allergenMatches(ingredients, allergens []string) []string {
	if len(allergens) == 0 {
		return nil
	}

	var matches []string
	for _, ing := range ingredients {
		lowered := strings.ToLower(ing)
		for _, allergen := range allergens {
			if allergen != "" && strings.Contains(lowered, strings.ToLower(allergen)) {
				matches = append(matches, ing)
				break
			}
		}
	}

	return matches
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
