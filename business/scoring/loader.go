package scoring

import (
	"context"

	"myHairMatch/domain"
)

// DefaultSlot is the slot used when no experiment slot is requested.
const DefaultSlot = "default"

// ConfigRepository serves persisted weight overrides, managed through the
// admin API.
type ConfigRepository interface {
	GetConfig(ctx context.Context, slot string) (domain.ScoringConfigRow, bool, error)
}

// loadWeights reads the slot override from the repo, falling back to the
// static config. Invalid overrides (weights not summing to 100) are ignored.
func (e *Engine) loadWeights(ctx context.Context, slot string) Weights {
	if e.cfgRepo == nil {
		return e.cfg.Weights
	}

	row, ok, err := e.cfgRepo.GetConfig(ctx, slot)
	if err != nil || !ok {
		return e.cfg.Weights
	}

	weights := WeightsFromRow(row)
	if err := weights.Validate(); err != nil {
		return e.cfg.Weights
	}

	return weights
}
