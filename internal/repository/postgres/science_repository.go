package postgres

import (
	"context"
	"fmt"
	"strings"

	"myHairMatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScienceRepository struct {
	DB *gorm.DB
}

func NewScienceRepository(db *gorm.DB) *ScienceRepository {
	return &ScienceRepository{DB: db}
}

// BatchLookup resolves ingredient facts in one query. Names are matched on
// the lowercased INCI name; unknown ingredients are simply absent from the
// returned map.
func (r *ScienceRepository) BatchLookup(ctx context.Context, names []string) (map[string]domain.IngredientScienceFact, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(names) == 0 {
		return map[string]domain.IngredientScienceFact{}, nil
	}

	lowered := make([]string, 0, len(names))
	for _, name := range names {
		if trimmed := strings.ToLower(strings.TrimSpace(name)); trimmed != "" {
			lowered = append(lowered, trimmed)
		}
	}

	var rows []domain.IngredientScienceFact
	err := r.DB.WithContext(ctx).
		Where("inci_name IN ?", lowered).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up ingredient facts: %w", err)
	}

	facts := make(map[string]domain.IngredientScienceFact, len(rows))
	for _, row := range rows {
		facts[row.InciName] = row
	}

	return facts, nil
}

func (r *ScienceRepository) Upsert(ctx context.Context, fact domain.IngredientScienceFact) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	fact.InciName = strings.ToLower(strings.TrimSpace(fact.InciName))

	err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "inci_name"}},
			UpdateAll: true,
		}).
		Create(&fact).Error
	if err != nil {
		return fmt.Errorf("failed to upsert ingredient fact: %w", err)
	}

	return nil
}
