package postgres

import (
	"context"
	"errors"

	"myHairMatch/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ScoringConfigRepository struct {
	DB *gorm.DB
}

func NewScoringConfigRepository(db *gorm.DB) *ScoringConfigRepository {
	return &ScoringConfigRepository{DB: db}
}

func (r *ScoringConfigRepository) GetConfig(ctx context.Context, slot string) (domain.ScoringConfigRow, bool, error) {
	var row domain.ScoringConfigRow

	err := r.DB.WithContext(ctx).
		Where("slot = ?", slot).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ScoringConfigRow{}, false, nil
	}
	if err != nil {
		return domain.ScoringConfigRow{}, false, err
	}

	return row, true, nil
}

func (r *ScoringConfigRepository) UpsertConfig(ctx context.Context, row domain.ScoringConfigRow) error {
	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"w_tag_match",
				"w_sustainability",
				"w_ingredient_safety",
				"w_review_sentiment",
				"w_price_match",
			}),
		}).
		Create(&row).Error
}
