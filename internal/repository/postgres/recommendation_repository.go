package postgres

import (
	"context"
	"errors"
	"fmt"

	"myHairMatch/domain"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB
}

func NewRecommendationRepository(db *gorm.DB) *RecommendationRepository {
	return &RecommendationRepository{
		DB: db,
	}
}

func (r *RecommendationRepository) Create(ctx context.Context, result *domain.RecommendationResult) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to create recommendation result: %w", err)
	}

	return nil
}

func (r *RecommendationRepository) FindByID(ctx context.Context, id string) (domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("context error: %w", err)
	}

	var result domain.RecommendationResult

	err := r.DB.WithContext(ctx).First(&result, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecommendationResult{}, errors.New("recommendation result not found")
		}
		return domain.RecommendationResult{}, fmt.Errorf("failed to find recommendation result: %w", err)
	}

	return result, nil
}

func (r *RecommendationRepository) FindLatestByUser(ctx context.Context, userID uint) (domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.RecommendationResult{}, fmt.Errorf("context error: %w", err)
	}

	var result domain.RecommendationResult

	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RecommendationResult{}, errors.New("recommendation result not found")
		}
		return domain.RecommendationResult{}, fmt.Errorf("failed to find recommendation result: %w", err)
	}

	return result, nil
}

func (r *RecommendationRepository) FindAllByUser(ctx context.Context, userID uint, limit int) ([]domain.RecommendationResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var results []domain.RecommendationResult
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recommendation results: %w", err)
	}

	return results, nil
}
