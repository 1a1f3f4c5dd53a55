package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"myHairMatch/domain"

	"github.com/redis/go-redis/v9"
)

const (
	latestResultTTL  = 24 * time.Hour
	reviewSummaryTTL = 6 * time.Hour
)

// ResultCacheRepository fronts the recommendation result store for the hot
// "latest result" read path, and caches review summaries between pipeline
// runs to save external calls.
type ResultCacheRepository struct {
	client *redis.Client
}

func NewResultCacheRepository(client *redis.Client) *ResultCacheRepository {
	return &ResultCacheRepository{
		client: client,
	}
}

func (r *ResultCacheRepository) StoreLatest(ctx context.Context, userID uint, result domain.RecommendationResult) error {
	// key format: "reco:latest:{user_id}"
	key := fmt.Sprintf("reco:latest:%d", userID)

	jsonData, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendation result: %w", err)
	}

	err = r.client.Set(ctx, key, jsonData, latestResultTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store result in Redis: %w", err)
	}

	return nil
}

// GetLatest returns the cached latest result or an error on miss; callers
// fall through to the database.
func (r *ResultCacheRepository) GetLatest(ctx context.Context, userID uint) (*domain.RecommendationResult, error) {
	key := fmt.Sprintf("reco:latest:%d", userID)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("result not cached")
		}
		return nil, fmt.Errorf("failed to get result from Redis: %w", err)
	}

	var result domain.RecommendationResult
	err = json.Unmarshal([]byte(val), &result)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal recommendation result: %w", err)
	}

	return &result, nil
}

func (r *ResultCacheRepository) InvalidateLatest(ctx context.Context, userID uint) error {
	key := fmt.Sprintf("reco:latest:%d", userID)

	err := r.client.Del(ctx, key).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate cached result: %w", err)
	}

	return nil
}

func (r *ResultCacheRepository) StoreReviewSummary(ctx context.Context, brand, name string, summary domain.ReviewSummary) error {
	key := fmt.Sprintf("reviews:%s:%s", brand, name)

	jsonData, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal review summary: %w", err)
	}

	err = r.client.Set(ctx, key, jsonData, reviewSummaryTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to store review summary in Redis: %w", err)
	}

	return nil
}

func (r *ResultCacheRepository) GetReviewSummary(ctx context.Context, brand, name string) (*domain.ReviewSummary, error) {
	key := fmt.Sprintf("reviews:%s:%s", brand, name)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.New("review summary not cached")
		}
		return nil, fmt.Errorf("failed to get review summary from Redis: %w", err)
	}

	var summary domain.ReviewSummary
	err = json.Unmarshal([]byte(val), &summary)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal review summary: %w", err)
	}

	return &summary, nil
}
