package reviews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
)

type ReviewsConfig struct {
	ReviewsBaseURL string
}

// ReviewCache is an optional read-through cache in front of the external
// review service.
type ReviewCache interface {
	GetReviewSummary(ctx context.Context, brand, name string) (*domain.ReviewSummary, error)
	StoreReviewSummary(ctx context.Context, brand, name string, summary domain.ReviewSummary) error
}

type ReviewsRepository struct {
	reviewsConfig ReviewsConfig
	cache         ReviewCache
}

func NewReviewsRepository(cfg ReviewsConfig, cache ReviewCache) *ReviewsRepository {
	return &ReviewsRepository{
		reviewsConfig: cfg,
		cache:         cache,
	}
}

type reviewResponse struct {
	Author string    `json:"author"`
	Rating float64   `json:"rating"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type summaryResponse struct {
	AverageRating  float64          `json:"average_rating"`
	TotalReviews   int              `json:"total_reviews"`
	SentimentScore float64          `json:"sentiment_score"`
	Reviews        []reviewResponse `json:"reviews"`
}

func (r *ReviewsRepository) Fetch(ctx context.Context, brand, name string) (domain.ReviewSummary, error) {
	if r.cache != nil {
		if cached, err := r.cache.GetReviewSummary(ctx, brand, name); err == nil && cached != nil {
			return *cached, nil
		}
	}

	reqURL := fmt.Sprintf("%s/v1/reviews?brand=%s&product=%s",
		r.reviewsConfig.ReviewsBaseURL,
		url.QueryEscape(brand),
		url.QueryEscape(name),
	)

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	req.Header.Add("Accept", "application/json")

	res, err := client.Do(req)
	if err != nil {
		return domain.ReviewSummary{}, err
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(res.Body)
		return domain.ReviewSummary{}, fmt.Errorf("review service return negative response %v: %s", res.StatusCode, string(bodyBytes))
	}

	var parsed summaryResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return domain.ReviewSummary{}, fmt.Errorf("failed to decode review response: %w", err)
	}

	summary := domain.ReviewSummary{
		AverageRating:  parsed.AverageRating,
		TotalReviews:   parsed.TotalReviews,
		SentimentScore: parsed.SentimentScore,
	}
	for _, rev := range parsed.Reviews {
		summary.Reviews = append(summary.Reviews, domain.Review{
			Author: rev.Author,
			Rating: rev.Rating,
			Text:   rev.Text,
			Date:   rev.Date,
		})
	}

	if r.cache != nil {
		if err := r.cache.StoreReviewSummary(ctx, brand, name, summary); err != nil {
			logger.Debug("review_cache_store_failed", "brand", brand, "error", err)
		}
	}

	return summary, nil
}
