package domain

import "time"

// ScoreBreakdown holds the five deterministic sub-scores, each in [0,100].
type ScoreBreakdown struct {
	TagMatch         float64 `json:"tag_match"`
	Sustainability   float64 `json:"sustainability"`
	IngredientSafety float64 `json:"ingredient_safety"`
	ReviewSentiment  float64 `json:"review_sentiment"`
	PriceMatch       float64 `json:"price_match"`
}

// ProductScore is created by the scoring engine; the re-ranking stage is the
// only component allowed to set AIScore, AIExplanation and FinalRank.
type ProductScore struct {
	Record             CatalogRecord  `json:"record"`
	DeterministicScore float64        `json:"deterministic_score"`
	Breakdown          ScoreBreakdown `json:"breakdown"`
	AIScore            *float64       `json:"ai_score,omitempty"`
	AIExplanation      string         `json:"ai_explanation,omitempty"`
	FinalRank          int            `json:"final_rank"`
}

// RunMetadata surfaces what happened during a pipeline run without failing it.
type RunMetadata struct {
	SourcesQueried  int      `json:"sources_queried"`
	SourcesFailed   int      `json:"sources_failed"`
	SourceErrors    []string `json:"source_errors,omitempty"`
	CandidateCount  int      `json:"candidate_count"`
	DedupedCount    int      `json:"deduped_count"`
	ScoredCount     int      `json:"scored_count"`
	RerankMode      string   `json:"rerank_mode"` // ai, mock, fallback
	PersistFailures int      `json:"persist_failures"`
	DurationMS      int64    `json:"duration_ms"`
}

// RecommendationResult is write-once, identified by (user, created_at).
type RecommendationResult struct {
	ID              string         `gorm:"primaryKey;column:id" json:"id"`
	UserID          uint           `gorm:"column:user_id;not null;index" json:"user_id"`
	Profile         HairProfile    `gorm:"column:profile;type:jsonb;serializer:json" json:"profile"`
	Recommendations []ProductScore `gorm:"column:recommendations;type:jsonb;serializer:json" json:"recommendations"`
	Metadata        RunMetadata    `gorm:"column:metadata;type:jsonb;serializer:json" json:"metadata"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RecommendationResult) TableName() string {
	return "recommendation_results"
}
