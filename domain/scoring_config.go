package domain

// ScoringConfigRow is an optional per-slot override of the deterministic
// scoring weights, managed through the admin API. Weights are percentages and
// must sum to 100.
type ScoringConfigRow struct {
	Slot string `json:"slot" gorm:"primaryKey;column:slot"`

	WTagMatch         float64 `json:"w_tag_match" gorm:"column:w_tag_match"`
	WSustainability   float64 `json:"w_sustainability" gorm:"column:w_sustainability"`
	WIngredientSafety float64 `json:"w_ingredient_safety" gorm:"column:w_ingredient_safety"`
	WReviewSentiment  float64 `json:"w_review_sentiment" gorm:"column:w_review_sentiment"`
	WPriceMatch       float64 `json:"w_price_match" gorm:"column:w_price_match"`
}

func (ScoringConfigRow) TableName() string {
	return "scoring_configs"
}
