package domain

import (
	"time"

	"gorm.io/datatypes"
)

// CatalogRecord is the normalized product representation shared by every
// pipeline stage. ID is stable across merges; a record always has a Source.
type CatalogRecord struct {
	ID  string `gorm:"primaryKey;column:id" json:"id"`
	UPC string `gorm:"column:upc;index" json:"upc,omitempty"`

	Name        string  `gorm:"column:name;type:text" json:"name"`
	Brand       string  `gorm:"column:brand;type:text" json:"brand"`
	Description string  `gorm:"column:description;type:text" json:"description,omitempty"`
	Price       float64 `gorm:"column:price;type:numeric" json:"price"`
	Currency    string  `gorm:"column:currency" json:"currency,omitempty"`

	Tags                  datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags"`
	Ingredients           datatypes.JSONSlice[string] `gorm:"column:ingredients;type:jsonb" json:"ingredients"`
	NormalizedIngredients datatypes.JSONSlice[string] `gorm:"column:normalized_ingredients;type:jsonb" json:"normalized_ingredients"`

	IngredientSafety *IngredientSafety `gorm:"column:ingredient_safety;type:jsonb;serializer:json" json:"ingredient_safety,omitempty"`
	Sustainability   *Sustainability   `gorm:"column:sustainability;type:jsonb;serializer:json" json:"sustainability,omitempty"`
	Reviews          *ReviewSummary    `gorm:"column:reviews;type:jsonb;serializer:json" json:"reviews,omitempty"`

	Source   string `gorm:"column:source;not null" json:"source"`
	SourceID string `gorm:"column:source_id" json:"source_id,omitempty"`
	URL      string `gorm:"column:url;type:text" json:"url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CatalogRecord) TableName() string {
	return "catalog_records"
}

type FlaggedIngredient struct {
	Name     string `json:"name"`
	Concern  string `json:"concern"`
	Severity string `json:"severity"` // low, medium, high
}

type IngredientSafety struct {
	Score           float64             `json:"score"` // 0-100
	Flagged         []FlaggedIngredient `json:"flagged,omitempty"`
	AllergenMatches []string            `json:"allergen_matches,omitempty"`
}

type Sustainability struct {
	Score           float64  `json:"score"` // 0-100
	Grade           string   `json:"grade"` // A+ .. F
	Reasoning       string   `json:"reasoning,omitempty"`
	PositiveFactors []string `json:"positive_factors,omitempty"`
	NegativeFactors []string `json:"negative_factors,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

type Review struct {
	Author string    `json:"author"`
	Rating float64   `json:"rating"`
	Text   string    `json:"text"`
	Date   time.Time `json:"date"`
}

type ReviewSummary struct {
	AverageRating  float64  `json:"average_rating"`
	TotalReviews   int      `json:"total_reviews"`
	SentimentScore float64  `json:"sentiment_score"` // -1..1
	Reviews        []Review `json:"reviews,omitempty"`
}
