package domain

import "time"

const (
	HairTypeStraight = "straight"
	HairTypeWavy     = "wavy"
	HairTypeCurly    = "curly"
	HairTypeCoily    = "coily"
	HairTypeMixed    = "mixed"

	PorosityLow    = "low"
	PorosityMedium = "medium"
	PorosityHigh   = "high"

	BudgetLow    = "low"
	BudgetMedium = "medium"
	BudgetHigh   = "high"
)

type HairPreferences struct {
	Vegan         bool `json:"vegan"`
	CrueltyFree   bool `json:"cruelty_free"`
	Organic       bool `json:"organic"`
	FragranceFree bool `json:"fragrance_free"`
}

// HairProfile holds a user's hair quiz answers.
type HairProfile struct {
	HairType       string          `json:"hair_type"`
	Porosity       string          `json:"porosity"`
	WaterType      string          `json:"water_type,omitempty"`
	Concerns       []string        `json:"concerns,omitempty"`
	Preferences    HairPreferences `json:"preferences"`
	Allergens      []string        `json:"allergens,omitempty"`
	Budget         string          `json:"budget,omitempty"`
	ScalpSensitive bool            `json:"scalp_sensitive"`
}

// UserProfile is the persisted quiz result, one row per user.
type UserProfile struct {
	UserID    uint        `gorm:"primaryKey;column:user_id" json:"user_id"`
	Profile   HairProfile `gorm:"column:profile;type:jsonb;serializer:json" json:"profile"`
	CreatedAt time.Time   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
