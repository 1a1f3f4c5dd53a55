package domain

import "gorm.io/datatypes"

// IngredientScienceFact is the curated science entry for one INCI name.
// Immutable per lookup; supplied by the ingredient-science repository.
type IngredientScienceFact struct {
	InciName     string                      `gorm:"primaryKey;column:inci_name" json:"inci_name"`
	Functions    datatypes.JSONSlice[string] `gorm:"column:functions;type:jsonb" json:"functions,omitempty"` // humectant, emollient, surfactant, ...
	Restrictions string                      `gorm:"column:restrictions;type:text" json:"restrictions,omitempty"`
	SafetyNotes  string                      `gorm:"column:safety_notes;type:text" json:"safety_notes,omitempty"`
	Tags         datatypes.JSONSlice[string] `gorm:"column:tags;type:jsonb" json:"tags,omitempty"`
}

func (IngredientScienceFact) TableName() string {
	return "ingredient_science_facts"
}
