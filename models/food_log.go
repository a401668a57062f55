package models

import "time"

// FoodLog is one food item extracted from one inbound message. A single
// message may produce several rows; they share MealType and FoodDescription
// but carry independent per-item nutrition. Rows are never mutated after
// creation.
type FoodLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	FoodDescription string `json:"food_description"` // raw text from the user
	NormalizedTitle string `json:"normalized_title"` // presentable item name
	MealType        string `gorm:"size:16" json:"meal_type"`

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"` // grams
	Carbs    float64 `json:"carbs"`   // grams
	Fats     float64 `json:"fats"`    // grams

	ConfidenceScore float64 `json:"confidence_score"` // 0-1
	Notes           string  `json:"notes,omitempty"`
}

// Macros returns the row's nutrition as a value record.
func (l *FoodLog) Macros() MacroNutrients {
	return MacroNutrients{
		Calories: l.Calories,
		Protein:  l.Protein,
		Carbs:    l.Carbs,
		Fats:     l.Fats,
	}
}
