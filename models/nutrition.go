package models

import "strings"

// Meal type tags attached to a batch of food logs from one message.
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
	MealTypeDrink     = "drink"
)

var mealTypes = map[string]bool{
	MealTypeBreakfast: true,
	MealTypeLunch:     true,
	MealTypeDinner:    true,
	MealTypeSnack:     true,
	MealTypeDrink:     true,
}

// NormalizeMealType lowercases a meal type tag and reports whether it is one
// of the five recognized values.
func NormalizeMealType(s string) (string, bool) {
	t := strings.ToLower(strings.TrimSpace(s))
	return t, mealTypes[t]
}

// MacroNutrients is the common currency between computed totals, targets and
// remaining amounts. Protein, carbs and fats are in grams.
type MacroNutrients struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// Add returns the field-wise sum of two macro records.
func (m MacroNutrients) Add(o MacroNutrients) MacroNutrients {
	return MacroNutrients{
		Calories: m.Calories + o.Calories,
		Protein:  m.Protein + o.Protein,
		Carbs:    m.Carbs + o.Carbs,
		Fats:     m.Fats + o.Fats,
	}
}

// DailyProgress is consumed vs target vs remaining for one calendar day.
// It is derived at call time and never persisted or cached.
type DailyProgress struct {
	Consumed  MacroNutrients `json:"consumed"`
	Targets   MacroNutrients `json:"targets"`
	Remaining MacroNutrients `json:"remaining"`
}
