package services

import (
	"fmt"
	"math"

	"github.com/hmdavis/whatsapp-diet/models"
)

// NutritionService computes totals, progress and recommendations. Pure
// functions, no I/O.
type NutritionService struct{}

func NewNutritionService() *NutritionService { return &NutritionService{} }

// MealTotals sums macros field-wise. An empty slice yields a zero total.
func (s *NutritionService) MealTotals(logs []models.FoodLog) models.MacroNutrients {
	var totals models.MacroNutrients
	for i := range logs {
		totals = totals.Add(logs[i].Macros())
	}
	return totals
}

// DailyProgress reports consumed vs targets. Remaining is clamped at zero
// per field, so progress never goes negative.
func (s *NutritionService) DailyProgress(consumed, targets models.MacroNutrients) models.DailyProgress {
	return models.DailyProgress{
		Consumed: consumed,
		Targets:  targets,
		Remaining: models.MacroNutrients{
			Calories: math.Max(0, targets.Calories-consumed.Calories),
			Protein:  math.Max(0, targets.Protein-consumed.Protein),
			Carbs:    math.Max(0, targets.Carbs-consumed.Carbs),
			Fats:     math.Max(0, targets.Fats-consumed.Fats),
		},
	}
}

// Percentage truncates toward zero. A target of zero or less yields 0.
func (s *NutritionService) Percentage(consumed, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(consumed / target * 100)
}

// Recommendations suggests what to eat next based on remaining amounts.
// While calories remain, each macro with a positive remainder gets one
// suggestion, always in the order protein, carbs, fats. Once the calorie
// target is reached, a single closing message replaces the per-macro ones.
func (s *NutritionService) Recommendations(progress models.DailyProgress) []string {
	remaining := progress.Remaining
	var recs []string

	if remaining.Calories > 0 {
		if remaining.Protein > 0 {
			recs = append(recs, fmt.Sprintf(
				"You still need %.1fg of protein. Consider adding lean protein sources.",
				remaining.Protein))
		}
		if remaining.Carbs > 0 {
			recs = append(recs, fmt.Sprintf(
				"You have %.1fg of carbs remaining. Good for energy before workouts.",
				remaining.Carbs))
		}
		if remaining.Fats > 0 {
			recs = append(recs, fmt.Sprintf(
				"You can add %.1fg of healthy fats to your next meal.",
				remaining.Fats))
		}
	} else {
		recs = append(recs,
			"You've reached your daily calorie target. Consider lighter options for remaining meals.")
	}
	return recs
}
