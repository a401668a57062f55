package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/hmdavis/whatsapp-diet/models"
)

// FormatterService renders user-facing reply text. Pure, no I/O. Output is
// plain text with newline separators; calories are printed with no decimals,
// gram amounts with one.
type FormatterService struct{}

func NewFormatterService() *FormatterService { return &FormatterService{} }

// FormatFoodLogResponse renders the full food-entry reply: header, one block
// per item, meal totals, daily progress, then recommendations.
func (s *FormatterService) FormatFoodLogResponse(
	logs []models.FoodLog,
	mealTotals models.MacroNutrients,
	progress models.DailyProgress,
	recommendations []string,
) string {
	var b bytes.Buffer

	b.WriteString("Logged your meal! Here's the breakdown:\n\n")

	for i := range logs {
		entry := &logs[i]
		fmt.Fprintf(&b, "• %s:\n", entry.NormalizedTitle)
		fmt.Fprintf(&b, "  Calories: %.0f\n", entry.Calories)
		fmt.Fprintf(&b, "  Protein: %.1fg\n", entry.Protein)
		fmt.Fprintf(&b, "  Carbs: %.1fg\n", entry.Carbs)
		fmt.Fprintf(&b, "  Fats: %.1fg\n", entry.Fats)
		if entry.Notes != "" {
			fmt.Fprintf(&b, "  Note: %s\n", entry.Notes)
		}
		b.WriteString("\n")
	}

	b.WriteString("Total for this meal:\n")
	fmt.Fprintf(&b, "Calories: %.0f\n", mealTotals.Calories)
	fmt.Fprintf(&b, "Protein: %.1fg\n", mealTotals.Protein)
	fmt.Fprintf(&b, "Carbs: %.1fg\n", mealTotals.Carbs)
	fmt.Fprintf(&b, "Fats: %.1fg\n\n", mealTotals.Fats)

	s.writeDailyProgress(&b, progress)

	if len(recommendations) > 0 {
		b.WriteString("\nRecommendations:\n")
		for _, rec := range recommendations {
			fmt.Fprintf(&b, "• %s\n", rec)
		}
	}

	return strings.TrimSpace(b.String())
}

func (s *FormatterService) writeDailyProgress(b *bytes.Buffer, progress models.DailyProgress) {
	consumed := progress.Consumed
	targets := progress.Targets

	b.WriteString("Today's Progress:\n")
	fmt.Fprintf(b, "Calories: %.0f/%.0f (%d%%)\n",
		consumed.Calories, targets.Calories, s.percentage(consumed.Calories, targets.Calories))
	fmt.Fprintf(b, "Protein: %.1fg/%.1fg (%d%%)\n",
		consumed.Protein, targets.Protein, s.percentage(consumed.Protein, targets.Protein))
	fmt.Fprintf(b, "Carbs: %.1fg/%.1fg (%d%%)\n",
		consumed.Carbs, targets.Carbs, s.percentage(consumed.Carbs, targets.Carbs))
	fmt.Fprintf(b, "Fats: %.1fg/%.1fg (%d%%)\n",
		consumed.Fats, targets.Fats, s.percentage(consumed.Fats, targets.Fats))
}

func (s *FormatterService) percentage(consumed, target float64) int {
	if target <= 0 {
		return 0
	}
	return int(consumed / target * 100)
}

// FormatErrorResponse wraps an error message for the user.
func (s *FormatterService) FormatErrorResponse(message string) string {
	return fmt.Sprintf("Sorry, an error occurred: %s", message)
}

// FormatUserNotFoundResponse is the fixed reply for unknown senders.
func (s *FormatterService) FormatUserNotFoundResponse() string {
	return "User not found. Please set up your profile first."
}
