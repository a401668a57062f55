package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/hmdavis/whatsapp-diet/models"
)

// FoodAnalyzer turns a free-text food description into structured items.
type FoodAnalyzer interface {
	AnalyzeFoodEntry(ctx context.Context, foodDescription string) (*FoodAnalysis, error)
}

type FoodLogService struct {
	db *gorm.DB
	ai FoodAnalyzer
}

func NewFoodLogService(db *gorm.DB, ai FoodAnalyzer) *FoodLogService {
	return &FoodLogService{db: db, ai: ai}
}

// LogFoodEntry analyzes a food description and persists one row per
// extracted item, stamped with the reference instant now. A failed
// analysis writes nothing.
func (s *FoodLogService) LogFoodEntry(ctx context.Context, userID uint, description string, now time.Time) ([]models.FoodLog, error) {
	analysis, err := s.ai.AnalyzeFoodEntry(ctx, description)
	if err != nil {
		return nil, err
	}
	return s.CreateBatch(ctx, userID, description, analysis, now)
}

// CreateBatch persists one food log per analysis item in a single
// transaction; either every row commits or none do. All rows share the
// analysis meal type, the original description, and the reference
// instant now as CreatedAt, so a batch always lands in the same daily
// window the caller is about to aggregate over.
func (s *FoodLogService) CreateBatch(ctx context.Context, userID uint, description string, analysis *FoodAnalysis, now time.Time) ([]models.FoodLog, error) {
	logs := make([]models.FoodLog, 0, len(analysis.Items))
	for _, item := range analysis.Items {
		notes := item.Notes
		if notes == "" {
			notes = analysis.Notes
		}
		logs = append(logs, models.FoodLog{
			UserID:          userID,
			CreatedAt:       now,
			FoodDescription: description,
			NormalizedTitle: item.NormalizedTitle,
			MealType:        analysis.MealType,
			Calories:        item.Nutrition.Calories,
			Protein:         item.Nutrition.Protein,
			Carbs:           item.Nutrition.Carbs,
			Fats:            item.Nutrition.Fats,
			ConfidenceScore: item.ConfidenceScore,
			Notes:           notes,
		})
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range logs {
			if err := tx.Create(&logs[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create food logs: %w", err)
	}
	return logs, nil
}

// ListRecent returns the newest food logs for a user, bounded by limit.
func (s *FoodLogService) ListRecent(ctx context.Context, userID uint, limit int) ([]models.FoodLog, error) {
	if limit <= 0 {
		limit = 10
	}
	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list food logs: %w", err)
	}
	return logs, nil
}

// DailyTotals sums the macros of every row created on the calendar day of
// date, in date's location. No rows means a zero total, not an error.
func (s *FoodLogService) DailyTotals(ctx context.Context, userID uint, date time.Time) (models.MacroNutrients, error) {
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	var totals models.MacroNutrients
	err := s.db.WithContext(ctx).
		Model(&models.FoodLog{}).
		Select("COALESCE(SUM(calories),0) AS calories, COALESCE(SUM(protein),0) AS protein, " +
			"COALESCE(SUM(carbs),0) AS carbs, COALESCE(SUM(fats),0) AS fats").
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Scan(&totals).Error
	if err != nil {
		return models.MacroNutrients{}, fmt.Errorf("failed to sum daily totals: %w", err)
	}
	return totals, nil
}

// SummaryItem is one logged item as it appears in a rolling summary.
type SummaryItem struct {
	Title    string                `json:"title"`
	MealType string                `json:"meal_type"`
	Macros   models.MacroNutrients `json:"macros"`
}

// DailySummary is one calendar day's totals and items.
type DailySummary struct {
	Date   string                `json:"date"` // YYYY-MM-DD
	Totals models.MacroNutrients `json:"totals"`
	Items  []SummaryItem         `json:"items"`
}

// FoodLogSummary is the rolling-window view handed to the question-answering
// capability. Averages are taken over days that have at least one entry.
type FoodLogSummary struct {
	DailyLogs            []DailySummary        `json:"daily_logs"` // newest date first
	Averages             models.MacroNutrients `json:"averages"`
	MealTypeDistribution map[string]int        `json:"meal_type_distribution"`
	TotalLogs            int                   `json:"total_logs"`
	DaysAnalyzed         int                   `json:"days_analyzed"`
}

// Summary aggregates rows created in [now - days, now] into per-day totals
// and item lists, per-macro averages across days with entries, and a count
// of entries per meal type.
func (s *FoodLogService) Summary(ctx context.Context, userID uint, days int, now time.Time) (*FoodLogSummary, error) {
	if days <= 0 {
		days = 7
	}
	start := now.AddDate(0, 0, -days)

	var logs []models.FoodLog
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND created_at >= ? AND created_at <= ?", userID, start, now).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load food logs: %w", err)
	}

	byDate := make(map[string]*DailySummary)
	distribution := make(map[string]int)
	for i := range logs {
		entry := &logs[i]
		date := entry.CreatedAt.Format("2006-01-02")
		day, ok := byDate[date]
		if !ok {
			day = &DailySummary{Date: date}
			byDate[date] = day
		}
		day.Totals = day.Totals.Add(entry.Macros())
		day.Items = append(day.Items, SummaryItem{
			Title:    entry.NormalizedTitle,
			MealType: entry.MealType,
			Macros:   entry.Macros(),
		})
		distribution[entry.MealType]++
	}

	summary := &FoodLogSummary{
		MealTypeDistribution: distribution,
		TotalLogs:            len(logs),
		DaysAnalyzed:         len(byDate),
	}

	var sum models.MacroNutrients
	for _, day := range byDate {
		summary.DailyLogs = append(summary.DailyLogs, *day)
		sum = sum.Add(day.Totals)
	}
	sort.Slice(summary.DailyLogs, func(i, j int) bool {
		return summary.DailyLogs[i].Date > summary.DailyLogs[j].Date
	})

	if n := float64(len(byDate)); n > 0 {
		summary.Averages = models.MacroNutrients{
			Calories: sum.Calories / n,
			Protein:  sum.Protein / n,
			Carbs:    sum.Carbs / n,
			Fats:     sum.Fats / n,
		}
	}
	return summary, nil
}
