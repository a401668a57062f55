package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hmdavis/whatsapp-diet/models"
)

const validAnalysisJSON = `{
	"meal_type": "Breakfast",
	"items": [
		{
			"normalized_title": "Banana",
			"nutrition": {"calories": 105, "protein": 1.3, "carbs": 27, "fats": 0.4},
			"confidence_score": 0.95
		},
		{
			"normalized_title": "Black Coffee",
			"nutrition": {"calories": 5, "protein": 0.3, "carbs": 0, "fats": 0.1},
			"confidence_score": 0.9,
			"notes": "assumed no sugar"
		}
	],
	"total_nutrition": {"calories": 110, "protein": 1.6, "carbs": 27, "fats": 0.5},
	"notes": "light breakfast"
}`

// newCompletionServer wraps content into a chat-completions response body.
func newCompletionServer(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		w.WriteHeader(status)
		body := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(body)
	}))
}

func TestOpenAIService_AnalyzeFoodEntry(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK, validAnalysisJSON)
	defer server.Close()

	svc := NewOpenAIService("test-key", "test-model", server.URL)
	analysis, err := svc.AnalyzeFoodEntry(context.Background(), "I had a banana and a coffee")
	require.NoError(t, err)

	assert.Equal(t, models.MealTypeBreakfast, analysis.MealType) // normalized to lowercase
	require.Len(t, analysis.Items, 2)
	assert.Equal(t, "Banana", analysis.Items[0].NormalizedTitle)
	assert.Equal(t, 105.0, analysis.Items[0].Nutrition.Calories)
	assert.Equal(t, 0.95, analysis.Items[0].ConfidenceScore)
	assert.Equal(t, "assumed no sugar", analysis.Items[1].Notes)
	assert.Equal(t, models.MacroNutrients{Calories: 110, Protein: 1.6, Carbs: 27, Fats: 0.5}, analysis.TotalNutrition)
	assert.Equal(t, "light breakfast", analysis.Notes)
}

func TestOpenAIService_AnalyzeFoodEntry_APIError(t *testing.T) {
	server := newCompletionServer(t, http.StatusBadGateway, "")
	defer server.Close()

	svc := NewOpenAIService("test-key", "test-model", server.URL)
	_, err := svc.AnalyzeFoodEntry(context.Background(), "a banana")

	var analysisErr *FoodAnalysisError
	require.ErrorAs(t, err, &analysisErr)
}

func TestOpenAIService_AnalyzeFoodEntry_EmptyContent(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK, "  ")
	defer server.Close()

	svc := NewOpenAIService("test-key", "test-model", server.URL)
	_, err := svc.AnalyzeFoodEntry(context.Background(), "a banana")

	var analysisErr *FoodAnalysisError
	require.ErrorAs(t, err, &analysisErr)
	assert.Contains(t, err.Error(), "no response content")
}

func TestParseFoodAnalysis_Validation(t *testing.T) {
	mutate := func(t *testing.T, change func(m map[string]any)) []byte {
		t.Helper()
		var m map[string]any
		require.NoError(t, json.Unmarshal([]byte(validAnalysisJSON), &m))
		change(m)
		out, err := json.Marshal(m)
		require.NoError(t, err)
		return out
	}

	t.Run("valid payload passes", func(t *testing.T) {
		_, err := parseFoodAnalysis([]byte(validAnalysisJSON))
		assert.NoError(t, err)
	})

	t.Run("missing meal_type", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { delete(m, "meal_type") })
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "invalid meal type")
	})

	t.Run("unrecognized meal_type", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { m["meal_type"] = "brunch" })
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "invalid meal type")
	})

	t.Run("empty items", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { m["items"] = []any{} })
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "non-empty")
	})

	t.Run("item missing confidence_score", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			item := m["items"].([]any)[0].(map[string]any)
			delete(item, "confidence_score")
		})
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "confidence_score")
	})

	t.Run("confidence_score out of range", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			item := m["items"].([]any)[0].(map[string]any)
			item["confidence_score"] = 1.5
		})
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "out of range")
	})

	t.Run("item nutrition missing a field", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			item := m["items"].([]any)[0].(map[string]any)
			delete(item["nutrition"].(map[string]any), "protein")
		})
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "missing protein")
	})

	t.Run("nutrition field with wrong type", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			item := m["items"].([]any)[0].(map[string]any)
			item["nutrition"].(map[string]any)["calories"] = "a lot"
		})
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "malformed")
	})

	t.Run("missing total_nutrition", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) { delete(m, "total_nutrition") })
		_, err := parseFoodAnalysis(data)
		assert.ErrorContains(t, err, "total_nutrition")
	})

	t.Run("total_nutrition not reconciled against item sum", func(t *testing.T) {
		data := mutate(t, func(m map[string]any) {
			m["total_nutrition"].(map[string]any)["calories"] = 9999.0
		})
		analysis, err := parseFoodAnalysis(data)
		require.NoError(t, err)
		assert.Equal(t, 9999.0, analysis.TotalNutrition.Calories)
	})
}

func TestOpenAIService_AnswerDietQuestion(t *testing.T) {
	server := newCompletionServer(t, http.StatusOK, "Eat more protein at breakfast.")
	defer server.Close()

	svc := NewOpenAIService("test-key", "test-model", server.URL)
	summary := &FoodLogSummary{
		DailyLogs: []DailySummary{
			{
				Date:   "2025-03-02",
				Totals: models.MacroNutrients{Calories: 1800, Protein: 80, Carbs: 200, Fats: 60},
				Items: []SummaryItem{
					{Title: "Oatmeal", MealType: "breakfast", Macros: models.MacroNutrients{Calories: 300, Protein: 10, Carbs: 50, Fats: 5}},
				},
			},
		},
		Averages:             models.MacroNutrients{Calories: 1800, Protein: 80, Carbs: 200, Fats: 60},
		MealTypeDistribution: map[string]int{"breakfast": 1},
		TotalLogs:            1,
		DaysAnalyzed:         1,
	}

	answer, err := svc.AnswerDietQuestion(context.Background(), "How am I doing?", models.MacroNutrients{Calories: 2000}, summary)
	require.NoError(t, err)
	// The model's text comes back verbatim.
	assert.Equal(t, "Eat more protein at breakfast.", answer)
}
