package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/hmdavis/whatsapp-diet/models"
)

// FoodAnalysisItem is one food item extracted from a message.
type FoodAnalysisItem struct {
	NormalizedTitle string
	Nutrition       models.MacroNutrients
	ConfidenceScore float64
	Notes           string
}

// FoodAnalysis is the validated result of analyzing one food message.
// TotalNutrition is what the model reported; it is not reconciled against
// the per-item sum, and only per-item nutrition is ever persisted.
type FoodAnalysis struct {
	MealType       string
	Items          []FoodAnalysisItem
	TotalNutrition models.MacroNutrients
	Notes          string
}

// OpenAIService wraps the chat-completions API for the two capabilities the
// pipeline needs: structured food analysis and free-form diet answers.
type OpenAIService struct {
	client  *http.Client
	apiKey  string
	model   string
	baseURL string
}

func NewOpenAIService(apiKey, model, baseURL string) *OpenAIService {
	if model == "" {
		model = "gpt-4-turbo-preview"
	}
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	return &OpenAIService{
		client:  &http.Client{Timeout: 30 * time.Second},
		apiKey:  apiKey,
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (s *OpenAIService) createCompletion(ctx context.Context, req chatCompletionRequest) (string, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to call completion API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("completion API error %d: %s", resp.StatusCode, string(body))
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("failed to parse completion JSON: %w", err)
	}
	if len(out.Choices) == 0 || strings.TrimSpace(out.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("no response content received")
	}
	return out.Choices[0].Message.Content, nil
}

const analysisSystemPrompt = "You are a nutrition analysis expert. Provide accurate, detailed " +
	"nutritional information for each food item in the specified JSON format."

// AnalyzeFoodEntry extracts one or more structured food items from a
// free-text description. Any structural violation in the model's output
// fails the whole call; there is no partial acceptance and no retry here.
func (s *OpenAIService) AnalyzeFoodEntry(ctx context.Context, foodDescription string) (*FoodAnalysis, error) {
	content, err := s.createCompletion(ctx, chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: analysisSystemPrompt},
			{Role: "user", Content: buildAnalysisPrompt(foodDescription)},
		},
		Temperature:    0.3,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return nil, NewFoodAnalysisError("Failed to analyze food entry", err)
	}

	analysis, err := parseFoodAnalysis([]byte(content))
	if err != nil {
		return nil, NewFoodAnalysisError("Invalid food analysis response", err)
	}
	return analysis, nil
}

func buildAnalysisPrompt(foodDescription string) string {
	return fmt.Sprintf(`Analyze the following food entry and provide a detailed nutritional breakdown.
The entry may contain multiple food items or a single composite dish with multiple components.

Food Entry: %s

Guidelines:
1. If the entry describes a single dish or meal (e.g. "a salad with chicken and vegetables"),
   analyze it as ONE item with combined nutritional values.
2. If the entry clearly lists separate items (e.g. "for breakfast I had a banana and a coffee"),
   break them into separate items.
3. For composite dishes, consider all ingredients together.

Respond with JSON in exactly this shape:
{
  "meal_type": "breakfast|lunch|dinner|snack|drink",
  "items": [
    {
      "normalized_title": "A clear, presentable title for the food item or dish",
      "nutrition": {
        "calories": <number>,
        "protein": <number in grams>,
        "carbs": <number in grams>,
        "fats": <number in grams>
      },
      "confidence_score": <number between 0 and 1>,
      "notes": "Any notes about this specific item"
    }
  ],
  "total_nutrition": {
    "calories": <sum>,
    "protein": <sum>,
    "carbs": <sum>,
    "fats": <sum>
  },
  "notes": "Any notes about the entire meal"
}

Examples:
1. "I had a chicken salad with lettuce, tomatoes, and avocado" -> ONE item: "Chicken Salad with Vegetables"
2. "For breakfast I had a banana and a coffee" -> TWO items: "Banana" and "Coffee"
3. "A turkey sandwich with cheese, lettuce, and tomato" -> ONE item: "Turkey and Cheese Sandwich"

All nutritional values must be numbers, meal_type must be one of the five listed
values, and every item needs a confidence_score between 0 and 1.`, foodDescription)
}

// Raw payload types mirror the model's JSON. Pointer fields distinguish a
// missing value from a zero so validation can reject incomplete output.
type rawNutrition struct {
	Calories *float64 `json:"calories"`
	Protein  *float64 `json:"protein"`
	Carbs    *float64 `json:"carbs"`
	Fats     *float64 `json:"fats"`
}

type rawFoodItem struct {
	NormalizedTitle string        `json:"normalized_title"`
	Nutrition       *rawNutrition `json:"nutrition"`
	ConfidenceScore *float64      `json:"confidence_score"`
	Notes           string        `json:"notes"`
}

type rawFoodAnalysis struct {
	MealType       string        `json:"meal_type"`
	Items          []rawFoodItem `json:"items"`
	TotalNutrition *rawNutrition `json:"total_nutrition"`
	Notes          string        `json:"notes"`
}

func parseFoodAnalysis(data []byte) (*FoodAnalysis, error) {
	var raw rawFoodAnalysis
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("malformed analysis JSON: %w", err)
	}

	mealType, ok := models.NormalizeMealType(raw.MealType)
	if !ok {
		return nil, fmt.Errorf("invalid meal type %q", raw.MealType)
	}
	if len(raw.Items) == 0 {
		return nil, fmt.Errorf("items must be a non-empty list")
	}

	items := make([]FoodAnalysisItem, 0, len(raw.Items))
	for i, item := range raw.Items {
		if strings.TrimSpace(item.NormalizedTitle) == "" {
			return nil, fmt.Errorf("item %d is missing normalized_title", i)
		}
		nutrition, err := checkNutrition(item.Nutrition)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if item.ConfidenceScore == nil {
			return nil, fmt.Errorf("item %d is missing confidence_score", i)
		}
		if *item.ConfidenceScore < 0 || *item.ConfidenceScore > 1 {
			return nil, fmt.Errorf("item %d: confidence_score %v out of range", i, *item.ConfidenceScore)
		}
		items = append(items, FoodAnalysisItem{
			NormalizedTitle: item.NormalizedTitle,
			Nutrition:       nutrition,
			ConfidenceScore: *item.ConfidenceScore,
			Notes:           item.Notes,
		})
	}

	total, err := checkNutrition(raw.TotalNutrition)
	if err != nil {
		return nil, fmt.Errorf("total_nutrition: %w", err)
	}

	return &FoodAnalysis{
		MealType:       mealType,
		Items:          items,
		TotalNutrition: total,
		Notes:          raw.Notes,
	}, nil
}

func checkNutrition(n *rawNutrition) (models.MacroNutrients, error) {
	if n == nil {
		return models.MacroNutrients{}, fmt.Errorf("missing nutrition")
	}
	if n.Calories == nil {
		return models.MacroNutrients{}, fmt.Errorf("missing calories")
	}
	if n.Protein == nil {
		return models.MacroNutrients{}, fmt.Errorf("missing protein")
	}
	if n.Carbs == nil {
		return models.MacroNutrients{}, fmt.Errorf("missing carbs")
	}
	if n.Fats == nil {
		return models.MacroNutrients{}, fmt.Errorf("missing fats")
	}
	return models.MacroNutrients{
		Calories: *n.Calories,
		Protein:  *n.Protein,
		Carbs:    *n.Carbs,
		Fats:     *n.Fats,
	}, nil
}

const questionSystemPrompt = "You are a friendly nutrition expert providing concise, SMS-friendly " +
	"diet advice. Keep responses brief, mobile-friendly, and actionable."

// AnswerDietQuestion answers a diet question with the user's targets and
// recent food history as context. The model's text is returned as-is.
func (s *OpenAIService) AnswerDietQuestion(ctx context.Context, question string, targets models.MacroNutrients, summary *FoodLogSummary) (string, error) {
	content, err := s.createCompletion(ctx, chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: questionSystemPrompt},
			{Role: "user", Content: buildQuestionPrompt(question, targets, summary)},
		},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", fmt.Errorf("failed to answer diet question: %w", err)
	}
	return content, nil
}

func buildQuestionPrompt(question string, targets models.MacroNutrients, summary *FoodLogSummary) string {
	var b bytes.Buffer

	b.WriteString("You are a nutrition expert providing personalized diet advice via SMS.\n")
	b.WriteString("Keep the answer concise (2-3 short paragraphs), easy to read on mobile, and actionable.\n\n")

	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Target Calories: %.0f\n", targets.Calories)
	fmt.Fprintf(&b, "- Target Protein: %.1fg\n", targets.Protein)
	fmt.Fprintf(&b, "- Target Carbs: %.1fg\n", targets.Carbs)
	fmt.Fprintf(&b, "- Target Fats: %.1fg\n\n", targets.Fats)

	fmt.Fprintf(&b, "Recent Food Log Summary (Last %d days):\n", summary.DaysAnalyzed)
	b.WriteString("Average Daily Intake:\n")
	fmt.Fprintf(&b, "- Calories: %.0f\n", summary.Averages.Calories)
	fmt.Fprintf(&b, "- Protein: %.1fg\n", summary.Averages.Protein)
	fmt.Fprintf(&b, "- Carbs: %.1fg\n", summary.Averages.Carbs)
	fmt.Fprintf(&b, "- Fats: %.1fg\n\n", summary.Averages.Fats)

	b.WriteString("Meal Type Distribution:\n")
	mealTypes := make([]string, 0, len(summary.MealTypeDistribution))
	for mealType := range summary.MealTypeDistribution {
		mealTypes = append(mealTypes, mealType)
	}
	sort.Strings(mealTypes)
	for _, mealType := range mealTypes {
		fmt.Fprintf(&b, "- %s: %d entries\n", mealType, summary.MealTypeDistribution[mealType])
	}

	b.WriteString("\nDetailed Food Logs:\n")
	for _, day := range summary.DailyLogs {
		fmt.Fprintf(&b, "\n%s:\n", day.Date)
		for _, item := range day.Items {
			fmt.Fprintf(&b, "- %s: %s\n", titleCase(item.MealType), item.Title)
			fmt.Fprintf(&b, "  Calories: %.0f, Protein: %.1fg, Carbs: %.1fg, Fats: %.1fg\n",
				item.Macros.Calories, item.Macros.Protein, item.Macros.Carbs, item.Macros.Fats)
		}
		fmt.Fprintf(&b, "Daily Total: %.0f calories, %.1fg protein, %.1fg carbs, %.1fg fats\n",
			day.Totals.Calories, day.Totals.Protein, day.Totals.Carbs, day.Totals.Fats)
	}

	fmt.Fprintf(&b, "\nUser Question: %q\n\n", question)
	b.WriteString("Start with a direct answer, mention 1-2 insights from the logs, and end with " +
		"1-2 specific, actionable suggestions. Use short lines and simple language.")
	return b.String()
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
