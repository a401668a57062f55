package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hmdavis/whatsapp-diet/models"
	"github.com/hmdavis/whatsapp-diet/utils"
)

type fakeQuestionAnswerer struct {
	answer      string
	err         error
	gotQuestion string
	gotTargets  models.MacroNutrients
	gotSummary  *FoodLogSummary
}

func (f *fakeQuestionAnswerer) AnswerDietQuestion(ctx context.Context, question string, targets models.MacroNutrients, summary *FoodLogSummary) (string, error) {
	f.gotQuestion = question
	f.gotTargets = targets
	f.gotSummary = summary
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func newMessageService(db *gorm.DB, analyzer FoodAnalyzer, qa QuestionAnswerer) *MessageService {
	return NewMessageService(
		NewUserService(db),
		NewClassifierService(),
		NewFoodLogService(db, analyzer),
		NewNutritionService(),
		NewFormatterService(),
		qa,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func TestMessageService_UnknownSender(t *testing.T) {
	db := newTestDB(t)
	svc := newMessageService(db, &fakeAnalyzer{}, &fakeQuestionAnswerer{})

	reply := svc.HandleMessage(context.Background(), "whatsapp:+19998887777", "I had a banana", time.Now())
	assert.Equal(t, "User not found. Please set up your profile first.", reply)
}

func TestMessageService_FoodEntry(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "+15550001111")
	analyzer := &fakeAnalyzer{analysis: twoItemAnalysis()}
	svc := newMessageService(db, analyzer, &fakeQuestionAnswerer{})

	now := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	// The channel prefix is stripped before lookup.
	reply := svc.HandleMessage(context.Background(), "whatsapp:+15550001111", "I had a banana and a coffee", now)

	assert.Contains(t, reply, "Logged your meal!")
	assert.Contains(t, reply, "• Banana:")
	assert.Contains(t, reply, "• Black Coffee:")
	// Meal totals equal the field-wise sum of both rows.
	assert.Contains(t, reply, "Total for this meal:\nCalories: 110\n")
	// Daily progress against the seeded targets (2000 kcal, 150g protein).
	assert.Contains(t, reply, "Calories: 110/2000 (5%)")
	assert.Contains(t, reply, "Recommendations:")

	var logs []models.FoodLog
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&logs).Error)
	require.Len(t, logs, 2)
	for _, l := range logs {
		assert.Equal(t, models.MealTypeBreakfast, l.MealType)
		assert.Equal(t, "I had a banana and a coffee", l.FoodDescription)
	}
}

func TestMessageService_Question(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "+15550001111")
	insertFoodLog(t, db, user.ID, time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC), models.MealTypeBreakfast,
		models.MacroNutrients{Calories: 400, Protein: 20, Carbs: 60, Fats: 10})
	qa := &fakeQuestionAnswerer{answer: "You're doing great, keep it up!"}
	svc := newMessageService(db, &fakeAnalyzer{}, qa)

	now := time.Date(2025, 3, 2, 9, 30, 0, 0, time.UTC)
	reply := svc.HandleMessage(context.Background(), "+15550001111", "How am I doing this week?", now)

	// The answer is relayed verbatim.
	assert.Equal(t, "You're doing great, keep it up!", reply)
	assert.Equal(t, "How am I doing this week?", qa.gotQuestion)
	assert.Equal(t, 2000.0, qa.gotTargets.Calories)
	require.NotNil(t, qa.gotSummary)
	assert.Equal(t, 1, qa.gotSummary.TotalLogs)
}

func TestMessageService_QuestionFailure(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "+15550001111")
	qa := &fakeQuestionAnswerer{err: errors.New("model unavailable")}
	svc := newMessageService(db, &fakeAnalyzer{}, qa)

	reply := svc.HandleMessage(context.Background(), "+15550001111", "what should I eat?", time.Now())
	assert.Equal(t, "Sorry, an error occurred: Failed to process question", reply)
}

func TestMessageService_FailedAnalysisRepliesAndWritesNothing(t *testing.T) {
	db := newTestDB(t)
	user := createTestUser(t, db, "+15550001111")
	analyzer := &fakeAnalyzer{err: NewFoodAnalysisError("Invalid food analysis response", errors.New("meal_type brunch"))}
	svc := newMessageService(db, analyzer, &fakeQuestionAnswerer{})

	reply := svc.HandleMessage(context.Background(), "+15550001111", "mystery casserole", time.Now())
	assert.Equal(t, "Sorry, an error occurred: Invalid food analysis response", reply)

	var count int64
	require.NoError(t, db.Model(&models.FoodLog{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMessageService_LogsCarryRequestID(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "+15550001111")

	var buf bytes.Buffer
	svc := NewMessageService(
		NewUserService(db),
		NewClassifierService(),
		NewFoodLogService(db, &fakeAnalyzer{err: errors.New("model down")}),
		NewNutritionService(),
		NewFormatterService(),
		&fakeQuestionAnswerer{},
		slog.New(slog.NewTextHandler(&buf, nil)),
	)

	ctx := utils.ContextWithRequestID(context.Background(), "corr-123")
	_ = svc.HandleMessage(ctx, "+15550001111", "mystery meal", time.Now())

	// The error line carries the correlation id from the context.
	assert.Contains(t, buf.String(), "request_id=corr-123")
}

func TestMessageService_EmptyBodyIsFoodEntry(t *testing.T) {
	db := newTestDB(t)
	createTestUser(t, db, "+15550001111")
	analyzer := &fakeAnalyzer{err: NewFoodAnalysisError("Invalid food analysis response", errors.New("empty"))}
	qa := &fakeQuestionAnswerer{answer: "should not be called"}
	svc := newMessageService(db, analyzer, qa)

	// Empty text matches no classifier rule, so it goes down the food path.
	_ = svc.HandleMessage(context.Background(), "+15550001111", "", time.Now())
	assert.Equal(t, 1, analyzer.calls)
	assert.Empty(t, qa.gotQuestion)
}
