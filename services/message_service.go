package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hmdavis/whatsapp-diet/models"
	"github.com/hmdavis/whatsapp-diet/utils"
)

// QuestionAnswerer produces free-form advice for a diet question given the
// user's targets and recent history.
type QuestionAnswerer interface {
	AnswerDietQuestion(ctx context.Context, question string, targets models.MacroNutrients, summary *FoodLogSummary) (string, error)
}

const (
	summaryWindowDays = 7

	genericErrorMessage = "An unexpected error occurred. Please try again."
)

// MessageService runs the pipeline for one inbound message: resolve the
// sender, classify, then branch into the question or food-entry path. All
// dependencies are injected; the service holds no per-request state.
type MessageService struct {
	users      *UserService
	classifier *ClassifierService
	foodLogs   *FoodLogService
	nutrition  *NutritionService
	formatter  *FormatterService
	qa         QuestionAnswerer
	logger     *slog.Logger
}

func NewMessageService(
	users *UserService,
	classifier *ClassifierService,
	foodLogs *FoodLogService,
	nutrition *NutritionService,
	formatter *FormatterService,
	qa QuestionAnswerer,
	logger *slog.Logger,
) *MessageService {
	return &MessageService{
		users:      users,
		classifier: classifier,
		foodLogs:   foodLogs,
		nutrition:  nutrition,
		formatter:  formatter,
		qa:         qa,
		logger:     logger,
	}
}

// HandleMessage always returns reply text for the channel. Failures are
// logged with full detail and folded into a friendly reply; they never
// surface as transport errors. now is the reference instant for all daily
// aggregation.
func (s *MessageService) HandleMessage(ctx context.Context, from, body string, now time.Time) string {
	logger := s.log(ctx)
	phoneNumber := strings.TrimPrefix(from, "whatsapp:")

	user, err := s.users.GetByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return s.formatter.FormatUserNotFoundResponse()
		}
		logger.Error("failed to resolve user", "from", from, "error", err)
		return s.formatter.FormatErrorResponse(genericErrorMessage)
	}

	var reply string
	switch s.classifier.Classify(body) {
	case MessageTypeQuestion:
		reply, err = s.handleQuestion(ctx, user, body, now)
	default:
		reply, err = s.handleFoodEntry(ctx, user, body, now)
	}
	if err == nil {
		return reply
	}

	var analysisErr *FoodAnalysisError
	if errors.As(err, &analysisErr) {
		logger.Error("diet tracker error", "user_id", user.ID, "error", err)
		return s.formatter.FormatErrorResponse(analysisErr.Message)
	}
	logger.Error("unexpected error handling message", "user_id", user.ID, "error", err)
	return s.formatter.FormatErrorResponse(genericErrorMessage)
}

// log returns the service logger enriched with the request's correlation
// id when one is on the context.
func (s *MessageService) log(ctx context.Context) *slog.Logger {
	if id := utils.RequestIDFromContext(ctx); id != "" {
		return s.logger.With("request_id", id)
	}
	return s.logger
}

func (s *MessageService) handleQuestion(ctx context.Context, user *models.User, question string, now time.Time) (string, error) {
	summary, err := s.foodLogs.Summary(ctx, user.ID, summaryWindowDays, now)
	if err != nil {
		return "", NewFoodAnalysisError("Failed to process question", err)
	}

	answer, err := s.qa.AnswerDietQuestion(ctx, question, user.Targets(), summary)
	if err != nil {
		return "", NewFoodAnalysisError("Failed to process question", err)
	}
	return answer, nil
}

func (s *MessageService) handleFoodEntry(ctx context.Context, user *models.User, message string, now time.Time) (string, error) {
	logs, err := s.foodLogs.LogFoodEntry(ctx, user.ID, message, now)
	if err != nil {
		var analysisErr *FoodAnalysisError
		if errors.As(err, &analysisErr) {
			return "", err
		}
		return "", NewFoodAnalysisError("Failed to process food entry", err)
	}

	mealTotals := s.nutrition.MealTotals(logs)

	dailyConsumed, err := s.foodLogs.DailyTotals(ctx, user.ID, now)
	if err != nil {
		return "", NewFoodAnalysisError("Failed to process food entry", err)
	}

	progress := s.nutrition.DailyProgress(dailyConsumed, user.Targets())
	recommendations := s.nutrition.Recommendations(progress)

	return s.formatter.FormatFoodLogResponse(logs, mealTotals, progress, recommendations), nil
}
