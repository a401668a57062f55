package services

import (
	"errors"
	"fmt"
)

// Error kinds recognized at the orchestrator boundary. Domain errors become
// user-facing reply text there; they never surface as transport failures.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrExternalService = errors.New("external service error")
)

// FoodAnalysisError marks failures in the food or question pipeline,
// including malformed or absent AI output.
type FoodAnalysisError struct {
	Message string
	Err     error
}

func NewFoodAnalysisError(message string, err error) *FoodAnalysisError {
	return &FoodAnalysisError{Message: message, Err: err}
}

func (e *FoodAnalysisError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *FoodAnalysisError) Unwrap() error { return e.Err }
