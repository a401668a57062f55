package services

import "strings"

const (
	MessageTypeQuestion  = "question"
	MessageTypeFoodEntry = "food_entry"
)

var questionKeywords = []string{
	"how", "what", "why", "when", "where", "can", "could",
	"would", "should", "do", "does", "did", "is", "are",
	"was", "were", "will", "have", "has", "had",
}

var questionIndicators = []string{
	"recommend", "suggest", "advice", "help", "tell me",
}

// ClassifierService decides whether an inbound message is a diet question or
// a food entry. Stateless, no I/O.
type ClassifierService struct{}

func NewClassifierService() *ClassifierService { return &ClassifierService{} }

// IsQuestion applies three checks in order: a literal question mark, a
// leading interrogative word, then advice-seeking phrases anywhere in the
// text.
func (s *ClassifierService) IsQuestion(message string) bool {
	lower := strings.ToLower(strings.TrimSpace(message))

	if strings.Contains(message, "?") {
		return true
	}
	for _, word := range questionKeywords {
		if strings.HasPrefix(lower, word) {
			return true
		}
	}
	for _, indicator := range questionIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// Classify returns MessageTypeQuestion or MessageTypeFoodEntry. Empty text
// matches no rule and counts as a food entry.
func (s *ClassifierService) Classify(message string) string {
	if s.IsQuestion(message) {
		return MessageTypeQuestion
	}
	return MessageTypeFoodEntry
}
