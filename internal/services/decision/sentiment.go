package decision

import (
	"strings"

	"StockPulse/internal/domain/models"
)

// Keyword sets for free-text feedback classification. Mixed and
// no-match text defaults to incorrect, keeping reported accuracy
// conservative.
var (
	negativeKeywords = []string{
		"wrong", "incorrect", "bad", "failed", "reversed",
		"loss", "down", "fell", "dropped",
	}
	positiveKeywords = []string{
		"correct", "right", "good", "worked", "profit",
		"up", "rose", "gained",
	}
)

// ClassifySentiment maps free-text feedback onto correct/incorrect.
// Only unambiguously positive text counts as correct: any negative
// keyword makes the text ambiguous and it falls to incorrect.
func ClassifySentiment(text string) models.Sentiment {
	lower := strings.ToLower(text)

	hasNegative := containsAny(lower, negativeKeywords)
	hasPositive := containsAny(lower, positiveKeywords)

	if hasPositive && !hasNegative {
		return models.SentimentCorrect
	}
	return models.SentimentIncorrect
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
