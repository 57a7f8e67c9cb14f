package models

import (
	"strings"
	"time"
)

// Sentiment is the correct/incorrect classification of user feedback.
type Sentiment string

const (
	SentimentCorrect   Sentiment = "correct"
	SentimentIncorrect Sentiment = "incorrect"
)

// NormalizeSentiment lowercases raw input and reports whether it is one of
// the two accepted values.
func NormalizeSentiment(raw string) (Sentiment, bool) {
	switch Sentiment(strings.ToLower(raw)) {
	case SentimentCorrect:
		return SentimentCorrect, true
	case SentimentIncorrect:
		return SentimentIncorrect, true
	default:
		return "", false
	}
}

// FeedbackRecord is one line of the append-only feedback ledger. It is
// associated to a prior decision only loosely, by symbol and action; the
// caller supplies the original action.
type FeedbackRecord struct {
	Symbol          string    `json:"symbol"`
	PredictedAction Action    `json:"predicted_action"`
	Sentiment       Sentiment `json:"user_feedback"`
	ActualReturnPct *float64  `json:"actual_return"`
	Timestamp       time.Time `json:"timestamp"`
}

// FeedbackSummary is the running accuracy over the ledger, optionally
// filtered to one symbol.
type FeedbackSummary struct {
	Symbol        string           `json:"symbol,omitempty"`
	Total         int              `json:"total_feedback"`
	Correct       int              `json:"correct_predictions"`
	Incorrect     int              `json:"incorrect_predictions"`
	AccuracyPct   float64          `json:"accuracy"`
	RecentRecords []FeedbackRecord `json:"feedback_records"`
}
