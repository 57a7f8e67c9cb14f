package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"StockPulse/internal/domain/models"
)

func TestClassifySentiment(t *testing.T) {
	cases := []struct {
		text string
		want models.Sentiment
	}{
		{"the trade worked out, nice profit", models.SentimentCorrect},
		{"price dropped and reversed", models.SentimentIncorrect},
		{"spot on, it rose and gained all week", models.SentimentCorrect},
		{"completely wrong call, big loss", models.SentimentIncorrect},
		{"", models.SentimentIncorrect},
		{"no opinion either way", models.SentimentIncorrect},
		// Any negative keyword makes the text ambiguous, regardless
		// of how many positives surround it.
		{"right direction but it fell after", models.SentimentIncorrect},
		{"good call, solid profit, though it dropped a bit at the end", models.SentimentIncorrect},
		{"worked great, rose and gained, but one bad day", models.SentimentIncorrect},
		{"incorrect", models.SentimentIncorrect},
		{"correct", models.SentimentCorrect},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifySentiment(tc.text), "text %q", tc.text)
	}
}
