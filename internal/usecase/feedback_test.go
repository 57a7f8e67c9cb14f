package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
)

func TestRecordClassifiesAndAppends(t *testing.T) {
	ledger := &memFeedbackLog{}
	svc := NewFeedbackService(ledger, testLogger(t))
	ctx := context.Background()

	rec, err := svc.Record(ctx, "aapl", "buy", "the trade worked out, nice profit", nil)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", rec.Symbol)
	assert.Equal(t, models.ActionLong, rec.PredictedAction)
	assert.Equal(t, models.SentimentCorrect, rec.Sentiment)

	rec, err = svc.Record(ctx, "AAPL", "SHORT", "price dropped and reversed", nil)
	require.NoError(t, err)
	assert.Equal(t, models.SentimentIncorrect, rec.Sentiment)

	require.Len(t, ledger.recs, 2)
}

func TestRecordRejectsBadAction(t *testing.T) {
	ledger := &memFeedbackLog{}
	svc := NewFeedbackService(ledger, testLogger(t))

	_, err := svc.Record(context.Background(), "AAPL", "MAYBE", "no idea", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	// A rejected record never reaches the ledger.
	assert.Empty(t, ledger.recs)
}

func TestSummarizeEmptyLedger(t *testing.T) {
	svc := NewFeedbackService(&memFeedbackLog{}, testLogger(t))

	summary, err := svc.Summarize(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, summary.Total)
	assert.Zero(t, summary.AccuracyPct)
	assert.Empty(t, summary.RecentRecords)
}

func TestSummarizeAccuracyAndFilter(t *testing.T) {
	ledger := &memFeedbackLog{}
	svc := NewFeedbackService(ledger, testLogger(t))
	ctx := context.Background()

	_, err := svc.Record(ctx, "AAPL", "LONG", "good call, profit", nil)
	require.NoError(t, err)
	_, err = svc.Record(ctx, "AAPL", "LONG", "wrong, it fell", nil)
	require.NoError(t, err)
	_, err = svc.Record(ctx, "MSFT", "SHORT", "worked", nil)
	require.NoError(t, err)

	all, err := svc.Summarize(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)
	assert.Equal(t, 2, all.Correct)
	assert.InDelta(t, 66.666, all.AccuracyPct, 0.01)

	aapl, err := svc.Summarize(ctx, "aapl")
	require.NoError(t, err)
	assert.Equal(t, 2, aapl.Total)
	assert.Equal(t, 1, aapl.Correct)
	assert.Equal(t, 1, aapl.Incorrect)
	assert.InDelta(t, 50.0, aapl.AccuracyPct, 1e-9)
	assert.Len(t, aapl.RecentRecords, 2)
}

func TestSummarizeBoundsRecentRecords(t *testing.T) {
	ledger := &memFeedbackLog{}
	svc := NewFeedbackService(ledger, testLogger(t))
	ctx := context.Background()

	for i := 0; i < 120; i++ {
		_, err := svc.Record(ctx, "AAPL", "HOLD", "worked", nil)
		require.NoError(t, err)
	}

	summary, err := svc.Summarize(ctx, "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 120, summary.Total)
	assert.Len(t, summary.RecentRecords, recentRecordLimit)
}
