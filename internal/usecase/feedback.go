package usecase

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/decision"
	applogger "StockPulse/pkg/logger"
)

// recentRecordLimit bounds the record list in a summary response.
const recentRecordLimit = 100

// FeedbackService records user feedback on past decisions and summarizes
// running accuracy over the ledger.
type FeedbackService struct {
	ledger domrepo.FeedbackLog
	logger *applogger.Logger
}

func NewFeedbackService(ledger domrepo.FeedbackLog, logger *applogger.Logger) *FeedbackService {
	return &FeedbackService{ledger: ledger, logger: logger}
}

// Record classifies the free-text feedback and appends one ledger line.
// Malformed input is rejected before any write.
func (f *FeedbackService) Record(ctx context.Context, symbol, predictedAction, feedback string, actualReturnPct *float64) (*models.FeedbackRecord, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", models.ErrValidation)
	}
	action, ok := models.NormalizeAction(predictedAction)
	if !ok {
		return nil, fmt.Errorf("%w: unknown action %q", models.ErrValidation, predictedAction)
	}

	rec := &models.FeedbackRecord{
		Symbol:          symbol,
		PredictedAction: action,
		Sentiment:       decision.ClassifySentiment(feedback),
		ActualReturnPct: actualReturnPct,
		Timestamp:       time.Now().UTC(),
	}
	if err := f.ledger.Append(ctx, rec); err != nil {
		return nil, err
	}

	f.logger.Info("feedback recorded",
		applogger.String("symbol", symbol),
		applogger.String("sentiment", string(rec.Sentiment)),
	)
	return rec, nil
}

// Summarize streams the ledger and computes accuracy, optionally filtered
// to one symbol. Only the most recent records are echoed back.
func (f *FeedbackService) Summarize(ctx context.Context, symbol string) (*models.FeedbackSummary, error) {
	symbol = NormalizeSymbol(symbol)

	records, err := f.ledger.All(ctx)
	if err != nil {
		return nil, err
	}

	summary := &models.FeedbackSummary{Symbol: symbol}
	var matched []models.FeedbackRecord
	for _, rec := range records {
		if symbol != "" && rec.Symbol != symbol {
			continue
		}
		matched = append(matched, rec)
		summary.Total++
		if rec.Sentiment == models.SentimentCorrect {
			summary.Correct++
		} else {
			summary.Incorrect++
		}
	}

	if summary.Total > 0 {
		summary.AccuracyPct = float64(summary.Correct) / float64(summary.Total) * 100
	}
	if len(matched) > recentRecordLimit {
		matched = matched[len(matched)-recentRecordLimit:]
	}
	summary.RecentRecords = matched
	return summary, nil
}
