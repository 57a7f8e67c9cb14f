package usecase

import (
	"context"
	"math"
	"sort"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
)

// ScanHit is one ranked opportunity from a market scan.
type ScanHit struct {
	Symbol   string           `json:"symbol"`
	Score    float64          `json:"scan_score"`
	Decision *models.Decision `json:"prediction"`
}

// Scanner ranks a symbol list by decision quality. Failures and neutral
// calls drop out of the ranking silently; a scan is an overview, not an
// audit.
type Scanner struct {
	predictor *Predictor
	logger    *applogger.Logger
}

func NewScanner(predictor *Predictor, logger *applogger.Logger) *Scanner {
	return &Scanner{predictor: predictor, logger: logger}
}

// Scan predicts every symbol and returns non-HOLD decisions at or above
// minConfidence, ranked by confidence weighted with expected return.
func (s *Scanner) Scan(ctx context.Context, symbols []string, horizon models.Horizon, minConfidence float64) []ScanHit {
	results := s.predictor.Predict(ctx, symbols, horizon)

	hits := make([]ScanHit, 0, len(results))
	for _, r := range results {
		if r.Error != "" {
			s.logger.Warn("scan symbol skipped",
				applogger.String("symbol", r.Symbol),
				applogger.String("reason", r.Error),
			)
			continue
		}
		d := r.Decision
		if d.Action == models.ActionHold || d.Confidence < minConfidence {
			continue
		}
		hits = append(hits, ScanHit{
			Symbol:   r.Symbol,
			Score:    d.Confidence * (1 + math.Abs(d.ExpectedReturnPct)/10),
			Decision: d,
		})
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits
}
