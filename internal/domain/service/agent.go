package service

import (
	"context"

	"StockPulse/internal/domain/models"
)

// TradingAgent is the reinforcement-learning agent surface. The shipped
// implementation is a placeholder that writes artifact files and picks
// actions uniformly; the interface exists so a trained agent can slot in
// without touching the decision pipeline.
type TradingAgent interface {
	Train(ctx context.Context, panel *models.IndicatorPanel, episodes int) error
	Predict(state []float64) models.Action
	Save(symbol string, horizon models.Horizon) error
	Load(symbol string, horizon models.Horizon) error
}
