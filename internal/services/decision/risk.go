package decision

import (
	"math"

	"StockPulse/internal/domain/models"
)

const tradingDaysPerYear = 252

// RiskFromPanel derives volatility, max drawdown, and Sharpe ratio from
// the retained panel rows. Zero values when the panel is too thin.
func RiskFromPanel(panel *models.IndicatorPanel) models.RiskMetrics {
	var out models.RiskMetrics
	if panel == nil || panel.Empty() {
		return out
	}

	closes, ok := panel.Frame.Column(models.ColClose)
	if !ok || len(closes) < 2 {
		return out
	}
	returns, ok := panel.Frame.Column(models.ColDailyReturn)
	if !ok {
		return out
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns) - 1)
	std := math.Sqrt(variance)

	out.Volatility = std * math.Sqrt(tradingDaysPerYear)
	if std > 0 {
		out.SharpeRatio = mean * tradingDaysPerYear / out.Volatility
	}
	out.MaxDrawdown = maxDrawdown(closes)
	return out
}

// maxDrawdown is the largest peak-to-trough fraction, reported negative.
func maxDrawdown(closes []float64) float64 {
	peak := closes[0]
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			dd := c/peak - 1
			if dd < worst {
				worst = dd
			}
		}
	}
	return worst
}
