package decision

import (
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
)

const (
	rsiOverbought = 70.0
	rsiOversold   = 30.0

	longThreshold  = 1.5
	shortThreshold = -1.5

	minConfidence = 0.10
	maxConfidence = 0.95
)

// Engine scores the latest indicator row into a directional call. Fully
// deterministic; display variance lives in Variance, not here.
type Engine struct {
	logger *applogger.Logger
}

// NewEngine creates a decision engine.
func NewEngine(logger *applogger.Logger) *Engine {
	return &Engine{logger: logger}
}

// Decide scores the latest row of the panel for the given horizon. A panel
// without the required columns degrades to a neutral HOLD instead of
// failing.
func (e *Engine) Decide(symbol string, horizon models.Horizon, panel *models.IndicatorPanel) *models.Decision {
	if panel == nil || panel.Empty() {
		return e.hold(symbol, horizon, 0)
	}

	frame := panel.Frame
	closePrice, okClose := frame.Last(models.ColClose)
	sma50, okSMA := frame.Last(models.SMAName(50))
	rsi, okRSI := frame.Last(models.ColRSI14)
	if !okClose || !okSMA || !okRSI {
		return e.hold(symbol, horizon, closePrice)
	}

	macd, okMACD := frame.Last(models.ColMACD)
	macdSignal, okSignal := frame.Last(models.ColMACDSignal)
	macdBullish := okMACD && okSignal && macd > macdSignal

	bullish := closePrice > sma50
	overbought := rsi > rsiOverbought
	oversold := rsi < rsiOversold

	score := 0.0
	var reasons []string
	if bullish {
		score += 1
		reasons = append(reasons, "price above 50-day SMA (uptrend)")
		if !overbought {
			score += 1
			reasons = append(reasons, "RSI not overbought")
		} else {
			score -= 0.5
			reasons = append(reasons, "RSI overbought, pullback risk")
		}
		if macdBullish {
			score += 0.5
			reasons = append(reasons, "MACD above signal line")
		}
	} else {
		score -= 1
		reasons = append(reasons, "price below 50-day SMA (downtrend)")
		if !oversold {
			score -= 1
			reasons = append(reasons, "RSI not oversold")
		} else {
			score += 0.5
			reasons = append(reasons, "RSI oversold, bounce risk")
		}
		if !macdBullish {
			score -= 0.5
			reasons = append(reasons, "MACD below signal line")
		}
	}

	var action models.Action
	var confidence, expectedReturn float64
	switch {
	case score >= longThreshold:
		action = models.ActionLong
		confidence = 0.6 + minFloat(0.3, score/5)
		expectedReturn = score * 1.5
	case score <= shortThreshold:
		action = models.ActionShort
		confidence = 0.6 + minFloat(0.3, -score/5)
		expectedReturn = score * 1.5
	default:
		action = models.ActionHold
		confidence = 0.5
		expectedReturn = 0
	}
	confidence = clamp(confidence, minConfidence, maxConfidence)

	d := &models.Decision{
		Symbol:            symbol,
		Horizon:           horizon,
		Action:            action,
		Confidence:        confidence,
		ExpectedReturnPct: expectedReturn,
		CurrentPrice:      closePrice,
		PredictedPrice:    closePrice * (1 + expectedReturn/100),
		Score:             score,
		Reason:            strings.Join(reasons, "; "),
		RiskMetrics:       RiskFromPanel(panel),
		HorizonDetail:     horizon.Detail(),
		Timestamp:         time.Now().UTC(),
	}

	e.logger.Debug("decision scored",
		applogger.String("symbol", symbol),
		applogger.String("action", string(action)),
		applogger.Float64("score", score),
		applogger.Float64("confidence", confidence),
	)
	return d
}

func (e *Engine) hold(symbol string, horizon models.Horizon, price float64) *models.Decision {
	return &models.Decision{
		Symbol:         symbol,
		Horizon:        horizon,
		Action:         models.ActionHold,
		Confidence:     0.5,
		CurrentPrice:   price,
		PredictedPrice: price,
		Reason:         "insufficient data",
		HorizonDetail:  horizon.Detail(),
		Timestamp:      time.Now().UTC(),
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
