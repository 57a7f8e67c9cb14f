package features

import (
	"fmt"
	"math"
	"time"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
)

// MinUsableBars is the shortest history the engine accepts. Below this the
// panel would be all warmup.
const MinUsableBars = 50

// Engine derives the indicator panel from a price history. Stateless; a
// panel is recomputed wholesale on every call.
type Engine struct {
	logger *applogger.Logger
}

// NewEngine creates a feature engine.
func NewEngine(logger *applogger.Logger) *Engine {
	return &Engine{logger: logger}
}

// Compute builds the full indicator panel for a snapshot. Warmup rows,
// those where any indicator is still unset, are dropped; with the 200-day
// SMA in the set the panel is always 199 rows shorter than the history.
func (e *Engine) Compute(snap *models.PriceHistorySnapshot) (*models.IndicatorPanel, error) {
	if snap == nil || len(snap.Bars) <= MinUsableBars {
		return nil, fmt.Errorf("%w: %s has %d bars, need more than %d",
			models.ErrInsufficientHistory, snapSymbol(snap), snapLen(snap), MinUsableBars)
	}

	n := len(snap.Bars)
	dates := make([]time.Time, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	closes := make([]float64, n)
	volume := make([]float64, n)
	dividends := make([]float64, n)
	splits := make([]float64, n)
	for i, b := range snap.Bars {
		dates[i] = b.Date
		open[i] = b.Open
		high[i] = b.High
		low[i] = b.Low
		closes[i] = b.Close
		volume[i] = float64(b.Volume)
		dividends[i] = b.Dividends
		splits[i] = b.Splits
	}

	frame := models.NewFrame(dates)
	set := func(name string, v []float64) {
		// Lengths always match the index here; SetColumn guards the rest.
		_ = frame.SetColumn(name, v)
	}

	set(models.ColOpen, open)
	set(models.ColHigh, high)
	set(models.ColLow, low)
	set(models.ColClose, closes)
	set(models.ColVolume, volume)
	set(models.ColDividends, dividends)
	set(models.ColSplits, splits)

	ret := pctChange(closes)
	set(models.ColDailyReturn, ret)
	set(models.ColDailyReturnMA5, rollingMean(ret, 5))

	for _, w := range models.SMAWindows {
		sma := rollingMean(closes, w)
		set(models.SMAName(w), sma)
		set(models.PriceToSMAName(w), ratio(closes, sma))
	}

	ema12 := ewm(closes, 12)
	ema26 := ewm(closes, 26)
	set(models.ColEMA12, ema12)
	set(models.ColEMA26, ema26)

	std20 := rollingStd(closes, 20)
	set(models.ColSTD20, std20)
	set(models.ColVolatility20, scale(rollingStd(ret, 20), math.Sqrt(252)))

	middle := rollingMean(closes, 20)
	upper := addScaled(middle, std20, 2)
	lower := addScaled(middle, std20, -2)
	set(models.ColBBMiddle, middle)
	set(models.ColBBUpper, upper)
	set(models.ColBBLower, lower)
	set(models.ColBBWidth, sub(upper, lower))
	set(models.ColBBPct, bandPosition(closes, lower, upper))

	set(models.ColRSI14, rsi(closes, 14))

	macd := sub(ema12, ema26)
	signal := ewm(macd, 9)
	set(models.ColMACD, macd)
	set(models.ColMACDSignal, signal)
	set(models.ColMACDHist, sub(macd, signal))

	volSMA := rollingMean(volume, 20)
	set(models.ColVolumeSMA20, volSMA)
	set(models.ColVolumeRatio, ratio(volume, volSMA))
	set(models.ColOBV, obv(closes, volume))

	set(models.ColATR, atr(high, low, closes, 14))

	set(models.ColHigherHigh, breakoutFlags(high, func(cur, prev float64) bool { return cur > prev }))
	set(models.ColLowerLow, breakoutFlags(low, func(cur, prev float64) bool { return cur < prev }))

	set(models.ColPricePosition, bandPosition(closes, rollingMin(low, 50), rollingMax(high, 50)))

	retained := frame.DropUnset()
	e.logger.Debug("panel computed",
		applogger.String("symbol", snap.Symbol),
		applogger.Int("bars", n),
		applogger.Int("rows", retained.Len()),
	)

	return &models.IndicatorPanel{
		Symbol:       snap.Symbol,
		CalculatedAt: time.Now().UTC(),
		Frame:        retained,
	}, nil
}

func snapSymbol(s *models.PriceHistorySnapshot) string {
	if s == nil {
		return ""
	}
	return s.Symbol
}

func snapLen(s *models.PriceHistorySnapshot) int {
	if s == nil {
		return 0
	}
	return len(s.Bars)
}

func ratio(a, b []float64) []float64 {
	out := nanSlice(len(a))
	for i := range a {
		if math.IsNaN(a[i]) || math.IsNaN(b[i]) || b[i] == 0 {
			continue
		}
		out[i] = a[i] / b[i]
	}
	return out
}

func sub(a, b []float64) []float64 {
	out := nanSlice(len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}

func scale(v []float64, k float64) []float64 {
	out := nanSlice(len(v))
	for i := range v {
		out[i] = v[i] * k
	}
	return out
}

func addScaled(a, b []float64, k float64) []float64 {
	out := nanSlice(len(a))
	for i := range a {
		out[i] = a[i] + k*b[i]
	}
	return out
}

// bandPosition is (v - lower) / (upper - lower), clamped only by the data.
func bandPosition(v, lower, upper []float64) []float64 {
	out := nanSlice(len(v))
	for i := range v {
		width := upper[i] - lower[i]
		if math.IsNaN(width) || width == 0 {
			continue
		}
		out[i] = (v[i] - lower[i]) / width
	}
	return out
}

// rsi uses simple rolling means of gains and losses.
func rsi(closes []float64, window int) []float64 {
	delta := diff(closes)
	gains := nanSlice(len(closes))
	losses := nanSlice(len(closes))
	for i := 1; i < len(delta); i++ {
		if delta[i] > 0 {
			gains[i], losses[i] = delta[i], 0
		} else {
			gains[i], losses[i] = 0, -delta[i]
		}
	}

	avgGain := rollingMean(gains, window)
	avgLoss := rollingMean(losses, window)
	out := nanSlice(len(closes))
	for i := range out {
		if math.IsNaN(avgGain[i]) || math.IsNaN(avgLoss[i]) {
			continue
		}
		if avgLoss[i] == 0 {
			out[i] = 100
			continue
		}
		rs := avgGain[i] / avgLoss[i]
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// obv accumulates signed volume, seeded at zero.
func obv(closes, volume []float64) []float64 {
	out := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			out[i] = out[i-1] + volume[i]
		case closes[i] < closes[i-1]:
			out[i] = out[i-1] - volume[i]
		default:
			out[i] = out[i-1]
		}
	}
	return out
}

// atr is the rolling mean of the true range.
func atr(high, low, closes []float64, window int) []float64 {
	tr := nanSlice(len(high))
	for i := 1; i < len(high); i++ {
		hl := high[i] - low[i]
		hc := math.Abs(high[i] - closes[i-1])
		lc := math.Abs(low[i] - closes[i-1])
		tr[i] = math.Max(hl, math.Max(hc, lc))
	}
	return rollingMean(tr, window)
}

// breakoutFlags marks rows where the value beats the prior row. The first
// row is 0, not unset, so flags never extend the warmup.
func breakoutFlags(v []float64, beats func(cur, prev float64) bool) []float64 {
	out := make([]float64, len(v))
	for i := 1; i < len(v); i++ {
		if beats(v[i], v[i-1]) {
			out[i] = 1
		}
	}
	return out
}
