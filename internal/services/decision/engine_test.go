package decision

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	applogger "StockPulse/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

// panelWith builds a single-row panel carrying exactly the columns the
// engine reads.
func panelWith(closePrice, sma50, rsi, macd, macdSignal float64) *models.IndicatorPanel {
	frame := models.NewFrame([]time.Time{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)})
	_ = frame.SetColumn(models.ColClose, []float64{closePrice})
	_ = frame.SetColumn(models.SMAName(50), []float64{sma50})
	_ = frame.SetColumn(models.ColRSI14, []float64{rsi})
	_ = frame.SetColumn(models.ColMACD, []float64{macd})
	_ = frame.SetColumn(models.ColMACDSignal, []float64{macdSignal})
	_ = frame.SetColumn(models.ColDailyReturn, []float64{0.01})
	return &models.IndicatorPanel{Symbol: "AAPL", CalculatedAt: time.Now().UTC(), Frame: frame}
}

func TestDecideStrongUptrendIsLong(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Uptrend, healthy RSI, MACD confirming: score 2.5.
	d := e.Decide("AAPL", models.HorizonShort, panelWith(110, 100, 55, 1.2, 0.8))

	assert.Equal(t, models.ActionLong, d.Action)
	assert.InDelta(t, 2.5, d.Score, 1e-9)
	assert.InDelta(t, 0.9, d.Confidence, 1e-9)
	assert.InDelta(t, 3.75, d.ExpectedReturnPct, 1e-9)
	assert.InDelta(t, 110*(1+3.75/100), d.PredictedPrice, 1e-9)
	assert.Contains(t, d.Reason, "50-day SMA")
}

func TestDecideOversoldDowntrendSoftens(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Downtrend but oversold: -1 + 0.5, MACD bearish -0.5, score -1.0.
	// The bounce adjustment keeps this a HOLD, not a SHORT.
	d := e.Decide("AAPL", models.HorizonShort, panelWith(90, 100, 20, -1.2, -0.8))

	assert.Equal(t, models.ActionHold, d.Action)
	assert.InDelta(t, -1.0, d.Score, 1e-9)
	assert.Equal(t, 0.5, d.Confidence)
	assert.Zero(t, d.ExpectedReturnPct)
}

func TestDecideDowntrendIsShort(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Downtrend, RSI mid-range, MACD bearish: score -2.5.
	d := e.Decide("AAPL", models.HorizonLong, panelWith(90, 100, 45, -1.2, -0.8))

	assert.Equal(t, models.ActionShort, d.Action)
	assert.InDelta(t, -2.5, d.Score, 1e-9)
	assert.InDelta(t, 0.9, d.Confidence, 1e-9)
	assert.InDelta(t, -3.75, d.ExpectedReturnPct, 1e-9)
}

func TestDecideOverboughtUptrendSoftens(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Uptrend but overbought, MACD bearish: 1 - 0.5 = 0.5 -> HOLD.
	d := e.Decide("AAPL", models.HorizonIntraday, panelWith(110, 100, 80, -0.2, 0.1))

	assert.Equal(t, models.ActionHold, d.Action)
	assert.InDelta(t, 0.5, d.Score, 1e-9)
}

func TestDecideDeterministic(t *testing.T) {
	e := NewEngine(testLogger(t))
	panel := panelWith(110, 100, 55, 1.2, 0.8)

	a := e.Decide("AAPL", models.HorizonShort, panel)
	b := e.Decide("AAPL", models.HorizonShort, panel)

	assert.Equal(t, a.Action, b.Action)
	assert.Equal(t, a.Confidence, b.Confidence)
	assert.Equal(t, a.ExpectedReturnPct, b.ExpectedReturnPct)
	assert.Equal(t, a.Score, b.Score)
	assert.Equal(t, a.Reason, b.Reason)
}

func TestDecideEmptyPanelHolds(t *testing.T) {
	e := NewEngine(testLogger(t))

	frame := models.NewFrame(nil)
	d := e.Decide("AAPL", models.HorizonShort, &models.IndicatorPanel{Symbol: "AAPL", Frame: frame})

	assert.Equal(t, models.ActionHold, d.Action)
	assert.Equal(t, 0.5, d.Confidence)
	assert.Zero(t, d.ExpectedReturnPct)
	assert.Equal(t, "insufficient data", d.Reason)
}

func TestDecideMissingColumnsHold(t *testing.T) {
	e := NewEngine(testLogger(t))

	frame := models.NewFrame([]time.Time{time.Now()})
	_ = frame.SetColumn(models.ColClose, []float64{100})
	d := e.Decide("AAPL", models.HorizonShort, &models.IndicatorPanel{Symbol: "AAPL", Frame: frame})

	assert.Equal(t, models.ActionHold, d.Action)
	assert.Equal(t, "insufficient data", d.Reason)
	assert.Equal(t, 100.0, d.CurrentPrice)
}

func TestDecideHorizonSelectsLabelOnly(t *testing.T) {
	e := NewEngine(testLogger(t))
	panel := panelWith(110, 100, 55, 1.2, 0.8)

	short := e.Decide("AAPL", models.HorizonShort, panel)
	long := e.Decide("AAPL", models.HorizonLong, panel)

	assert.Equal(t, short.Action, long.Action)
	assert.Equal(t, short.Score, long.Score)
	assert.Equal(t, 5, short.HorizonDetail.Days)
	assert.Equal(t, 30, long.HorizonDetail.Days)
}

func TestVarianceKeepsConfidenceClamped(t *testing.T) {
	v := NewVariance(42)
	e := NewEngine(testLogger(t))

	for i := 0; i < 50; i++ {
		d := e.Decide("AAPL", models.HorizonShort, panelWith(110, 100, 55, 1.2, 0.8))
		v.Apply(d)
		assert.GreaterOrEqual(t, d.Confidence, minConfidence)
		assert.LessOrEqual(t, d.Confidence, maxConfidence)
		assert.InDelta(t, d.CurrentPrice*(1+d.ExpectedReturnPct/100), d.PredictedPrice, 1e-9)
	}
}

func TestVarianceSkipsHold(t *testing.T) {
	v := NewVariance(1)
	d := &models.Decision{Action: models.ActionHold, Confidence: 0.5}
	v.Apply(d)
	assert.Equal(t, 0.5, d.Confidence)
	assert.Zero(t, d.ExpectedReturnPct)
}
