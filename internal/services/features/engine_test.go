package features

import (
	"math"
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

func syntheticSnapshot(symbol string, closes []float64) *models.PriceHistorySnapshot {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, len(closes))
	for i, c := range closes {
		bars[i] = models.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000 + int64(i)*1000,
		}
	}
	return &models.PriceHistorySnapshot{
		Symbol:    symbol,
		Source:    models.SourcePrimary,
		FetchedAt: time.Now().UTC(),
		Bars:      bars,
	}
}

func trendingCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestComputePanelLength(t *testing.T) {
	e := NewEngine(testLogger(t))

	panel, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(250, 100, 0.5)))
	require.NoError(t, err)

	// The 200-day SMA dominates warmup.
	assert.Equal(t, 250-199, panel.Rows())
}

func TestComputePanelLengthBoundary(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Exactly 200 bars leaves the single row where SMA_200 first exists.
	panel, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(200, 100, 0.5)))
	require.NoError(t, err)
	assert.Equal(t, 1, panel.Rows())

	// One bar short of warmup drops everything.
	panel, err = e.Compute(syntheticSnapshot("AAPL", trendingCloses(199, 100, 0.5)))
	require.NoError(t, err)
	assert.True(t, panel.Empty())
}

func TestComputeColumnsPresent(t *testing.T) {
	e := NewEngine(testLogger(t))

	panel, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(260, 100, 0.5)))
	require.NoError(t, err)

	want := []string{
		models.ColClose, models.ColDailyReturn, models.ColDailyReturnMA5,
		models.ColEMA12, models.ColEMA26, models.ColSTD20, models.ColVolatility20,
		models.ColBBMiddle, models.ColBBUpper, models.ColBBLower, models.ColBBWidth, models.ColBBPct,
		models.ColRSI14, models.ColMACD, models.ColMACDSignal, models.ColMACDHist,
		models.ColVolumeSMA20, models.ColVolumeRatio, models.ColOBV,
		models.ColATR, models.ColHigherHigh, models.ColLowerLow, models.ColPricePosition,
	}
	for _, w := range models.SMAWindows {
		want = append(want, models.SMAName(w), models.PriceToSMAName(w))
	}
	for _, name := range want {
		_, ok := panel.Frame.Column(name)
		assert.True(t, ok, "missing column %s", name)
	}
}

func TestComputeUptrendSignals(t *testing.T) {
	e := NewEngine(testLogger(t))

	panel, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(250, 100, 1)))
	require.NoError(t, err)
	require.False(t, panel.Empty())

	closeLast, ok := panel.Frame.Last(models.ColClose)
	require.True(t, ok)
	sma50, ok := panel.Frame.Last(models.SMAName(50))
	require.True(t, ok)
	assert.Greater(t, closeLast, sma50)

	// All moves are gains, so RSI saturates.
	rsiLast, ok := panel.Frame.Last(models.ColRSI14)
	require.True(t, ok)
	assert.Equal(t, 100.0, rsiLast)

	hh, ok := panel.Frame.Last(models.ColHigherHigh)
	require.True(t, ok)
	assert.Equal(t, 1.0, hh)

	macd, ok := panel.Frame.Last(models.ColMACD)
	require.True(t, ok)
	signal, ok := panel.Frame.Last(models.ColMACDSignal)
	require.True(t, ok)
	assert.Greater(t, macd, signal)
}

func TestComputeRSIBounds(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Oscillating closes keep RSI strictly inside its range.
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	panel, err := e.Compute(syntheticSnapshot("AAPL", closes))
	require.NoError(t, err)

	rsiCol, ok := panel.Frame.Column(models.ColRSI14)
	require.True(t, ok)
	for i, v := range rsiCol {
		assert.GreaterOrEqual(t, v, 0.0, "row %d", i)
		assert.LessOrEqual(t, v, 100.0, "row %d", i)
	}
}

func TestComputeThinHistoryEmptyPanel(t *testing.T) {
	e := NewEngine(testLogger(t))

	// Enough bars to accept, not enough to survive warmup.
	panel, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(60, 100, 0.5)))
	require.NoError(t, err)
	assert.True(t, panel.Empty())
}

func TestComputeRejectsTooFewBars(t *testing.T) {
	e := NewEngine(testLogger(t))

	_, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(50, 100, 0.5)))
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInsufficientHistory)
}

func TestComputeBollingerOrdering(t *testing.T) {
	e := NewEngine(testLogger(t))

	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 100 + 3*math.Sin(float64(i)/5)
	}
	panel, err := e.Compute(syntheticSnapshot("AAPL", closes))
	require.NoError(t, err)

	upper, _ := panel.Frame.Column(models.ColBBUpper)
	middle, _ := panel.Frame.Column(models.ColBBMiddle)
	lower, _ := panel.Frame.Column(models.ColBBLower)
	for i := range upper {
		assert.GreaterOrEqual(t, upper[i], middle[i], "row %d", i)
		assert.GreaterOrEqual(t, middle[i], lower[i], "row %d", i)
	}
}

func TestComputeOBVSignedAccumulation(t *testing.T) {
	e := NewEngine(testLogger(t))

	panel, err := e.Compute(syntheticSnapshot("AAPL", trendingCloses(250, 100, 1)))
	require.NoError(t, err)

	obvCol, ok := panel.Frame.Column(models.ColOBV)
	require.True(t, ok)
	// Monotone rising closes mean OBV only accumulates.
	for i := 1; i < len(obvCol); i++ {
		assert.Greater(t, obvCol[i], obvCol[i-1], "row %d", i)
	}
}
