package models

import (
	"strconv"
	"time"
)

// Indicator column names. The Feature Engine computes exactly this set for
// every retained row; the Decision Engine reads a subset of it.
const (
	ColOpen      = "Open"
	ColHigh      = "High"
	ColLow       = "Low"
	ColClose     = "Close"
	ColVolume    = "Volume"
	ColDividends = "Dividends"
	ColSplits    = "Stock Splits"

	ColDailyReturn    = "daily_return"
	ColDailyReturnMA5 = "daily_return_ma_5"

	ColEMA12 = "EMA_12"
	ColEMA26 = "EMA_26"

	ColSTD20        = "STD_20"
	ColVolatility20 = "volatility_20"

	ColBBMiddle = "BB_middle"
	ColBBUpper  = "BB_upper"
	ColBBLower  = "BB_lower"
	ColBBWidth  = "BB_width"
	ColBBPct    = "BB_pct"

	ColRSI14 = "RSI_14"

	ColMACD       = "MACD"
	ColMACDSignal = "MACD_signal"
	ColMACDHist   = "MACD_hist"

	ColVolumeSMA20 = "Volume_SMA_20"
	ColVolumeRatio = "volume_ratio"
	ColOBV         = "OBV"

	ColATR = "ATR"

	ColHigherHigh = "higher_high"
	ColLowerLow   = "lower_low"

	ColPricePosition = "price_position"
)

// SMAWindows are the simple-moving-average lookbacks computed per row.
// The largest window dominates warmup: a panel is always 199 rows shorter
// than its source history.
var SMAWindows = []int{5, 10, 20, 50, 100, 200}

// SMAName returns the column name for an SMA window.
func SMAName(window int) string { return "SMA_" + strconv.Itoa(window) }

// PriceToSMAName returns the column name for a price/SMA ratio.
func PriceToSMAName(window int) string { return "price_to_sma_" + strconv.Itoa(window) }

// IndicatorPanel is the indicator table derived from one price history.
// Recomputed wholesale on every feature request; never updated in place.
type IndicatorPanel struct {
	Symbol       string
	CalculatedAt time.Time
	Frame        *Frame
}

// Rows returns the number of retained (fully warmed up) rows.
func (p *IndicatorPanel) Rows() int {
	if p == nil {
		return 0
	}
	return p.Frame.Len()
}

// Empty reports whether the panel has no usable rows.
func (p *IndicatorPanel) Empty() bool { return p.Rows() == 0 }
