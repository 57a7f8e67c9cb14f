package models

import (
	"strings"
	"time"
)

// Action is the directional call attached to a decision.
type Action string

const (
	ActionLong  Action = "LONG"
	ActionShort Action = "SHORT"
	ActionHold  Action = "HOLD"
)

// NormalizeAction maps BUY/SELL aliases onto LONG/SHORT and uppercases the
// rest. ok is false for anything outside the accepted set.
func NormalizeAction(raw string) (Action, bool) {
	switch Action(strings.ToUpper(raw)) {
	case "BUY", ActionLong:
		return ActionLong, true
	case "SELL", ActionShort:
		return ActionShort, true
	case ActionHold:
		return ActionHold, true
	default:
		return "", false
	}
}

// Horizon is the intended holding period class. It only selects a
// descriptive label; it never changes the scoring math.
type Horizon string

const (
	HorizonIntraday Horizon = "intraday"
	HorizonShort    Horizon = "short"
	HorizonLong     Horizon = "long"
)

// HorizonDetail describes the holding period behind a horizon label.
type HorizonDetail struct {
	Days        int    `json:"days"`
	Description string `json:"description"`
}

// Detail returns the descriptive metadata for a horizon.
func (h Horizon) Detail() HorizonDetail {
	switch h {
	case HorizonIntraday:
		return HorizonDetail{Days: 1, Description: "Same day / Next day"}
	case HorizonShort:
		return HorizonDetail{Days: 5, Description: "1 week (Swing trading)"}
	case HorizonLong:
		return HorizonDetail{Days: 30, Description: "1 month (Position trading)"}
	default:
		return HorizonDetail{Days: 1, Description: "Unknown"}
	}
}

// Valid reports whether h is one of the supported horizons.
func (h Horizon) Valid() bool {
	switch h {
	case HorizonIntraday, HorizonShort, HorizonLong:
		return true
	default:
		return false
	}
}

// RiskMetrics summarizes downside characteristics of the analyzed history.
type RiskMetrics struct {
	Volatility  float64 `json:"volatility"`
	MaxDrawdown float64 `json:"max_drawdown"`
	SharpeRatio float64 `json:"sharpe_ratio"`
}

// Decision is one scored recommendation. Append-only: written once to the
// prediction log and never mutated; the log is the system of record for
// what was predicted when.
type Decision struct {
	Symbol            string        `json:"symbol"`
	Horizon           Horizon       `json:"horizon"`
	Action            Action        `json:"action"`
	Confidence        float64       `json:"confidence"`
	ExpectedReturnPct float64       `json:"expected_return"`
	CurrentPrice      float64       `json:"current_price"`
	PredictedPrice    float64       `json:"predicted_price"`
	Score             float64       `json:"score"`
	Reason            string        `json:"reason"`
	RiskMetrics       RiskMetrics   `json:"risk_analysis"`
	HorizonDetail     HorizonDetail `json:"horizon_details"`
	Timestamp         time.Time     `json:"timestamp"`
}
