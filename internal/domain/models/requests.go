package models

// Requests for the trading HTTP endpoints. Defined in domain for consistency and reuse.

type PredictRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=10,dive,required"`
	Horizon string   `json:"horizon" default:"intraday" validate:"oneof=intraday short long"`
}

type AnalyzeRequest struct {
	Symbol   string   `json:"symbol" validate:"required"`
	Horizons []string `json:"horizons" default:"[\"intraday\"]" validate:"min=1,dive,oneof=intraday short long"`
}

type ScanRequest struct {
	Symbols       []string `json:"symbols" validate:"required,min=1,max=50,dive,required"`
	Horizon       string   `json:"horizon" default:"intraday" validate:"oneof=intraday short long"`
	MinConfidence float64  `json:"min_confidence" default:"0.6" validate:"gte=0,lte=1"`
}

type FetchRequest struct {
	Symbols []string `json:"symbols" validate:"required,min=1,max=10,dive,required"`
	Period  string   `json:"period" default:"2y" validate:"oneof=1d 5d 1mo 3mo 6mo 1y 2y 5y 10y ytd max"`
}

type FeedbackRequest struct {
	Symbol          string   `json:"symbol" validate:"required"`
	PredictedAction string   `json:"predicted_action" validate:"required"`
	Feedback        string   `json:"feedback" validate:"required"`
	ActualReturnPct *float64 `json:"actual_return" validate:"omitempty,gte=-100,lte=1000"`
}

type TrainRequest struct {
	Symbol  string `json:"symbol" validate:"required"`
	Horizon string `json:"horizon" default:"intraday" validate:"oneof=intraday short long"`
}

type AccuracyRequest struct {
	Symbol string `query:"symbol" json:"symbol"`
}
