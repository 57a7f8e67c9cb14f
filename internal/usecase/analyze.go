package usecase

import (
	"context"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/decision"
	applogger "StockPulse/pkg/logger"
)

// Analysis is the multi-horizon view of one symbol, computed from a single
// fetch and feature pass.
type Analysis struct {
	Symbol       string                               `json:"symbol"`
	CurrentPrice float64                              `json:"current_price"`
	Rows         int                                  `json:"rows"`
	Horizons     map[models.Horizon]*models.Decision `json:"horizons"`
}

// Analyzer scores one symbol across several horizons without refetching
// per horizon.
type Analyzer struct {
	builder  *FeatureBuilder
	engine   *decision.Engine
	variance *decision.Variance
	log      domrepo.DecisionLog
	logger   *applogger.Logger
}

func NewAnalyzer(builder *FeatureBuilder, engine *decision.Engine, variance *decision.Variance, log domrepo.DecisionLog, logger *applogger.Logger) *Analyzer {
	return &Analyzer{builder: builder, engine: engine, variance: variance, log: log, logger: logger}
}

// Analyze fetches once and decides per horizon.
func (a *Analyzer) Analyze(ctx context.Context, symbol string, horizons []models.Horizon) (*Analysis, error) {
	symbol = NormalizeSymbol(symbol)

	panel, err := a.builder.Build(ctx, symbol, domrepo.DefaultPeriod())
	if err != nil {
		if !models.IsInsufficientHistory(err) {
			return nil, err
		}
		panel = nil
	}

	out := &Analysis{
		Symbol:   symbol,
		Rows:     panel.Rows(),
		Horizons: make(map[models.Horizon]*models.Decision, len(horizons)),
	}
	for _, h := range horizons {
		d := a.engine.Decide(symbol, h, panel)
		a.variance.Apply(d)
		if err := a.log.Append(ctx, d); err != nil {
			a.logger.Error("decision log append failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
		}
		out.Horizons[h] = d
		out.CurrentPrice = d.CurrentPrice
	}
	return out, nil
}
