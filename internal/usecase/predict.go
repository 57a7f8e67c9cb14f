package usecase

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/decision"
	applogger "StockPulse/pkg/logger"
)

// PredictionResult is one item of a batch prediction. A failed symbol
// carries its error text instead of a decision so it never sinks the batch.
type PredictionResult struct {
	Symbol   string           `json:"symbol"`
	Decision *models.Decision `json:"prediction,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// Predictor runs the fetch, feature, and decide chain for one or more
// symbols and records each decision.
type Predictor struct {
	builder   *FeatureBuilder
	engine    *decision.Engine
	variance  *decision.Variance
	log       domrepo.DecisionLog
	publisher domrepo.DecisionPublisher
	archive   domrepo.DecisionArchive
	metrics   domrepo.Metrics
	logger    *applogger.Logger
}

func NewPredictor(
	builder *FeatureBuilder,
	engine *decision.Engine,
	variance *decision.Variance,
	log domrepo.DecisionLog,
	publisher domrepo.DecisionPublisher,
	archive domrepo.DecisionArchive,
	metrics domrepo.Metrics,
	logger *applogger.Logger,
) *Predictor {
	return &Predictor{
		builder:   builder,
		engine:    engine,
		variance:  variance,
		log:       log,
		publisher: publisher,
		archive:   archive,
		metrics:   metrics,
		logger:    logger,
	}
}

// PredictOne runs the full chain for a single symbol and horizon.
func (p *Predictor) PredictOne(ctx context.Context, symbol string, horizon models.Horizon) (*models.Decision, error) {
	symbol = NormalizeSymbol(symbol)
	start := time.Now()

	panel, err := p.builder.Build(ctx, symbol, domrepo.DefaultPeriod())
	if err != nil {
		if models.IsInsufficientHistory(err) {
			// Thin history degrades to a neutral call, not a failure.
			panel = nil
		} else {
			return nil, err
		}
	}

	d := p.engine.Decide(symbol, horizon, panel)
	p.variance.Apply(d)
	p.record(ctx, d)
	p.metrics.RecordLatency("predict", time.Since(start).Seconds())
	return d, nil
}

// Predict runs the chain per symbol. Failures are isolated per item.
func (p *Predictor) Predict(ctx context.Context, symbols []string, horizon models.Horizon) []PredictionResult {
	out := make([]PredictionResult, 0, len(symbols))
	for _, raw := range symbols {
		symbol := NormalizeSymbol(raw)
		d, err := p.PredictOne(ctx, symbol, horizon)
		if err != nil {
			out = append(out, PredictionResult{Symbol: symbol, Error: err.Error()})
			continue
		}
		out = append(out, PredictionResult{Symbol: symbol, Decision: d})
	}
	return out
}

// record appends to the prediction log and mirrors to the optional sinks.
// All of it is best effort; the decision is already in hand.
func (p *Predictor) record(ctx context.Context, d *models.Decision) {
	if err := p.log.Append(ctx, d); err != nil {
		p.metrics.RecordError("persistence")
		p.logger.Error("decision log append failed",
			applogger.String("symbol", d.Symbol),
			applogger.Error(err),
		)
	}
	p.metrics.RecordDecision(d.Symbol, string(d.Action))
	if d.CurrentPrice > 0 {
		p.metrics.RecordLastPrice(d.Symbol, d.CurrentPrice)
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, d); err != nil {
			p.metrics.RecordError("publish")
		}
	}
	if p.archive != nil {
		if err := p.archive.Archive(ctx, d); err != nil {
			p.metrics.RecordError("archive")
		}
	}
}
