package usecase

import (
	"context"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	applogger "StockPulse/pkg/logger"
)

// FeatureBuilder turns a symbol into an indicator panel, persisting the
// result alongside the snapshot cache.
type FeatureBuilder struct {
	ingestor *Ingestor
	engine   *features.Engine
	panels   domrepo.PanelStore
	metrics  domrepo.Metrics
	logger   *applogger.Logger
}

func NewFeatureBuilder(ingestor *Ingestor, engine *features.Engine, panels domrepo.PanelStore, metrics domrepo.Metrics, logger *applogger.Logger) *FeatureBuilder {
	return &FeatureBuilder{ingestor: ingestor, engine: engine, panels: panels, metrics: metrics, logger: logger}
}

// Build fetches history and computes the full panel for symbol.
func (b *FeatureBuilder) Build(ctx context.Context, symbol string, period domrepo.Period) (*models.IndicatorPanel, error) {
	snap, err := b.ingestor.Fetch(ctx, symbol, period)
	if err != nil {
		return nil, err
	}

	panel, err := b.engine.Compute(snap)
	if err != nil {
		return nil, err
	}

	if saveErr := b.panels.Save(ctx, panel); saveErr != nil {
		b.metrics.RecordError("persistence")
		b.logger.Error("panel save failed",
			applogger.String("symbol", panel.Symbol),
			applogger.Error(saveErr),
		)
	}
	return panel, nil
}
