package usecase

import (
	"context"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	applogger "StockPulse/pkg/logger"
)

// trainEpisodes is how many passes the placeholder trainer makes.
const trainEpisodes = 10

// TrainReport summarizes one training run.
type TrainReport struct {
	Symbol           string         `json:"symbol"`
	Horizon          models.Horizon `json:"horizon"`
	Rows             int            `json:"rows"`
	Episodes         int            `json:"episodes"`
	ArtifactsCreated int            `json:"artifacts_created"`
	TrainedAt        time.Time      `json:"trained_at"`
}

// Trainer drives the placeholder agent and reserves its artifact slots.
type Trainer struct {
	builder *FeatureBuilder
	agent   domsvc.TradingAgent
	store   domrepo.ModelStore
	logger  *applogger.Logger
}

func NewTrainer(builder *FeatureBuilder, agent domsvc.TradingAgent, store domrepo.ModelStore, logger *applogger.Logger) *Trainer {
	return &Trainer{builder: builder, agent: agent, store: store, logger: logger}
}

// Train builds the panel, runs the agent over it, and persists the
// artifact placeholders for the pair.
func (t *Trainer) Train(ctx context.Context, symbol string, horizon models.Horizon) (*TrainReport, error) {
	symbol = NormalizeSymbol(symbol)

	panel, err := t.builder.Build(ctx, symbol, domrepo.DefaultPeriod())
	if err != nil {
		return nil, err
	}

	if err := t.agent.Train(ctx, panel, trainEpisodes); err != nil {
		return nil, err
	}
	created, err := t.store.CreatePlaceholders(symbol, horizon)
	if err != nil {
		return nil, err
	}

	t.logger.Info("training run finished",
		applogger.String("symbol", symbol),
		applogger.String("horizon", string(horizon)),
		applogger.Int("artifacts_created", created),
	)
	return &TrainReport{
		Symbol:           symbol,
		Horizon:          horizon,
		Rows:             panel.Rows(),
		Episodes:         trainEpisodes,
		ArtifactsCreated: created,
		TrainedAt:        time.Now().UTC(),
	}, nil
}
