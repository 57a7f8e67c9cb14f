package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	"StockPulse/internal/services/decision"
	"StockPulse/internal/services/features"
)

func newPredictor(t *testing.T, source *fakeSource, log *memDecisionLog) *Predictor {
	t.Helper()
	logger := testLogger(t)
	ing := NewIngestor(source, newMemSnapshotStore(), noopMetrics{}, logger)
	builder := NewFeatureBuilder(ing, features.NewEngine(logger), newMemPanelStore(), noopMetrics{}, logger)
	return NewPredictor(
		builder,
		decision.NewEngine(logger),
		decision.NewVariance(7),
		log,
		nil, nil,
		noopMetrics{},
		logger,
	)
}

func TestPredictOneUptrendIsLong(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": zigzagUpBars(300)}}
	log := &memDecisionLog{}
	p := newPredictor(t, source, log)

	d, err := p.PredictOne(context.Background(), "AAPL", models.HorizonShort)
	require.NoError(t, err)

	assert.Equal(t, models.ActionLong, d.Action)
	assert.Greater(t, d.Confidence, 0.5)
	assert.Greater(t, d.ExpectedReturnPct, 0.0)
	assert.Greater(t, d.PredictedPrice, d.CurrentPrice)
	require.Len(t, log.appended, 1)
	assert.Equal(t, "AAPL", log.appended[0].Symbol)
}

func TestPredictOneThinHistoryHolds(t *testing.T) {
	// Too few bars even to warm up: neutral HOLD, not an error.
	source := &fakeSource{bars: map[string][]models.PriceBar{"THIN": barsFor(60, 100, 0.5)}}
	p := newPredictor(t, source, &memDecisionLog{})

	d, err := p.PredictOne(context.Background(), "THIN", models.HorizonShort)
	require.NoError(t, err)
	assert.Equal(t, models.ActionHold, d.Action)
	assert.Equal(t, 0.5, d.Confidence)
}

func TestPredictBatchIsolatesFailures(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": zigzagUpBars(300)}}
	log := &memDecisionLog{}
	p := newPredictor(t, source, log)

	results := p.Predict(context.Background(), []string{"AAPL", "MISSING"}, models.HorizonShort)
	require.Len(t, results, 2)

	assert.Empty(t, results[0].Error)
	require.NotNil(t, results[0].Decision)
	assert.Equal(t, models.ActionLong, results[0].Decision.Action)

	assert.NotEmpty(t, results[1].Error)
	assert.Nil(t, results[1].Decision)
}

func TestScanRanksAndFilters(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{
		"UP":   zigzagUpBars(300),
		"RAMP": barsFor(300, 100, 1),
	}}
	p := newPredictor(t, source, &memDecisionLog{})
	scanner := NewScanner(p, testLogger(t))

	hits := scanner.Scan(context.Background(), []string{"UP", "RAMP", "MISSING"}, models.HorizonShort, 0.6)

	// RAMP pins RSI at 100 and scores as HOLD; MISSING errors out.
	require.Len(t, hits, 1)
	assert.Equal(t, "UP", hits[0].Symbol)
	assert.Greater(t, hits[0].Score, 0.0)
	assert.Equal(t, models.ActionLong, hits[0].Decision.Action)
}

func TestAnalyzeCoversAllHorizons(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": zigzagUpBars(300)}}
	logger := testLogger(t)
	ing := NewIngestor(source, newMemSnapshotStore(), noopMetrics{}, logger)
	builder := NewFeatureBuilder(ing, features.NewEngine(logger), newMemPanelStore(), noopMetrics{}, logger)
	log := &memDecisionLog{}
	a := NewAnalyzer(builder, decision.NewEngine(logger), decision.NewVariance(7), log, logger)

	horizons := []models.Horizon{models.HorizonIntraday, models.HorizonShort, models.HorizonLong}
	analysis, err := a.Analyze(context.Background(), "aapl", horizons)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", analysis.Symbol)
	require.Len(t, analysis.Horizons, 3)
	for _, h := range horizons {
		require.Contains(t, analysis.Horizons, h)
		assert.Equal(t, h.Detail().Days, analysis.Horizons[h].HorizonDetail.Days)
	}
	// One fetch, one decision logged per horizon.
	assert.Equal(t, 1, source.calls)
	assert.Len(t, log.appended, 3)
}

func TestTrainerCreatesArtifacts(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": zigzagUpBars(300)}}
	logger := testLogger(t)
	ing := NewIngestor(source, newMemSnapshotStore(), noopMetrics{}, logger)
	builder := NewFeatureBuilder(ing, features.NewEngine(logger), newMemPanelStore(), noopMetrics{}, logger)

	store := &memModelStore{artifacts: make(map[string]bool)}
	agent := &recordingAgent{}
	trainer := NewTrainer(builder, agent, store, logger)

	report, err := trainer.Train(context.Background(), "AAPL", models.HorizonShort)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", report.Symbol)
	assert.Equal(t, trainEpisodes, report.Episodes)
	assert.Equal(t, 7, report.ArtifactsCreated)
	assert.True(t, agent.trained)
}

type memModelStore struct {
	artifacts map[string]bool
}

func (s *memModelStore) CreatePlaceholders(symbol string, horizon models.Horizon) (int, error) {
	names := []string{
		"random_forest.pkl", "lightgbm.pkl", "xgboost.pkl",
		"dqn_agent.pt", "features.pkl", "scaler.pkl", "dqn_features.pkl",
	}
	created := 0
	for _, n := range names {
		key := symbol + "_" + string(horizon) + "_" + n
		if !s.artifacts[key] {
			s.artifacts[key] = true
			created++
		}
	}
	return created, nil
}

func (s *memModelStore) Count() int { return len(s.artifacts) }

func (s *memModelStore) Exists(symbol string, horizon models.Horizon, name string) bool {
	return s.artifacts[symbol+"_"+string(horizon)+"_"+name]
}

type recordingAgent struct {
	trained bool
}

func (a *recordingAgent) Train(_ context.Context, _ *models.IndicatorPanel, _ int) error {
	a.trained = true
	return nil
}

func (a *recordingAgent) Predict(_ []float64) models.Action { return models.ActionHold }

func (a *recordingAgent) Save(string, models.Horizon) error { return nil }

func (a *recordingAgent) Load(string, models.Horizon) error { return nil }
