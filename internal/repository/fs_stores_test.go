package repository

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
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

func sampleBars(n int) []models.PriceBar {
	bars := make([]models.PriceBar, n)
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		price := 100 + float64(i)
		bars[i] = models.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   price,
			High:   price + 1,
			Low:    price - 1,
			Close:  price + 0.5,
			Volume: 1_000_000,
		}
	}
	return bars
}

func TestSnapshotStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSSnapshotStore(dir, testLogger(t))
	require.NoError(t, err)

	snap := &models.PriceHistorySnapshot{
		Symbol:    "AAPL",
		Source:    models.SourcePrimary,
		FetchedAt: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Bars:      sampleBars(5),
	}
	require.NoError(t, store.Save(context.Background(), snap))

	got, err := store.Load(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, models.SourceCached, got.Source)
	require.Len(t, got.Bars, 5)
	assert.Equal(t, snap.Bars[0].Close, got.Bars[0].Close)
	assert.Equal(t, snap.Bars[4].Date, got.Bars[4].Date)
}

func TestSnapshotStoreColumnMajorLayout(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSSnapshotStore(dir, testLogger(t))
	require.NoError(t, err)

	snap := &models.PriceHistorySnapshot{
		Symbol:    "MSFT",
		Source:    models.SourcePrimary,
		FetchedAt: time.Now().UTC(),
		Bars:      sampleBars(3),
	}
	require.NoError(t, store.Save(context.Background(), snap))

	raw, err := os.ReadFile(filepath.Join(dir, "cache", "MSFT_history.json"))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &doc))
	require.Contains(t, doc, "data")

	var data map[string][]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["data"], &data))
	for _, col := range []string{"Date", "Open", "High", "Low", "Close", "Volume", "Dividends", "Stock Splits"} {
		assert.Len(t, data[col], 3, "column %s", col)
	}
}

func TestSnapshotStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFSSnapshotStore(dir, testLogger(t))
	require.NoError(t, err)

	snap := &models.PriceHistorySnapshot{
		Symbol: "AAPL",
		Source: models.SourcePrimary,
		Bars:   sampleBars(2),
	}
	require.NoError(t, store.Save(context.Background(), snap))
	require.NoError(t, store.Save(context.Background(), snap))

	entries, err := os.ReadDir(filepath.Join(dir, "cache"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "AAPL_history.json", entries[0].Name())
}

func TestSnapshotStoreMissingSymbol(t *testing.T) {
	store, err := NewFSSnapshotStore(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	_, err = store.Load(context.Background(), "NOPE")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPanelStoreRoundTrip(t *testing.T) {
	store, err := NewFSPanelStore(t.TempDir(), testLogger(t))
	require.NoError(t, err)

	dates := []time.Time{
		time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC),
	}
	frame := models.NewFrame(dates)
	require.NoError(t, frame.SetColumn(models.ColClose, []float64{101, 102}))
	require.NoError(t, frame.SetColumn(models.ColRSI14, []float64{55.5, 60.1}))

	panel := &models.IndicatorPanel{
		Symbol:       "AAPL",
		CalculatedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Frame:        frame,
	}
	require.NoError(t, store.Save(context.Background(), panel))

	got, err := store.Load(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Rows())
	assert.Equal(t, []string{models.ColClose, models.ColRSI14}, got.Frame.Names())

	rsi, ok := got.Frame.Column(models.ColRSI14)
	require.True(t, ok)
	assert.Equal(t, []float64{55.5, 60.1}, rsi)
}

func TestFeedbackLogAppendAndAll(t *testing.T) {
	log, err := NewJSONLFeedbackLog(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ret := 2.5
	require.NoError(t, log.Append(ctx, &models.FeedbackRecord{
		Symbol:          "AAPL",
		PredictedAction: models.ActionLong,
		Sentiment:       models.SentimentCorrect,
		ActualReturnPct: &ret,
		Timestamp:       time.Now().UTC(),
	}))
	require.NoError(t, log.Append(ctx, &models.FeedbackRecord{
		Symbol:          "MSFT",
		PredictedAction: models.ActionShort,
		Sentiment:       models.SentimentIncorrect,
		Timestamp:       time.Now().UTC(),
	}))

	recs, err := log.All(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "AAPL", recs[0].Symbol)
	require.NotNil(t, recs[0].ActualReturnPct)
	assert.Equal(t, 2.5, *recs[0].ActualReturnPct)
	assert.Nil(t, recs[1].ActualReturnPct)
}

func TestFeedbackLogEmpty(t *testing.T) {
	log, err := NewJSONLFeedbackLog(t.TempDir())
	require.NoError(t, err)

	recs, err := log.All(context.Background())
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestModelStorePlaceholders(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))

	store, err := NewFSModelStore(dataDir, testLogger(t))
	require.NoError(t, err)

	created, err := store.CreatePlaceholders("AAPL", models.HorizonShort)
	require.NoError(t, err)
	assert.Equal(t, 7, created)
	assert.Equal(t, 7, store.Count())
	assert.True(t, store.Exists("AAPL", models.HorizonShort, "dqn_agent.pt"))

	// A second run is idempotent.
	created, err = store.CreatePlaceholders("AAPL", models.HorizonShort)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 7, store.Count())
}
