package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
)

func TestFetchPrimarySavesSnapshot(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": barsFor(250, 100, 0.5)}}
	store := newMemSnapshotStore()
	ing := NewIngestor(source, store, noopMetrics{}, testLogger(t))

	snap, err := ing.Fetch(context.Background(), "aapl", domrepo.Period2Y)
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.Equal(t, models.SourcePrimary, snap.Source)
	assert.Equal(t, 250, snap.Rows())
	assert.Contains(t, store.snaps, "AAPL")
}

func TestFetchFallsBackToCache(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": barsFor(250, 100, 0.5)}}
	store := newMemSnapshotStore()
	ing := NewIngestor(source, store, noopMetrics{}, testLogger(t))

	ctx := context.Background()
	first, err := ing.Fetch(ctx, "AAPL", domrepo.Period2Y)
	require.NoError(t, err)

	// Remote goes dark; the cached snapshot serves, tagged cached.
	source.mu.Lock()
	source.err = errors.New("connection refused")
	source.mu.Unlock()

	second, err := ing.Fetch(ctx, "AAPL", domrepo.Period2Y)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCached, second.Source)
	assert.Equal(t, first.Rows(), second.Rows())
	assert.Equal(t, first.Bars[0].Close, second.Bars[0].Close)

	// Repeating the outage fetch returns identical bars.
	third, err := ing.Fetch(ctx, "AAPL", domrepo.Period2Y)
	require.NoError(t, err)
	assert.Equal(t, second.Bars, third.Bars)
}

func TestFetchColdCacheIsTerminal(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	ing := NewIngestor(source, newMemSnapshotStore(), noopMetrics{}, testLogger(t))

	_, err := ing.Fetch(context.Background(), "AAPL", domrepo.Period2Y)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrDataUnavailable)
}

func TestFetchThinRemoteFallsBack(t *testing.T) {
	// 40 bars is below the usable threshold even though the fetch worked.
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": barsFor(40, 100, 0.5)}}
	store := newMemSnapshotStore()
	store.snaps["AAPL"] = &models.PriceHistorySnapshot{
		Symbol: "AAPL",
		Source: models.SourcePrimary,
		Bars:   barsFor(250, 100, 0.5),
	}
	ing := NewIngestor(source, store, noopMetrics{}, testLogger(t))

	snap, err := ing.Fetch(context.Background(), "AAPL", domrepo.Period2Y)
	require.NoError(t, err)
	assert.Equal(t, models.SourceCached, snap.Source)
	assert.Equal(t, 250, snap.Rows())
}

func TestFetchRejectsEmptySymbol(t *testing.T) {
	ing := NewIngestor(&fakeSource{}, newMemSnapshotStore(), noopMetrics{}, testLogger(t))

	_, err := ing.Fetch(context.Background(), "   ", domrepo.Period2Y)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestFetchSaveFailureStillReturnsData(t *testing.T) {
	source := &fakeSource{bars: map[string][]models.PriceBar{"AAPL": barsFor(250, 100, 0.5)}}
	store := newMemSnapshotStore()
	store.err = errors.New("disk full")
	ing := NewIngestor(source, store, noopMetrics{}, testLogger(t))

	snap, err := ing.Fetch(context.Background(), "AAPL", domrepo.Period2Y)
	require.NoError(t, err)
	assert.Equal(t, 250, snap.Rows())
}
