package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
)

func testLogger(t *testing.T) *applogger.Logger {
	t.Helper()
	l, err := applogger.New(&applogger.Config{Level: "error", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	return l
}

type fakeSource struct {
	mu    sync.Mutex
	bars  map[string][]models.PriceBar
	err   error
	calls int
}

func (f *fakeSource) History(_ context.Context, symbol string, _ domrepo.Period) ([]models.PriceBar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	bars, ok := f.bars[symbol]
	if !ok {
		return nil, models.ErrDataUnavailable
	}
	return bars, nil
}

func (f *fakeSource) Name() string { return "fake" }

type memSnapshotStore struct {
	mu    sync.Mutex
	snaps map[string]*models.PriceHistorySnapshot
	err   error
}

func newMemSnapshotStore() *memSnapshotStore {
	return &memSnapshotStore{snaps: make(map[string]*models.PriceHistorySnapshot)}
}

func (s *memSnapshotStore) Save(_ context.Context, snap *models.PriceHistorySnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.snaps[snap.Symbol] = snap
	return nil
}

func (s *memSnapshotStore) Load(_ context.Context, symbol string) (*models.PriceHistorySnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.snaps[symbol]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *snap
	copied.Source = models.SourceCached
	return &copied, nil
}

type memPanelStore struct {
	mu     sync.Mutex
	panels map[string]*models.IndicatorPanel
}

func newMemPanelStore() *memPanelStore {
	return &memPanelStore{panels: make(map[string]*models.IndicatorPanel)}
}

func (s *memPanelStore) Save(_ context.Context, panel *models.IndicatorPanel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.panels[panel.Symbol] = panel
	return nil
}

func (s *memPanelStore) Load(_ context.Context, symbol string) (*models.IndicatorPanel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	panel, ok := s.panels[symbol]
	if !ok {
		return nil, errors.New("not found")
	}
	return panel, nil
}

type memDecisionLog struct {
	mu       sync.Mutex
	appended []*models.Decision
}

func (l *memDecisionLog) Append(_ context.Context, d *models.Decision) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.appended = append(l.appended, d)
	return nil
}

type memFeedbackLog struct {
	mu   sync.Mutex
	recs []models.FeedbackRecord
	err  error
}

func (l *memFeedbackLog) Append(_ context.Context, rec *models.FeedbackRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	l.recs = append(l.recs, *rec)
	return nil
}

func (l *memFeedbackLog) All(_ context.Context) ([]models.FeedbackRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.FeedbackRecord(nil), l.recs...), nil
}

type noopMetrics struct{}

func (noopMetrics) RecordFetch(string, string)        {}
func (noopMetrics) RecordDecision(string, string)     {}
func (noopMetrics) RecordError(string)                {}
func (noopMetrics) RecordLastPrice(string, float64)   {}
func (noopMetrics) RecordLatency(string, float64)     {}

// zigzagUpBars trends upward two steps forward, one step back, keeping RSI
// in healthy mid-range instead of pinned at 100.
func zigzagUpBars(n int) []models.PriceBar {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	c := 100.0
	for i := range bars {
		if i%2 == 0 {
			c += 2
		} else {
			c -= 1
		}
		bars[i] = models.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}

func barsFor(n int, start, step float64) []models.PriceBar {
	day := time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.PriceBar, n)
	for i := range bars {
		c := start + float64(i)*step
		bars[i] = models.PriceBar{
			Date:   day.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1_000_000,
		}
	}
	return bars
}
