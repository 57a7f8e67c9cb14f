package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	"StockPulse/internal/services/features"
	applogger "StockPulse/pkg/logger"
)

// Ingestor fetches price history and keeps the on-disk snapshot cache
// current. A remote failure falls back to the cache; only a failure with a
// cold cache is terminal.
type Ingestor struct {
	source    domrepo.QuoteSource
	snapshots domrepo.SnapshotStore
	metrics   domrepo.Metrics
	logger    *applogger.Logger
}

func NewIngestor(source domrepo.QuoteSource, snapshots domrepo.SnapshotStore, metrics domrepo.Metrics, logger *applogger.Logger) *Ingestor {
	return &Ingestor{source: source, snapshots: snapshots, metrics: metrics, logger: logger}
}

// NormalizeSymbol uppercases and trims a raw ticker.
func NormalizeSymbol(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Fetch returns the freshest usable snapshot for symbol. A successful
// remote fetch with enough bars replaces the cache; anything else falls
// back to the prior snapshot, tagged cached.
func (i *Ingestor) Fetch(ctx context.Context, symbol string, period domrepo.Period) (*models.PriceHistorySnapshot, error) {
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: empty symbol", models.ErrValidation)
	}

	start := time.Now()
	bars, err := i.source.History(ctx, symbol, period)
	i.metrics.RecordLatency("fetch", time.Since(start).Seconds())

	if err == nil && len(bars) > features.MinUsableBars {
		snap := &models.PriceHistorySnapshot{
			Symbol:    symbol,
			Source:    models.SourcePrimary,
			FetchedAt: time.Now().UTC(),
			Bars:      bars,
		}
		if saveErr := i.snapshots.Save(ctx, snap); saveErr != nil {
			// Best-effort durability: the caller still gets the data.
			i.metrics.RecordError("persistence")
			i.logger.Error("snapshot save failed",
				applogger.String("symbol", symbol),
				applogger.Error(saveErr),
			)
		}
		i.metrics.RecordFetch(string(models.SourcePrimary), symbol)
		i.logger.Info("history fetched",
			applogger.String("symbol", symbol),
			applogger.String("period", string(period)),
			applogger.Int("bars", len(bars)),
		)
		return snap, nil
	}

	if err != nil {
		i.logger.Warn("remote fetch failed, trying cache",
			applogger.String("symbol", symbol),
			applogger.Error(err),
		)
	} else {
		i.logger.Warn("remote fetch too thin, trying cache",
			applogger.String("symbol", symbol),
			applogger.Int("bars", len(bars)),
		)
	}

	cached, cacheErr := i.snapshots.Load(ctx, symbol)
	if cacheErr != nil || cached.Rows() == 0 {
		i.metrics.RecordError("data_unavailable")
		return nil, fmt.Errorf("%w: %s", models.ErrDataUnavailable, symbol)
	}

	i.metrics.RecordFetch(string(models.SourceCached), symbol)
	i.logger.Info("serving cached history",
		applogger.String("symbol", symbol),
		applogger.Int("bars", cached.Rows()),
	)
	return cached, nil
}
