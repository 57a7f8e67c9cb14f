package usecase

import (
	"context"
	"time"

	domrepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
)

// Refresher keeps snapshots and panels warm for a watched symbol set. It
// runs on a schedule; failures for one symbol never stop the sweep.
type Refresher struct {
	builder *FeatureBuilder
	symbols []string
	period  domrepo.Period
	logger  *applogger.Logger
}

func NewRefresher(builder *FeatureBuilder, symbols []string, period domrepo.Period, logger *applogger.Logger) *Refresher {
	return &Refresher{builder: builder, symbols: symbols, period: period, logger: logger}
}

// Run sweeps the watch list once.
func (r *Refresher) Run(ctx context.Context) {
	if len(r.symbols) == 0 {
		return
	}
	start := time.Now()
	refreshed := 0
	for _, symbol := range r.symbols {
		if ctx.Err() != nil {
			return
		}
		if _, err := r.builder.Build(ctx, symbol, r.period); err != nil {
			r.logger.Warn("watch refresh failed",
				applogger.String("symbol", symbol),
				applogger.Error(err),
			)
			continue
		}
		refreshed++
	}
	r.logger.Info("watch refresh complete",
		applogger.Int("refreshed", refreshed),
		applogger.Int("watched", len(r.symbols)),
		applogger.Duration("took", time.Since(start)),
	)
}
