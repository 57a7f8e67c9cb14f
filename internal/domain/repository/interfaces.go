package repository

import (
	"context"

	"StockPulse/internal/domain/models"
)

// QuoteSource fetches a raw price history from a remote provider.
type QuoteSource interface {
	History(ctx context.Context, symbol string, period Period) ([]models.PriceBar, error)
	Name() string
}

// SnapshotStore persists one price history snapshot per symbol. Save must
// be durable: writers stage a temp file and atomically rename it over the
// previous entry so a reader never observes a partial snapshot.
type SnapshotStore interface {
	Save(ctx context.Context, snap *models.PriceHistorySnapshot) error
	Load(ctx context.Context, symbol string) (*models.PriceHistorySnapshot, error)
}

// PanelStore persists one indicator panel per symbol, overwriting any
// prior panel. Not versioned.
type PanelStore interface {
	Save(ctx context.Context, panel *models.IndicatorPanel) error
	Load(ctx context.Context, symbol string) (*models.IndicatorPanel, error)
}

// DecisionLog is the append-only prediction log.
type DecisionLog interface {
	Append(ctx context.Context, d *models.Decision) error
}

// FeedbackLog is the append-only feedback ledger.
type FeedbackLog interface {
	Append(ctx context.Context, rec *models.FeedbackRecord) error
	All(ctx context.Context) ([]models.FeedbackRecord, error)
}

// DecisionPublisher mirrors decisions onto an event stream. Optional;
// a nil publisher disables it.
type DecisionPublisher interface {
	Publish(ctx context.Context, d *models.Decision) error
	Close() error
}

// DecisionArchive mirrors decisions into an analytical store. Optional.
type DecisionArchive interface {
	Archive(ctx context.Context, d *models.Decision) error
	Health(ctx context.Context) error
}

// ModelStore manages placeholder model artifacts keyed by symbol and
// horizon. The core only creates and existence-checks them.
type ModelStore interface {
	CreatePlaceholders(symbol string, horizon models.Horizon) (int, error)
	Count() int
	Exists(symbol string, horizon models.Horizon, name string) bool
}

// Metrics records operational measurements.
type Metrics interface {
	RecordFetch(source, symbol string)
	RecordDecision(symbol, action string)
	RecordError(kind string)
	RecordLastPrice(symbol string, price float64)
	RecordLatency(op string, seconds float64)
}
