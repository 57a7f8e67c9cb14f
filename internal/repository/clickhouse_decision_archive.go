package repository

import (
	"context"
	"fmt"

	"StockPulse/internal/domain/models"
	pkgch "StockPulse/pkg/clickhouse"
	applogger "StockPulse/pkg/logger"
)

// DecisionArchiveSchema creates the analytical table for decisions. Applied
// once at startup when the archive is enabled.
var DecisionArchiveSchema = []string{
	"CREATE DATABASE IF NOT EXISTS stockpulse",
	`CREATE TABLE IF NOT EXISTS stockpulse.decisions (
		symbol          String,
		horizon         String,
		action          String,
		confidence      Float64,
		expected_return Float64,
		current_price   Float64,
		predicted_price Float64,
		score           Float64,
		reason          String,
		ts              DateTime
	) ENGINE = MergeTree ORDER BY (symbol, ts)`,
}

// ClickHouseDecisionArchive mirrors decisions into ClickHouse for offline
// analysis. Best effort; the prediction log stays the system of record.
type ClickHouseDecisionArchive struct {
	client *pkgch.Client
	logger *applogger.Logger
}

// NewClickHouseDecisionArchive wraps an existing client.
func NewClickHouseDecisionArchive(client *pkgch.Client, logger *applogger.Logger) *ClickHouseDecisionArchive {
	return &ClickHouseDecisionArchive{client: client, logger: logger}
}

// Archive inserts one decision row.
func (a *ClickHouseDecisionArchive) Archive(ctx context.Context, d *models.Decision) error {
	const stmt = `INSERT INTO stockpulse.decisions
		(symbol, horizon, action, confidence, expected_return, current_price, predicted_price, score, reason, ts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := a.client.DB().ExecContext(ctx, stmt,
		d.Symbol,
		string(d.Horizon),
		string(d.Action),
		d.Confidence,
		d.ExpectedReturnPct,
		d.CurrentPrice,
		d.PredictedPrice,
		d.Score,
		d.Reason,
		d.Timestamp,
	)
	if err != nil {
		a.logger.Warn("decision archive failed",
			applogger.String("symbol", d.Symbol),
			applogger.Error(err),
		)
		return fmt.Errorf("archive decision: %w", err)
	}
	return nil
}

// Health pings the underlying connection.
func (a *ClickHouseDecisionArchive) Health(ctx context.Context) error {
	return a.client.Health(ctx)
}
