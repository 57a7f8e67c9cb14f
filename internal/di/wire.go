//go:build wireinject
// +build wireinject

package di

import (
	"StockPulse/pkg/config"
	"StockPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideQuoteSource,
		ProvideClickHouseClient,
		ProvideDecisionPublisher,
		ProvideResponseCache,

		// Repositories
		ProvideSnapshotStore,
		ProvidePanelStore,
		ProvideDecisionLog,
		ProvideFeedbackLog,
		ProvideModelStore,
		ProvideDecisionArchive,

		// Engines
		ProvideFeatureEngine,
		ProvideDecisionEngine,
		ProvideVariance,
		ProvideTradingAgent,

		// Use cases
		ProvideIngestor,
		ProvideFeatureBuilder,
		ProvidePredictor,
		ProvideAnalyzer,
		ProvideScanner,
		ProvideFeedbackService,
		ProvideTrainer,
		ProvideRefresher,

		// HTTP and application server
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
