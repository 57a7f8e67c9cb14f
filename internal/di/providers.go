package di

import (
	"context"
	"fmt"
	"time"

	"StockPulse/internal/domain/repository"
	domsvc "StockPulse/internal/domain/service"
	"StockPulse/internal/handler/api"
	internalrepo "StockPulse/internal/repository"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/yahoo"
	"StockPulse/internal/services/agent"
	"StockPulse/internal/services/decision"
	"StockPulse/internal/services/features"
	"StockPulse/internal/usecase"
	pkgch "StockPulse/pkg/clickhouse"
	"StockPulse/pkg/config"
	pkgkafka "StockPulse/pkg/kafka"
	applogger "StockPulse/pkg/logger"
	"StockPulse/pkg/metrics"
	"StockPulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideQuoteSource creates the Yahoo chart API client.
func ProvideQuoteSource(cfg *config.Config) repository.QuoteSource {
	return yahoo.New(cfg)
}

// ProvideSnapshotStore creates the on-disk snapshot cache.
func ProvideSnapshotStore(cfg *config.Config, l *applogger.Logger) (repository.SnapshotStore, error) {
	return internalrepo.NewFSSnapshotStore(cfg.Data.Dir, l)
}

// ProvidePanelStore creates the on-disk panel store.
func ProvidePanelStore(cfg *config.Config, l *applogger.Logger) (repository.PanelStore, error) {
	return internalrepo.NewFSPanelStore(cfg.Data.Dir, l)
}

// ProvideDecisionLog creates the append-only prediction log.
func ProvideDecisionLog(cfg *config.Config) (repository.DecisionLog, error) {
	return internalrepo.NewJSONLDecisionLog(cfg.Data.Dir)
}

// ProvideFeedbackLog creates the append-only feedback ledger.
func ProvideFeedbackLog(cfg *config.Config) (repository.FeedbackLog, error) {
	return internalrepo.NewJSONLFeedbackLog(cfg.Data.Dir)
}

// ProvideModelStore creates the model artifact store.
func ProvideModelStore(cfg *config.Config, l *applogger.Logger) (repository.ModelStore, error) {
	return internalrepo.NewFSModelStore(cfg.Data.Dir, l)
}

// ProvideDecisionPublisher creates the Kafka mirror when enabled; nil
// disables publishing without touching the pipeline.
func ProvideDecisionPublisher(cfg *config.Config, l *applogger.Logger) (repository.DecisionPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	// Forward aggregated error logs over the same broker connection.
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          cfg.Kafka.Topic + ".errors",
		Publisher:      producerPublisher{producer},
	})

	return internalrepo.NewKafkaDecisionPublisher(producer, cfg.Kafka.Topic, l), nil
}

// producerPublisher adapts the Kafka producer to the log collector's
// publisher interface.
type producerPublisher struct {
	p *pkgkafka.Producer
}

func (pp producerPublisher) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return pp.p.Publish(ctx, topic, nil, payload)
}

// ProvideClickHouseClient connects the analytical store and applies the
// decision schema. Nil when disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.InitSchema(ctx, internalrepo.DecisionArchiveSchema); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return client, nil
}

// ProvideDecisionArchive wraps the ClickHouse client; nil when disabled.
func ProvideDecisionArchive(client *pkgch.Client, l *applogger.Logger) repository.DecisionArchive {
	if client == nil {
		return nil
	}
	return internalrepo.NewClickHouseDecisionArchive(client, l)
}

// ProvideResponseCache picks Redis when configured, in-process TTL cache
// otherwise.
func ProvideResponseCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideFeatureEngine creates the indicator engine.
func ProvideFeatureEngine(l *applogger.Logger) *features.Engine {
	return features.NewEngine(l)
}

// ProvideDecisionEngine creates the scoring engine.
func ProvideDecisionEngine(l *applogger.Logger) *decision.Engine {
	return decision.NewEngine(l)
}

// ProvideVariance seeds the presentation jitter from the wall clock.
func ProvideVariance() *decision.Variance {
	return decision.NewVariance(time.Now().UnixNano())
}

// ProvideTradingAgent creates the placeholder agent.
func ProvideTradingAgent(store repository.ModelStore, l *applogger.Logger) domsvc.TradingAgent {
	return agent.NewDQNAgent(store, l)
}

// ProvideIngestor creates the fetch-with-cache-fallback use case.
func ProvideIngestor(source repository.QuoteSource, snapshots repository.SnapshotStore, m repository.Metrics, l *applogger.Logger) *usecase.Ingestor {
	return usecase.NewIngestor(source, snapshots, m, l)
}

// ProvideFeatureBuilder creates the panel pipeline.
func ProvideFeatureBuilder(ing *usecase.Ingestor, engine *features.Engine, panels repository.PanelStore, m repository.Metrics, l *applogger.Logger) *usecase.FeatureBuilder {
	return usecase.NewFeatureBuilder(ing, engine, panels, m, l)
}

// ProvidePredictor creates the decision pipeline.
func ProvidePredictor(
	builder *usecase.FeatureBuilder,
	engine *decision.Engine,
	variance *decision.Variance,
	log repository.DecisionLog,
	publisher repository.DecisionPublisher,
	archive repository.DecisionArchive,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.Predictor {
	return usecase.NewPredictor(builder, engine, variance, log, publisher, archive, m, l)
}

// ProvideAnalyzer creates the multi-horizon analyzer.
func ProvideAnalyzer(builder *usecase.FeatureBuilder, engine *decision.Engine, variance *decision.Variance, log repository.DecisionLog, l *applogger.Logger) *usecase.Analyzer {
	return usecase.NewAnalyzer(builder, engine, variance, log, l)
}

// ProvideScanner creates the market scanner.
func ProvideScanner(p *usecase.Predictor, l *applogger.Logger) *usecase.Scanner {
	return usecase.NewScanner(p, l)
}

// ProvideFeedbackService creates the feedback ledger service.
func ProvideFeedbackService(ledger repository.FeedbackLog, l *applogger.Logger) *usecase.FeedbackService {
	return usecase.NewFeedbackService(ledger, l)
}

// ProvideTrainer creates the placeholder trainer.
func ProvideTrainer(builder *usecase.FeatureBuilder, ag domsvc.TradingAgent, store repository.ModelStore, l *applogger.Logger) *usecase.Trainer {
	return usecase.NewTrainer(builder, ag, store, l)
}

// ProvideRefresher creates the watch-list sweep.
func ProvideRefresher(cfg *config.Config, builder *usecase.FeatureBuilder, l *applogger.Logger) *usecase.Refresher {
	if !cfg.Watch.Enabled {
		return nil
	}
	return usecase.NewRefresher(builder, cfg.Watch.Symbols, repository.NormalizePeriod(cfg.Watch.Period), l)
}

// ProvideHandler assembles the HTTP handler.
func ProvideHandler(
	cfg *config.Config,
	l *applogger.Logger,
	predictor *usecase.Predictor,
	analyzer *usecase.Analyzer,
	scanner *usecase.Scanner,
	ingestor *usecase.Ingestor,
	feedback *usecase.FeedbackService,
	trainer *usecase.Trainer,
	modelStore repository.ModelStore,
	archive repository.DecisionArchive,
	cache icache.BytesCache,
) *api.TradingHandler {
	h := api.NewTradingHandler(l, predictor, analyzer, scanner, ingestor, feedback, trainer, modelStore, archive)
	h.SetCache(cache)
	h.SetCacheTTL(cfg.Cache.ResponseTTL)
	h.SetRateLimit(float64(cfg.RateLimit.PerMinute))
	return h
}

// ProvideApp assembles the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	handler *api.TradingHandler,
	refresher *usecase.Refresher,
	publisher repository.DecisionPublisher,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, l, handler, refresher, publisher, chClient)
}
