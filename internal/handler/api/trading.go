package api

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	icache "StockPulse/internal/service/cache"
	"StockPulse/internal/service/metrics"
	"StockPulse/internal/service/ratelimit"
	"StockPulse/internal/usecase"
	xhttp "StockPulse/pkg/http"
	applogger "StockPulse/pkg/logger"

	"github.com/labstack/echo/v4"
)

// TradingHandler exposes the prediction pipeline over Echo.
type TradingHandler struct {
	logger    *applogger.Logger
	predictor *usecase.Predictor
	analyzer  *usecase.Analyzer
	scanner   *usecase.Scanner
	ingestor  *usecase.Ingestor
	feedback  *usecase.FeedbackService
	trainer   *usecase.Trainer
	modelStore domrepo.ModelStore
	archive    domrepo.DecisionArchive

	rl          *ratelimit.Limiter
	rlPerMinute float64
	cache       icache.BytesCache
	cacheTTL    time.Duration
}

func NewTradingHandler(
	logger *applogger.Logger,
	predictor *usecase.Predictor,
	analyzer *usecase.Analyzer,
	scanner *usecase.Scanner,
	ingestor *usecase.Ingestor,
	feedback *usecase.FeedbackService,
	trainer *usecase.Trainer,
	modelStore domrepo.ModelStore,
	archive domrepo.DecisionArchive,
) *TradingHandler {
	metrics.Register()
	return &TradingHandler{
		logger:      logger,
		predictor:   predictor,
		analyzer:    analyzer,
		scanner:     scanner,
		ingestor:    ingestor,
		feedback:    feedback,
		trainer:     trainer,
		modelStore:  modelStore,
		archive:     archive,
		rl:          ratelimit.New(),
		rlPerMinute: 20,
		cacheTTL:    30 * time.Second,
	}
}

// SetCache injects the response cache used by scan.
func (h *TradingHandler) SetCache(c icache.BytesCache) { h.cache = c }

// SetCacheTTL overrides the scan response cache lifetime.
func (h *TradingHandler) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		h.cacheTTL = ttl
	}
}

// SetRateLimit overrides the per-endpoint requests-per-minute budget.
func (h *TradingHandler) SetRateLimit(perMinute float64) {
	if perMinute > 0 {
		h.rlPerMinute = perMinute
	}
}

func (h *TradingHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/predict", h.Predict)
	g.POST("/analyze", h.Analyze)
	g.POST("/scan", h.Scan)
	g.POST("/fetch", h.Fetch)
	g.POST("/feedback", h.Feedback)
	g.POST("/train", h.Train)
	g.GET("/accuracy", h.Accuracy)
	g.GET("/health", h.Health)
}

func (h *TradingHandler) allow(c echo.Context, endpoint string) bool {
	key := c.RealIP() + ":" + endpoint
	return h.rl.Allow(key, h.rlPerMinute, h.rlPerMinute/60)
}

func (h *TradingHandler) observe(endpoint string, start time.Time) {
	metrics.HandlerLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

func (h *TradingHandler) Predict(c echo.Context) error {
	start := time.Now()
	defer h.observe("predict", start)

	req := &models.PredictRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "predict") {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	results := h.predictor.Predict(c.Request().Context(), req.Symbols, models.Horizon(req.Horizon))
	return xhttp.SuccessResponse(c, results)
}

func (h *TradingHandler) Analyze(c echo.Context) error {
	start := time.Now()
	defer h.observe("analyze", start)

	req := &models.AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "analyze") {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	horizons := make([]models.Horizon, 0, len(req.Horizons))
	for _, raw := range req.Horizons {
		horizons = append(horizons, models.Horizon(raw))
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), req.Symbol, horizons)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("analyze").Inc()
		h.logger.Error("analyze usecase error", applogger.Error(err))
		return h.coreError(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *TradingHandler) Scan(c echo.Context) error {
	start := time.Now()
	defer h.observe("scan", start)

	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "scan") {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	cacheKey := scanCacheKey(req)
	if h.cache != nil {
		if b, ok, err := h.cache.GetBytes(cacheKey); err != nil {
			h.logger.Warn("scan cache get failed", applogger.Error(err))
		} else if ok {
			var hits []usecase.ScanHit
			if err := json.Unmarshal(b, &hits); err == nil {
				return xhttp.SuccessResponse(c, hits)
			}
		}
	}

	hits := h.scanner.Scan(c.Request().Context(), req.Symbols, models.Horizon(req.Horizon), req.MinConfidence)
	if h.cache != nil {
		if b, err := json.Marshal(hits); err == nil {
			if err := h.cache.SetBytes(cacheKey, b, h.cacheTTL); err != nil {
				h.logger.Warn("scan cache set failed", applogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, hits)
}

func (h *TradingHandler) Fetch(c echo.Context) error {
	start := time.Now()
	defer h.observe("fetch", start)

	req := &models.FetchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "fetch") {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	period := domrepo.NormalizePeriod(req.Period)
	type fetchResult struct {
		Symbol    string            `json:"symbol"`
		Source    models.DataSource `json:"data_source,omitempty"`
		Rows      int               `json:"rows"`
		LastClose float64           `json:"last_close,omitempty"`
		Error     string            `json:"error,omitempty"`
	}

	out := make([]fetchResult, 0, len(req.Symbols))
	for _, raw := range req.Symbols {
		symbol := usecase.NormalizeSymbol(raw)
		snap, err := h.ingestor.Fetch(c.Request().Context(), symbol, period)
		if err != nil {
			metrics.HandlerErrors.WithLabelValues("fetch").Inc()
			out = append(out, fetchResult{Symbol: symbol, Error: err.Error()})
			continue
		}
		out = append(out, fetchResult{
			Symbol:    snap.Symbol,
			Source:    snap.Source,
			Rows:      snap.Rows(),
			LastClose: snap.LastClose(),
		})
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *TradingHandler) Feedback(c echo.Context) error {
	start := time.Now()
	defer h.observe("feedback", start)

	req := &models.FeedbackRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rec, err := h.feedback.Record(c.Request().Context(), req.Symbol, req.PredictedAction, req.Feedback, req.ActualReturnPct)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("feedback").Inc()
		return h.coreError(c, err)
	}
	return xhttp.CreatedResponse(c, rec)
}

func (h *TradingHandler) Train(c echo.Context) error {
	start := time.Now()
	defer h.observe("train", start)

	req := &models.TrainRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.allow(c, "train") {
		return xhttp.AppErrorResponse(c, xhttp.NewAppError("ERR_RATE_LIMITED", "", "rate limited", 429))
	}

	report, err := h.trainer.Train(c.Request().Context(), req.Symbol, models.Horizon(req.Horizon))
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("train").Inc()
		h.logger.Error("train usecase error", applogger.Error(err))
		return h.coreError(c, err)
	}
	return xhttp.SuccessResponse(c, report)
}

func (h *TradingHandler) Accuracy(c echo.Context) error {
	start := time.Now()
	defer h.observe("accuracy", start)

	symbol := c.QueryParam("symbol")
	summary, err := h.feedback.Summarize(c.Request().Context(), symbol)
	if err != nil {
		metrics.HandlerErrors.WithLabelValues("accuracy").Inc()
		h.logger.Error("accuracy usecase error", applogger.Error(err))
		return h.coreError(c, err)
	}

	// Optional trimming of the echoed records; the accuracy numbers
	// always cover the whole ledger.
	if since := xhttp.ParseTimeDefault(c.QueryParam("since"), time.Time{}); !since.IsZero() {
		kept := summary.RecentRecords[:0]
		for _, rec := range summary.RecentRecords {
			if !rec.Timestamp.Before(since) {
				kept = append(kept, rec)
			}
		}
		summary.RecentRecords = kept
	}
	if limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0); limit > 0 && len(summary.RecentRecords) > limit {
		summary.RecentRecords = summary.RecentRecords[len(summary.RecentRecords)-limit:]
	}
	return xhttp.SuccessResponse(c, summary)
}

func (h *TradingHandler) Health(c echo.Context) error {
	status := map[string]interface{}{
		"status":          "ok",
		"model_artifacts": h.modelStore.Count(),
		"time":            time.Now().UTC(),
	}
	if h.archive != nil {
		if err := h.archive.Health(c.Request().Context()); err != nil {
			status["archive"] = "unreachable"
		} else {
			status["archive"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}

// coreError maps the domain error taxonomy onto HTTP statuses.
func (h *TradingHandler) coreError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, models.ErrValidation):
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	case errors.Is(err, models.ErrDataUnavailable):
		return xhttp.AppErrorResponse(c, xhttp.UnavailableError(err.Error()))
	default:
		return xhttp.AppErrorResponse(c, xhttp.InternalError(err.Error()))
	}
}

func scanCacheKey(req *models.ScanRequest) string {
	var b strings.Builder
	b.WriteString("scan:")
	b.WriteString(req.Horizon)
	b.WriteString(":")
	for i, s := range req.Symbols {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(usecase.NormalizeSymbol(s))
	}
	b.WriteString(":")
	b.WriteString(strings.TrimRight(strings.TrimRight(jsonFloat(req.MinConfidence), "0"), "."))
	return b.String()
}

func jsonFloat(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
