package agent

import (
	"context"
	"math/rand"
	"sync"

	"StockPulse/internal/domain/models"
	domrepo "StockPulse/internal/domain/repository"
	applogger "StockPulse/pkg/logger"
)

var actions = []models.Action{models.ActionLong, models.ActionShort, models.ActionHold}

// DQNAgent is the placeholder reinforcement-learning agent. Training only
// reserves artifact slots in the model store and Predict picks uniformly;
// the type exists to keep the agent surface stable until a real policy
// lands.
type DQNAgent struct {
	mu      sync.Mutex
	rng     *rand.Rand
	models  domrepo.ModelStore
	logger  *applogger.Logger
	trained bool
}

// NewDQNAgent creates the placeholder agent.
func NewDQNAgent(models domrepo.ModelStore, logger *applogger.Logger) *DQNAgent {
	return &DQNAgent{
		rng:    rand.New(rand.NewSource(rand.Int63())),
		models: models,
		logger: logger,
	}
}

// Train walks the panel once per episode without learning anything yet.
func (a *DQNAgent) Train(ctx context.Context, panel *models.IndicatorPanel, episodes int) error {
	for ep := 0; ep < episodes; ep++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
	a.mu.Lock()
	a.trained = true
	a.mu.Unlock()
	a.logger.Debug("agent trained",
		applogger.String("symbol", panelSymbol(panel)),
		applogger.Int("episodes", episodes),
		applogger.Int("rows", panel.Rows()),
	)
	return nil
}

// Predict picks an action uniformly at random.
func (a *DQNAgent) Predict(_ []float64) models.Action {
	a.mu.Lock()
	defer a.mu.Unlock()
	return actions[a.rng.Intn(len(actions))]
}

// Save ensures the artifact files for the pair exist.
func (a *DQNAgent) Save(symbol string, horizon models.Horizon) error {
	_, err := a.models.CreatePlaceholders(symbol, horizon)
	return err
}

// Load checks the agent artifact is present.
func (a *DQNAgent) Load(symbol string, horizon models.Horizon) error {
	if !a.models.Exists(symbol, horizon, "dqn_agent.pt") {
		return models.ErrDataUnavailable
	}
	return nil
}

func panelSymbol(p *models.IndicatorPanel) string {
	if p == nil {
		return ""
	}
	return p.Symbol
}
