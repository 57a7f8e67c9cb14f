package decision

import (
	"math/rand"
	"sync"

	"StockPulse/internal/domain/models"
)

// Variance perturbs confidence and expected return with small uniform
// noise for display variety. It stands in for model uncertainty until a
// trained model replaces the heuristic; the engine itself stays
// deterministic so it can be tested in isolation.
type Variance struct {
	mu  sync.Mutex
	rng *rand.Rand

	confidenceSpread float64
	returnSpread     float64
}

// NewVariance creates a variance hook with the given seed.
func NewVariance(seed int64) *Variance {
	return &Variance{
		rng:              rand.New(rand.NewSource(seed)),
		confidenceSpread: 0.05,
		returnSpread:     0.5,
	}
}

// Apply jitters a non-HOLD decision in place. Confidence stays inside its
// clamp range and the predicted price is recomputed from the jittered
// return.
func (v *Variance) Apply(d *models.Decision) {
	if v == nil || d == nil || d.Action == models.ActionHold {
		return
	}

	v.mu.Lock()
	dc := (v.rng.Float64()*2 - 1) * v.confidenceSpread
	dr := (v.rng.Float64()*2 - 1) * v.returnSpread
	v.mu.Unlock()

	d.Confidence = clamp(d.Confidence+dc, minConfidence, maxConfidence)
	d.ExpectedReturnPct += dr
	d.PredictedPrice = d.CurrentPrice * (1 + d.ExpectedReturnPct/100)
}
