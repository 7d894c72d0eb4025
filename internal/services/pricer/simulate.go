package pricer

import (
	"context"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"
)

// maximum per-tick move of the simulated price, as a fraction
const simulateMaxStep = 0.01

// SimulatePricer produces a seeded random walk around a starting price for
// offline runs. No network access.
type SimulatePricer struct {
	mu   sync.Mutex
	last decimal.Decimal
	rnd  *rand.Rand
}

// NewSimulatePricer creates a simulated pricer starting at the given price.
func NewSimulatePricer(start decimal.Decimal, seed int64) *SimulatePricer {
	return &SimulatePricer{
		last: start,
		rnd:  rand.New(rand.NewSource(seed)),
	}
}

// GetPrice returns the next step of the walk. Steps are bounded to ±1% so
// the series stays positive.
func (p *SimulatePricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	step := (p.rnd.Float64()*2 - 1) * simulateMaxStep
	next := p.last.Mul(decimal.NewFromFloat(1 + step))
	p.last = next

	return next, nil
}
