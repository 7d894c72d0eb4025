// Package pricer is the price-source boundary. Concrete backends talk to an
// exchange; the Guarded wrapper translates every backend failure into
// ErrPriceUnavailable so the trading loop only ever sees a price or a
// skip-this-tick signal.
package pricer

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable signals that no valid price could be obtained for this
// tick. The loop skips the tick and retries on the next one.
var ErrPriceUnavailable = errors.New("price unavailable")

// Pricer fetches the current price of an instrument.
type Pricer interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}
