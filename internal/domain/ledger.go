package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Ledger holds the complete financial state of the trading process: free
// capital, held units, the price paid for each held unit in acquisition
// order, and the append-only trade audit log. It is owned exclusively by the
// trading loop and mutated only by the executor.
type Ledger struct {
	Capital         decimal.Decimal
	Holdings        int64
	PurchaseHistory []decimal.Decimal
	TradeHistory    []Trade
}

// NewLedger creates the first-run ledger state with the given starting
// capital and no holdings.
func NewLedger(initialCapital decimal.Decimal) *Ledger {
	return &Ledger{
		Capital:         initialCapital,
		Holdings:        0,
		PurchaseHistory: make([]decimal.Decimal, 0),
		TradeHistory:    make([]Trade, 0),
	}
}

// AveragePurchasePrice returns the arithmetic mean of the purchase history.
// ok is false iff the history is empty; the mean is undefined then.
func (l *Ledger) AveragePurchasePrice() (decimal.Decimal, bool) {
	if len(l.PurchaseHistory) == 0 {
		return decimal.Zero, false
	}

	sum := decimal.Zero
	for _, price := range l.PurchaseHistory {
		sum = sum.Add(price)
	}

	return sum.Div(decimal.NewFromInt(int64(len(l.PurchaseHistory)))), true
}

// PurchaseCost returns the total price paid for the currently held units.
func (l *Ledger) PurchaseCost() decimal.Decimal {
	sum := decimal.Zero
	for _, price := range l.PurchaseHistory {
		sum = sum.Add(price)
	}
	return sum
}

// CheckInvariants verifies the structural invariants of the ledger:
// one purchase price per held unit, and non-negative capital.
func (l *Ledger) CheckInvariants() error {
	if int64(len(l.PurchaseHistory)) != l.Holdings {
		return fmt.Errorf("purchase history length %d does not match holdings %d",
			len(l.PurchaseHistory), l.Holdings)
	}
	if l.Capital.IsNegative() {
		return fmt.Errorf("capital is negative: %s", l.Capital.String())
	}
	if l.Holdings < 0 {
		return fmt.Errorf("holdings is negative: %d", l.Holdings)
	}
	return nil
}
