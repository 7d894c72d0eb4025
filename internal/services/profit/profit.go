// Package profit derives P&L figures from ledger state and the current
// price. Everything here is observational and never feeds back into
// decisions.
package profit

import (
	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
)

var hundred = decimal.NewFromInt(100)

// Realized returns the cumulative cash flow of the trade history: sells add,
// buys subtract. This is cash flow, not matched-lot P&L.
func Realized(trades []domain.Trade) decimal.Decimal {
	total := decimal.Zero
	for _, t := range trades {
		switch t.Side {
		case domain.SideSell:
			total = total.Add(t.Price)
		case domain.SideBuy:
			total = total.Sub(t.Price)
		}
	}
	return total
}

// Unrealized returns the paper gain of the open position at the current
// price: holdings*price minus the total purchase cost. Zero when flat or the
// price is unavailable (non-positive).
func Unrealized(ledger *domain.Ledger, price decimal.Decimal) decimal.Decimal {
	if ledger.Holdings == 0 || !price.IsPositive() {
		return decimal.Zero
	}
	return price.Mul(decimal.NewFromInt(ledger.Holdings)).Sub(ledger.PurchaseCost())
}

// TotalAssets returns capital plus the market value of held units. An
// unavailable (non-positive) price contributes zero.
func TotalAssets(ledger *domain.Ledger, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return ledger.Capital
	}
	return ledger.Capital.Add(price.Mul(decimal.NewFromInt(ledger.Holdings)))
}

// Rate returns the overall return as a percentage of the configured initial
// capital. Zero initial capital yields zero rather than a division error.
func Rate(totalAssets, initialCapital decimal.Decimal) decimal.Decimal {
	if initialCapital.IsZero() {
		return decimal.Zero
	}
	return totalAssets.Div(initialCapital).Sub(decimal.NewFromInt(1)).Mul(hundred)
}
