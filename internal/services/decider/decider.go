// Package decider maps a price observation and the current ledger state to a
// buy, sell or hold decision. It is pure: no side effects, deterministic for
// a given input.
package decider

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
)

// decision reason constants
const (
	reasonNoPositionYet      = "no_position_yet"
	reasonPriceBelowCostBand = "price_below_avg_threshold"
	reasonPriceAboveCostBand = "price_above_avg_threshold"
	reasonWithinBand         = "price_within_band"
)

// Engine evaluates buy/sell thresholds against the average purchase price.
type Engine struct {
	buyThreshold  decimal.Decimal
	sellThreshold decimal.Decimal
}

// NewEngine creates a validated decision engine. buyThreshold must be below 1
// and sellThreshold above 1: a buy triggers when the price falls below
// avg*buyThreshold, a sell when it rises above avg*sellThreshold.
func NewEngine(buyThreshold, sellThreshold decimal.Decimal) (Engine, error) {
	one := decimal.NewFromInt(1)

	if buyThreshold.LessThanOrEqual(decimal.Zero) || buyThreshold.GreaterThanOrEqual(one) {
		return Engine{}, fmt.Errorf("buy threshold must be in (0, 1), got %s", buyThreshold.String())
	}
	if sellThreshold.LessThanOrEqual(one) {
		return Engine{}, fmt.Errorf("sell threshold must be greater than 1, got %s", sellThreshold.String())
	}

	return Engine{buyThreshold: buyThreshold, sellThreshold: sellThreshold}, nil
}

// ShouldBuy reports whether one unit should be bought at the given price.
// With no position yet there is no cost basis, so the first entry is always
// taken.
func (e Engine) ShouldBuy(price decimal.Decimal, ledger *domain.Ledger) bool {
	avg, ok := ledger.AveragePurchasePrice()
	if !ok {
		return true
	}
	return price.LessThan(avg.Mul(e.buyThreshold))
}

// ShouldSell reports whether one unit should be sold at the given price.
func (e Engine) ShouldSell(price decimal.Decimal, ledger *domain.Ledger) bool {
	if ledger.Holdings == 0 {
		return false
	}
	avg, ok := ledger.AveragePurchasePrice()
	if !ok {
		return false
	}
	return price.GreaterThan(avg.Mul(e.sellThreshold))
}

// Decide evaluates one tick. The buy condition is checked strictly before the
// sell condition; the ordering is part of the contract and must not change.
func (e Engine) Decide(price decimal.Decimal, ledger *domain.Ledger) domain.Decision {
	avg, ok := ledger.AveragePurchasePrice()
	if !ok {
		return domain.Decision{Action: domain.ActionBuy, Reason: reasonNoPositionYet}
	}

	if price.LessThan(avg.Mul(e.buyThreshold)) {
		return domain.Decision{Action: domain.ActionBuy, Reason: reasonPriceBelowCostBand}
	}

	if ledger.Holdings > 0 && price.GreaterThan(avg.Mul(e.sellThreshold)) {
		return domain.Decision{Action: domain.ActionSell, Reason: reasonPriceAboveCostBand}
	}

	return domain.Decision{Action: domain.ActionHold, Reason: reasonWithinBand}
}
