// Package notifier is the confirmation/notification collaborator. Confirm
// runs before execution and may override the trade price or decline the tick
// entirely; Notify fires only after a trade is already committed.
package notifier

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
	"go.uber.org/zap"
)

// Notifier confirms proposed trades and announces committed ones.
type Notifier interface {
	// Confirm asks for permission to execute. The returned price is
	// authoritative and may differ from the proposed one. ok is false when
	// the operator declines; the tick then skips execution without mutating
	// any state.
	Confirm(ctx context.Context, side domain.Side, proposed decimal.Decimal) (price decimal.Decimal, ok bool, err error)
	// Notify announces a committed trade. Fire-and-forget, no response.
	Notify(trade domain.Trade)
}

// AutoConfirm approves every trade at the proposed price. Used in
// non-interactive deployments.
type AutoConfirm struct {
	l *zap.Logger
}

// NewAutoConfirm creates the non-interactive notifier.
func NewAutoConfirm(l *zap.Logger) *AutoConfirm {
	if l == nil {
		l = zap.NewNop()
	}
	return &AutoConfirm{l: l}
}

// Confirm approves the trade at the proposed price.
func (a *AutoConfirm) Confirm(_ context.Context, side domain.Side, proposed decimal.Decimal) (decimal.Decimal, bool, error) {
	return proposed, true, nil
}

// Notify logs the committed trade.
func (a *AutoConfirm) Notify(trade domain.Trade) {
	a.l.Info("trade committed",
		zap.String("side", trade.Side.String()),
		zap.String("price", trade.Price.String()),
		zap.String("remaining_capital", trade.CapitalAfter.String()))
}
