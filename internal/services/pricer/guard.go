package pricer

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/pkg/retrier"
	"go.uber.org/zap"
)

// Guarded wraps a backend pricer. Transient failures are retried with
// backoff; anything still failing (or any non-positive price) comes back as
// ErrPriceUnavailable instead of propagating.
type Guarded struct {
	backend Pricer
	retrier *retrier.Retrier
	l       *zap.Logger
}

// NewGuarded creates the boundary wrapper around a backend pricer.
func NewGuarded(backend Pricer, l *zap.Logger) *Guarded {
	if l == nil {
		l = zap.NewNop()
	}
	return &Guarded{
		backend: backend,
		retrier: retrier.New(),
		l:       l,
	}
}

// GetPrice returns a positive price or ErrPriceUnavailable.
func (g *Guarded) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	price, err := retrier.DoWithData(g.retrier, ctx, func(ctx context.Context) (decimal.Decimal, error) {
		return g.backend.GetPrice(ctx, symbol)
	})
	if err != nil {
		g.l.Warn("price fetch failed", zap.String("symbol", symbol), zap.Error(err))
		return decimal.Zero, ErrPriceUnavailable
	}

	if !price.IsPositive() {
		g.l.Warn("price source returned non-positive price",
			zap.String("symbol", symbol), zap.String("price", price.String()))
		return decimal.Zero, ErrPriceUnavailable
	}

	return price, nil
}
