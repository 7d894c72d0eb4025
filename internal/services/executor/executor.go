// Package executor applies confirmed trades to the ledger and drives
// write-through persistence. Every committed trade updates capital, holdings
// and both histories, then saves a snapshot and appends an audit record
// before the post-commit notification fires.
package executor

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
	"go.uber.org/zap"
)

var (
	// ErrInsufficientCapital rejects a buy that would drive capital negative.
	ErrInsufficientCapital = errors.New("insufficient capital for buy")
	// ErrNoHoldings rejects a sell with nothing held.
	ErrNoHoldings = errors.New("no holdings to sell")
)

type ledgerStore interface {
	Save(ledger *domain.Ledger) error
}

type auditLog interface {
	Append(trade domain.Trade) error
}

type notifier interface {
	Notify(trade domain.Trade)
}

// Executor commits single-unit trades against the ledger.
type Executor struct {
	store    ledgerStore
	audit    auditLog
	notifier notifier
	l        *zap.Logger
}

// New creates a trade executor.
func New(store ledgerStore, audit auditLog, notifier notifier, l *zap.Logger) *Executor {
	if l == nil {
		l = zap.NewNop()
	}
	return &Executor{store: store, audit: audit, notifier: notifier, l: l}
}

// ExecuteBuy commits a one-unit buy at the given price. The ledger is left
// untouched when the price exceeds free capital.
func (e *Executor) ExecuteBuy(ctx context.Context, ledger *domain.Ledger, price decimal.Decimal) (domain.Trade, error) {
	if price.GreaterThan(ledger.Capital) {
		return domain.Trade{}, errors.Wrapf(ErrInsufficientCapital,
			"price %s exceeds capital %s", price.String(), ledger.Capital.String())
	}

	ledger.Capital = ledger.Capital.Sub(price)
	ledger.Holdings++
	ledger.PurchaseHistory = append(ledger.PurchaseHistory, price)

	trade := domain.Trade{
		Side:         domain.SideBuy,
		Price:        price,
		Quantity:     1,
		Timestamp:    time.Now(),
		CapitalAfter: ledger.Capital,
	}
	ledger.TradeHistory = append(ledger.TradeHistory, trade)

	e.commit(ledger, trade)

	return trade, nil
}

// ExecuteSell commits a one-unit sell at the given price. The oldest purchase
// price leaves the cost-basis history first; when the position is fully
// closed the history resets, so a later re-entry starts from a clean basis.
func (e *Executor) ExecuteSell(ctx context.Context, ledger *domain.Ledger, price decimal.Decimal) (domain.Trade, error) {
	if ledger.Holdings == 0 {
		return domain.Trade{}, ErrNoHoldings
	}

	ledger.Capital = ledger.Capital.Add(price)
	ledger.Holdings--

	if len(ledger.PurchaseHistory) > 0 {
		ledger.PurchaseHistory = ledger.PurchaseHistory[1:]
	}
	if ledger.Holdings == 0 {
		ledger.PurchaseHistory = make([]decimal.Decimal, 0)
	}

	trade := domain.Trade{
		Side:         domain.SideSell,
		Price:        price,
		Quantity:     1,
		Timestamp:    time.Now(),
		CapitalAfter: ledger.Capital,
	}
	ledger.TradeHistory = append(ledger.TradeHistory, trade)

	e.commit(ledger, trade)

	return trade, nil
}

// commit persists the mutated ledger and emits the post-commit notification.
// Persistence failures are warnings: the in-memory ledger stays authoritative
// for the running process.
func (e *Executor) commit(ledger *domain.Ledger, trade domain.Trade) {
	if err := e.store.Save(ledger); err != nil {
		e.l.Warn("failed to persist ledger snapshot, in-memory state remains authoritative",
			zap.Error(err), zap.String("trade", trade.String()))
	}

	if e.audit != nil {
		if err := e.audit.Append(trade); err != nil {
			e.l.Warn("failed to append trade audit record", zap.Error(err),
				zap.String("trade", trade.String()))
		}
	}

	if e.notifier != nil {
		e.notifier.Notify(trade)
	}
}
