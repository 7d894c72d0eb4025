// Package internal wires the trading loop: fetch price, decide, confirm,
// execute, report, sleep. One tick completes fully (including persistence)
// before the next begins; the ledger is owned exclusively by the loop.
package internal

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/config"
	"github.com/smolin/onelot/internal/domain"
	"github.com/smolin/onelot/internal/services/executor"
	"github.com/smolin/onelot/internal/services/pricer"
	"github.com/smolin/onelot/internal/services/profit"
	"github.com/smolin/onelot/internal/web"
	"go.uber.org/zap"
)

type pricerSvc interface {
	GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error)
}

type deciderSvc interface {
	Decide(price decimal.Decimal, ledger *domain.Ledger) domain.Decision
}

type executorSvc interface {
	ExecuteBuy(ctx context.Context, ledger *domain.Ledger, price decimal.Decimal) (domain.Trade, error)
	ExecuteSell(ctx context.Context, ledger *domain.Ledger, price decimal.Decimal) (domain.Trade, error)
}

type confirmer interface {
	Confirm(ctx context.Context, side domain.Side, proposed decimal.Decimal) (decimal.Decimal, bool, error)
}

// TradingBot runs the sequential decision loop over a single instrument.
type TradingBot struct {
	conf      config.Config
	ledger    *domain.Ledger
	pricer    pricerSvc
	decider   deciderSvc
	executor  executorSvc
	confirmer confirmer
	status    *web.Holder
	logger    *zap.Logger
}

// NewTradingBot creates a trading bot instance. The ledger passed here is
// owned by the bot from now on. status may be nil when the web server is
// disabled.
func NewTradingBot(conf config.Config, ledger *domain.Ledger, pricer pricerSvc, decider deciderSvc,
	exec executorSvc, confirmer confirmer, status *web.Holder, logger *zap.Logger) *TradingBot {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TradingBot{
		conf:      conf,
		ledger:    ledger,
		pricer:    pricer,
		decider:   decider,
		executor:  exec,
		confirmer: confirmer,
		status:    status,
		logger:    logger.With(zap.String("symbol", conf.Symbol)),
	}
}

// Run executes ticks until ctx is cancelled. A failing tick is logged and
// abandoned; the loop itself only stops on the explicit stop signal, always
// between ticks, never mid-trade.
func (b *TradingBot) Run(ctx context.Context) error {
	b.logger.Info("starting trading loop",
		zap.Duration("poll_interval", b.conf.PollPriceInterval),
		zap.String("capital", b.ledger.Capital.String()),
		zap.Int64("holdings", b.ledger.Holdings))

	ticker := time.NewTicker(b.conf.PollPriceInterval)
	defer ticker.Stop()

	for {
		if err := b.tick(ctx); err != nil {
			b.logger.Error("tick failed, continuing after wait interval", zap.Error(err))
		}

		// cancellation wins over a pending ticker fire
		select {
		case <-ctx.Done():
			b.logger.Info("stop signal received, trading loop finished")
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			b.logger.Info("stop signal received, trading loop finished")
			return nil
		case <-ticker.C:
		}
	}
}

// tick performs one full pass: fetch, decide, confirm, execute, report.
func (b *TradingBot) tick(ctx context.Context) error {
	price, err := b.pricer.GetPrice(ctx, b.conf.Symbol)
	if err != nil {
		if errors.Is(err, pricer.ErrPriceUnavailable) {
			b.logger.Debug("price unavailable, skipping tick")
			return nil
		}
		return errors.Wrap(err, "fetch price")
	}

	decision := b.decider.Decide(price, b.ledger)

	switch decision.Action {
	case domain.ActionBuy:
		if err := b.executeConfirmed(ctx, domain.SideBuy, price, decision.Reason); err != nil {
			return err
		}
	case domain.ActionSell:
		if err := b.executeConfirmed(ctx, domain.SideSell, price, decision.Reason); err != nil {
			return err
		}
	case domain.ActionHold:
		b.logWaiting(price, decision.Reason)
	}

	b.report(price)

	return nil
}

// executeConfirmed runs the confirmation step and applies the trade with the
// confirmed price, which may differ from the observed one.
func (b *TradingBot) executeConfirmed(ctx context.Context, side domain.Side, observed decimal.Decimal, reason string) error {
	execPrice, ok, err := b.confirmer.Confirm(ctx, side, observed)
	if err != nil {
		return errors.Wrap(err, "confirmation failed")
	}
	if !ok {
		b.logger.Info("trade declined by operator",
			zap.String("side", side.String()),
			zap.String("price", observed.String()))
		return nil
	}

	var trade domain.Trade
	switch side {
	case domain.SideBuy:
		trade, err = b.executor.ExecuteBuy(ctx, b.ledger, execPrice)
	case domain.SideSell:
		trade, err = b.executor.ExecuteSell(ctx, b.ledger, execPrice)
	}

	switch {
	case errors.Is(err, executor.ErrInsufficientCapital):
		b.logger.Info("buy rejected: insufficient capital",
			zap.String("price", execPrice.String()),
			zap.String("capital", b.ledger.Capital.String()))
		return nil
	case errors.Is(err, executor.ErrNoHoldings):
		b.logger.Info("sell rejected: no holdings")
		return nil
	case err != nil:
		return errors.Wrapf(err, "execute %s", side.String())
	}

	b.logger.Info("trade executed",
		zap.String("side", trade.Side.String()),
		zap.String("price", trade.Price.String()),
		zap.String("reason", reason),
		zap.String("remaining_capital", trade.CapitalAfter.String()))

	return nil
}

func (b *TradingBot) logWaiting(price decimal.Decimal, reason string) {
	fields := []zap.Field{
		zap.String("price", price.String()),
		zap.String("reason", reason),
	}
	if avg, ok := b.ledger.AveragePurchasePrice(); ok {
		fields = append(fields, zap.String("average_price", avg.String()))
	}
	b.logger.Info("waiting for a trading opportunity", fields...)
}

// report emits the per-tick operator summary and publishes the status
// snapshot. Observational only.
func (b *TradingBot) report(price decimal.Decimal) {
	realized := profit.Realized(b.ledger.TradeHistory)
	unrealized := profit.Unrealized(b.ledger, price)
	totalAssets := profit.TotalAssets(b.ledger, price)
	rate := profit.Rate(totalAssets, b.conf.InitialCapital)

	b.logger.Info("tick summary",
		zap.String("price", price.String()),
		zap.String("capital", b.ledger.Capital.String()),
		zap.Int64("holdings", b.ledger.Holdings),
		zap.String("realized_profit", realized.String()),
		zap.String("unrealized_profit", unrealized.String()),
		zap.String("total_assets", totalAssets.String()),
		zap.String("profit_rate", rate.StringFixed(2)+"%"))

	if b.status == nil {
		return
	}

	snap := web.Snapshot{
		Timestamp:   time.Now().Format(domain.TimestampLayout),
		Price:       price.String(),
		Capital:     b.ledger.Capital.String(),
		Holdings:    b.ledger.Holdings,
		Realized:    realized.String(),
		Unrealized:  unrealized.String(),
		TotalAssets: totalAssets.String(),
		ProfitRate:  rate.StringFixed(2),
	}
	if avg, ok := b.ledger.AveragePurchasePrice(); ok {
		snap.AveragePrice = avg.String()
	}
	b.status.Set(snap)
}
