package internal

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/config"
	"github.com/smolin/onelot/internal/domain"
	"github.com/smolin/onelot/internal/services/decider"
	"github.com/smolin/onelot/internal/services/executor"
	"github.com/smolin/onelot/internal/services/notifier"
	"github.com/smolin/onelot/internal/services/pricer"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakePricer struct {
	price decimal.Decimal
	err   error
	calls int
}

func (f *fakePricer) GetPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	f.calls++
	return f.price, f.err
}

type fakeStore struct {
	saves int
}

func (f *fakeStore) Save(ledger *domain.Ledger) error {
	f.saves++
	return nil
}

type decliningConfirmer struct {
	asked int
}

func (c *decliningConfirmer) Confirm(ctx context.Context, side domain.Side, proposed decimal.Decimal) (decimal.Decimal, bool, error) {
	c.asked++
	return decimal.Zero, false, nil
}

type priceOverrideConfirmer struct {
	price decimal.Decimal
}

func (c *priceOverrideConfirmer) Confirm(ctx context.Context, side domain.Side, proposed decimal.Decimal) (decimal.Decimal, bool, error) {
	return c.price, true, nil
}

func testConf() config.Config {
	return config.Config{
		Symbol:         "BTCUSDT",
		InitialCapital: decimal.RequireFromString("7000"),
	}
}

func testBot(t *testing.T, prc pricerSvc, cnf confirmer, store *fakeStore) (*TradingBot, *domain.Ledger) {
	t.Helper()

	engine, err := decider.NewEngine(decimal.RequireFromString("0.998"), decimal.RequireFromString("1.003"))
	require.NoError(t, err)

	ledger := domain.NewLedger(decimal.RequireFromString("7000"))
	exec := executor.New(store, nil, notifier.NewAutoConfirm(nil), zap.NewNop())

	bot := NewTradingBot(testConf(), ledger, prc, engine, exec, cnf, nil, zap.NewNop())
	return bot, ledger
}

func TestTickSkipsWhenPriceUnavailable(t *testing.T) {
	store := &fakeStore{}
	cnf := &decliningConfirmer{}
	bot, ledger := testBot(t, &fakePricer{err: pricer.ErrPriceUnavailable}, cnf, store)

	require.NoError(t, bot.tick(context.Background()),
		"an unavailable price skips the tick without failing the loop")
	require.Equal(t, "7000", ledger.Capital.String())
	require.Zero(t, cnf.asked, "no confirmation without a price")
	require.Zero(t, store.saves)
}

func TestTickDeclinedConfirmationLeavesLedgerUntouched(t *testing.T) {
	store := &fakeStore{}
	cnf := &decliningConfirmer{}
	bot, ledger := testBot(t, &fakePricer{price: decimal.RequireFromString("100")}, cnf, store)

	require.NoError(t, bot.tick(context.Background()))
	require.Equal(t, 1, cnf.asked, "empty history proposes a buy")
	require.Equal(t, "7000", ledger.Capital.String())
	require.Equal(t, int64(0), ledger.Holdings)
	require.Zero(t, store.saves)
}

func TestTickBuysAtConfirmedPrice(t *testing.T) {
	store := &fakeStore{}
	// operator corrects the fill price during confirmation
	cnf := &priceOverrideConfirmer{price: decimal.RequireFromString("99.5")}
	bot, ledger := testBot(t, &fakePricer{price: decimal.RequireFromString("100")}, cnf, store)

	require.NoError(t, bot.tick(context.Background()))
	require.Equal(t, "6900.5", ledger.Capital.String())
	require.Equal(t, int64(1), ledger.Holdings)
	require.Len(t, ledger.PurchaseHistory, 1)
	require.Equal(t, "99.5", ledger.PurchaseHistory[0].String())
	require.Equal(t, 1, store.saves)
	require.NoError(t, ledger.CheckInvariants())
}

func TestTickSellsAfterRally(t *testing.T) {
	store := &fakeStore{}
	bot, ledger := testBot(t, &fakePricer{price: decimal.RequireFromString("101")}, notifier.NewAutoConfirm(nil), store)

	ledger.Capital = decimal.RequireFromString("6900")
	ledger.Holdings = 1
	ledger.PurchaseHistory = []decimal.Decimal{decimal.RequireFromString("100")}

	require.NoError(t, bot.tick(context.Background()))
	require.Equal(t, "7001", ledger.Capital.String())
	require.Equal(t, int64(0), ledger.Holdings)
	require.Empty(t, ledger.PurchaseHistory)
	require.NoError(t, ledger.CheckInvariants())
}

func TestRunStopsAfterCancelWithPendingTick(t *testing.T) {
	store := &fakeStore{}
	prc := &fakePricer{err: pricer.ErrPriceUnavailable}
	bot, _ := testBot(t, prc, &decliningConfirmer{}, store)
	bot.conf.PollPriceInterval = time.Millisecond

	// context already cancelled: the in-flight tick completes, then the loop
	// must stop even though the short ticker keeps firing
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, bot.Run(ctx))
	require.Equal(t, 1, prc.calls, "no new tick may start after the stop signal")
}

func TestTickHoldsInsideBand(t *testing.T) {
	store := &fakeStore{}
	cnf := &decliningConfirmer{}
	bot, ledger := testBot(t, &fakePricer{price: decimal.RequireFromString("100")}, cnf, store)

	ledger.Capital = decimal.RequireFromString("6900")
	ledger.Holdings = 1
	ledger.PurchaseHistory = []decimal.Decimal{decimal.RequireFromString("100")}

	require.NoError(t, bot.tick(context.Background()))
	require.Zero(t, cnf.asked, "a hold never reaches confirmation")
	require.Equal(t, "6900", ledger.Capital.String())
	require.Equal(t, int64(1), ledger.Holdings)
}
