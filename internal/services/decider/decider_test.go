package decider

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T) Engine {
	t.Helper()
	engine, err := NewEngine(decimal.RequireFromString("0.998"), decimal.RequireFromString("1.003"))
	require.NoError(t, err)
	return engine
}

func ledgerWithPurchases(prices ...string) *domain.Ledger {
	ledger := domain.NewLedger(decimal.RequireFromString("7000"))
	for _, p := range prices {
		ledger.PurchaseHistory = append(ledger.PurchaseHistory, decimal.RequireFromString(p))
	}
	ledger.Holdings = int64(len(ledger.PurchaseHistory))
	return ledger
}

func TestNewEngineValidation(t *testing.T) {
	tests := []struct {
		name        string
		buy         string
		sell        string
		expectError bool
	}{
		{name: "valid thresholds", buy: "0.998", sell: "1.003"},
		{name: "buy threshold above one", buy: "1.01", sell: "1.003", expectError: true},
		{name: "buy threshold zero", buy: "0", sell: "1.003", expectError: true},
		{name: "sell threshold below one", buy: "0.998", sell: "0.9", expectError: true},
		{name: "sell threshold exactly one", buy: "0.998", sell: "1", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewEngine(decimal.RequireFromString(tt.buy), decimal.RequireFromString(tt.sell))
			if tt.expectError {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestShouldBuy(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name    string
		history []string
		price   string
		want    bool
	}{
		{name: "no position yet always enters", history: nil, price: "100", want: true},
		{name: "price just below threshold buys", history: []string{"100"}, price: "99", want: true},
		{name: "price at threshold holds", history: []string{"100"}, price: "99.8", want: false},
		{name: "price above average holds", history: []string{"100"}, price: "101", want: false},
		{name: "threshold uses mean of history", history: []string{"100", "99"}, price: "99.3", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := ledgerWithPurchases(tt.history...)
			require.Equal(t, tt.want, engine.ShouldBuy(decimal.RequireFromString(tt.price), ledger))
		})
	}
}

func TestShouldSell(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name    string
		history []string
		price   string
		want    bool
	}{
		{name: "no holdings never sells", history: nil, price: "1000", want: false},
		{name: "price above threshold sells", history: []string{"100"}, price: "101", want: true},
		{name: "price at threshold holds", history: []string{"100"}, price: "100.3", want: false},
		{name: "avg of two purchases", history: []string{"100", "99"}, price: "101", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := ledgerWithPurchases(tt.history...)
			require.Equal(t, tt.want, engine.ShouldSell(decimal.RequireFromString(tt.price), ledger))
		})
	}
}

func TestDecideChecksBuyBeforeSell(t *testing.T) {
	engine := testEngine(t)

	// a zero price satisfies the buy condition; the buy check runs first and
	// wins even though the position is open
	ledger := ledgerWithPurchases("100")
	decision := engine.Decide(decimal.Zero, ledger)
	require.Equal(t, domain.ActionBuy, decision.Action)
}

func TestDecide(t *testing.T) {
	engine := testEngine(t)

	tests := []struct {
		name       string
		history    []string
		price      string
		want       domain.Action
		wantReason string
	}{
		{name: "empty history buys", history: nil, price: "100", want: domain.ActionBuy, wantReason: "no_position_yet"},
		{name: "dip buys", history: []string{"100"}, price: "99", want: domain.ActionBuy, wantReason: "price_below_avg_threshold"},
		{name: "rally sells", history: []string{"100", "99"}, price: "101", want: domain.ActionSell, wantReason: "price_above_avg_threshold"},
		{name: "in band holds", history: []string{"100"}, price: "100", want: domain.ActionHold, wantReason: "price_within_band"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger := ledgerWithPurchases(tt.history...)
			decision := engine.Decide(decimal.RequireFromString(tt.price), ledger)
			require.Equal(t, tt.want, decision.Action)
			require.Equal(t, tt.wantReason, decision.Reason)
		})
	}
}

func TestDecideIsPure(t *testing.T) {
	engine := testEngine(t)
	ledger := ledgerWithPurchases("100", "99")

	before := len(ledger.PurchaseHistory)
	for range 10 {
		engine.Decide(decimal.RequireFromString("99"), ledger)
	}
	require.Equal(t, before, len(ledger.PurchaseHistory))
	require.Equal(t, int64(2), ledger.Holdings)
}
