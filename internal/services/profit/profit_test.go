package profit

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestRealized(t *testing.T) {
	tests := []struct {
		name   string
		trades []domain.Trade
		want   string
	}{
		{name: "no trades", trades: nil, want: "0"},
		{
			name: "single buy is negative cash flow",
			trades: []domain.Trade{
				{Side: domain.SideBuy, Price: d("100"), Quantity: 1},
			},
			want: "-100",
		},
		{
			name: "round trip nets the spread",
			trades: []domain.Trade{
				{Side: domain.SideBuy, Price: d("100"), Quantity: 1},
				{Side: domain.SideSell, Price: d("101"), Quantity: 1},
			},
			want: "1",
		},
		{
			name: "open position counts as outflow",
			trades: []domain.Trade{
				{Side: domain.SideBuy, Price: d("100"), Quantity: 1},
				{Side: domain.SideBuy, Price: d("99"), Quantity: 1},
				{Side: domain.SideSell, Price: d("101"), Quantity: 1},
			},
			want: "-98",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.True(t, Realized(tt.trades).Equal(d(tt.want)),
				"got %s", Realized(tt.trades).String())
		})
	}
}

func TestUnrealized(t *testing.T) {
	ledger := domain.NewLedger(d("7000"))
	ledger.Holdings = 2
	ledger.PurchaseHistory = []decimal.Decimal{d("100"), d("99")}

	require.True(t, Unrealized(ledger, d("102")).Equal(d("5")))
	require.True(t, Unrealized(ledger, d("95")).Equal(d("-9")))

	// flat position has no paper gain
	flat := domain.NewLedger(d("7000"))
	require.True(t, Unrealized(flat, d("102")).IsZero())

	// an unavailable price contributes nothing
	require.True(t, Unrealized(ledger, decimal.Zero).IsZero())
}

func TestTotalAssets(t *testing.T) {
	ledger := domain.NewLedger(d("7000"))
	ledger.Capital = d("6801")
	ledger.Holdings = 2
	ledger.PurchaseHistory = []decimal.Decimal{d("100"), d("99")}

	require.True(t, TotalAssets(ledger, d("102")).Equal(d("7005")))
	require.True(t, TotalAssets(ledger, decimal.Zero).Equal(d("6801")),
		"unavailable price values the position at capital only")
}

func TestRate(t *testing.T) {
	require.True(t, Rate(d("7005"), d("7000")).Sub(d("0.0714")).Abs().LessThan(d("0.001")))
	require.True(t, Rate(d("7000"), d("7000")).IsZero())
	require.True(t, Rate(d("3500"), d("7000")).Equal(d("-50")))
	require.True(t, Rate(d("7005"), decimal.Zero).IsZero(), "zero initial capital must not divide")
}
