package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestSideJSON(t *testing.T) {
	tests := []struct {
		name string
		side Side
		want string
	}{
		{name: "buy", side: SideBuy, want: `"buy"`},
		{name: "sell", side: SideSell, want: `"sell"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.side)
			require.NoError(t, err)
			require.Equal(t, tt.want, string(data))

			var back Side
			require.NoError(t, json.Unmarshal(data, &back))
			require.Equal(t, tt.side, back)
		})
	}
}

func TestSideUnmarshalInvalid(t *testing.T) {
	var s Side
	require.Error(t, json.Unmarshal([]byte(`"short"`), &s))
}

func TestTradeMarshalFormat(t *testing.T) {
	ts, err := time.ParseInLocation(TimestampLayout, "2025-03-14 10:30:00", time.Local)
	require.NoError(t, err)

	trade := Trade{
		Side:         SideBuy,
		Price:        decimal.RequireFromString("100"),
		Quantity:     1,
		Timestamp:    ts,
		CapitalAfter: decimal.RequireFromString("6900"),
	}

	data, err := json.Marshal(trade)
	require.NoError(t, err)
	require.JSONEq(t,
		`{"type":"buy","price":"100","quantity":1,"timestamp":"2025-03-14 10:30:00","remaining_capital":"6900"}`,
		string(data))
}

func TestTradeRoundTrip(t *testing.T) {
	ts, err := time.ParseInLocation(TimestampLayout, "2025-03-14 10:30:00", time.Local)
	require.NoError(t, err)

	trade := Trade{
		Side:         SideSell,
		Price:        decimal.RequireFromString("101.5"),
		Quantity:     1,
		Timestamp:    ts,
		CapitalAfter: decimal.RequireFromString("7001.5"),
	}

	data, err := json.Marshal(trade)
	require.NoError(t, err)

	var back Trade
	require.NoError(t, json.Unmarshal(data, &back))
	require.Equal(t, trade.Side, back.Side)
	require.True(t, trade.Price.Equal(back.Price))
	require.Equal(t, trade.Quantity, back.Quantity)
	require.True(t, trade.Timestamp.Equal(back.Timestamp))
	require.True(t, trade.CapitalAfter.Equal(back.CapitalAfter))
}

func TestTradeUnmarshalBadTimestamp(t *testing.T) {
	var trade Trade
	err := json.Unmarshal([]byte(`{"type":"buy","price":"1","quantity":1,"timestamp":"not-a-time","remaining_capital":"1"}`), &trade)
	require.Error(t, err)
}
