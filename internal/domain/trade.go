// Package domain defines core data structures used throughout the trading loop.
package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the wall-clock format used in persisted trade records.
const TimestampLayout = "2006-01-02 15:04:05"

// Side represents the direction of a committed trade.
type Side int

const (
	// SideBuy is a purchase of one unit.
	SideBuy Side = iota
	// SideSell is a disposal of one unit.
	SideSell
)

// side string constants to avoid magic strings
const (
	sideStringBuy  = "buy"
	sideStringSell = "sell"
)

// String returns the string representation of the side.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return sideStringBuy
	case SideSell:
		return sideStringSell
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the side as "buy" or "sell".
func (s Side) MarshalJSON() ([]byte, error) {
	switch s {
	case SideBuy, SideSell:
		return json.Marshal(s.String())
	default:
		return nil, fmt.Errorf("invalid trade side: %d", int(s))
	}
}

// UnmarshalJSON decodes "buy" or "sell" into a typed side.
func (s *Side) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.Wrap(err, "decode trade side")
	}

	switch raw {
	case sideStringBuy:
		*s = SideBuy
	case sideStringSell:
		*s = SideSell
	default:
		return fmt.Errorf("invalid trade side: %q", raw)
	}

	return nil
}

// Trade is an immutable record of a committed single-unit trade.
type Trade struct {
	Side         Side
	Price        decimal.Decimal
	Quantity     int64
	Timestamp    time.Time
	CapitalAfter decimal.Decimal
}

// String returns a human-readable string representation.
func (t *Trade) String() string {
	return fmt.Sprintf("%s %d unit at %s, remaining capital %s",
		t.Side.String(), t.Quantity, t.Price.String(), t.CapitalAfter.String())
}

// tradeRecord is the wire form of a trade in the persisted document.
type tradeRecord struct {
	Side         Side            `json:"type"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int64           `json:"quantity"`
	Timestamp    string          `json:"timestamp"`
	CapitalAfter decimal.Decimal `json:"remaining_capital"`
}

// MarshalJSON encodes the trade with the timestamp in TimestampLayout.
func (t Trade) MarshalJSON() ([]byte, error) {
	return json.Marshal(tradeRecord{
		Side:         t.Side,
		Price:        t.Price,
		Quantity:     t.Quantity,
		Timestamp:    t.Timestamp.Format(TimestampLayout),
		CapitalAfter: t.CapitalAfter,
	})
}

// UnmarshalJSON decodes a persisted trade record.
func (t *Trade) UnmarshalJSON(data []byte) error {
	var rec tradeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(err, "decode trade record")
	}

	ts, err := time.ParseInLocation(TimestampLayout, rec.Timestamp, time.Local)
	if err != nil {
		return errors.Wrapf(err, "decode trade timestamp %q", rec.Timestamp)
	}

	t.Side = rec.Side
	t.Price = rec.Price
	t.Quantity = rec.Quantity
	t.Timestamp = ts
	t.CapitalAfter = rec.CapitalAfter

	return nil
}
