// Package ledgerstore persists the ledger to a single JSON document so that
// restarts resume with the exact capital, holdings and histories of the last
// committed trade.
package ledgerstore

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/smolin/onelot/internal/domain"
)

// Store reads and writes ledger snapshots at a fixed path.
type Store struct {
	path string
}

// NewStore creates a ledger store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// document is the persisted record. Exactly these four top-level fields;
// decimals are serialized as strings so round-trips are exact.
type document struct {
	TradeHistory []domain.Trade    `json:"trade_history"`
	BuyHistory   []decimal.Decimal `json:"buy_history"`
	Capital      decimal.Decimal   `json:"capital"`
	Holdings     int64             `json:"holdings"`
}

// Load reads the persisted ledger. found is false when no record exists yet,
// which is the normal first-run state, not an error. Any other read or decode
// failure is returned as an error; the caller must treat it as fatal rather
// than resume with fabricated financial state.
func (s *Store) Load() (ledger *domain.Ledger, found bool, err error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, errors.Wrap(err, "read ledger file")
	}

	var doc document
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, false, errors.Wrap(err, "decode ledger file")
	}

	ledger = &domain.Ledger{
		Capital:         doc.Capital,
		Holdings:        doc.Holdings,
		PurchaseHistory: doc.BuyHistory,
		TradeHistory:    doc.TradeHistory,
	}
	if ledger.PurchaseHistory == nil {
		ledger.PurchaseHistory = make([]decimal.Decimal, 0)
	}
	if ledger.TradeHistory == nil {
		ledger.TradeHistory = make([]domain.Trade, 0)
	}

	// a record that parses but breaks the ledger invariants is just as
	// corrupt as one that does not parse
	if err := ledger.CheckInvariants(); err != nil {
		return nil, false, errors.Wrap(err, "ledger file failed validation")
	}

	return ledger, true, nil
}

// Save writes a complete snapshot atomically via a temp file and rename, so a
// crashed or concurrent reader never observes a partially written record.
func (s *Store) Save(ledger *domain.Ledger) error {
	doc := document{
		TradeHistory: ledger.TradeHistory,
		BuyHistory:   ledger.PurchaseHistory,
		Capital:      ledger.Capital,
		Holdings:     ledger.Holdings,
	}
	if doc.TradeHistory == nil {
		doc.TradeHistory = make([]domain.Trade, 0)
	}
	if doc.BuyHistory == nil {
		doc.BuyHistory = make([]decimal.Decimal, 0)
	}

	payload, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return errors.Wrap(err, "encode ledger")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, payload, 0o644); err != nil {
		return errors.Wrap(err, "write ledger temp file")
	}

	if err := os.Rename(tmp, s.path); err != nil {
		return errors.Wrap(err, "persist ledger")
	}

	return nil
}
