// Package tradelog keeps an append-only write-ahead log of every committed
// trade. The ledger snapshot remains authoritative; the log exists for audit
// reconstruction and survives snapshot deletion.
package tradelog

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/smolin/onelot/internal/domain"
	"github.com/vadiminshakov/gowal"
)

const (
	tradeKeyPrefix   = "trade_"
	segmentThreshold = 1000
	maxSegments      = 100
	dirPermissions   = 0o755
)

// Log is a gowal-backed audit log of committed trades.
type Log struct {
	wal *gowal.Wal
}

// record is the stored form of an audit entry.
type record struct {
	ID    string       `json:"id"`
	Trade domain.Trade `json:"trade"`
}

// New opens (or creates) the audit log in the given directory.
func New(dir string) (*Log, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, errors.Wrapf(err, "failed to ensure trade log directory %s", dir)
	}

	wal, err := gowal.NewWAL(gowal.Config{
		Dir:              dir,
		Prefix:           "log_",
		SegmentThreshold: segmentThreshold,
		MaxSegments:      maxSegments,
		IsInSyncDiskMode: true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open trade log")
	}

	return &Log{wal: wal}, nil
}

// Append writes a committed trade to the log under a fresh unique key.
func (l *Log) Append(trade domain.Trade) error {
	id := uuid.New().String()

	data, err := json.Marshal(record{ID: id, Trade: trade})
	if err != nil {
		return errors.Wrap(err, "encode trade audit record")
	}

	nextIndex := l.wal.CurrentIndex() + 1
	return l.wal.Write(nextIndex, tradeKeyPrefix+id, data)
}

// Replay returns every logged trade in insertion order.
func (l *Log) Replay() ([]domain.Trade, error) {
	trades := make([]domain.Trade, 0)

	for msg := range l.wal.Iterator() {
		if !strings.HasPrefix(msg.Key, tradeKeyPrefix) {
			continue
		}

		var rec record
		if err := json.Unmarshal(msg.Value, &rec); err != nil {
			return nil, errors.Wrapf(err, "decode trade audit record %s", msg.Key)
		}
		trades = append(trades, rec.Trade)
	}

	return trades, nil
}

// Close closes the underlying WAL.
func (l *Log) Close() error {
	return l.wal.Close()
}
