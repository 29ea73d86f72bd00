package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one persisted ledger event for a user's
// instrument. Rows are immutable once written; the engine only ever reads
// them back in (occurred_at, sequence) order and replays.
//
// NetAmount follows the acquisition convention: for an acquire it is the
// total cash paid including fees, for a dispose the net proceeds received.
type Transaction struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	InstrumentID string          `json:"instrumentId"`
	Kind         string          `json:"kind"` // acquire, bonus, dispose
	Quantity     decimal.Decimal `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Fees         decimal.Decimal `json:"fees"`
	NetAmount    decimal.Decimal `json:"netAmount"`
	OccurredAt   time.Time       `json:"occurredAt"`
	Sequence     int64           `json:"sequence"`
	CreatedAt    time.Time       `json:"createdAt,omitempty"`
}
