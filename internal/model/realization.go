package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Realization is the persisted record of one disposal: proceeds, the FIFO
// cost released, and the realized gain or loss. Append-only history; rows
// survive after the position itself is fully closed.
type Realization struct {
	ID             string          `json:"id"`
	UserID         string          `json:"userId"`
	InstrumentID   string          `json:"instrumentId"`
	TransactionID  string          `json:"transactionId"`
	DisposedAt     time.Time       `json:"disposedAt"`
	Quantity       decimal.Decimal `json:"quantity"`
	Proceeds       decimal.Decimal `json:"proceeds"`
	CostOfDisposed decimal.Decimal `json:"costOfDisposed"`
	GainLoss       decimal.Decimal `json:"gainLoss"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}
