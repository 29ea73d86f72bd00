package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Instrument represents a tradable instrument from the database.
// Identity is immutable: the engine creates instruments on first reference
// and never mutates them. Prices change externally, the instrument does not.
type Instrument struct {
	ID         string `json:"id"`
	Symbol     string `json:"symbol"`
	Name       string `json:"name"`
	Exchange   string `json:"exchange"`
	AssetClass string `json:"assetClass"` // equity, mutual_fund
	Currency   string `json:"currency"`
}

// InstrumentPrice is one stored market price for an instrument on a date.
// Absence of a price is not an error anywhere in the system; valuation
// falls back to average cost.
type InstrumentPrice struct {
	ID           string          `json:"id"`
	InstrumentID string          `json:"instrumentId"`
	Date         time.Time       `json:"date"`
	Price        decimal.Decimal `json:"price"`
	Source       string          `json:"source"`
}
