package testutil

import (
	"database/sql"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/model"
)

// InstrumentBuilder provides a fluent interface for creating test instruments.
//
// Example usage:
//
//	// Simple creation with defaults
//	instrument := testutil.NewInstrument().Build(t, db)
//
//	// Customized instrument
//	instrument := testutil.NewInstrument().
//	    WithSymbol("VWRL").
//	    WithExchange("AMS").
//	    Build(t, db)
type InstrumentBuilder struct {
	ID         string
	Symbol     string
	Name       string
	Exchange   string
	AssetClass string
	Currency   string
}

// NewInstrument creates an InstrumentBuilder with sensible defaults.
func NewInstrument() *InstrumentBuilder {
	return &InstrumentBuilder{
		ID:         MakeID(),
		Symbol:     MakeSymbol("TST"),
		Name:       "Test Instrument",
		Exchange:   "NSE",
		AssetClass: "equity",
		Currency:   "INR",
	}
}

// WithID sets a custom ID.
func (b *InstrumentBuilder) WithID(id string) *InstrumentBuilder {
	b.ID = id
	return b
}

// WithSymbol sets a custom symbol.
func (b *InstrumentBuilder) WithSymbol(symbol string) *InstrumentBuilder {
	b.Symbol = symbol
	return b
}

// WithExchange sets a custom exchange.
func (b *InstrumentBuilder) WithExchange(exchange string) *InstrumentBuilder {
	b.Exchange = exchange
	return b
}

// WithAssetClass sets a custom asset class.
func (b *InstrumentBuilder) WithAssetClass(assetClass string) *InstrumentBuilder {
	b.AssetClass = assetClass
	return b
}

// Build creates the instrument in the database and returns it.
func (b *InstrumentBuilder) Build(t *testing.T, db *sql.DB) model.Instrument {
	t.Helper()

	query := `
		INSERT INTO instrument (id, symbol, name, exchange, asset_class, currency)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.Symbol, b.Name, b.Exchange, b.AssetClass, b.Currency)
	if err != nil {
		t.Fatalf("Failed to create test instrument: %v", err)
	}

	return model.Instrument{
		ID:         b.ID,
		Symbol:     b.Symbol,
		Name:       b.Name,
		Exchange:   b.Exchange,
		AssetClass: b.AssetClass,
		Currency:   b.Currency,
	}
}

// TransactionBuilder provides a fluent interface for creating test ledger
// events directly in the event log, bypassing the trial-replay gate. Use it
// to set up streams; use the service to test the gate itself.
type TransactionBuilder struct {
	ID           string
	UserID       string
	InstrumentID string
	Kind         string
	Quantity     string
	UnitPrice    string
	Fees         string
	NetAmount    string
	OccurredAt   string
	Sequence     int64
}

// NewTransaction creates a TransactionBuilder for an acquire of 10 units at
// 100 with no fees.
func NewTransaction(userID, instrumentID string) *TransactionBuilder {
	return &TransactionBuilder{
		ID:           MakeID(),
		UserID:       userID,
		InstrumentID: instrumentID,
		Kind:         "acquire",
		Quantity:     "10",
		UnitPrice:    "100",
		Fees:         "0",
		NetAmount:    "1000",
		OccurredAt:   "2024-01-01",
		Sequence:     1,
	}
}

// WithKind sets the event kind (acquire, bonus, dispose).
func (b *TransactionBuilder) WithKind(kind string) *TransactionBuilder {
	b.Kind = kind
	return b
}

// WithQuantity sets the quantity as a decimal string.
func (b *TransactionBuilder) WithQuantity(quantity string) *TransactionBuilder {
	b.Quantity = quantity
	return b
}

// WithNetAmount sets the net amount as a decimal string.
func (b *TransactionBuilder) WithNetAmount(netAmount string) *TransactionBuilder {
	b.NetAmount = netAmount
	return b
}

// WithUnitPrice sets the unit price as a decimal string.
func (b *TransactionBuilder) WithUnitPrice(unitPrice string) *TransactionBuilder {
	b.UnitPrice = unitPrice
	return b
}

// On sets the event date (YYYY-MM-DD) and sequence within that date.
func (b *TransactionBuilder) On(date string, sequence int64) *TransactionBuilder {
	b.OccurredAt = date
	b.Sequence = sequence
	return b
}

// Build creates the event in the database and returns it.
func (b *TransactionBuilder) Build(t *testing.T, db *sql.DB) model.Transaction {
	t.Helper()

	query := `
		INSERT INTO txn_event (id, user_id, instrument_id, kind, quantity, unit_price, fees, net_amount, occurred_at, sequence, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()
	_, err := db.Exec(query,
		b.ID, b.UserID, b.InstrumentID, b.Kind,
		b.Quantity, b.UnitPrice, b.Fees, b.NetAmount,
		b.OccurredAt, b.Sequence, createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test transaction: %v", err)
	}

	occurredAt, err := time.Parse("2006-01-02", b.OccurredAt)
	if err != nil {
		t.Fatalf("Invalid test transaction date %q: %v", b.OccurredAt, err)
	}

	return model.Transaction{
		ID:           b.ID,
		UserID:       b.UserID,
		InstrumentID: b.InstrumentID,
		Kind:         b.Kind,
		Quantity:     mustDecimal(t, b.Quantity),
		UnitPrice:    mustDecimal(t, b.UnitPrice),
		Fees:         mustDecimal(t, b.Fees),
		NetAmount:    mustDecimal(t, b.NetAmount),
		OccurredAt:   occurredAt,
		Sequence:     b.Sequence,
		CreatedAt:    createdAt,
	}
}

// DividendEventBuilder provides a fluent interface for creating test
// dividend declarations.
type DividendEventBuilder struct {
	ID             string
	InstrumentID   string
	RecordDate     string
	PaymentDate    string
	AmountPerShare string
}

// NewDividendEvent creates a DividendEventBuilder with sensible defaults.
func NewDividendEvent(instrumentID string) *DividendEventBuilder {
	return &DividendEventBuilder{
		ID:             MakeID(),
		InstrumentID:   instrumentID,
		RecordDate:     "2024-06-01",
		PaymentDate:    "2024-06-15",
		AmountPerShare: "2.50",
	}
}

// WithDates sets the record and payment dates (YYYY-MM-DD).
func (b *DividendEventBuilder) WithDates(recordDate, paymentDate string) *DividendEventBuilder {
	b.RecordDate = recordDate
	b.PaymentDate = paymentDate
	return b
}

// WithAmountPerShare sets the per-share amount as a decimal string.
func (b *DividendEventBuilder) WithAmountPerShare(amount string) *DividendEventBuilder {
	b.AmountPerShare = amount
	return b
}

// Build creates the dividend event in the database and returns it.
func (b *DividendEventBuilder) Build(t *testing.T, db *sql.DB) model.DividendEvent {
	t.Helper()

	query := `
		INSERT INTO dividend_event (id, instrument_id, record_date, payment_date, amount_per_share, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	createdAt := time.Now().UTC()
	_, err := db.Exec(query, b.ID, b.InstrumentID, b.RecordDate, b.PaymentDate, b.AmountPerShare, createdAt.Format(time.RFC3339))
	if err != nil {
		t.Fatalf("Failed to create test dividend event: %v", err)
	}

	recordDate, err := time.Parse("2006-01-02", b.RecordDate)
	if err != nil {
		t.Fatalf("Invalid record date %q: %v", b.RecordDate, err)
	}
	paymentDate, err := time.Parse("2006-01-02", b.PaymentDate)
	if err != nil {
		t.Fatalf("Invalid payment date %q: %v", b.PaymentDate, err)
	}

	return model.DividendEvent{
		ID:             b.ID,
		InstrumentID:   b.InstrumentID,
		RecordDate:     recordDate,
		PaymentDate:    paymentDate,
		AmountPerShare: mustDecimal(t, b.AmountPerShare),
		CreatedAt:      createdAt,
	}
}

// Convenience functions

// CreatePrice stores a market price for an instrument on a date.
func CreatePrice(t *testing.T, db *sql.DB, instrumentID, date, price string) {
	t.Helper()

	query := `
		INSERT INTO instrument_price (id, instrument_id, date, price, source)
		VALUES (?, ?, ?, ?, ?)
	`

	if _, err := db.Exec(query, MakeID(), instrumentID, date, price, "manual"); err != nil {
		t.Fatalf("Failed to create test price: %v", err)
	}
}

func mustDecimal(t *testing.T, value string) decimal.Decimal {
	t.Helper()

	d, err := decimal.NewFromString(value)
	if err != nil {
		t.Fatalf("Invalid decimal %q: %v", value, err)
	}
	return d
}
