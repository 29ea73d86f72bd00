// Package ledger implements the FIFO lot-tracking accounting engine.
//
// The package is pure: no I/O, no clocks, no package-level state. Callers
// load ordered transaction events from storage, replay them into a State,
// and read holdings, realizations and valuations off that state. Replaying
// the same event sequence always produces the same state, which is what
// makes replay a valid model of "current holdings" without any stored
// aggregate.
//
// All quantity and money arithmetic uses shopspring/decimal. Quantities are
// kept to six fractional digits, monetary amounts to four.
package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
)

// Decimal scale used throughout the engine.
const (
	// QuantityPlaces is the number of fractional digits kept for share/unit quantities.
	QuantityPlaces = 6

	// AmountPlaces is the number of fractional digits kept for prices and monetary amounts.
	AmountPlaces = 4
)

// Kind is the closed set of ledger-affecting event types. Using a closed
// enum instead of free-form type strings forces exhaustive handling; an
// unrecognized kind is a rejected event, not a silently skipped one.
type Kind int

const (
	// KindAcquire is any cost-bearing acquisition: buy, SIP installment,
	// dividend reinvestment.
	KindAcquire Kind = iota + 1

	// KindBonus is a zero-cost share issuance such as a bonus issue or
	// stock split credit. It dilutes average cost without adding basis.
	KindBonus

	// KindDispose is any disposal: sell or redemption.
	KindDispose
)

var kindNames = map[Kind]string{
	KindAcquire: "acquire",
	KindBonus:   "bonus",
	KindDispose: "dispose",
}

// String returns the canonical lowercase name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a stored kind string into a Kind.
// Unknown strings are an error, never a no-op.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown kind %q", apperrors.ErrInvalidEvent, s)
}

// Event is the normalized representation of one ledger-affecting action.
// Events are immutable inputs: the engine never mutates or reorders them.
//
// Events for one instrument are totally ordered by (OccurredAt, Sequence);
// Sequence tie-breaks same-date events. Wall-clock insertion time plays no
// part in ordering.
type Event struct {
	InstrumentID string
	Kind         Kind
	Quantity     decimal.Decimal
	UnitPrice    decimal.Decimal
	Fees         decimal.Decimal
	NetAmount    decimal.Decimal
	OccurredAt   time.Time
	Sequence     int64
}

// Validate checks the per-kind invariants an event must satisfy before it
// may enter the ledger. Violations are caller errors, wrapped around
// apperrors.ErrInvalidEvent.
func (e Event) Validate() error {
	switch e.Kind {
	case KindAcquire, KindBonus, KindDispose:
	default:
		return fmt.Errorf("%w: unknown kind %d for instrument %s", apperrors.ErrInvalidEvent, int(e.Kind), e.InstrumentID)
	}

	if !e.Quantity.IsPositive() {
		return fmt.Errorf("%w: %s quantity %s must be positive", apperrors.ErrInvalidEvent, e.Kind, e.Quantity)
	}
	if e.UnitPrice.IsNegative() {
		return fmt.Errorf("%w: %s unit price %s must not be negative", apperrors.ErrInvalidEvent, e.Kind, e.UnitPrice)
	}
	if e.Fees.IsNegative() {
		return fmt.Errorf("%w: %s fees %s must not be negative", apperrors.ErrInvalidEvent, e.Kind, e.Fees)
	}
	if e.Kind == KindAcquire && e.NetAmount.IsNegative() {
		return fmt.Errorf("%w: acquire net amount %s must not be negative", apperrors.ErrInvalidEvent, e.NetAmount)
	}
	if e.OccurredAt.IsZero() {
		return fmt.Errorf("%w: %s event has no date", apperrors.ErrInvalidEvent, e.Kind)
	}
	return nil
}

// after reports whether this event is strictly later than the given
// (occurredAt, sequence) cursor.
func (e Event) after(occurredAt time.Time, sequence int64) bool {
	if e.OccurredAt.After(occurredAt) {
		return true
	}
	return e.OccurredAt.Equal(occurredAt) && e.Sequence > sequence
}
