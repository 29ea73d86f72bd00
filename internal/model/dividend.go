package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
)

// DividendEvent represents a declared dividend from the database: which
// instrument pays, the record date that fixes eligibility, the payment
// date, and the per-share amount.
type DividendEvent struct {
	ID             string          `json:"id"`
	InstrumentID   string          `json:"instrumentId"`
	RecordDate     time.Time       `json:"recordDate"`
	PaymentDate    time.Time       `json:"paymentDate"`
	AmountPerShare decimal.Decimal `json:"amountPerShare"`
	CreatedAt      time.Time       `json:"createdAt,omitempty"`
}

// EntitlementStatus is the forward-only lifecycle of a dividend
// entitlement: qualified → received → credited.
type EntitlementStatus string

const (
	// StatusQualified means the user held qualifying quantity on the record
	// date and the payment date has not yet passed.
	StatusQualified EntitlementStatus = "qualified"

	// StatusReceived means the payment date has passed.
	StatusReceived EntitlementStatus = "received"

	// StatusCredited means an external confirmation of the bank credit was
	// recorded. Terminal.
	StatusCredited EntitlementStatus = "credited"
)

var statusRank = map[EntitlementStatus]int{
	StatusQualified: 1,
	StatusReceived:  2,
	StatusCredited:  3,
}

// Valid reports whether the status is one of the known lifecycle states.
func (s EntitlementStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo reports whether moving to next is a single forward step.
// Reverse moves and skips are rejected; the lifecycle never rewinds.
func (s EntitlementStatus) CanTransitionTo(next EntitlementStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}

// DividendEntitlement is the per-(user, dividend event) entitlement record,
// the only mutable persisted output of the accounting core, and only its
// status ever changes. QualifyingQuantity is fixed at evaluation time from
// the record-date holdings and never recomputed.
type DividendEntitlement struct {
	ID                 string            `json:"id"`
	UserID             string            `json:"userId"`
	InstrumentID       string            `json:"instrumentId"`
	DividendEventID    string            `json:"dividendEventId"`
	QualifyingQuantity decimal.Decimal   `json:"qualifyingQuantity"`
	Amount             decimal.Decimal   `json:"amount"`
	Status             EntitlementStatus `json:"status"`
	CreatedAt          time.Time         `json:"createdAt,omitempty"`
	UpdatedAt          time.Time         `json:"updatedAt,omitempty"`
}

// Advance moves the entitlement one step forward, rejecting anything else.
func (e *DividendEntitlement) Advance(next EntitlementStatus) error {
	if !e.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidStatusTransition, e.Status, next)
	}
	e.Status = next
	return nil
}
