package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot is one discrete acquisition, partially or fully consumable by later
// disposals. Lots for an instrument live in strict FIFO order: oldest
// AcquiredAt first, Sequence breaking same-date ties.
//
// RemainingCost, not UnitCost, is authoritative for accounting. Disposals
// decrement quantity and cost together, so the conservation law
//
//	Σ realized cost of disposals + Σ open-lot remaining cost = Σ acquisition cost
//
// holds exactly at the configured decimal precision, with no drift from
// repeated unit-cost multiplication.
type Lot struct {
	InstrumentID      string
	AcquiredAt        time.Time
	Sequence          int64
	OriginalQuantity  decimal.Decimal
	RemainingQuantity decimal.Decimal
	OriginalCost      decimal.Decimal
	RemainingCost     decimal.Decimal
}

// UnitCost is the per-unit acquisition cost of the lot. Zero for bonus lots.
func (l Lot) UnitCost() decimal.Decimal {
	if l.OriginalQuantity.IsZero() {
		return decimal.Zero
	}
	return l.OriginalCost.DivRound(l.OriginalQuantity, AmountPlaces)
}

// consume takes up to quantity from the lot, returning the quantity and
// cost actually consumed. Consuming the full remainder releases the exact
// remaining cost; a partial consumption takes a pro-rata cost slice rounded
// to AmountPlaces and leaves the rest on the lot.
func (l *Lot) consume(quantity decimal.Decimal) (consumedQty, consumedCost decimal.Decimal) {
	if quantity.GreaterThanOrEqual(l.RemainingQuantity) {
		consumedQty = l.RemainingQuantity
		consumedCost = l.RemainingCost
		l.RemainingQuantity = decimal.Zero
		l.RemainingCost = decimal.Zero
		return consumedQty, consumedCost
	}

	consumedQty = quantity
	consumedCost = l.RemainingCost.Mul(quantity).DivRound(l.RemainingQuantity, AmountPlaces)
	l.RemainingQuantity = l.RemainingQuantity.Sub(quantity)
	l.RemainingCost = l.RemainingCost.Sub(consumedCost)
	return consumedQty, consumedCost
}

// newLot opens a lot from an acquisition or bonus event. Bonus lots carry
// zero cost; acquire lots carry the full net amount paid (fees included).
func newLot(e Event) Lot {
	cost := decimal.Zero
	if e.Kind == KindAcquire {
		cost = e.NetAmount.Round(AmountPlaces)
	}
	qty := e.Quantity.Round(QuantityPlaces)
	return Lot{
		InstrumentID:      e.InstrumentID,
		AcquiredAt:        e.OccurredAt,
		Sequence:          e.Sequence,
		OriginalQuantity:  qty,
		RemainingQuantity: qty,
		OriginalCost:      cost,
		RemainingCost:     cost,
	}
}
