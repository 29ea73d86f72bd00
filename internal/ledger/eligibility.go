package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuantityAsOf runs the quantity-only projection of the ledger up to and
// including asOf: acquisitions and bonus issues add, disposals subtract.
//
// This is the dividend-eligibility view. It deliberately differs from a
// full replay in two ways: cost is ignored entirely, and a disposal that
// exceeds the running quantity clamps the position to zero instead of
// failing, since eligibility sweeps must tolerate ledgers whose early
// history predates the data window. The events must still be supplied in
// (OccurredAt, Sequence) order; later events are simply not reached.
func QuantityAsOf(events []Event, asOf time.Time) decimal.Decimal {
	quantity := decimal.Zero
	for _, e := range events {
		if e.OccurredAt.After(asOf) {
			break
		}
		switch e.Kind {
		case KindAcquire, KindBonus:
			quantity = quantity.Add(e.Quantity)
		case KindDispose:
			quantity = quantity.Sub(e.Quantity)
			if quantity.IsNegative() {
				quantity = decimal.Zero
			}
		}
	}
	return quantity.Round(QuantityPlaces)
}
