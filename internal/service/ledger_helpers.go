package service

import (
	"fmt"

	"github.com/Arianguy/Banko-sub000/internal/ledger"
	"github.com/Arianguy/Banko-sub000/internal/model"
)

// toLedgerEvents converts stored transaction rows into replay input.
// Rows arrive already ordered by (occurred_at, sequence); conversion
// preserves that order and rejects rows whose kind no longer parses:
// a corrupt stream must fail loudly, not replay partially.
func toLedgerEvents(transactions []model.Transaction) ([]ledger.Event, error) {
	events := make([]ledger.Event, len(transactions))
	for i, t := range transactions {
		kind, err := ledger.ParseKind(t.Kind)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		events[i] = ledger.Event{
			InstrumentID: t.InstrumentID,
			Kind:         kind,
			Quantity:     t.Quantity,
			UnitPrice:    t.UnitPrice,
			Fees:         t.Fees,
			NetAmount:    t.NetAmount,
			OccurredAt:   t.OccurredAt,
			Sequence:     t.Sequence,
		}
	}
	return events, nil
}
