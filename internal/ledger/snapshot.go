package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Holding is the derived per-instrument position over the currently open
// lots of a replayed state. It is ephemeral: recomputed on every query,
// never stored. The event log remains the source of truth.
type Holding struct {
	InstrumentID    string
	Quantity        decimal.Decimal
	CostBasis       decimal.Decimal
	AverageUnitCost decimal.Decimal
}

// Snapshot sums the open lots into a Holding. A fully disposed state has
// quantity zero; AverageUnitCost is zero (a sentinel, never NaN) when
// there is nothing held.
func (s *State) Snapshot() Holding {
	h := Holding{
		InstrumentID: s.InstrumentID,
		Quantity:     s.OpenQuantity(),
		CostBasis:    s.OpenCost(),
	}
	if h.Quantity.IsPositive() {
		h.AverageUnitCost = h.CostBasis.DivRound(h.Quantity, AmountPlaces)
	} else {
		h.AverageUnitCost = decimal.Zero
	}
	return h
}

// SnapshotAll collects holdings across replayed states, excluding fully
// disposed positions (their realizations remain queryable on each State).
// Output is sorted by instrument ID so the same states always produce the
// same slice.
func SnapshotAll(states map[string]*State) []Holding {
	holdings := make([]Holding, 0, len(states))
	for _, state := range states {
		h := state.Snapshot()
		if h.Quantity.IsPositive() {
			holdings = append(holdings, h)
		}
	}
	sort.Slice(holdings, func(i, j int) bool {
		return holdings[i].InstrumentID < holdings[j].InstrumentID
	})
	return holdings
}
