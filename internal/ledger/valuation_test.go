package ledger_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/ledger"
)

func price(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

// TestValuate_ScenarioFigures verifies the documented bonus-issue scenario.
//
// WHY: this is the reference calculation the whole pipeline must reproduce:
// 101 units acquired for 10,039.40, a 404-unit bonus, and a market price of
// 144.50 yield exactly these figures.
func TestValuate_ScenarioFigures(t *testing.T) {
	state, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "101", "10039.40"),
		bonus(2, 2, "404"),
	})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	h := state.Snapshot()
	requireEqual(t, "Quantity", h.Quantity, dec("505"))
	requireEqual(t, "CostBasis", h.CostBasis, dec("10039.40"))

	v := ledger.Valuate(h, price("144.50"))
	requireEqual(t, "MarketValue", v.MarketValue, dec("72972.50"))
	requireEqual(t, "GainLoss", v.GainLoss, dec("62933.10"))
	if v.PriceFallback {
		t.Error("PriceFallback = true with a live price supplied")
	}
}

// TestValuate_MissingPriceFallsBack verifies the stale/missing price policy.
//
// WHY: a held position must never be valued at zero just because the feed
// is down. The average unit cost stands in, and the substitution is flagged.
func TestValuate_MissingPriceFallsBack(t *testing.T) {
	h := ledger.Holding{
		InstrumentID:    "inst-1",
		Quantity:        dec("10"),
		CostBasis:       dec("1500"),
		AverageUnitCost: dec("150"),
	}

	cases := []struct {
		name  string
		price decimal.NullDecimal
	}{
		{"absent price", decimal.NullDecimal{}},
		{"zero price", price("0")},
		{"negative price", price("-3")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := ledger.Valuate(h, tc.price)
			if !v.PriceFallback {
				t.Error("PriceFallback = false, want true")
			}
			requireEqual(t, "PriceUsed", v.PriceUsed, dec("150"))
			requireEqual(t, "MarketValue", v.MarketValue, dec("1500"))
			requireEqual(t, "GainLoss", v.GainLoss, dec("0"))
		})
	}
}

// TestValuate_ZeroCostBasis verifies the percentage sentinel.
//
// WHY: an all-bonus position has zero basis; the gain percentage must be
// reported as zero, not a division panic or an infinity.
func TestValuate_ZeroCostBasis(t *testing.T) {
	state, err := ledger.Replay([]ledger.Event{bonus(1, 1, "100")})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	v := ledger.Valuate(state.Snapshot(), price("12"))
	requireEqual(t, "MarketValue", v.MarketValue, dec("1200"))
	requireEqual(t, "GainLoss", v.GainLoss, dec("1200"))
	requireEqual(t, "GainLossPct", v.GainLossPct, dec("0"))
}

// TestSnapshotAll_ExcludesClosedPositions verifies holdings visibility.
//
// WHY: fully disposed instruments disappear from current holdings but keep
// their realization history queryable on the state.
func TestSnapshotAll_ExcludesClosedPositions(t *testing.T) {
	open, err := ledger.Replay([]ledger.Event{acquire(1, 1, "10", "1000")})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	closedEvents := []ledger.Event{
		acquire(1, 1, "10", "1000"),
		dispose(2, 2, "10", "1500"),
	}
	for i := range closedEvents {
		closedEvents[i].InstrumentID = "inst-2"
	}
	closed, err := ledger.Replay(closedEvents)
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	holdings := ledger.SnapshotAll(map[string]*ledger.State{
		"inst-1": open,
		"inst-2": closed,
	})

	if len(holdings) != 1 {
		t.Fatalf("expected 1 holding, got %d", len(holdings))
	}
	if holdings[0].InstrumentID != "inst-1" {
		t.Errorf("holding instrument = %s, want inst-1", holdings[0].InstrumentID)
	}
	if len(closed.Realizations) != 1 {
		t.Errorf("closed position lost its realization history")
	}
}
