package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/ledger"
)

func day(n int) time.Time {
	return time.Date(2024, 1, n, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func acquire(n int, seq int64, qty, netAmount string) ledger.Event {
	return ledger.Event{
		InstrumentID: "inst-1",
		Kind:         ledger.KindAcquire,
		Quantity:     dec(qty),
		NetAmount:    dec(netAmount),
		OccurredAt:   day(n),
		Sequence:     seq,
	}
}

func bonus(n int, seq int64, qty string) ledger.Event {
	return ledger.Event{
		InstrumentID: "inst-1",
		Kind:         ledger.KindBonus,
		Quantity:     dec(qty),
		OccurredAt:   day(n),
		Sequence:     seq,
	}
}

func dispose(n int, seq int64, qty, proceeds string) ledger.Event {
	return ledger.Event{
		InstrumentID: "inst-1",
		Kind:         ledger.KindDispose,
		Quantity:     dec(qty),
		NetAmount:    dec(proceeds),
		OccurredAt:   day(n),
		Sequence:     seq,
	}
}

func requireEqual(t *testing.T, label string, got, want decimal.Decimal) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

// TestReplay_FIFOOrder verifies the canonical FIFO worked example.
//
// WHY: disposal cost must come from the oldest lots first. Consuming the
// wrong lots silently misstates both realized and unrealized gains.
func TestReplay_FIFOOrder(t *testing.T) {
	state, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "10", "1000"), // 10 units @ 100
		acquire(2, 2, "10", "2000"), // 10 units @ 200
		dispose(3, 3, "15", "3750"),
	})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	if len(state.Realizations) != 1 {
		t.Fatalf("expected 1 realization, got %d", len(state.Realizations))
	}
	r := state.Realizations[0]
	requireEqual(t, "CostOfDisposed", r.CostOfDisposed, dec("2000")) // 10×100 + 5×200
	requireEqual(t, "Proceeds", r.Proceeds, dec("3750"))
	requireEqual(t, "GainLoss", r.GainLoss, dec("1750"))

	if len(state.Lots) != 1 {
		t.Fatalf("expected 1 open lot, got %d", len(state.Lots))
	}
	requireEqual(t, "RemainingQuantity", state.Lots[0].RemainingQuantity, dec("5"))
	requireEqual(t, "UnitCost", state.Lots[0].UnitCost(), dec("200"))
	requireEqual(t, "RemainingCost", state.Lots[0].RemainingCost, dec("1000"))
}

// TestReplay_BonusDilution verifies that bonus shares add quantity without
// adding cost basis.
//
// WHY: bonus issues and splits must dilute average cost, not inflate the
// invested amount. This is where the old dashboard aggregation went wrong
// by ignoring unrecognized transaction types.
func TestReplay_BonusDilution(t *testing.T) {
	state, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "100", "10000"),
		bonus(2, 2, "400"),
	})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	h := state.Snapshot()
	requireEqual(t, "Quantity", h.Quantity, dec("500"))
	requireEqual(t, "CostBasis", h.CostBasis, dec("10000"))
	requireEqual(t, "AverageUnitCost", h.AverageUnitCost, dec("20"))
}

// TestReplay_OversellRejected verifies that disposing more than the open
// lots fails atomically.
//
// WHY: the source system's ungated FIFO loops could drive holdings
// negative. The engine must reject the whole replay instead of clamping
// or partially applying a disposal.
func TestReplay_OversellRejected(t *testing.T) {
	_, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "100", "10000"),
		dispose(2, 2, "150", "16000"),
	})
	if !errors.Is(err, apperrors.ErrInsufficientLots) {
		t.Fatalf("expected ErrInsufficientLots, got %v", err)
	}

	// The same prefix replays cleanly: a failed replay leaves nothing behind
	// to corrupt, each replay starts from empty state.
	state, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "100", "10000"),
	})
	if err != nil {
		t.Fatalf("Replay() of valid prefix returned error: %v", err)
	}
	requireEqual(t, "OpenQuantity", state.OpenQuantity(), dec("100"))
	requireEqual(t, "OpenCost", state.OpenCost(), dec("10000"))
}

// TestReplay_OutOfOrderRejected verifies total-order enforcement.
//
// WHY: FIFO correctness depends on processing events in (date, sequence)
// order. Accepting a stale event mid-replay would silently reorder lots.
func TestReplay_OutOfOrderRejected(t *testing.T) {
	t.Run("earlier date rejected", func(t *testing.T) {
		_, err := ledger.Replay([]ledger.Event{
			acquire(5, 1, "10", "1000"),
			acquire(3, 2, "10", "1000"),
		})
		if !errors.Is(err, apperrors.ErrOutOfOrderEvent) {
			t.Fatalf("expected ErrOutOfOrderEvent, got %v", err)
		}
	})

	t.Run("same date needs increasing sequence", func(t *testing.T) {
		_, err := ledger.Replay([]ledger.Event{
			acquire(5, 2, "10", "1000"),
			acquire(5, 2, "10", "1000"),
		})
		if !errors.Is(err, apperrors.ErrOutOfOrderEvent) {
			t.Fatalf("expected ErrOutOfOrderEvent, got %v", err)
		}
	})

	t.Run("same date increasing sequence accepted", func(t *testing.T) {
		_, err := ledger.Replay([]ledger.Event{
			acquire(5, 1, "10", "1000"),
			acquire(5, 2, "10", "1000"),
		})
		if err != nil {
			t.Fatalf("Replay() returned unexpected error: %v", err)
		}
	})
}

// TestReplay_InvalidEvents verifies per-kind validation.
//
// WHY: bad inputs must be rejected before entering the ledger so callers
// fix the input instead of persisting a corrupt stream.
func TestReplay_InvalidEvents(t *testing.T) {
	cases := []struct {
		name  string
		event ledger.Event
	}{
		{"zero quantity acquire", acquire(1, 1, "0", "100")},
		{"negative quantity bonus", bonus(1, 1, "-5")},
		{"unknown kind", ledger.Event{InstrumentID: "inst-1", Kind: ledger.Kind(99), Quantity: dec("1"), OccurredAt: day(1), Sequence: 1}},
		{"negative fees", func() ledger.Event {
			e := acquire(1, 1, "10", "1000")
			e.Fees = dec("-1")
			return e
		}()},
		{"missing date", ledger.Event{InstrumentID: "inst-1", Kind: ledger.KindAcquire, Quantity: dec("1"), NetAmount: dec("10"), Sequence: 1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ledger.Replay([]ledger.Event{tc.event})
			if !errors.Is(err, apperrors.ErrInvalidEvent) {
				t.Fatalf("expected ErrInvalidEvent, got %v", err)
			}
		})
	}
}

// TestReplay_Determinism verifies bit-identical output across repeated replays.
//
// WHY: replay is the model of "current state". If two replays of the same
// sequence disagree, every derived figure becomes untrustworthy.
func TestReplay_Determinism(t *testing.T) {
	events := []ledger.Event{
		acquire(1, 1, "33.333333", "1234.5678"),
		acquire(2, 2, "10.5", "999.99"),
		bonus(3, 3, "7.25"),
		dispose(4, 4, "20.1", "1500"),
		acquire(5, 5, "4", "380.4"),
		dispose(6, 6, "15", "1200.75"),
	}

	first, err := ledger.Replay(events)
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}
	second, err := ledger.Replay(events)
	if err != nil {
		t.Fatalf("second Replay() returned unexpected error: %v", err)
	}

	if len(first.Lots) != len(second.Lots) {
		t.Fatalf("lot counts differ: %d vs %d", len(first.Lots), len(second.Lots))
	}
	for i := range first.Lots {
		requireEqual(t, "RemainingQuantity", first.Lots[i].RemainingQuantity, second.Lots[i].RemainingQuantity)
		requireEqual(t, "RemainingCost", first.Lots[i].RemainingCost, second.Lots[i].RemainingCost)
	}
	if len(first.Realizations) != len(second.Realizations) {
		t.Fatalf("realization counts differ: %d vs %d", len(first.Realizations), len(second.Realizations))
	}
	for i := range first.Realizations {
		requireEqual(t, "CostOfDisposed", first.Realizations[i].CostOfDisposed, second.Realizations[i].CostOfDisposed)
		requireEqual(t, "GainLoss", first.Realizations[i].GainLoss, second.Realizations[i].GainLoss)
	}
}

// TestReplay_ConservationLaw verifies that cost never leaks.
//
// WHY: Σ realized cost + Σ open-lot cost must equal Σ acquisition cost for
// any sequence. Any drift means rounding is eating or minting money.
func TestReplay_ConservationLaw(t *testing.T) {
	sequences := [][]ledger.Event{
		{
			acquire(1, 1, "10", "1000"),
			dispose(2, 2, "10", "1500"),
		},
		{
			acquire(1, 1, "101", "10039.40"),
			bonus(2, 2, "404"),
			dispose(3, 3, "250", "36125"),
			dispose(4, 4, "100", "14450"),
		},
		{
			acquire(1, 1, "33.333333", "1234.5678"),
			acquire(2, 2, "10.5", "999.99"),
			bonus(3, 3, "7.25"),
			dispose(4, 4, "20.1", "1500"),
			acquire(5, 5, "4", "380.4"),
			dispose(6, 6, "15", "1200.75"),
			dispose(7, 7, "19.983333", "1700"),
		},
	}

	for _, events := range sequences {
		state, err := ledger.Replay(events)
		if err != nil {
			t.Fatalf("Replay() returned unexpected error: %v", err)
		}

		acquired := decimal.Zero
		for _, e := range events {
			if e.Kind == ledger.KindAcquire {
				acquired = acquired.Add(e.NetAmount)
			}
		}
		realized := decimal.Zero
		for _, r := range state.Realizations {
			realized = realized.Add(r.CostOfDisposed)
		}

		requireEqual(t, "realized + open cost", realized.Add(state.OpenCost()), acquired)
	}
}

// TestReplay_PartialLotConsumption verifies cost accounting on repeated
// partial disposals of the same lot.
//
// WHY: pro-rata cost slices are the only place rounding enters the ledger;
// the remainder of the lot must absorb the rounding so the total stays exact.
func TestReplay_PartialLotConsumption(t *testing.T) {
	state, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "3", "100"), // unit cost 33.3333…
		dispose(2, 2, "1", "40"),
		dispose(3, 3, "1", "40"),
		dispose(4, 4, "1", "40"),
	})
	if err != nil {
		t.Fatalf("Replay() returned unexpected error: %v", err)
	}

	total := decimal.Zero
	for _, r := range state.Realizations {
		total = total.Add(r.CostOfDisposed)
	}
	requireEqual(t, "total cost of disposals", total, dec("100"))
	requireEqual(t, "open cost", state.OpenCost(), dec("0"))
	requireEqual(t, "open quantity", state.OpenQuantity(), dec("0"))
}

// TestReplay_MixedInstrumentRejected verifies the single-instrument contract.
//
// WHY: each replay covers exactly one instrument's stream; a stray event
// from another instrument means the caller's query was wrong.
func TestReplay_MixedInstrumentRejected(t *testing.T) {
	other := acquire(2, 2, "5", "500")
	other.InstrumentID = "inst-2"

	_, err := ledger.Replay([]ledger.Event{
		acquire(1, 1, "10", "1000"),
		other,
	})
	if !errors.Is(err, apperrors.ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}
