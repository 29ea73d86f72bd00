package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
)

// Realization is the outcome of one disposal event: the proceeds received,
// the FIFO cost released, and the resulting realized gain or loss.
// Realizations are append-only; fully disposed positions disappear from
// holdings but their realizations remain.
type Realization struct {
	InstrumentID   string
	DisposedAt     time.Time
	Sequence       int64
	Quantity       decimal.Decimal
	Proceeds       decimal.Decimal
	CostOfDisposed decimal.Decimal
	GainLoss       decimal.Decimal
}

// State is the replayed ledger for one instrument: the FIFO queue of open
// lots plus every realization emitted along the way. A State is only ever
// produced whole: Replay either applies the full event sequence or
// returns an error and no state.
type State struct {
	InstrumentID string
	Lots         []Lot
	Realizations []Realization

	// Replay cursor: the (OccurredAt, Sequence) of the last processed event.
	lastOccurredAt time.Time
	lastSequence   int64
	started        bool
}

// Replay folds an ordered event sequence into a ledger State.
//
// Events must arrive in strictly increasing (OccurredAt, Sequence) order;
// any violation fails the whole replay with ErrOutOfOrderEvent, since FIFO
// correctness depends on total order. Likewise an invalid event or an
// oversold disposal aborts the replay entirely: holdings must never be
// computed from a truncated lot set.
//
// Replaying the same sequence from empty state always yields an identical
// State.
func Replay(events []Event) (*State, error) {
	state := &State{}
	for i := range events {
		if err := state.apply(events[i]); err != nil {
			return nil, err
		}
	}
	return state, nil
}

// apply processes a single event against the state. Internal: callers go
// through Replay so a failed event can discard the whole state.
func (s *State) apply(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}

	if s.InstrumentID == "" {
		s.InstrumentID = e.InstrumentID
	} else if s.InstrumentID != e.InstrumentID {
		return fmt.Errorf("%w: event for instrument %s in replay of %s", apperrors.ErrInvalidEvent, e.InstrumentID, s.InstrumentID)
	}

	if s.started && !e.after(s.lastOccurredAt, s.lastSequence) {
		return fmt.Errorf("%w: event (%s, seq %d) not after (%s, seq %d)",
			apperrors.ErrOutOfOrderEvent,
			e.OccurredAt.Format("2006-01-02"), e.Sequence,
			s.lastOccurredAt.Format("2006-01-02"), s.lastSequence)
	}

	switch e.Kind {
	case KindAcquire, KindBonus:
		s.Lots = append(s.Lots, newLot(e))
	case KindDispose:
		if err := s.dispose(e); err != nil {
			return err
		}
	}

	s.lastOccurredAt = e.OccurredAt
	s.lastSequence = e.Sequence
	s.started = true
	return nil
}

// dispose consumes open lots oldest-first until the disposal quantity is
// covered, then emits exactly one Realization. An oversell is rejected
// before any lot is touched, so the state is untouched whether or not the
// caller discards it.
func (s *State) dispose(e Event) error {
	remaining := e.Quantity.Round(QuantityPlaces)

	if remaining.GreaterThan(s.OpenQuantity()) {
		return fmt.Errorf("%w: instrument %s disposal of %s on %s exceeds open quantity %s",
			apperrors.ErrInsufficientLots, e.InstrumentID, remaining,
			e.OccurredAt.Format("2006-01-02"), s.OpenQuantity())
	}

	costOfDisposed := decimal.Zero
	spent := 0
	for i := range s.Lots {
		if !remaining.IsPositive() {
			break
		}
		qty, cost := s.Lots[i].consume(remaining)
		remaining = remaining.Sub(qty)
		costOfDisposed = costOfDisposed.Add(cost)
		if s.Lots[i].RemainingQuantity.IsZero() {
			spent = i + 1
		}
	}
	s.Lots = s.Lots[spent:]

	proceeds := e.NetAmount.Round(AmountPlaces)
	s.Realizations = append(s.Realizations, Realization{
		InstrumentID:   e.InstrumentID,
		DisposedAt:     e.OccurredAt,
		Sequence:       e.Sequence,
		Quantity:       e.Quantity.Round(QuantityPlaces),
		Proceeds:       proceeds,
		CostOfDisposed: costOfDisposed,
		GainLoss:       proceeds.Sub(costOfDisposed),
	})
	return nil
}

// OpenQuantity is the total remaining quantity across all open lots.
func (s *State) OpenQuantity() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lots {
		total = total.Add(s.Lots[i].RemainingQuantity)
	}
	return total
}

// OpenCost is the total remaining cost basis across all open lots.
func (s *State) OpenCost() decimal.Decimal {
	total := decimal.Zero
	for i := range s.Lots {
		total = total.Add(s.Lots[i].RemainingCost)
	}
	return total
}
