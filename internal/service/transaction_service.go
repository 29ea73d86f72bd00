package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/api/request"
	"github.com/Arianguy/Banko-sub000/internal/ledger"
	"github.com/Arianguy/Banko-sub000/internal/model"
	"github.com/Arianguy/Banko-sub000/internal/repository"
)

// TransactionService handles the ledger's only write path. Every candidate
// event is trial-replayed against the instrument's full stream before it is
// persisted, so an event that would oversell or break ordering never enters
// the log. The previously observed failure mode, FIFO loops applied to an
// unvalidated stream driving holdings negative, cannot occur past this gate.
//
// Writes for one (user, instrument) pair must be serialized by the caller;
// reads are stateless replays and need no coordination.
type TransactionService struct {
	transactionRepo *repository.TransactionRepository
	realizationRepo *repository.RealizationRepository
	instrumentRepo  *repository.InstrumentRepository
}

// NewTransactionService creates a new TransactionService with the provided repository dependencies.
func NewTransactionService(
	transactionRepo *repository.TransactionRepository,
	realizationRepo *repository.RealizationRepository,
	instrumentRepo *repository.InstrumentRepository,
) *TransactionService {
	return &TransactionService{
		transactionRepo: transactionRepo,
		realizationRepo: realizationRepo,
		instrumentRepo:  instrumentRepo,
	}
}

// GetEventsForInstrument retrieves the ordered event stream for a (user,
// instrument) pair.
func (s *TransactionService) GetEventsForInstrument(userID, instrumentID string) ([]model.Transaction, error) {
	return s.transactionRepo.GetEvents(userID, instrumentID)
}

// GetEventsByUser retrieves all of a user's events grouped by instrument.
func (s *TransactionService) GetEventsByUser(userID string) (map[string][]model.Transaction, error) {
	return s.transactionRepo.GetEventsByUser(userID)
}

// GetTransactions returns a user's events, optionally restricted to one
// instrument. Without an instrument filter the per-instrument streams are
// concatenated in instrument-ID order, each stream in replay order.
func (s *TransactionService) GetTransactions(userID, instrumentID string) ([]model.Transaction, error) {
	if instrumentID != "" {
		return s.transactionRepo.GetEvents(userID, instrumentID)
	}

	grouped, err := s.transactionRepo.GetEventsByUser(userID)
	if err != nil {
		return nil, err
	}
	instrumentIDs := make([]string, 0, len(grouped))
	for id := range grouped {
		instrumentIDs = append(instrumentIDs, id)
	}
	sort.Strings(instrumentIDs)

	transactions := make([]model.Transaction, 0)
	for _, id := range instrumentIDs {
		transactions = append(transactions, grouped[id]...)
	}
	return transactions, nil
}

// GetTransaction retrieves a single transaction event by its ID.
func (s *TransactionService) GetTransaction(transactionID string) (model.Transaction, error) {
	return s.transactionRepo.GetTransaction(transactionID)
}

// CreateTransaction validates, trial-replays and persists a new ledger
// event, then refreshes the stored realization projection from the replay.
//
// The trial replay is the integrity gate: the candidate event is appended
// to the instrument's existing stream and the whole sequence is replayed.
// Any ledger error (invalid event, oversell, ordering violation) rejects
// the insert and surfaces to the caller untouched.
func (s *TransactionService) CreateTransaction(ctx context.Context, req request.CreateTransactionRequest) (*model.Transaction, error) {
	occurredAt, err := time.Parse("2006-01-02", req.OccurredAt)
	if err != nil {
		return nil, err
	}

	if _, err := s.instrumentRepo.GetInstrument(req.InstrumentID); err != nil {
		return nil, err
	}

	quantity, unitPrice, fees, netAmount, err := parseAmounts(req)
	if err != nil {
		return nil, err
	}

	sequence, err := s.transactionRepo.NextSequence(req.UserID, req.InstrumentID, req.OccurredAt)
	if err != nil {
		return nil, err
	}

	transaction := &model.Transaction{
		ID:           uuid.New().String(),
		UserID:       req.UserID,
		InstrumentID: req.InstrumentID,
		Kind:         req.Kind,
		Quantity:     quantity,
		UnitPrice:    unitPrice,
		Fees:         fees,
		NetAmount:    netAmount,
		OccurredAt:   occurredAt,
		Sequence:     sequence,
		CreatedAt:    time.Now().UTC(),
	}

	existing, err := s.transactionRepo.GetEvents(req.UserID, req.InstrumentID)
	if err != nil {
		return nil, err
	}
	state, err := s.trialReplay(existing, transaction)
	if err != nil {
		return nil, err
	}

	if err := s.transactionRepo.InsertEvent(ctx, transaction); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	if err := s.storeRealizations(ctx, req.UserID, req.InstrumentID, append(existing, *transaction), state); err != nil {
		return nil, err
	}

	return transaction, nil
}

// trialReplay replays the existing stream plus the candidate event.
// A candidate dated before the stream's tail fails the ordering check,
// which is intended: backdated events require a rebuild, not a quiet
// mid-stream insert.
func (s *TransactionService) trialReplay(existing []model.Transaction, candidate *model.Transaction) (*ledger.State, error) {
	stream := make([]model.Transaction, 0, len(existing)+1)
	stream = append(stream, existing...)
	stream = append(stream, *candidate)

	events, err := toLedgerEvents(stream)
	if err != nil {
		return nil, err
	}
	return ledger.Replay(events)
}

// storeRealizations rewrites the realization projection for the instrument
// from the replayed state. Each realization is matched back to the dispose
// event that produced it via the (occurred_at, sequence) cursor.
func (s *TransactionService) storeRealizations(ctx context.Context, userID, instrumentID string, stream []model.Transaction, state *ledger.State) error {
	transactionByCursor := make(map[string]string, len(stream))
	for _, t := range stream {
		key := fmt.Sprintf("%s#%d", t.OccurredAt.Format("2006-01-02"), t.Sequence)
		transactionByCursor[key] = t.ID
	}

	now := time.Now().UTC()
	rows := make([]model.Realization, len(state.Realizations))
	for i, r := range state.Realizations {
		key := fmt.Sprintf("%s#%d", r.DisposedAt.Format("2006-01-02"), r.Sequence)
		rows[i] = model.Realization{
			ID:             uuid.New().String(),
			UserID:         userID,
			InstrumentID:   instrumentID,
			TransactionID:  transactionByCursor[key],
			DisposedAt:     r.DisposedAt,
			Quantity:       r.Quantity,
			Proceeds:       r.Proceeds,
			CostOfDisposed: r.CostOfDisposed,
			GainLoss:       r.GainLoss,
			CreatedAt:      now,
		}
	}
	return s.realizationRepo.ReplaceForInstrument(ctx, userID, instrumentID, rows)
}

// parseAmounts converts request strings into decimals and derives the net
// amount when the caller did not supply one: quantity×price plus fees for
// an acquisition, minus fees for a disposal, zero for a bonus.
func parseAmounts(req request.CreateTransactionRequest) (quantity, unitPrice, fees, netAmount decimal.Decimal, err error) {
	if quantity, err = decimal.NewFromString(req.Quantity); err != nil {
		return
	}
	unitPrice = decimal.Zero
	if req.UnitPrice != "" {
		if unitPrice, err = decimal.NewFromString(req.UnitPrice); err != nil {
			return
		}
	}
	fees = decimal.Zero
	if req.Fees != "" {
		if fees, err = decimal.NewFromString(req.Fees); err != nil {
			return
		}
	}

	if req.NetAmount != "" {
		netAmount, err = decimal.NewFromString(req.NetAmount)
		return
	}

	switch req.Kind {
	case ledger.KindAcquire.String():
		netAmount = quantity.Mul(unitPrice).Add(fees)
	case ledger.KindDispose.String():
		netAmount = quantity.Mul(unitPrice).Sub(fees)
	default:
		netAmount = decimal.Zero
	}
	return
}
