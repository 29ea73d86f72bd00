package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/model"
	"github.com/Arianguy/Banko-sub000/internal/repository"
)

// DividendService owns the dividend entitlement lifecycle. Eligibility is
// fixed by the quantity held on the dividend's record date, a date-bounded
// replay of the same event log holdings are computed from, and never
// recomputed afterwards, no matter what later disposals do to the position.
//
// "now" is always injected by the caller. The service never reads the
// wall clock, which keeps evaluation and the sweep deterministic in tests.
type DividendService struct {
	dividendRepo   *repository.DividendRepository
	instrumentRepo *repository.InstrumentRepository
	holdingService *HoldingService
}

// NewDividendService creates a new DividendService with the provided dependencies.
func NewDividendService(
	dividendRepo *repository.DividendRepository,
	instrumentRepo *repository.InstrumentRepository,
	holdingService *HoldingService,
) *DividendService {
	return &DividendService{
		dividendRepo:   dividendRepo,
		instrumentRepo: instrumentRepo,
		holdingService: holdingService,
	}
}

// CreateDividendEvent persists a declared dividend.
func (s *DividendService) CreateDividendEvent(instrumentID string, recordDate, paymentDate time.Time, amountPerShare string) (*model.DividendEvent, error) {
	if _, err := s.instrumentRepo.GetInstrument(instrumentID); err != nil {
		return nil, err
	}
	if paymentDate.Before(recordDate) {
		return nil, fmt.Errorf("%w: payment date %s before record date %s",
			apperrors.ErrInvalidDateRange, paymentDate.Format("2006-01-02"), recordDate.Format("2006-01-02"))
	}

	amount, err := repository.ParseDecimal(amountPerShare)
	if err != nil {
		return nil, err
	}

	event := &model.DividendEvent{
		ID:             uuid.New().String(),
		InstrumentID:   instrumentID,
		RecordDate:     recordDate,
		PaymentDate:    paymentDate,
		AmountPerShare: amount,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.dividendRepo.InsertDividendEvent(*event); err != nil {
		return nil, err
	}
	return event, nil
}

// GetAllDividendEvents retrieves all declared dividends.
func (s *DividendService) GetAllDividendEvents() ([]model.DividendEvent, error) {
	return s.dividendRepo.GetAllDividendEvents()
}

// Evaluate computes (or re-fetches) the entitlement for one (user, dividend
// event) pair.
//
// First evaluation: qualifying quantity comes from the record-date replay,
// amount = quantity × per-share, and the initial status is received when
// the payment date has already passed at now, else qualified.
//
// Re-evaluation is idempotent: the existing record is returned with at most
// a qualified→received advance. The qualifying quantity is never
// recomputed once fixed at the record date. A concurrent first
// evaluation that loses the insert race collapses to the same update path
// via the unique (user, dividend event) index.
func (s *DividendService) Evaluate(ctx context.Context, userID, dividendEventID string, now time.Time) (*model.DividendEntitlement, error) {
	event, err := s.dividendRepo.GetDividendEvent(dividendEventID)
	if err != nil {
		return nil, err
	}

	existing, err := s.dividendRepo.GetEntitlementForEvent(userID, dividendEventID)
	switch {
	case err == nil:
		return s.advanceIfDue(ctx, &existing, event, now)
	case errors.Is(err, apperrors.ErrEntitlementNotFound):
		// First evaluation for this pair.
	default:
		return nil, err
	}

	quantity, err := s.holdingService.QuantityAsOf(userID, event.InstrumentID, event.RecordDate)
	if err != nil {
		return nil, err
	}

	status := model.StatusQualified
	if !event.PaymentDate.After(now) {
		status = model.StatusReceived
	}

	entitlement := &model.DividendEntitlement{
		ID:                 uuid.New().String(),
		UserID:             userID,
		InstrumentID:       event.InstrumentID,
		DividendEventID:    dividendEventID,
		QualifyingQuantity: quantity,
		Amount:             quantity.Mul(event.AmountPerShare).Round(4),
		Status:             status,
		CreatedAt:          now.UTC(),
		UpdatedAt:          now.UTC(),
	}

	err = s.dividendRepo.InsertEntitlement(ctx, entitlement)
	if errors.Is(err, apperrors.ErrDuplicateEntitlement) {
		// Lost a race with another evaluation; use the stored record.
		stored, getErr := s.dividendRepo.GetEntitlementForEvent(userID, dividendEventID)
		if getErr != nil {
			return nil, getErr
		}
		return s.advanceIfDue(ctx, &stored, event, now)
	}
	if err != nil {
		return nil, err
	}
	return entitlement, nil
}

// advanceIfDue applies the payment-date transition to an existing record.
func (s *DividendService) advanceIfDue(ctx context.Context, entitlement *model.DividendEntitlement, event model.DividendEvent, now time.Time) (*model.DividendEntitlement, error) {
	if entitlement.Status != model.StatusQualified || event.PaymentDate.After(now) {
		return entitlement, nil
	}
	if err := entitlement.Advance(model.StatusReceived); err != nil {
		return nil, err
	}
	entitlement.UpdatedAt = now.UTC()
	if err := s.dividendRepo.UpdateEntitlementStatus(ctx, entitlement.ID, entitlement.Status, now); err != nil {
		return nil, err
	}
	return entitlement, nil
}

// GetEntitlementsByUser retrieves all entitlements for a user.
func (s *DividendService) GetEntitlementsByUser(userID string) ([]model.DividendEntitlement, error) {
	return s.dividendRepo.GetEntitlementsByUser(userID)
}

// ConfirmCredit records the external bank-credit confirmation for an
// entitlement, moving it received→credited. This is the only way into the
// terminal state; no sweep performs it automatically.
func (s *DividendService) ConfirmCredit(ctx context.Context, entitlementID string, now time.Time) (*model.DividendEntitlement, error) {
	entitlement, err := s.dividendRepo.GetEntitlement(entitlementID)
	if err != nil {
		return nil, err
	}
	if err := entitlement.Advance(model.StatusCredited); err != nil {
		return nil, err
	}
	entitlement.UpdatedAt = now.UTC()
	if err := s.dividendRepo.UpdateEntitlementStatus(ctx, entitlement.ID, entitlement.Status, now); err != nil {
		return nil, err
	}
	return &entitlement, nil
}

// Sweep advances every qualified entitlement whose payment date has passed
// at now. One bad record logs and skips rather than aborting the sweep;
// returns how many entitlements transitioned.
func (s *DividendService) Sweep(ctx context.Context, now time.Time) (int, error) {
	qualified, err := s.dividendRepo.GetEntitlementsByStatus(model.StatusQualified)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, entitlement := range qualified {
		event, err := s.dividendRepo.GetDividendEvent(entitlement.DividendEventID)
		if err != nil {
			log.Printf("dividend sweep: entitlement %s: %v", entitlement.ID, err)
			continue
		}
		if event.PaymentDate.After(now) {
			continue
		}
		if err := s.dividendRepo.UpdateEntitlementStatus(ctx, entitlement.ID, model.StatusReceived, now); err != nil {
			log.Printf("dividend sweep: entitlement %s: %v", entitlement.ID, err)
			continue
		}
		advanced++
	}
	return advanced, nil
}
