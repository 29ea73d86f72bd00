package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Arianguy/Banko-sub000/internal/apperrors"
	"github.com/Arianguy/Banko-sub000/internal/model"
	"github.com/Arianguy/Banko-sub000/internal/pricefeed"
	"github.com/Arianguy/Banko-sub000/internal/repository"
)

// InstrumentService handles the instrument registry and price refresh.
// Instruments are created on first reference and never mutated afterwards;
// only their stored prices move.
type InstrumentService struct {
	instrumentRepo *repository.InstrumentRepository
	feedClient     pricefeed.Client
}

// NewInstrumentService creates a new InstrumentService with the provided dependencies.
func NewInstrumentService(
	instrumentRepo *repository.InstrumentRepository,
	feedClient pricefeed.Client,
) *InstrumentService {
	return &InstrumentService{
		instrumentRepo: instrumentRepo,
		feedClient:     feedClient,
	}
}

// GetInstrument retrieves a single instrument by its ID.
func (s *InstrumentService) GetInstrument(instrumentID string) (model.Instrument, error) {
	return s.instrumentRepo.GetInstrument(instrumentID)
}

// GetAllInstruments retrieves all registered instruments.
func (s *InstrumentService) GetAllInstruments() ([]model.Instrument, error) {
	return s.instrumentRepo.GetAllInstruments()
}

// CreateInstrument registers a new instrument.
func (s *InstrumentService) CreateInstrument(symbol, name, exchange, assetClass, currency string) (*model.Instrument, error) {
	instrument := &model.Instrument{
		ID:         uuid.New().String(),
		Symbol:     symbol,
		Name:       name,
		Exchange:   exchange,
		AssetClass: assetClass,
		Currency:   currency,
	}
	if err := s.instrumentRepo.InsertInstrument(*instrument); err != nil {
		return nil, err
	}
	return instrument, nil
}

// RefreshPrice fetches the latest quote from the external feed and stores
// it for the instrument. A feed failure leaves the stored prices as they
// were; valuation keeps working off the last known price or the
// average-cost fallback.
func (s *InstrumentService) RefreshPrice(instrumentID string) (model.InstrumentPrice, error) {
	instrument, err := s.instrumentRepo.GetInstrument(instrumentID)
	if err != nil {
		return model.InstrumentPrice{}, err
	}

	quote, err := s.feedClient.LatestQuote(instrument.Symbol)
	if err != nil {
		return model.InstrumentPrice{}, err
	}

	price := model.InstrumentPrice{
		ID:           uuid.New().String(),
		InstrumentID: instrumentID,
		Date:         quote.Date,
		Price:        quote.Close,
		Source:       "feed",
	}
	if err := s.instrumentRepo.UpsertPrice(price); err != nil {
		return model.InstrumentPrice{}, err
	}
	return price, nil
}

// LatestPrice returns the most recent stored price for an instrument, or
// ErrPriceNotFound when nothing has been stored yet.
func (s *InstrumentService) LatestPrice(instrumentID string, asOf time.Time) (model.InstrumentPrice, error) {
	price, err := s.instrumentRepo.GetLatestPrice(instrumentID, asOf)
	if errors.Is(err, apperrors.ErrPriceNotFound) {
		return model.InstrumentPrice{}, err
	}
	return price, err
}
