package service

import (
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/Arianguy/Banko-sub000/internal/ledger"
	"github.com/Arianguy/Banko-sub000/internal/model"
	"github.com/Arianguy/Banko-sub000/internal/repository"
)

// HoldingView is one instrument's current position with its valuation,
// enriched with instrument metadata for presentation.
type HoldingView struct {
	Instrument      model.Instrument `json:"instrument"`
	Quantity        decimal.Decimal  `json:"quantity"`
	CostBasis       decimal.Decimal  `json:"costBasis"`
	AverageUnitCost decimal.Decimal  `json:"averageUnitCost"`
	MarketValue     decimal.Decimal  `json:"marketValue"`
	GainLoss        decimal.Decimal  `json:"gainLoss"`
	GainLossPct     decimal.Decimal  `json:"gainLossPct"`
	PriceUsed       decimal.Decimal  `json:"priceUsed"`
	PriceFallback   bool             `json:"priceFallback"`
}

// HoldingService computes current holdings by stateless replay: each query
// loads the user's full event streams and folds them from empty state.
// Nothing is cached, so there is no cache to fall out of sync with the log.
type HoldingService struct {
	transactionService *TransactionService
	instrumentRepo     *repository.InstrumentRepository
}

// NewHoldingService creates a new HoldingService with the provided dependencies.
func NewHoldingService(
	transactionService *TransactionService,
	instrumentRepo *repository.InstrumentRepository,
) *HoldingService {
	return &HoldingService{
		transactionService: transactionService,
		instrumentRepo:     instrumentRepo,
	}
}

// GetHoldings replays every instrument the user has events for and returns
// the open positions with valuations as of asOf. Instruments are
// independent ledgers, so their replays run in parallel; within one
// instrument the fold stays strictly sequential.
//
// Fully disposed positions are excluded. Pricing uses the latest stored
// price on or before asOf, falling back to average cost when none exists.
func (s *HoldingService) GetHoldings(userID string, asOf time.Time) ([]HoldingView, error) {
	eventsByInstrument, err := s.transactionService.GetEventsByUser(userID)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	views := []HoldingView{}

	var g errgroup.Group
	for instrumentID, transactions := range eventsByInstrument {
		instrumentID, transactions := instrumentID, transactions
		g.Go(func() error {
			view, open, err := s.buildView(instrumentID, transactions, asOf)
			if err != nil {
				return err
			}
			if !open {
				return nil
			}
			mu.Lock()
			views = append(views, view)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(views, func(i, j int) bool {
		return views[i].Instrument.Symbol < views[j].Instrument.Symbol
	})
	return views, nil
}

// buildView replays one instrument's stream and values the snapshot.
// Returns open=false for a fully disposed position.
func (s *HoldingService) buildView(instrumentID string, transactions []model.Transaction, asOf time.Time) (HoldingView, bool, error) {
	events, err := toLedgerEvents(transactions)
	if err != nil {
		return HoldingView{}, false, err
	}
	state, err := ledger.Replay(events)
	if err != nil {
		return HoldingView{}, false, err
	}

	holding := state.Snapshot()
	if !holding.Quantity.IsPositive() {
		return HoldingView{}, false, nil
	}

	instrument, err := s.instrumentRepo.GetInstrument(instrumentID)
	if err != nil {
		return HoldingView{}, false, err
	}

	valuation := ledger.Valuate(holding, s.currentPrice(instrumentID, asOf))

	return HoldingView{
		Instrument:      instrument,
		Quantity:        holding.Quantity,
		CostBasis:       holding.CostBasis,
		AverageUnitCost: holding.AverageUnitCost,
		MarketValue:     valuation.MarketValue,
		GainLoss:        valuation.GainLoss,
		GainLossPct:     valuation.GainLossPct,
		PriceUsed:       valuation.PriceUsed,
		PriceFallback:   valuation.PriceFallback,
	}, true, nil
}

// currentPrice looks up the latest stored price on or before asOf. A
// missing price is returned as null, which Valuate turns into the
// average-cost fallback rather than an error.
func (s *HoldingService) currentPrice(instrumentID string, asOf time.Time) decimal.NullDecimal {
	price, err := s.instrumentRepo.GetLatestPrice(instrumentID, asOf)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: price.Price, Valid: true}
}

// QuantityAsOf runs the date-bounded quantity projection for one (user,
// instrument) pair. Used by dividend eligibility evaluation.
func (s *HoldingService) QuantityAsOf(userID, instrumentID string, asOf time.Time) (decimal.Decimal, error) {
	transactions, err := s.transactionService.GetEventsForInstrument(userID, instrumentID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	events, err := toLedgerEvents(transactions)
	if err != nil {
		return decimal.Decimal{}, err
	}
	return ledger.QuantityAsOf(events, asOf), nil
}
