package service

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/ledger"
	"github.com/Arianguy/Banko-sub000/internal/model"
	"github.com/Arianguy/Banko-sub000/internal/repository"
)

// WeightedHolding is a holding annotated with its share of total portfolio
// value for the summary view.
type WeightedHolding struct {
	HoldingView
	Weight decimal.Decimal `json:"weight"`
}

// PortfolioSummary represents the portfolio-level state at a point in time:
// valuation, cost basis, realized and unrealized gains, dividends, and the
// performance ranking. Recomputed per query, never stored.
type PortfolioSummary struct {
	UserID             string            `json:"userId"`
	TotalInvested      decimal.Decimal   `json:"totalInvested"`
	TotalValue         decimal.Decimal   `json:"totalValue"`
	TotalUnrealized    decimal.Decimal   `json:"totalUnrealizedGainLoss"`
	TotalRealized      decimal.Decimal   `json:"totalRealizedGainLoss"`
	TotalDividends     decimal.Decimal   `json:"totalDividends"`
	TotalGainLoss      decimal.Decimal   `json:"totalGainLoss"`
	Holdings           []WeightedHolding `json:"holdings"`
	BestPerformer      *WeightedHolding  `json:"bestPerformer,omitempty"`
	WorstPerformer     *WeightedHolding  `json:"worstPerformer,omitempty"`
}

// PortfolioService aggregates holdings into portfolio-level figures.
// Pure aggregation over the holdings and realization projections; every
// presentation path (summary, holdings table, dividend view) reads the
// same replayed numbers, so they cannot drift apart.
type PortfolioService struct {
	holdingService  *HoldingService
	realizationRepo *repository.RealizationRepository
	dividendRepo    *repository.DividendRepository
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	holdingService *HoldingService,
	realizationRepo *repository.RealizationRepository,
	dividendRepo *repository.DividendRepository,
) *PortfolioService {
	return &PortfolioService{
		holdingService:  holdingService,
		realizationRepo: realizationRepo,
		dividendRepo:    dividendRepo,
	}
}

// GetSummary computes the portfolio rollup for a user as of the given time:
// totals, per-holding weights, and best/worst performers by unrealized gain
// percentage (ties broken by instrument for a stable ranking).
func (s *PortfolioService) GetSummary(userID string, asOf time.Time) (PortfolioSummary, error) {
	views, err := s.holdingService.GetHoldings(userID, asOf)
	if err != nil {
		return PortfolioSummary{}, err
	}

	positions := make([]ledger.Position, len(views))
	viewByInstrument := make(map[string]HoldingView, len(views))
	for i, v := range views {
		positions[i] = ledger.Position{
			Holding: ledger.Holding{
				InstrumentID:    v.Instrument.ID,
				Quantity:        v.Quantity,
				CostBasis:       v.CostBasis,
				AverageUnitCost: v.AverageUnitCost,
			},
			Valuation: ledger.Valuation{
				MarketValue:   v.MarketValue,
				GainLoss:      v.GainLoss,
				GainLossPct:   v.GainLossPct,
				PriceUsed:     v.PriceUsed,
				PriceFallback: v.PriceFallback,
			},
		}
		viewByInstrument[v.Instrument.ID] = v
	}

	rollup := ledger.Rollup(positions)

	totalRealized, err := s.totalRealized(userID)
	if err != nil {
		return PortfolioSummary{}, err
	}
	totalDividends, err := s.totalDividends(userID)
	if err != nil {
		return PortfolioSummary{}, err
	}

	summary := PortfolioSummary{
		UserID:          userID,
		TotalInvested:   rollup.TotalInvested,
		TotalValue:      rollup.TotalValue,
		TotalUnrealized: rollup.TotalGainLoss,
		TotalRealized:   totalRealized,
		TotalDividends:  totalDividends,
		TotalGainLoss:   rollup.TotalGainLoss.Add(totalRealized),
		Holdings:        make([]WeightedHolding, len(rollup.Positions)),
	}

	for i, w := range rollup.Positions {
		summary.Holdings[i] = WeightedHolding{
			HoldingView: viewByInstrument[w.Holding.InstrumentID],
			Weight:      w.Weight,
		}
	}
	if len(summary.Holdings) > 0 {
		summary.BestPerformer = &summary.Holdings[0]
		summary.WorstPerformer = &summary.Holdings[len(summary.Holdings)-1]
	}
	return summary, nil
}

// GetRealizations retrieves the user's realization history, optionally
// filtered to one instrument.
func (s *PortfolioService) GetRealizations(userID, instrumentID string) ([]model.Realization, error) {
	return s.realizationRepo.GetRealizations(userID, instrumentID)
}

func (s *PortfolioService) totalRealized(userID string) (decimal.Decimal, error) {
	realizations, err := s.realizationRepo.GetRealizations(userID, "")
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, r := range realizations {
		total = total.Add(r.GainLoss)
	}
	return total, nil
}

// totalDividends sums entitlement amounts that have actually been paid out
// (received or credited); qualified-but-unpaid amounts are not yet income.
func (s *PortfolioService) totalDividends(userID string) (decimal.Decimal, error) {
	entitlements, err := s.dividendRepo.GetEntitlementsByUser(userID)
	if err != nil {
		return decimal.Decimal{}, err
	}
	total := decimal.Zero
	for _, e := range entitlements {
		if e.Status == model.StatusReceived || e.Status == model.StatusCredited {
			total = total.Add(e.Amount)
		}
	}
	return total, nil
}
