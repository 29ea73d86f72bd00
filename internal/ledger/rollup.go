package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Position pairs a holding with its valuation for portfolio-level math.
type Position struct {
	Holding   Holding
	Valuation Valuation
}

// Weighted is a position annotated with its share of total portfolio value.
type Weighted struct {
	Position
	Weight decimal.Decimal
}

// Summary is the portfolio-level aggregate over a set of positions.
// It is pure output: recomputed per query, no hidden state.
type Summary struct {
	TotalInvested decimal.Decimal
	TotalValue    decimal.Decimal
	TotalGainLoss decimal.Decimal
	Positions     []Weighted

	// BestPerformer and WorstPerformer point into Positions; nil when the
	// portfolio is empty.
	BestPerformer  *Weighted
	WorstPerformer *Weighted
}

// Rollup aggregates positions into portfolio totals, per-position weights
// and best/worst performers by unrealized gain percentage. Performance
// ties break on instrument ID so the ranking is deterministic.
func Rollup(positions []Position) Summary {
	summary := Summary{
		TotalInvested: decimal.Zero,
		TotalValue:    decimal.Zero,
		TotalGainLoss: decimal.Zero,
	}

	for _, p := range positions {
		summary.TotalInvested = summary.TotalInvested.Add(p.Holding.CostBasis)
		summary.TotalValue = summary.TotalValue.Add(p.Valuation.MarketValue)
		summary.TotalGainLoss = summary.TotalGainLoss.Add(p.Valuation.GainLoss)
	}

	weighted := make([]Weighted, len(positions))
	for i, p := range positions {
		w := decimal.Zero
		if summary.TotalValue.IsPositive() {
			w = p.Valuation.MarketValue.DivRound(summary.TotalValue, AmountPlaces)
		}
		weighted[i] = Weighted{Position: p, Weight: w}
	}

	// Rank by gain percentage descending, instrument ID ascending on ties.
	sort.Slice(weighted, func(i, j int) bool {
		cmp := weighted[i].Valuation.GainLossPct.Cmp(weighted[j].Valuation.GainLossPct)
		if cmp != 0 {
			return cmp > 0
		}
		return weighted[i].Holding.InstrumentID < weighted[j].Holding.InstrumentID
	})

	summary.Positions = weighted
	if len(weighted) > 0 {
		summary.BestPerformer = &weighted[0]
		summary.WorstPerformer = &weighted[len(weighted)-1]
	}
	return summary
}
