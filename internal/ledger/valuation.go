package ledger

import "github.com/shopspring/decimal"

// Valuation marks a holding to market.
type Valuation struct {
	MarketValue decimal.Decimal
	GainLoss    decimal.Decimal
	GainLossPct decimal.Decimal
	PriceUsed   decimal.Decimal

	// PriceFallback is true when no usable market price was supplied and
	// the average unit cost was used instead.
	PriceFallback bool
}

var hundred = decimal.NewFromInt(100)

// Valuate computes market value and unrealized gain/loss for a holding.
//
// Fallback policy: when currentPrice is absent or non-positive (stale or
// missing feed), the holding's average unit cost stands in for the price.
// A held position is never reported as worth zero merely because the price
// feed had nothing to say; the substitution is flagged via PriceFallback.
func Valuate(h Holding, currentPrice decimal.NullDecimal) Valuation {
	price := h.AverageUnitCost
	fallback := true
	if currentPrice.Valid && currentPrice.Decimal.IsPositive() {
		price = currentPrice.Decimal
		fallback = false
	}

	marketValue := h.Quantity.Mul(price).Round(AmountPlaces)
	gainLoss := marketValue.Sub(h.CostBasis)

	pct := decimal.Zero
	if !h.CostBasis.IsZero() {
		pct = gainLoss.Mul(hundred).DivRound(h.CostBasis, AmountPlaces)
	}

	return Valuation{
		MarketValue:   marketValue,
		GainLoss:      gainLoss,
		GainLossPct:   pct,
		PriceUsed:     price,
		PriceFallback: fallback,
	}
}
