package pricefeed

import (
	"time"

	"github.com/shopspring/decimal"
)

// Response represents the raw JSON response from the chart-style quote API.
// The feed nests its payload the same way most chart endpoints do: an array
// of results carrying metadata, Unix timestamps, and parallel price arrays.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency     string `json:"currency"`
				Symbol       string `json:"symbol"`
				ExchangeName string `json:"exchangeName"`
				LongName     string `json:"longName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// Quote is one day's closing price for a symbol, already converted to the
// engine's decimal representation.
type Quote struct {
	Symbol   string
	Currency string
	Date     time.Time
	Close    decimal.Decimal
}
