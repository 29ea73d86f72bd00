package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Arianguy/Banko-sub000/internal/pricefeed"
)

// MockFeedClient is a mock implementation of pricefeed.Client for testing.
// It returns predefined test data instead of making actual API calls.
type MockFeedClient struct {
	// MockQuote is the quote to return from LatestQuote
	MockQuote pricefeed.Quote
	// MockError is the error to return from LatestQuote
	MockError error
	// QueryCount tracks how many times LatestQuote was called
	QueryCount int
}

// NewMockFeedClient creates a new mock feed client with a default quote.
func NewMockFeedClient() *MockFeedClient {
	return &MockFeedClient{
		MockQuote: pricefeed.Quote{
			Symbol:   "TEST",
			Currency: "INR",
			Date:     time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Close:    decimal.RequireFromString("150.25"),
		},
	}
}

// LatestQuote returns the configured MockQuote and MockError.
func (m *MockFeedClient) LatestQuote(symbol string) (pricefeed.Quote, error) {
	m.QueryCount++
	if m.MockError != nil {
		return pricefeed.Quote{}, m.MockError
	}
	quote := m.MockQuote
	quote.Symbol = symbol
	return quote, nil
}

// WithClose configures the mock to return the given closing price.
func (m *MockFeedClient) WithClose(price string) *MockFeedClient {
	m.MockQuote.Close = decimal.RequireFromString(price)
	return m
}

// WithError configures the mock to return the specified error.
func (m *MockFeedClient) WithError(err error) *MockFeedClient {
	m.MockError = err
	return m
}
