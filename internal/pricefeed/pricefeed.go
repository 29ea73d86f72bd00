// Package pricefeed fetches current market prices from an external
// chart-style quote API. The engine treats the feed as optional: a missing
// or stale price is a documented valuation fallback, never an error that
// blocks a holdings query.
package pricefeed

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// Client is the quote-fetching interface services depend on; tests swap in
// a mock.
type Client interface {
	LatestQuote(symbol string) (Quote, error)
}

// FeedClient fetches quotes over HTTP from a configurable base URL.
type FeedClient struct {
	httpClient *http.Client
	baseURL    string
	authToken  string
}

// NewFeedClient creates a quote client. authToken may be empty for feeds
// that do not require one; when set it is sent as a bearer token.
func NewFeedClient(baseURL, authToken string) *FeedClient {
	return &FeedClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		authToken:  authToken,
	}
}

// LatestQuote fetches the most recent daily close for a symbol. The feed is
// queried over a 5-day range so the latest trading day is always included,
// even across weekends and holidays.
func (c *FeedClient) LatestQuote(symbol string) (Quote, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)
	response, err := c.query(url)
	if err != nil {
		return Quote{}, err
	}
	chart, err := parseChart(response)
	if err != nil {
		return Quote{}, fmt.Errorf("parsing quote for %s: %w", symbol, err)
	}
	return chart[len(chart)-1], nil
}

// parseChart converts a raw feed response into quotes, validating that
// timestamps and close prices are present and aligned.
func parseChart(response Response) ([]Quote, error) {
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned")
	}
	result := response.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return nil, fmt.Errorf("no close prices returned")
	}
	if len(result.Indicators.Quote[0].Close) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths")
	}

	quotes := make([]Quote, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		quotes[i] = Quote{
			Symbol:   result.Meta.Symbol,
			Currency: result.Meta.Currency,
			Date:     time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close:    decimal.NewFromFloat(result.Indicators.Quote[0].Close[i]),
		}
	}
	return quotes, nil
}

// query executes the HTTP request and decodes the chart response.
func (c *FeedClient) query(url string) (Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("feed error: %s", *response.Chart.Error)
	}

	return response, nil
}
