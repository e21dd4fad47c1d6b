// Package yahoo provides a client for the Yahoo Finance v8 chart API,
// used as the market price-history provider.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/yamato-research/kessan-cli/internal/fetcher"
)

// DefaultBaseURL is the production chart API endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// Candle is one daily OHLCV row.
type Candle struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Client fetches price history for a ticker.
type Client interface {
	// History returns daily candles covering the given number of years,
	// oldest first. An unknown ticker yields an empty slice, not an error.
	History(ctx context.Context, ticker string, years int) ([]Candle, error)
}

// Option configures the Yahoo client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(u string) Option {
	return func(c *httpClient) {
		c.baseURL = u
	}
}

// WithDoer sets a custom request executor.
func WithDoer(d fetcher.Doer) Option {
	return func(c *httpClient) {
		c.doer = d
	}
}

type httpClient struct {
	baseURL string
	doer    fetcher.Doer
}

// NewClient creates a Yahoo Finance chart client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: DefaultBaseURL,
		doer:    fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 30 * time.Second}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// chartResponse mirrors the subset of the v8 chart payload we read.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (c *httpClient) History(ctx context.Context, ticker string, years int) ([]Candle, error) {
	if years < 1 {
		years = 1
	}
	params := url.Values{}
	params.Set("range", fmt.Sprintf("%dy", years))
	params.Set("interval", "1d")
	params.Set("events", "div,splits")

	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.baseURL, url.PathEscape(ticker), params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "yahoo: create request")
	}

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "yahoo: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	// The chart API answers 404 for unknown symbols; the caller treats an
	// empty history as "unavailable", not as a failure.
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("yahoo: unexpected status %d for %s", resp.StatusCode, ticker)
	}

	var chart chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return nil, eris.Wrap(err, "yahoo: decode chart")
	}
	if chart.Chart.Error != nil || len(chart.Chart.Result) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil
	}
	quote := result.Indicators.Quote[0]

	candles := make([]Candle, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		// Rows with a missing close are gaps (halts, partial sessions).
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		at := func(vals []*float64) float64 {
			if i < len(vals) && vals[i] != nil {
				return *vals[i]
			}
			return 0
		}
		candles = append(candles, Candle{
			Date:   time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Open:   at(quote.Open),
			High:   at(quote.High),
			Low:    at(quote.Low),
			Close:  *quote.Close[i],
			Volume: at(quote.Volume),
		})
	}
	return candles, nil
}
