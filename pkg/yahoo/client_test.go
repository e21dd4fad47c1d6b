package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/7203.T", r.URL.Path)
		assert.Equal(t, "5y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))

		w.Write([]byte(`{
			"chart": {
				"result": [{
					"timestamp": [1688000400, 1688086800, 1688173200],
					"indicators": {
						"quote": [{
							"open":   [2500.0, 2510.0, null],
							"high":   [2550.0, 2560.0, null],
							"low":    [2480.0, 2500.0, null],
							"close":  [2540.0, 2555.0, null],
							"volume": [1000000, 1100000, null]
						}]
					}
				}],
				"error": null
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	candles, err := c.History(context.Background(), "7203.T", 5)
	require.NoError(t, err)

	// The null row is a gap and is dropped.
	require.Len(t, candles, 2)
	assert.Equal(t, 2540.0, candles[0].Close)
	assert.Equal(t, 2555.0, candles[1].Close)
	assert.Equal(t, 1100000.0, candles[1].Volume)
	assert.True(t, candles[0].Date.Before(candles[1].Date))
}

func TestHistoryUnknownTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	candles, err := c.History(context.Background(), "NOPE.X", 5)
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestHistoryAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Bad Request","description":"invalid range"}}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	candles, err := c.History(context.Background(), "7203.T", 5)
	require.NoError(t, err)
	assert.Empty(t, candles)
}

func TestHistoryBadYears(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.History(context.Background(), "7203.T", 0)
	require.NoError(t, err)
}
