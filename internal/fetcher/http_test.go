package fetcher

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

func newTestFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		UserAgent:  "test-agent",
		Timeout:    5 * time.Second,
		MaxRetries: 3,
	})
}

func TestDoSetsDefaultUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("hello world"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/data", nil)
	require.NoError(t, err)

	resp, err := f.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	resp, err := f.Do(context.Background(), req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDoRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	f := newTestFetcher()
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = f.Do(context.Background(), req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retries exhausted")
}

func TestDoKeepsCustomUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "custom-agent", r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f := newTestFetcher()
	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "custom-agent")

	resp, err := f.Do(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()
}

func TestAdaptiveLimiterOnRateLimit(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 10)
	assert.Equal(t, rate.Limit(10), lim.Limit())

	lim.OnRateLimit()
	assert.Equal(t, rate.Limit(5), lim.Limit())

	// Floor at initial/4.
	for range 10 {
		lim.OnRateLimit()
	}
	assert.Equal(t, rate.Limit(2.5), lim.Limit())
}

func TestAdaptiveLimiterOnSuccess(t *testing.T) {
	lim := NewAdaptiveLimiter(10, 10)

	// Ceiling at 2x initial.
	for range 10 {
		lim.OnSuccess()
	}
	assert.Equal(t, rate.Limit(20), lim.Limit())
}

func TestDefaultLimitersCoverKnownHosts(t *testing.T) {
	limiters := DefaultLimiters()
	assert.Contains(t, limiters, "api.edinet-fsa.go.jp")
	assert.Contains(t, limiters, "query1.finance.yahoo.com")
}
