// Package fetcher downloads remote data with per-host rate limiting and
// retry. Both upstream APIs (EDINET, Yahoo Finance) publish no rate limits,
// so the limiters adapt: throttling halves the rate, success restores it.
package fetcher

import (
	"context"
	"net/http"
)

// Doer executes an HTTP request with rate limiting and retries applied.
type Doer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}
