// Package edinet provides a client for the EDINET v2 disclosure API.
package edinet

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/yamato-research/kessan-cli/internal/fetcher"
)

// DefaultBaseURL is the production EDINET v2 endpoint.
const DefaultBaseURL = "https://api.edinet-fsa.go.jp/api/v2"

// Client defines the EDINET operations the pipeline consumes.
type Client interface {
	// ListDocuments returns the metadata of every disclosure submitted on
	// the given calendar date.
	ListDocuments(ctx context.Context, date time.Time) ([]Document, error)
	// FetchArchive downloads the ZIP archive of the given document.
	FetchArchive(ctx context.Context, docID string) ([]byte, error)
}

// Document is one entry of the daily document index.
type Document struct {
	DocID          string `json:"docID"`
	EdinetCode     string `json:"edinetCode"`
	SecCode        string `json:"secCode"`
	FilerName      string `json:"filerName"`
	OrdinanceCode  string `json:"ordinanceCode"`
	FormCode       string `json:"formCode"`
	DocTypeCode    string `json:"docTypeCode"`
	PeriodStart    string `json:"periodStart"`
	PeriodEnd      string `json:"periodEnd"`
	SubmitDateTime string `json:"submitDateTime"`
	DocDescription string `json:"docDescription"`
	Title          string `json:"title"`
}

// indexResponse is the documents.json envelope.
type indexResponse struct {
	Metadata struct {
		Status  string `json:"status"`
		Message string `json:"message"`
	} `json:"metadata"`
	Results []Document `json:"results"`
}

// Option configures the EDINET client.
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
	apiKey  string
	baseURL string
	doer    fetcher.Doer
}

// NewClient creates an EDINET client authenticated with the given API key.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		doer:    fetcher.NewHTTPFetcher(fetcher.HTTPOptions{Timeout: 60 * time.Second}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) get(ctx context.Context, path string, params url.Values) (*http.Response, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, eris.Wrap(err, "edinet: create request")
	}
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.doer.Do(ctx, req)
	if err != nil {
		return nil, eris.Wrap(err, "edinet: request")
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		if resp.StatusCode == http.StatusUnauthorized {
			return nil, eris.Errorf("edinet: unexpected status 401 from %s (check the EDINET API key)", path)
		}
		return nil, eris.Errorf("edinet: unexpected status %d from %s", resp.StatusCode, path)
	}
	return resp, nil
}

func (c *httpClient) ListDocuments(ctx context.Context, date time.Time) ([]Document, error) {
	params := url.Values{}
	params.Set("date", date.Format("2006-01-02"))
	params.Set("type", "2") // metadata plus results
	params.Set("Subscription-Key", c.apiKey)

	resp, err := c.get(ctx, "/documents.json", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	var idx indexResponse
	if err := json.NewDecoder(resp.Body).Decode(&idx); err != nil {
		return nil, eris.Wrap(err, "edinet: decode index")
	}
	return idx.Results, nil
}

func (c *httpClient) FetchArchive(ctx context.Context, docID string) ([]byte, error) {
	params := url.Values{}
	params.Set("type", "1") // full submission archive
	params.Set("Subscription-Key", c.apiKey)

	resp, err := c.get(ctx, "/documents/"+docID, params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "edinet: read archive")
	}
	return data, nil
}
