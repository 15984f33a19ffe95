// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pubmed is a rate-limited client for the NCBI E-utilities API.
// It covers the two endpoints the pipeline needs: ESearch for discovering
// PMIDs and EFetch for retrieving and normalizing article records.
package pubmed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/pubharvest/internal/httputil"
	"github.com/pdiddy/pubharvest/pkg/types"
)

// eutilsBase is the E-utilities endpoint root. Declared as a var so tests
// can substitute an httptest server.
var eutilsBase = "https://eutils.ncbi.nlm.nih.gov/entrez/eutils"

const (
	// NCBI allows 3 requests per second without an API key, 10 with one.
	anonRateLimit  = 3.0
	keyedRateLimit = 10.0

	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "pubharvest/0.1"
)

// Client is a rate-limited HTTP client for NCBI E-utilities.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	cfg        types.EntrezConfig
}

// NewClient creates an E-utilities client. The rate limiter is sized from
// the key tier: 3 req/s anonymous, 10 req/s with an API key.
func NewClient(cfg types.EntrezConfig) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = defaultUserAgent
	}

	limit := anonRateLimit
	if cfg.APIKey != "" {
		limit = keyedRateLimit
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(limit), 1),
		cfg:        cfg,
	}
}

// RequestsPerSecond reports the limiter tier the client was built with.
func (c *Client) RequestsPerSecond() float64 {
	return float64(c.limiter.Limit())
}

// get performs one rate-limited GET against an E-utilities endpoint and
// returns the response body. Email and API key parameters are attached to
// every request. HTTP 429 responses are retried by httputil.DoWithRetry
// before this method sees them.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	params.Set("db", "pubmed")
	if c.cfg.Email != "" {
		params.Set("email", c.cfg.Email)
	}
	if c.cfg.APIKey != "" {
		params.Set("api_key", c.cfg.APIKey)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	reqURL := eutilsBase + "/" + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)

	resp, err := httputil.DoWithRetry(ctx, c.httpClient, req, 0)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned HTTP %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}
	return body, nil
}
