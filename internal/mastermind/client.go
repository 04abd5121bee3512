// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mastermind is a client for the Mastermind genomic-evidence API.
// It owns the transport, authentication, and error taxonomy; retrieval and
// aggregation live in internal/retrieve and internal/aggregate.
// Implements: prd001-retrieval (service interface).
package mastermind

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pdiddy/evidence-engine/pkg/types"
)

// DefaultBaseURL is the production API root. Declared as a var so tests can
// substitute an httptest server.
var DefaultBaseURL = "https://mastermind.genomenon.com/api/v2"

// maxErrorBody caps how much of an error response body is kept for
// diagnostics.
const maxErrorBody = 2048

// Client calls the Mastermind API. All methods are synchronous; the engine
// is designed for single-threaded, sequential batch use.
type Client struct {
	HTTP      *http.Client
	BaseURL   string
	Token     string
	UserAgent string
}

// NewClient builds a client from service configuration, applying defaults
// for the base URL and timeout.
func NewClient(cfg types.ServiceConfig) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		HTTP:      &http.Client{Timeout: timeout},
		BaseURL:   base,
		Token:     cfg.Token,
		UserAgent: cfg.UserAgent,
	}
}

// get performs an authenticated GET and decodes the JSON response into out.
// Transient failures (HTTP 408 and 500) are retried once; the second
// failure is returned to the caller.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		err := c.do(ctx, http.MethodGet, endpoint, params, out)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
	}
	return lastErr
}

// post performs an authenticated POST with parameters in the query string,
// as the service expects, and decodes the JSON response into out. POSTs are
// not retried: job creation is not idempotent.
func (c *Client) post(ctx context.Context, endpoint string, params url.Values, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, params, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	values := url.Values{}
	for k, vs := range params {
		values[k] = vs
	}
	values.Set("api_token", c.Token)

	reqURL := joinURL(c.BaseURL, endpoint) + "?" + values.Encode()
	req, err := http.NewRequestWithContext(ctx, method, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &ServiceError{
			Endpoint: endpoint,
			Params:   scrubToken(values),
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("parsing %s response: %w", endpoint, err)
	}
	return nil
}

// joinURL appends endpoint path segments to the base URL with single
// slashes regardless of how either side is written.
func joinURL(base, endpoint string) string {
	return strings.TrimRight(base, "/") + "/" + strings.Trim(endpoint, "/")
}

// scrubToken removes the API token from parameters kept for diagnostics.
func scrubToken(values url.Values) url.Values {
	scrubbed := url.Values{}
	for k, vs := range values {
		if k == "api_token" {
			continue
		}
		scrubbed[k] = vs
	}
	return scrubbed
}
