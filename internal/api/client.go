// Package api is the client for the restaurant recommendation API.
//
// Every call is a single attempt. Callers decide what a failure means; the
// results board turns any error into an empty lane.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"munch/internal/logging"

	"github.com/google/uuid"
)

// KeyHeader carries the caller's LLM key to the API.
const KeyHeader = "X-OPENAI-API-KEY"

// Endpoint paths.
const (
	PathPartnerApproved = "/restaurants/partner-approved"
	PathNearYou         = "/restaurants/near-you"
	PathRecommended     = "/restaurants/recommended"
)

// KeySource yields the current API key. It is consulted on every request.
type KeySource interface {
	APIKey(ctx context.Context) string
}

// KeyFunc adapts a function to KeySource.
type KeyFunc func(ctx context.Context) string

// APIKey implements KeySource.
func (f KeyFunc) APIKey(ctx context.Context) string { return f(ctx) }

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d", e.Path, e.Code)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == code
}

// Client talks to the restaurant API.
type Client struct {
	baseURL string
	http    *http.Client
	keys    KeySource
	timeout time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithKeySource sets where the API key comes from.
func WithKeySource(ks KeySource) Option {
	return func(c *Client) { c.keys = ks }
}

// WithTimeout sets a per-request deadline; zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// NewClient returns a client for baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PartnerApproved fetches the curated list.
func (c *Client) PartnerApproved(ctx context.Context) ([]Restaurant, error) {
	return c.get(ctx, PathPartnerApproved, nil)
}

// NearYou fetches restaurants for a city. An empty city omits the parameter.
func (c *Client) NearYou(ctx context.Context, city string) ([]Restaurant, error) {
	var q url.Values
	if city != "" {
		q = url.Values{"city": {city}}
	}
	return c.get(ctx, PathNearYou, q)
}

// Recommended fetches query-driven recommendations.
func (c *Client) Recommended(ctx context.Context, p RecommendParams) ([]Restaurant, error) {
	return c.get(ctx, PathRecommended, RecommendQuery(p))
}

// RecommendQuery builds the recommended endpoint's parameters. query is always
// present; the rest only when non-empty.
func RecommendQuery(p RecommendParams) url.Values {
	q := url.Values{}
	q.Set("query", p.Query)
	if p.City != "" {
		q.Set("city", p.City)
	}
	if len(p.Cuisines) > 0 {
		q.Set("cuisines", strings.Join(p.Cuisines, ","))
	}
	if len(p.Prices) > 0 {
		q.Set("prices", strings.Join(p.Prices, ","))
	}
	return q
}

func (c *Client) get(ctx context.Context, path string, q url.Values) ([]Restaurant, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.keys != nil {
		if key := c.keys.APIKey(ctx); key != "" {
			req.Header.Set(KeyHeader, key)
		}
	}

	reqID := uuid.NewString()
	log := logging.Get(logging.CategoryAPI).With("req", reqID, "path", path)
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn("request failed after %s: %v", time.Since(start), err)
		return nil, fmt.Errorf("get %s: %w", path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("status %d after %s", resp.StatusCode, time.Since(start))
		return nil, &StatusError{Path: path, Code: resp.StatusCode}
	}

	var out []Restaurant
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warn("decode failed: %v", err)
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	log.Debug("%d restaurants in %s", len(out), time.Since(start))
	return out, nil
}
