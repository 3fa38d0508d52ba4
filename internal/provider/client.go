// Package provider implements the weatherapi.com client. It maps the
// provider's current-conditions and history payloads into canonical
// weather.Records and classifies failures into the transport/schema
// error taxonomy. The client never retries; retry policy belongs to the
// caller.
package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/syedjakeer1992/weather-cli-app/internal/weather"
)

const (
	defaultBaseURL = "https://api.weatherapi.com/v1"
	currentPath    = "/current.json"
	historyPath    = "/history.json"

	requestTimeout = 10 * time.Second
)

// Client talks to the weatherapi.com REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a provider client with a bounded request timeout and
// a circuit breaker shared across both endpoints.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		baseURL:    defaultBaseURL,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "weatherapi",
			MaxRequests: 3,
			Interval:    1 * time.Minute,
			Timeout:     2 * time.Minute,
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current fetches current conditions for location. The record's ObservedAt
// is the provider's own last-updated timestamp, not local wall-clock time.
func (c *Client) Current(ctx context.Context, location, apiKey string) (*weather.Record, error) {
	body, err := c.get(ctx, currentPath, url.Values{"q": {location}, "key": {apiKey}})
	if err != nil {
		return nil, err
	}

	var payload currentResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &weather.MalformedResponseError{Field: "body"}
	}
	return payload.record()
}

// History fetches the daily aggregate for a single calendar date
// (YYYY-MM-DD). The record's ObservedAt equals that date.
func (c *Client) History(ctx context.Context, location, apiKey, date string) (*weather.Record, error) {
	body, err := c.get(ctx, historyPath, url.Values{"q": {location}, "key": {apiKey}, "dt": {date}})
	if err != nil {
		return nil, err
	}

	var payload historyResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &weather.MalformedResponseError{Field: "body"}
	}
	return payload.record()
}

// get performs one GET through the circuit breaker and returns the
// response body. Transport errors, non-2xx statuses, and an open breaker
// all surface as *weather.UnavailableError.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	u := fmt.Sprintf("%s%s?%s", c.baseURL, path, query.Encode())

	result, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close() //nolint:errcheck

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			// Drain so the connection can be reused.
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))
			return nil, &weather.UnavailableError{StatusCode: resp.StatusCode}
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
		if err != nil {
			return nil, err
		}
		return body, nil
	})
	if err != nil {
		var unavail *weather.UnavailableError
		if errors.As(err, &unavail) {
			return nil, unavail
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, &weather.UnavailableError{Err: err}
		}
		return nil, &weather.UnavailableError{Err: err}
	}
	return result.([]byte), nil
}
