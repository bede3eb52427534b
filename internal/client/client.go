// Package client is the retrieval facade for dashboard data. With a
// base URL configured it issues HTTP requests against the spending API;
// without one it answers from a local dataset, computing each view with
// the query core and simulating network latency so consumers exercise
// the same asynchronous paths in both modes.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"spendash/internal/core"
)

const (
	// DefaultLatency mimics a round trip in local mode.
	DefaultLatency = 250 * time.Millisecond

	defaultTimeout = 10 * time.Second
)

// DatasetLoader supplies the dataset backing local mode.
type DatasetLoader interface {
	Load(ctx context.Context) (*core.Dataset, error)
}

// Client fetches dashboard data from the remote API or a local dataset.
type Client struct {
	logger     *slog.Logger
	baseURL    string
	customerID string
	httpClient *http.Client
	data       DatasetLoader
	latency    time.Duration
	now        func() time.Time
}

// NewRemote builds a client that talks to the spending API at baseURL.
func NewRemote(logger *slog.Logger, baseURL, customerID string) *Client {
	return &Client{
		logger:     logger,
		baseURL:    baseURL,
		customerID: customerID,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
}

// NewLocal builds a client that answers from loader with a simulated
// per-request latency. A non-positive latency disables the delay.
func NewLocal(logger *slog.Logger, loader DatasetLoader, latency time.Duration) *Client {
	return &Client{
		logger:  logger,
		data:    loader,
		latency: latency,
		now:     time.Now,
	}
}

// Local reports whether the client answers from a local dataset.
func (c *Client) Local() bool { return c.baseURL == "" }

// WithClock overrides the reference clock. Local mode resolves relative
// periods against it.
func (c *Client) WithClock(now func() time.Time) *Client {
	c.now = now
	return c
}

func (c *Client) simulateLatency(ctx context.Context) error {
	if c.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (c *Client) dataset(ctx context.Context) (*core.Dataset, error) {
	if err := c.simulateLatency(ctx); err != nil {
		return nil, err
	}
	return c.data.Load(ctx)
}

type validator interface {
	Validate() error
}

// getJSON performs a GET against the remote API and decodes the body.
// Non-2xx statuses become a StatusError; parse and shape failures
// become a DecodeError.
func getJSON[T validator](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return zero, fmt.Errorf("build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")

	start := c.now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return zero, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	c.logger.DebugContext(ctx, "api request",
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return zero, &StatusError{Code: resp.StatusCode, Status: resp.Status, URL: u}
	}

	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		return zero, &DecodeError{URL: u, Err: err}
	}
	if err := v.Validate(); err != nil {
		return zero, &DecodeError{URL: u, Err: err}
	}
	return v, nil
}
