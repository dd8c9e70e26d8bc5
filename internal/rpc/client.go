package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"passkey-wallet-gateway/internal/models"
)

// Client is a rate-limited JSON-RPC client with bounded retries and
// structured logging, pointed at a single Solana node.
type Client struct {
	Endpoint    string
	ApiKey      string
	Commitment  string
	RateLimiter *rate.Limiter
	MaxRetries  int
	RetryDelay  time.Duration
	Logger      *zerolog.Logger
	HTTPClient  *http.Client
}

// NewClient creates a new RPC client with the given configuration
func NewClient(endpoint, apiKey, commitment string, rateLimit float64, maxRetries int, retryDelay, httpTimeout time.Duration, logger *zerolog.Logger) *Client {
	return &Client{
		Endpoint:    endpoint,
		ApiKey:      apiKey,
		Commitment:  commitment,
		RateLimiter: rate.NewLimiter(rate.Limit(rateLimit), 1),
		MaxRetries:  maxRetries,
		RetryDelay:  retryDelay,
		Logger:      logger,
		HTTPClient: &http.Client{
			Timeout: httpTimeout,
			Transport: &AuthTransport{
				Base:   http.DefaultTransport,
				ApiKey: apiKey,
			},
		},
	}
}

// AuthTransport adds API key authentication to HTTP requests
type AuthTransport struct {
	Base   http.RoundTripper
	ApiKey string
}

func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	if t.ApiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.ApiKey)
	}
	return t.Base.RoundTrip(req)
}

// Call performs an RPC call with rate limiting, retries, and error handling.
// A node-reported error is returned as a *models.RPCError so callers can
// match on the code.
func (c *Client) Call(ctx context.Context, method string, params []interface{}) (*models.RPCResponse, error) {
	c.Logger.Debug().
		Str("endpoint", c.Endpoint).
		Str("method", method).
		Interface("params", params).
		Msg("Making RPC call")

	// Wait for rate limit
	if err := c.RateLimiter.Wait(ctx); err != nil {
		c.Logger.Error().Err(err).Msg("Rate limit error")
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	request := models.RPCRequest{
		Jsonrpc: "2.0",
		ID:      "1",
		Method:  method,
		Params:  params,
	}

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var response models.RPCResponse
	err = c.retry(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return err
		}
		defer func(Body io.ReadCloser) {
			_ = Body.Close()
		}(resp.Body)

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP error: %d - %s", resp.StatusCode, resp.Status)
		}

		if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}

		if response.Error != nil {
			return response.Error
		}
		return nil
	})

	if err != nil {
		c.Logger.Error().
			Err(err).
			Str("method", method).
			Interface("params", params).
			Msg("RPC call failed")
		return nil, err
	}

	return &response, nil
}

// retry executes a function with retry logic. Node-reported RPC errors are
// terminal: retrying a rejected transaction does not change the verdict.
func (c *Client) retry(fn func() error) error {
	var err error
	for i := 0; i < c.MaxRetries; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if _, ok := err.(*models.RPCError); ok {
			return err
		}
		time.Sleep(c.RetryDelay)
	}
	return err
}

// Close closes the HTTP client connections
func (c *Client) Close() {
	if c.HTTPClient != nil {
		c.HTTPClient.CloseIdleConnections()
	}
}
