// Package sui provides a read-only JSON-RPC client for the Sui fullnode
// endpoints this application needs: coin balances, object contents,
// transaction history, and dry-run fee simulation.
//
// All mutation goes through the wallet bridge (see internal/wallet); this
// client never signs or submits anything.
//
// # Usage
//
//	client := sui.NewClient(sui.Config{
//	    URL: "https://fullnode.testnet.sui.io:443",
//	})
//
//	coins, err := client.GetCoins(ctx, address, sui.SuiCoinType)
package sui

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"sync/atomic"
	"time"
)

// Config holds configuration for the RPC client.
type Config struct {
	// URL is the fullnode JSON-RPC endpoint. Required.
	URL string

	// MaxRetries is the maximum number of retry attempts for retryable
	// failures. Defaults to 3 if zero.
	MaxRetries int

	// BaseRetryDelay is the initial delay before the first retry.
	// Defaults to 500ms if zero.
	BaseRetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff delay.
	// Defaults to 5 seconds if zero.
	MaxRetryDelay time.Duration

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client with 30s timeout.
	HTTPClient *http.Client
}

// Client is a Sui fullnode JSON-RPC client.
type Client struct {
	config Config
	http   *http.Client
	nextID atomic.Int64
}

// NewClient creates a new RPC client with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.BaseRetryDelay == 0 {
		cfg.BaseRetryDelay = 500 * time.Millisecond
	}
	if cfg.MaxRetryDelay == 0 {
		cfg.MaxRetryDelay = 5 * time.Second
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		config: cfg,
		http:   httpClient,
	}
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int64  `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

// call sends a single JSON-RPC request and decodes the result into out.
func (c *Client) call(ctx context.Context, method string, params []any, out any) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("sui: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.config.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("sui: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sui: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("sui: read response: %w", err)
	}
	if resp.StatusCode != 200 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var envelope rpcResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("sui: invalid response JSON: %w", err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(envelope.Result, out); err != nil {
		return fmt.Errorf("sui: decode %s result: %w", method, err)
	}
	return nil
}

// callWithRetry retries transient HTTP failures with exponential backoff.
// RPC-level errors are never retried; the node already accepted the request.
func (c *Client) callWithRetry(ctx context.Context, method string, params []any, out any) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(c.retryDelay(attempt)):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.call(ctx, method, params, out)
		if err == nil {
			return nil
		}
		lastErr = err

		if httpErr, ok := err.(*HTTPError); ok && httpErr.IsRetryable() {
			continue
		}
		return err
	}

	return fmt.Errorf("sui: max retries exceeded: %w", lastErr)
}

// retryDelay calculates the backoff delay for a given attempt number.
func (c *Client) retryDelay(attempt int) time.Duration {
	delay := c.config.BaseRetryDelay * time.Duration(math.Pow(2, float64(attempt-1)))
	if delay > c.config.MaxRetryDelay {
		delay = c.config.MaxRetryDelay
	}
	return delay
}

// GetCoins returns all coin objects of the given type owned by the address,
// following pagination to exhaustion.
func (c *Client) GetCoins(ctx context.Context, owner, coinType string) ([]Coin, error) {
	var out []Coin
	var cursor any

	for {
		var page coinPage
		params := []any{owner, coinType, cursor, nil}
		if err := c.callWithRetry(ctx, "suix_getCoins", params, &page); err != nil {
			return nil, err
		}
		out = append(out, page.Data...)
		if !page.HasNextPage || page.NextCursor == "" {
			return out, nil
		}
		cursor = page.NextCursor
	}
}

// GetObject fetches an object with its Move struct content.
func (c *Client) GetObject(ctx context.Context, id string) (*ObjectData, error) {
	var envelope objectEnvelope
	params := []any{id, map[string]any{"showContent": true}}
	if err := c.callWithRetry(ctx, "sui_getObject", params, &envelope); err != nil {
		return nil, err
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("sui: object %s not found", id)
	}
	return envelope.Data, nil
}

// QueryTransactionBlocks returns up to limit transactions that called the
// filtered entry point, newest first, with events, effects, input, and
// balance changes populated.
func (c *Client) QueryTransactionBlocks(ctx context.Context, filter MoveFunctionFilter, limit int) ([]TransactionBlock, error) {
	query := map[string]any{
		"filter": map[string]any{"MoveFunction": filter},
		"options": map[string]any{
			"showEvents":         true,
			"showEffects":        true,
			"showInput":          true,
			"showBalanceChanges": true,
		},
	}

	var page transactionPage
	params := []any{query, nil, limit, true} // descending order
	if err := c.callWithRetry(ctx, "suix_queryTransactionBlocks", params, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// DryRunTransactionBlock simulates serialized transaction bytes without
// committing anything, returning the predicted effects.
func (c *Client) DryRunTransactionBlock(ctx context.Context, txBytes string) (*DryRunResult, error) {
	var result DryRunResult
	if err := c.callWithRetry(ctx, "sui_dryRunTransactionBlock", []any{txBytes}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
