// Package wallet talks to the local wallet bridge, the external collaborator
// that owns key material and user approval. The bridge serializes transaction
// intents to BCS, asks the user to approve, signs, executes, and returns the
// execution bundle. This process never sees a private key.
//
// Requests authenticate with a bearer token; see TokenStore for where the
// token lives.
package wallet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/baucualabs/baucua-go/internal/sui"
)

// Config holds configuration for the bridge client.
type Config struct {
	// URL is the bridge endpoint (e.g. "http://127.0.0.1:9327").
	// Defaults to "http://127.0.0.1:9327" if empty.
	URL string

	// Token is the bearer token for bridge requests. May be empty for
	// bridges with auth disabled.
	Token string

	// HTTPClient allows injecting a custom HTTP client (useful for testing).
	// Defaults to a client with no timeout: sign-and-execute blocks on user
	// approval, which can take minutes.
	HTTPClient *http.Client
}

// Bridge is a wallet bridge client. It implements the signer and transaction
// builder roles of the contract layer.
type Bridge struct {
	config Config
	http   *http.Client
	mu     sync.RWMutex
}

// NewBridge creates a bridge client with the given configuration.
func NewBridge(cfg Config) *Bridge {
	if cfg.URL == "" {
		cfg.URL = "http://127.0.0.1:9327"
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &Bridge{
		config: cfg,
		http:   httpClient,
	}
}

// SetToken updates the bearer token (thread-safe).
func (b *Bridge) SetToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.config.Token = token
}

// Token returns the current bearer token (thread-safe).
func (b *Bridge) Token() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.Token
}

// Account is the wallet account currently connected to the bridge.
type Account struct {
	Address string `json:"address"`
	Label   string `json:"label,omitempty"`
}

type bridgeEnvelope struct {
	Error *BridgeError    `json:"error,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// do sends one request to the bridge and decodes the response envelope.
func (b *Bridge) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("wallet: marshal request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	url := strings.TrimRight(b.config.URL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("wallet: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token := b.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return fmt.Errorf("wallet: http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("wallet: read response: %w", err)
	}

	if resp.StatusCode == 401 {
		return &AuthError{StatusCode: 401, Message: "bridge token missing or invalid"}
	}

	var envelope bridgeEnvelope
	if jsonErr := json.Unmarshal(respBody, &envelope); jsonErr == nil && envelope.Error != nil {
		return envelope.Error
	}
	if resp.StatusCode != 200 {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if out == nil {
		return nil
	}

	data := envelope.Data
	if len(data) == 0 {
		data = respBody
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("wallet: decode response: %w", err)
	}
	return nil
}

// ActiveAccount returns the account the bridge will sign with.
func (b *Bridge) ActiveAccount(ctx context.Context) (*Account, error) {
	var account Account
	if err := b.do(ctx, "GET", "/v1/account", nil, &account); err != nil {
		return nil, err
	}
	if account.Address == "" {
		return nil, &BridgeError{ErrorType: ErrTypeNoAccount, Message: "no wallet account connected"}
	}
	return &account, nil
}

type buildResponse struct {
	TxBytes string `json:"txBytes"`
}

// BuildTransaction serializes an intent to base64 transaction bytes without
// signing. The bytes feed the chain's dry-run endpoint for fee estimation.
func (b *Bridge) BuildTransaction(ctx context.Context, intent *sui.TransactionIntent) (string, error) {
	var resp buildResponse
	if err := b.do(ctx, "POST", "/v1/transactions/build", intent, &resp); err != nil {
		return "", err
	}
	if resp.TxBytes == "" {
		return "", fmt.Errorf("wallet: bridge returned empty transaction bytes")
	}
	return resp.TxBytes, nil
}

// SignAndExecute asks the bridge to obtain user approval, sign the intent,
// and execute it on-chain. Blocks until approval or rejection; pass a context
// with a deadline if the caller cannot wait indefinitely.
func (b *Bridge) SignAndExecute(ctx context.Context, intent *sui.TransactionIntent) (*sui.TransactionResult, error) {
	var result sui.TransactionResult
	if err := b.do(ctx, "POST", "/v1/transactions/execute", intent, &result); err != nil {
		return nil, err
	}
	if result.Digest == "" {
		return nil, fmt.Errorf("wallet: bridge returned no transaction digest")
	}
	return &result, nil
}

// WaitForBridge polls the bridge account endpoint until it responds or the
// deadline passes. Used at startup so the service fails fast with a clear
// message when the bridge is not running.
func (b *Bridge) WaitForBridge(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		_, err := b.ActiveAccount(ctx)
		if err == nil {
			return nil
		}
		if bridgeErr, ok := err.(*BridgeError); ok && bridgeErr.IsNoAccount() {
			// Bridge is up, just no wallet connected yet. Good enough.
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("wallet: bridge unreachable after %s: %w", timeout, err)
		}
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
