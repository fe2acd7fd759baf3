package wallet

import "fmt"

// BridgeError is a structured error returned by the wallet bridge.
type BridgeError struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}

func (e *BridgeError) Error() string {
	return fmt.Sprintf("wallet: %s: %s", e.ErrorType, e.Message)
}

// Error types reported by the bridge.
const (
	ErrTypeUserRejected     = "userRejected"
	ErrTypeNoAccount        = "noAccount"
	ErrTypeExecutionFailure = "executionFailure"
)

// IsUserRejected returns true if the user declined to sign. Rejections are
// propagated as-is and never retried.
func (e *BridgeError) IsUserRejected() bool {
	return e.ErrorType == ErrTypeUserRejected
}

// IsNoAccount returns true if no wallet account is connected to the bridge.
func (e *BridgeError) IsNoAccount() bool {
	return e.ErrorType == ErrTypeNoAccount
}

// IsExecutionFailure returns true if the chain rejected the transaction after
// signing (for example the stake split exceeded the available balance).
func (e *BridgeError) IsExecutionFailure() bool {
	return e.ErrorType == ErrTypeExecutionFailure
}

// AuthError indicates the bridge token was missing, expired, or invalid.
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("wallet: authentication failed (HTTP %d): %s", e.StatusCode, e.Message)
}

// HTTPError is a non-200 HTTP response from the bridge.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("wallet: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for rate limits (429) and server errors (5xx).
// Signing requests are never retried automatically; this only informs
// callers probing bridge availability.
func (e *HTTPError) IsRetryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
