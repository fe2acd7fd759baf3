package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/baucualabs/baucua-go/internal/baucua"
	"github.com/baucualabs/baucua-go/internal/contract"
	"github.com/baucualabs/baucua-go/internal/history"
	"github.com/baucualabs/baucua-go/internal/wallet"
)

// Error type identifiers returned in the JSON error envelope.
const (
	ErrTypeValidation          = "validation_error"
	ErrTypeInsufficientBalance = "insufficient_balance"
	ErrTypePlayInFlight        = "play_in_flight"
	ErrTypeAwaitInFlight       = "await_in_flight"
	ErrTypeWalletRejected      = "wallet_rejected"
	ErrTypeNoAccount           = "no_account"
	ErrTypeWalletAuth          = "wallet_auth_error"
	ErrTypeUpstream            = "upstream_error"
	ErrTypeInternal            = "internal_error"
)

// APIError is the JSON error envelope for every non-2xx response.
type APIError struct {
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp"`
}

func newAPIError(errType, message, requestID string) APIError {
	return APIError{
		Type:      errType,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// classifyError maps domain errors to an HTTP status and error type. Unknown
// errors are treated as upstream failures: by this point input validation has
// already passed, so what remains is the chain, the bridge, or the store.
func classifyError(err error) (int, string) {
	var insufficient *contract.InsufficientBalanceError
	var bridgeErr *wallet.BridgeError
	var authErr *wallet.AuthError

	switch {
	case errors.Is(err, baucua.ErrNoBets),
		errors.Is(err, baucua.ErrUnknownSymbol),
		errors.Is(err, baucua.ErrInvalidAmount):
		return http.StatusBadRequest, ErrTypeValidation
	case errors.Is(err, contract.ErrPlayInFlight):
		return http.StatusConflict, ErrTypePlayInFlight
	case errors.Is(err, history.ErrAwaitInFlight):
		return http.StatusConflict, ErrTypeAwaitInFlight
	case errors.As(err, &insufficient):
		return http.StatusUnprocessableEntity, ErrTypeInsufficientBalance
	case errors.As(err, &authErr):
		return http.StatusBadGateway, ErrTypeWalletAuth
	case errors.As(err, &bridgeErr):
		if bridgeErr.IsUserRejected() {
			return http.StatusConflict, ErrTypeWalletRejected
		}
		if bridgeErr.IsNoAccount() {
			return http.StatusPreconditionFailed, ErrTypeNoAccount
		}
		return http.StatusBadGateway, ErrTypeUpstream
	default:
		return http.StatusBadGateway, ErrTypeUpstream
	}
}

// handleError writes the mapped error envelope and logs it.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status, errType := classifyError(err)
	requestID := middleware.GetReqID(r.Context())

	s.logger.Printf("request_error type=%s status=%d request_id=%s path=%s err=%q",
		errType, status, requestID, r.URL.Path, err)

	s.writeJSON(w, status, newAPIError(errType, err.Error(), requestID))
}

// handleValidationError writes a 400 for malformed request input.
func (s *Server) handleValidationError(w http.ResponseWriter, r *http.Request, message string) {
	requestID := middleware.GetReqID(r.Context())
	s.logger.Printf("request_error type=%s status=%d request_id=%s path=%s err=%q",
		ErrTypeValidation, http.StatusBadRequest, requestID, r.URL.Path, message)
	s.writeJSON(w, http.StatusBadRequest, newAPIError(ErrTypeValidation, message, requestID))
}

// recoverer converts handler panics into a structured 500 response.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				requestID := middleware.GetReqID(r.Context())
				s.logger.Printf("panic_recovered request_id=%s path=%s method=%s panic=%v",
					requestID, r.URL.Path, r.Method, rvr)
				s.writeJSON(w, http.StatusInternalServerError,
					newAPIError(ErrTypeInternal, "internal server error", requestID))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
