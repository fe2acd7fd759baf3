package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/baucua"
	"github.com/baucualabs/baucua-go/internal/contract"
)

// healthResponse reports process liveness and basic runtime info.
type healthResponse struct {
	Status     string `json:"status"`
	Version    string `json:"version"`
	Uptime     string `json:"uptime"`
	GoVersion  string `json:"go_version"`
	Goroutines int    `json:"goroutines"`
	Timestamp  string `json:"timestamp"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, healthResponse{
		Status:     "healthy",
		Version:    Version,
		Uptime:     time.Since(s.startTime).Round(time.Second).String(),
		GoVersion:  runtime.Version(),
		Goroutines: runtime.NumGoroutine(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"symbols": baucua.Symbols(),
	})
}

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	account, err := s.bridge.ActiveAccount(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, account)
}

// resolveAddress takes the address from the query string, falling back to the
// bridge's active account.
func (s *Server) resolveAddress(r *http.Request) (string, error) {
	if addr := r.URL.Query().Get("address"); addr != "" {
		return addr, nil
	}
	account, err := s.bridge.ActiveAccount(r.Context())
	if err != nil {
		return "", err
	}
	return account.Address, nil
}

type balanceResponse struct {
	Address      string              `json:"address"`
	TotalBalance decimal.Decimal     `json:"totalBalanceInSui"`
	Coins        []contract.CoinInfo `json:"coins"`
}

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	address, err := s.resolveAddress(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	total, coins, err := s.game.TotalBalance(r.Context(), address)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, balanceResponse{
		Address:      address,
		TotalBalance: total,
		Coins:        coins,
	})
}

func (s *Server) handleLimits(w http.ResponseWriter, r *http.Request) {
	address, err := s.resolveAddress(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	limit, err := s.game.MaxSafeBet(r.Context(), address)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, limit)
}

func (s *Server) handleBank(w http.ResponseWriter, r *http.Request) {
	balance, err := s.game.BankBalance(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"bankBalanceInSui": balance,
	})
}

// betInput is one wager in a play or estimate request. Amount is decimal SUI.
type betInput struct {
	Symbol string `json:"symbol"`
	Amount string `json:"amount"`
}

type playRequest struct {
	Bets []betInput `json:"bets"`
}

// decodeBets validates and converts request bets. Amounts must parse as
// decimals; range and symbol checks are left to the translation layer so the
// rules live in one place.
func decodeBets(inputs []betInput) ([]baucua.Bet, string) {
	if len(inputs) == 0 {
		return nil, "at least one bet is required"
	}
	bets := make([]baucua.Bet, 0, len(inputs))
	for i, in := range inputs {
		if in.Symbol == "" {
			return nil, "bet " + strconv.Itoa(i) + ": symbol is required"
		}
		amount, err := decimal.NewFromString(in.Amount)
		if err != nil {
			return nil, "bet " + strconv.Itoa(i) + ": amount must be a decimal number"
		}
		bets = append(bets, baucua.Bet{SymbolID: in.Symbol, Amount: amount})
	}
	return bets, ""
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleValidationError(w, r, "invalid JSON body: "+err.Error())
		return
	}
	bets, msg := decodeBets(req.Bets)
	if msg != "" {
		s.handleValidationError(w, r, msg)
		return
	}

	address, err := s.resolveAddress(r)
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	estimate, err := s.game.EstimateGasForBets(r.Context(), address, bets)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, estimate)
}

func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	var req playRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleValidationError(w, r, "invalid JSON body: "+err.Error())
		return
	}
	bets, msg := decodeBets(req.Bets)
	if msg != "" {
		s.handleValidationError(w, r, msg)
		return
	}

	account, err := s.bridge.ActiveAccount(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}

	outcome, err := s.game.Play(r.Context(), account.Address, bets)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, outcome)
}

type historyResponse struct {
	Activities []baucua.ContractActivity `json:"activities"`
	State      string                    `json:"state"`
	LastError  string                    `json:"last_error,omitempty"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	activities, state, lastErr := s.poller.Snapshot()

	// Before the first refresh, serve whatever the cache has.
	if len(activities) == 0 && s.store != nil {
		limit := parseLimit(r, 50)
		cached, err := s.store.List(r.Context(), limit)
		if err == nil && len(cached) > 0 {
			activities = cached
		}
	}

	resp := historyResponse{Activities: activities, State: state.String()}
	if lastErr != nil {
		resp.LastError = lastErr.Error()
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistoryRefresh(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, 0)
	activities, err := s.poller.Refresh(r.Context(), limit)
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, historyResponse{
		Activities: activities,
		State:      "settled",
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"plays": 0, "wins": 0,
		})
		return
	}
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.handleError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, stats)
}

func parseLimit(r *http.Request, def int) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}
