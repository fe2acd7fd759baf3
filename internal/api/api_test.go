package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/baucualabs/baucua-go/internal/baucua"
	"github.com/baucualabs/baucua-go/internal/contract"
	"github.com/baucualabs/baucua-go/internal/history"
	"github.com/baucualabs/baucua-go/internal/sui"
	"github.com/baucualabs/baucua-go/internal/wallet"
)

type fakeChain struct {
	coins  []sui.Coin
	object *sui.ObjectData
	dryRun *sui.DryRunResult
}

func (f *fakeChain) GetCoins(ctx context.Context, owner, coinType string) ([]sui.Coin, error) {
	return f.coins, nil
}

func (f *fakeChain) GetObject(ctx context.Context, id string) (*sui.ObjectData, error) {
	return f.object, nil
}

func (f *fakeChain) DryRunTransactionBlock(ctx context.Context, txBytes string) (*sui.DryRunResult, error) {
	return f.dryRun, nil
}

type fakeQuerier struct {
	txs []sui.TransactionBlock
	err error
}

func (f *fakeQuerier) QueryTransactionBlocks(ctx context.Context, filter sui.MoveFunctionFilter, limit int) ([]sui.TransactionBlock, error) {
	return f.txs, f.err
}

// bridgeBehavior scripts the fake wallet bridge.
type bridgeBehavior struct {
	account    map[string]any
	executeErr map[string]any
}

func fakeBridgeServer(t *testing.T, behavior bridgeBehavior) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/account":
			account := behavior.account
			if account == nil {
				account = map[string]any{"address": "0xme"}
			}
			json.NewEncoder(w).Encode(map[string]any{"data": account})
		case "/v1/transactions/build":
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"txBytes": "dGVzdA=="}})
		case "/v1/transactions/execute":
			if behavior.executeErr != nil {
				json.NewEncoder(w).Encode(map[string]any{"error": behavior.executeErr})
				return
			}
			json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
				"digest": "digest-1",
				"events": []map[string]any{{
					"type": "0x1::bau_cua::PlayEvent",
					"parsedJson": map[string]any{
						"dice": []int{2, 1, 4}, "total_bet": "350000000",
						"winnings": "700000000", "player": "0xme",
					},
				}},
			}})
		default:
			t.Errorf("unexpected bridge request: %s", r.URL.Path)
			w.WriteHeader(404)
		}
	}))
}

func testServer(t *testing.T, chain *fakeChain, behavior bridgeBehavior, querier *fakeQuerier) *httptest.Server {
	t.Helper()
	bridgeSrv := fakeBridgeServer(t, behavior)
	t.Cleanup(bridgeSrv.Close)

	bridge := wallet.NewBridge(wallet.Config{URL: bridgeSrv.URL, HTTPClient: bridgeSrv.Client()})

	if querier == nil {
		querier = &fakeQuerier{}
	}
	poller := history.New(history.Config{AwaitInterval: time.Millisecond, AwaitAttempts: 1}, querier, nil)

	game := contract.New(contract.Config{}, chain, bridge, bridge, poller)
	server := httptest.NewServer(NewServer(game, bridge, poller, nil, nil).Routes())
	t.Cleanup(server.Close)
	return server
}

func healthyChain() *fakeChain {
	return &fakeChain{
		coins: []sui.Coin{{CoinObjectID: "0xc1", CoinType: sui.SuiCoinType, Balance: "2000000000"}},
		dryRun: &sui.DryRunResult{Effects: &sui.Effects{GasUsed: sui.GasUsed{
			ComputationCost: "1000000", StorageCost: "2000000", StorageRebate: "500000",
		}}},
	}
}

func getJSON(t *testing.T, url string, out any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func postJSON(t *testing.T, url, body string, out any) int {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestHealth(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	var health healthResponse
	if status := getJSON(t, server.URL+"/health", &health); status != 200 {
		t.Fatalf("status: got %d", status)
	}
	if health.Status != "healthy" || health.Version != Version {
		t.Errorf("health: %+v", health)
	}
}

func TestSymbolsEndpoint(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	var resp struct {
		Symbols []baucua.Symbol `json:"symbols"`
	}
	if status := getJSON(t, server.URL+"/api/v1/symbols", &resp); status != 200 {
		t.Fatalf("status: got %d", status)
	}
	if len(resp.Symbols) != 6 || resp.Symbols[0].ID != "bau" {
		t.Errorf("symbols: got %+v", resp.Symbols)
	}
}

func TestBalanceEndpoint(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	var resp balanceResponse
	if status := getJSON(t, server.URL+"/api/v1/balance", &resp); status != 200 {
		t.Fatalf("status: got %d", status)
	}
	if resp.Address != "0xme" {
		t.Errorf("address from bridge account: got %s", resp.Address)
	}
	if resp.TotalBalance.String() != "2" {
		t.Errorf("total: got %s", resp.TotalBalance)
	}
}

func TestPlayEndpoint(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	body := `{"bets":[{"symbol":"bau","amount":"0.1"},{"symbol":"ca","amount":"0.25"}]}`
	var outcome contract.PlayOutcome
	if status := postJSON(t, server.URL+"/api/v1/play", body, &outcome); status != 200 {
		t.Fatalf("status: got %d", status)
	}
	if outcome.Digest != "digest-1" {
		t.Errorf("digest: got %s", outcome.Digest)
	}
	if outcome.Result == nil || outcome.Result.Winnings != 700_000_000 {
		t.Errorf("result: got %+v", outcome.Result)
	}
}

func TestPlayValidation(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	cases := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"no bets", `{"bets":[]}`},
		{"missing symbol", `{"bets":[{"amount":"0.1"}]}`},
		{"bad amount", `{"bets":[{"symbol":"bau","amount":"ten"}]}`},
	}
	for _, tc := range cases {
		var apiErr APIError
		status := postJSON(t, server.URL+"/api/v1/play", tc.body, &apiErr)
		if status != 400 {
			t.Errorf("%s: expected 400, got %d", tc.name, status)
		}
		if apiErr.Type != ErrTypeValidation {
			t.Errorf("%s: error type got %s", tc.name, apiErr.Type)
		}
	}
}

func TestPlayUnknownSymbol(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	var apiErr APIError
	status := postJSON(t, server.URL+"/api/v1/play",
		`{"bets":[{"symbol":"dragon","amount":"0.1"}]}`, &apiErr)
	if status != 400 || apiErr.Type != ErrTypeValidation {
		t.Errorf("expected 400 validation error, got %d %s", status, apiErr.Type)
	}
}

func TestPlayInsufficientBalance(t *testing.T) {
	chain := healthyChain()
	chain.coins = []sui.Coin{{CoinObjectID: "0xc1", CoinType: sui.SuiCoinType, Balance: "120000000"}}
	server := testServer(t, chain, bridgeBehavior{}, nil)

	var apiErr APIError
	status := postJSON(t, server.URL+"/api/v1/play",
		`{"bets":[{"symbol":"bau","amount":"0.1"}]}`, &apiErr)
	if status != 422 || apiErr.Type != ErrTypeInsufficientBalance {
		t.Errorf("expected 422 insufficient_balance, got %d %s", status, apiErr.Type)
	}
}

func TestPlayUserRejected(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{
		executeErr: map[string]any{"errorType": "userRejected", "message": "user declined"},
	}, nil)

	var apiErr APIError
	status := postJSON(t, server.URL+"/api/v1/play",
		`{"bets":[{"symbol":"bau","amount":"0.1"}]}`, &apiErr)
	if status != 409 || apiErr.Type != ErrTypeWalletRejected {
		t.Errorf("expected 409 wallet_rejected, got %d %s", status, apiErr.Type)
	}
}

func TestEstimateEndpoint(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	var estimate contract.GasEstimate
	status := postJSON(t, server.URL+"/api/v1/estimate",
		`{"bets":[{"symbol":"bau","amount":"0.1"}]}`, &estimate)
	if status != 200 {
		t.Fatalf("status: got %d", status)
	}
	if estimate.FeeMist != 2_500_000 || estimate.Fallback {
		t.Errorf("estimate: %+v", estimate)
	}
}

func TestHistoryRefreshEndpoint(t *testing.T) {
	payload, _ := json.Marshal(map[string]any{
		"dice": []int{0, 1, 2}, "total_bet": "100000000", "winnings": "0", "player": "0xme",
	})
	querier := &fakeQuerier{txs: []sui.TransactionBlock{{
		Digest:      "d1",
		TimestampMs: "1756400000000",
		Events:      []sui.Event{{Type: "0x1::bau_cua::PlayEvent", ParsedJSON: payload}},
	}}}
	server := testServer(t, healthyChain(), bridgeBehavior{}, querier)

	var resp historyResponse
	if status := postJSON(t, server.URL+"/api/v1/history/refresh", "", &resp); status != 200 {
		t.Fatalf("refresh status: got %d", status)
	}
	if len(resp.Activities) != 1 || resp.Activities[0].Digest != "d1" {
		t.Errorf("refresh activities: %+v", resp.Activities)
	}

	if status := getJSON(t, server.URL+"/api/v1/history", &resp); status != 200 {
		t.Fatalf("history status: got %d", status)
	}
	if len(resp.Activities) != 1 || resp.State != "settled" {
		t.Errorf("history snapshot: %+v", resp)
	}
}

func TestStatsWithoutStore(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)
	if status := getJSON(t, server.URL+"/api/v1/stats", nil); status != 200 {
		t.Errorf("stats status: got %d", status)
	}
}

func TestCORSPreflight(t *testing.T) {
	server := testServer(t, healthyChain(), bridgeBehavior{}, nil)

	req, _ := http.NewRequest(http.MethodOptions, server.URL+"/api/v1/play", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("preflight status: got %d", resp.StatusCode)
	}
	if resp.Header.Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS header")
	}
}
