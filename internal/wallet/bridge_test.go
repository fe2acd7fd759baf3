package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/baucualabs/baucua-go/internal/sui"
)

func testBridge(server *httptest.Server, token string) *Bridge {
	return NewBridge(Config{
		URL:        server.URL,
		Token:      token,
		HTTPClient: server.Client(),
	})
}

func TestActiveAccount(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/account" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing or wrong Authorization header: %q", r.Header.Get("Authorization"))
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"address": "0xabc", "label": "main"},
		})
	}))
	defer server.Close()

	account, err := testBridge(server, "test-token").ActiveAccount(context.Background())
	if err != nil {
		t.Fatalf("ActiveAccount: %v", err)
	}
	if account.Address != "0xabc" || account.Label != "main" {
		t.Errorf("account: got %+v", account)
	}
}

func TestActiveAccountEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	_, err := testBridge(server, "").ActiveAccount(context.Background())
	var bridgeErr *BridgeError
	if !errors.As(err, &bridgeErr) || !bridgeErr.IsNoAccount() {
		t.Fatalf("expected noAccount bridge error, got %v", err)
	}
}

func TestAuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
	}))
	defer server.Close()

	_, err := testBridge(server, "stale").ActiveAccount(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %v", err)
	}
}

func TestBuildTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/transactions/build" || r.Method != "POST" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var intent sui.TransactionIntent
		if err := json.NewDecoder(r.Body).Decode(&intent); err != nil {
			t.Fatalf("decode intent: %v", err)
		}
		if intent.Sender != "0xme" {
			t.Errorf("sender: got %s", intent.Sender)
		}
		if len(intent.SplitFromGas) != 1 || intent.SplitFromGas[0] != 350_000_000 {
			t.Errorf("split amounts: got %v", intent.SplitFromGas)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"txBytes": "dGVzdA=="},
		})
	}))
	defer server.Close()

	intent := &sui.TransactionIntent{Sender: "0xme", SplitFromGas: []uint64{350_000_000}}
	txBytes, err := testBridge(server, "").BuildTransaction(context.Background(), intent)
	if err != nil {
		t.Fatalf("BuildTransaction: %v", err)
	}
	if txBytes != "dGVzdA==" {
		t.Errorf("tx bytes: got %s", txBytes)
	}
}

func TestSignAndExecuteRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"errorType": "userRejected", "message": "user declined"},
		})
	}))
	defer server.Close()

	_, err := testBridge(server, "").SignAndExecute(context.Background(), &sui.TransactionIntent{})
	var bridgeErr *BridgeError
	if !errors.As(err, &bridgeErr) || !bridgeErr.IsUserRejected() {
		t.Fatalf("expected userRejected bridge error, got %v", err)
	}
}

func TestSignAndExecute(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"digest": "digest-1",
				"events": []map[string]any{
					{"type": "0x1::bau_cua::PlayEvent", "parsedJson": map[string]any{"winnings": "0"}},
				},
			},
		})
	}))
	defer server.Close()

	result, err := testBridge(server, "").SignAndExecute(context.Background(), &sui.TransactionIntent{})
	if err != nil {
		t.Fatalf("SignAndExecute: %v", err)
	}
	if result.Digest != "digest-1" {
		t.Errorf("digest: got %s", result.Digest)
	}
	if len(result.Events) != 1 {
		t.Errorf("events: got %d", len(result.Events))
	}
}

func TestSignAndExecuteNoDigest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{}})
	}))
	defer server.Close()

	if _, err := testBridge(server, "").SignAndExecute(context.Background(), &sui.TransactionIntent{}); err == nil {
		t.Fatal("expected an error for a missing digest")
	}
}

func TestSetToken(t *testing.T) {
	b := NewBridge(Config{Token: "old"})
	b.SetToken("new")
	if b.Token() != "new" {
		t.Errorf("expected 'new', got %s", b.Token())
	}
}
