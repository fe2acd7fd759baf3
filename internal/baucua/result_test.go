package baucua

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/sui"
)

const playEventType = "0xd303::bau_cua::PlayEvent"

func playEvent(t *testing.T, payload map[string]interface{}) sui.Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return sui.Event{Type: playEventType, ParsedJSON: raw}
}

func TestIsPlayEvent(t *testing.T) {
	if !IsPlayEvent(playEventType) {
		t.Error("suffixed type should match")
	}
	if !IsPlayEvent("wrapped<0xd303::bau_cua::PlayEvent>") {
		t.Error("embedded type should match")
	}
	if IsPlayEvent("0xd303::bau_cua::BankEvent") {
		t.Error("other event types should not match")
	}
}

func TestParsePlayResultWin(t *testing.T) {
	events := []sui.Event{
		{Type: "0x2::coin::DepositEvent", ParsedJSON: json.RawMessage(`{}`)},
		playEvent(t, map[string]interface{}{
			"dice":      []int{2, 1, 4},
			"total_bet": "350000000",
			"winnings":  "700000000",
			"player":    "0xabc",
		}),
	}

	result := ParsePlayResult(events)
	if result == nil {
		t.Fatal("expected a result")
	}
	if len(result.Dice) != 3 || result.Dice[0] != 2 || result.Dice[1] != 1 || result.Dice[2] != 4 {
		t.Errorf("dice: got %v", result.Dice)
	}
	if result.TotalBet != 350_000_000 {
		t.Errorf("total bet: got %d", result.TotalBet)
	}
	if result.Winnings != 700_000_000 {
		t.Errorf("winnings: got %d", result.Winnings)
	}
	if result.Player != "0xabc" {
		t.Errorf("player: got %s", result.Player)
	}
	if !result.IsWin() {
		t.Error("winnings > 0 should be a win")
	}
	if !result.WinningsSui().Equal(decimal.RequireFromString("0.7")) {
		t.Errorf("winnings sui: got %s", result.WinningsSui())
	}
	ids := result.DiceSymbolIDs()
	if ids[0] != "ca" || ids[1] != "tom" || ids[2] != "cua" {
		t.Errorf("dice symbol ids: got %v", ids)
	}
}

func TestParsePlayResultMissingWinnings(t *testing.T) {
	result := ParsePlayResult([]sui.Event{playEvent(t, map[string]interface{}{
		"dice":      []int{0, 0, 0},
		"total_bet": "100000000",
		"player":    "0xabc",
	})})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Winnings != 0 {
		t.Errorf("missing winnings: expected 0, got %d", result.Winnings)
	}
	if result.IsWin() {
		t.Error("zero winnings should be a loss")
	}
}

func TestParsePlayResultNumericAmounts(t *testing.T) {
	raw := json.RawMessage(`{"dice":[1,1,1],"total_bet":100000000,"winnings":0,"player":"0xabc"}`)
	result := ParsePlayResult([]sui.Event{{Type: playEventType, ParsedJSON: raw}})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.TotalBet != 100_000_000 {
		t.Errorf("numeric total bet: got %d", result.TotalBet)
	}
}

func TestParsePlayResultNoEvent(t *testing.T) {
	if got := ParsePlayResult(nil); got != nil {
		t.Errorf("no events: expected nil, got %+v", got)
	}
	events := []sui.Event{{Type: "0x2::coin::DepositEvent", ParsedJSON: json.RawMessage(`{}`)}}
	if got := ParsePlayResult(events); got != nil {
		t.Errorf("unrelated events: expected nil, got %+v", got)
	}
}

func TestParsePlayResultMalformedPayload(t *testing.T) {
	events := []sui.Event{{Type: playEventType, ParsedJSON: json.RawMessage(`"not an object"`)}}
	if got := ParsePlayResult(events); got != nil {
		t.Errorf("non-object payload: expected nil, got %+v", got)
	}
	events = []sui.Event{{Type: playEventType}}
	if got := ParsePlayResult(events); got != nil {
		t.Errorf("empty payload: expected nil, got %+v", got)
	}
}

func TestParsePlayResultNilDice(t *testing.T) {
	result := ParsePlayResult([]sui.Event{playEvent(t, map[string]interface{}{
		"total_bet": "100000000",
		"winnings":  "0",
		"player":    "0xabc",
	})})
	if result == nil {
		t.Fatal("expected a result")
	}
	if result.Dice == nil || len(result.Dice) != 0 {
		t.Errorf("missing dice: expected empty slice, got %v", result.Dice)
	}
}
