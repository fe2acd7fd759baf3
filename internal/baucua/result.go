package baucua

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/sui"
)

// PlayEventSuffix identifies the contract's outcome event by type-name
// suffix, tolerant of package-path variations across deployments.
const PlayEventSuffix = "::bau_cua::PlayEvent"

// GameResult is the structured outcome decoded from a play event.
type GameResult struct {
	Dice     []int  `json:"dice"`
	TotalBet uint64 `json:"totalBet"`
	Winnings uint64 `json:"winnings"`
	Player   string `json:"player"`
}

// IsWin reports whether the play paid out.
func (r *GameResult) IsWin() bool { return r.Winnings > 0 }

// TotalBetSui returns the total bet in decimal SUI.
func (r *GameResult) TotalBetSui() decimal.Decimal { return MistToSui(r.TotalBet) }

// WinningsSui returns the winnings in decimal SUI.
func (r *GameResult) WinningsSui() decimal.Decimal { return MistToSui(r.Winnings) }

// DiceSymbolIDs returns the dice converted to symbol ids.
func (r *GameResult) DiceSymbolIDs() []string { return IndicesToSymbolIDs(r.Dice) }

// mistField decodes a u64 that events may carry as either a JSON string or a
// number. Missing or malformed values decode to 0: the transaction already
// succeeded on-chain and a partially-decoded result beats none.
type mistField uint64

func (m *mistField) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*m = 0
		return nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		*m = 0
		return nil
	}
	*m = mistField(v)
	return nil
}

type playEventPayload struct {
	Dice     []int     `json:"dice"`
	TotalBet mistField `json:"total_bet"`
	Winnings mistField `json:"winnings"`
	Player   string    `json:"player"`
}

// IsPlayEvent reports whether an event type names the contract's outcome
// event.
func IsPlayEvent(eventType string) bool {
	return strings.HasSuffix(eventType, PlayEventSuffix) || strings.Contains(eventType, "PlayEvent")
}

// ParsePlayResult extracts the game outcome from a transaction's event list.
// A nil result with a nil error means no outcome event was present, which is
// a valid state: not every transaction touching the package plays a round.
func ParsePlayResult(events []sui.Event) *GameResult {
	for _, ev := range events {
		if !IsPlayEvent(ev.Type) {
			continue
		}
		if len(ev.ParsedJSON) == 0 {
			return nil
		}
		var payload playEventPayload
		if err := json.Unmarshal(ev.ParsedJSON, &payload); err != nil {
			// Matched by type but the payload is not the shape we know.
			// Treat as unrecognized rather than guessing at fields.
			return nil
		}
		dice := payload.Dice
		if dice == nil {
			dice = []int{}
		}
		return &GameResult{
			Dice:     dice,
			TotalBet: uint64(payload.TotalBet),
			Winnings: uint64(payload.Winnings),
			Player:   payload.Player,
		}
	}
	return nil
}
