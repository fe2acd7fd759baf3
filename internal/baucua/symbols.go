// Package baucua implements the game-side data model for the Bau Cua Tom Ca
// contract: the fixed symbol table, MIST/SUI unit conversion, translation of
// UI bets into contract call arguments, and decoding of play events and
// historical transactions into display-ready records.
//
// The package holds no chain state of its own. Everything here is either a
// process-wide constant (symbols, scale factor) or a pure projection of data
// returned by the chain.
package baucua

import "fmt"

// Symbol describes one of the six fixed betting outcomes.
type Symbol struct {
	ID             string `json:"id"`
	ContractIndex  int    `json:"contractIndex"`
	Name           string `json:"name"`
	VietnameseName string `json:"vietnameseName"`
	Emoji          string `json:"emoji"`
	Multiplier     int    `json:"multiplier"`
}

// Unknown is the sentinel returned for indices or ids the contract may add in
// the future. Display code must keep working when it shows up.
var Unknown = Symbol{
	ID:             "unknown",
	ContractIndex:  -1,
	Name:           "Unknown",
	VietnameseName: "Unknown",
	Emoji:          "🎲",
	Multiplier:     0,
}

// symbols is ordered the way the betting board lays them out. The contract
// index is NOT positional: the board shows cua (index 4) second.
var symbols = []Symbol{
	{ID: "bau", ContractIndex: 0, Name: "Gourd", VietnameseName: "Bầu", Emoji: "🥒", Multiplier: 2},
	{ID: "cua", ContractIndex: 4, Name: "Crab", VietnameseName: "Cua", Emoji: "🦀", Multiplier: 2},
	{ID: "tom", ContractIndex: 1, Name: "Shrimp", VietnameseName: "Tôm", Emoji: "🦐", Multiplier: 2},
	{ID: "ca", ContractIndex: 2, Name: "Fish", VietnameseName: "Cá", Emoji: "🐟", Multiplier: 2},
	{ID: "ga", ContractIndex: 3, Name: "Rooster", VietnameseName: "Gà", Emoji: "🐓", Multiplier: 2},
	{ID: "nai", ContractIndex: 5, Name: "Deer", VietnameseName: "Nai", Emoji: "🦌", Multiplier: 2},
}

// Symbols returns all six symbols in board order.
func Symbols() []Symbol {
	out := make([]Symbol, len(symbols))
	copy(out, symbols)
	return out
}

// SymbolIDs returns the symbol ids in board order, for deterministic layout.
func SymbolIDs() []string {
	ids := make([]string, len(symbols))
	for i, s := range symbols {
		ids[i] = s.ID
	}
	return ids
}

// SymbolByID looks up a symbol by its string id.
func SymbolByID(id string) (Symbol, bool) {
	for _, s := range symbols {
		if s.ID == id {
			return s, true
		}
	}
	return Unknown, false
}

// SymbolByIndex looks up a symbol by its contract index (0-5).
func SymbolByIndex(n int) (Symbol, bool) {
	for _, s := range symbols {
		if s.ContractIndex == n {
			return s, true
		}
	}
	return Unknown, false
}

// IndicesToSymbolIDs converts raw contract dice values to symbol ids.
// Out-of-range values map to the Unknown sentinel id.
func IndicesToSymbolIDs(indices []int) []string {
	ids := make([]string, len(indices))
	for i, n := range indices {
		s, _ := SymbolByIndex(n)
		ids[i] = s.ID
	}
	return ids
}

// ContractIndex returns the contract index for a symbol id, or an error for
// ids the registry does not know.
func ContractIndex(id string) (int, error) {
	s, ok := SymbolByID(id)
	if !ok {
		return 0, fmt.Errorf("baucua: %w: %q", ErrUnknownSymbol, id)
	}
	return s.ContractIndex, nil
}
