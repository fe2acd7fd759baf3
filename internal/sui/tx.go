package sui

// TransactionIntent describes one programmable transaction for the wallet
// bridge to serialize, sign, and execute. The intent model keeps BCS
// serialization on the bridge side; this process only ever states what the
// transaction should do.
type TransactionIntent struct {
	Sender string `json:"sender,omitempty"`

	// SplitFromGas lists amounts to carve off the gas coin before the move
	// call runs. Splitting from the gas coin instead of a pre-selected exact
	// coin keeps the whole flow in one atomic transaction: there is no window
	// where a split lands but the play call does not.
	SplitFromGas []uint64 `json:"splitFromGas,omitempty"`

	MoveCall *MoveCall `json:"moveCall,omitempty"`

	// GasBudget caps the fee in MIST. Zero lets the bridge pick.
	GasBudget uint64 `json:"gasBudget,omitempty"`
}

// MoveCall invokes one contract entry point.
type MoveCall struct {
	Package   string    `json:"package"`
	Module    string    `json:"module"`
	Function  string    `json:"function"`
	Arguments []CallArg `json:"arguments"`
}

// CallArg is one argument of a move call. Exactly one of the value fields is
// set, discriminated by Kind.
type CallArg struct {
	Kind   string   `json:"kind"` // "object", "u8vec", "u64vec", "splitResult"
	Object string   `json:"object,omitempty"`
	U8s    []uint8  `json:"u8s,omitempty"`
	U64s   []uint64 `json:"u64s,omitempty"`
	Result int      `json:"result,omitempty"`
}

// ObjectArg references a shared or owned object by id.
func ObjectArg(id string) CallArg {
	return CallArg{Kind: "object", Object: id}
}

// U8VectorArg passes a pure vector<u8> value.
func U8VectorArg(values []uint8) CallArg {
	return CallArg{Kind: "u8vec", U8s: values}
}

// U64VectorArg passes a pure vector<u64> value.
func U64VectorArg(values []uint64) CallArg {
	return CallArg{Kind: "u64vec", U64s: values}
}

// SplitResultArg references the i-th coin produced by SplitFromGas.
func SplitResultArg(i int) CallArg {
	return CallArg{Kind: "splitResult", Result: i}
}

// TransactionResult is what the signer returns after user approval and chain
// execution.
type TransactionResult struct {
	Digest         string          `json:"digest"`
	Effects        *Effects        `json:"effects,omitempty"`
	Events         []Event         `json:"events,omitempty"`
	BalanceChanges []BalanceChange `json:"balanceChanges,omitempty"`
}
