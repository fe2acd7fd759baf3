package sui

import "encoding/json"

// SuiCoinType is the coin type of the native fee currency.
const SuiCoinType = "0x2::sui::SUI"

// Coin is one coin object owned by an address.
type Coin struct {
	CoinObjectID string `json:"coinObjectId"`
	CoinType     string `json:"coinType"`
	Balance      string `json:"balance"`
	Digest       string `json:"digest,omitempty"`
	Version      string `json:"version,omitempty"`
}

// coinPage is the paginated result shape of suix_getCoins.
type coinPage struct {
	Data        []Coin `json:"data"`
	NextCursor  string `json:"nextCursor"`
	HasNextPage bool   `json:"hasNextPage"`
}

// Event is one structured log emitted during transaction execution.
// ParsedJSON carries the decoded Move event payload as raw JSON; callers own
// the schema.
type Event struct {
	Type       string          `json:"type"`
	ParsedJSON json.RawMessage `json:"parsedJson,omitempty"`
	Sender     string          `json:"sender,omitempty"`
}

// GasUsed is the fee breakdown of executed or simulated effects. All values
// are base-unit integer strings.
type GasUsed struct {
	ComputationCost string `json:"computationCost"`
	StorageCost     string `json:"storageCost"`
	StorageRebate   string `json:"storageRebate"`
}

// ExecutionStatus reports whether a transaction succeeded on-chain.
type ExecutionStatus struct {
	Status string `json:"status"` // "success" or "failure"
	Error  string `json:"error,omitempty"`
}

// Effects is the subset of transaction effects this client consumes.
type Effects struct {
	Status  ExecutionStatus `json:"status"`
	GasUsed GasUsed         `json:"gasUsed"`
}

// BalanceChange is one net balance delta caused by a transaction.
type BalanceChange struct {
	CoinType string          `json:"coinType"`
	Amount   string          `json:"amount"`
	Owner    json.RawMessage `json:"owner,omitempty"`
}

// TransactionBlock is one indexed transaction with the options this client
// always requests (events, effects, input, balance changes).
type TransactionBlock struct {
	Digest         string           `json:"digest"`
	TimestampMs    string           `json:"timestampMs,omitempty"`
	Transaction    *TransactionData `json:"transaction,omitempty"`
	Effects        *Effects         `json:"effects,omitempty"`
	Events         []Event          `json:"events,omitempty"`
	BalanceChanges []BalanceChange  `json:"balanceChanges,omitempty"`
}

// Sender returns the transaction sender address, or "" if input data was not
// returned by the node.
func (t *TransactionBlock) Sender() string {
	if t.Transaction == nil {
		return ""
	}
	return t.Transaction.Data.Sender
}

// TransactionData is the signed input payload of a transaction block.
type TransactionData struct {
	Data struct {
		Sender string `json:"sender"`
	} `json:"data"`
}

// transactionPage is the paginated result shape of suix_queryTransactionBlocks.
type transactionPage struct {
	Data        []TransactionBlock `json:"data"`
	NextCursor  string             `json:"nextCursor"`
	HasNextPage bool               `json:"hasNextPage"`
}

// ObjectData is the content of an on-chain object fetched with showContent.
type ObjectData struct {
	ObjectID string         `json:"objectId"`
	Content  *ObjectContent `json:"content,omitempty"`
}

// ObjectContent carries the Move struct fields as raw JSON.
type ObjectContent struct {
	DataType string          `json:"dataType"`
	Type     string          `json:"type"`
	Fields   json.RawMessage `json:"fields,omitempty"`
}

type objectEnvelope struct {
	Data  *ObjectData     `json:"data"`
	Error json.RawMessage `json:"error,omitempty"`
}

// DryRunResult is the outcome of a non-committing transaction simulation.
type DryRunResult struct {
	Effects *Effects `json:"effects,omitempty"`
	Events  []Event  `json:"events,omitempty"`
}

// MoveFunctionFilter selects transactions that called a specific entry point.
type MoveFunctionFilter struct {
	Package  string `json:"package"`
	Module   string `json:"module"`
	Function string `json:"function"`
}
