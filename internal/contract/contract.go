// Package contract is the integration layer between bet state and the
// on-chain Bau Cua Tom Ca contract: it translates bets into one atomic play
// transaction, estimates fees ahead of submission, checks affordability, and
// decodes the outcome. All randomness, payout math, and fund custody live in
// the contract itself; this layer only calls it and reads back what happened.
package contract

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/baucua"
	"github.com/baucualabs/baucua-go/internal/sui"
)

// Default object ids of the deployed contract (Sui testnet).
const (
	DefaultPackageID = "0xd303b0d0165b19f85727d32187a22e76f9f3f31895c7c23ce5f80e01d2c98cac"
	DefaultBankID    = "0xca86008a4262ec597021dab6c070e76a04d423d4011240fe3cf5ca6e0657a735"
	DefaultRandomID  = "0x8" // global Sui Random object

	ModuleName   = "bau_cua"
	PlayFunction = "play"
)

// ChainReader is the read-only view of the chain this layer needs.
// *sui.Client satisfies it.
type ChainReader interface {
	GetCoins(ctx context.Context, owner, coinType string) ([]sui.Coin, error)
	GetObject(ctx context.Context, id string) (*sui.ObjectData, error)
	DryRunTransactionBlock(ctx context.Context, txBytes string) (*sui.DryRunResult, error)
}

// Builder serializes a transaction intent without signing it.
// *wallet.Bridge satisfies it.
type Builder interface {
	BuildTransaction(ctx context.Context, intent *sui.TransactionIntent) (string, error)
}

// Signer obtains approval, signs, and executes a transaction intent.
// *wallet.Bridge satisfies it.
type Signer interface {
	SignAndExecute(ctx context.Context, intent *sui.TransactionIntent) (*sui.TransactionResult, error)
}

// Confirmer waits for a submitted digest to become visible in indexed
// history. *history.Poller satisfies it.
type Confirmer interface {
	AwaitDigest(ctx context.Context, digest string) (bool, error)
}

// Config holds configuration for the game contract client.
type Config struct {
	// PackageID, BankID, RandomID identify the deployed contract.
	// Defaults to the testnet deployment if empty.
	PackageID string
	BankID    string
	RandomID  string

	// GasBufferSui is added to the stake in the affordability check to cover
	// fee variance. Defaults to 0.05 SUI if zero.
	GasBufferSui decimal.Decimal

	// FallbackGasFee is the conservative fee estimate in MIST used when
	// dry-run simulation fails. Defaults to 10_000_000 (0.01 SUI) if zero.
	FallbackGasFee uint64

	// Logger receives key=value diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.PackageID == "" {
		c.PackageID = DefaultPackageID
	}
	if c.BankID == "" {
		c.BankID = DefaultBankID
	}
	if c.RandomID == "" {
		c.RandomID = DefaultRandomID
	}
	if c.GasBufferSui.IsZero() {
		c.GasBufferSui = decimal.NewFromFloat(0.05)
	}
	if c.FallbackGasFee == 0 {
		c.FallbackGasFee = 10_000_000
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// PlayState is the lifecycle of a play attempt.
type PlayState int32

const (
	// StateIdle means no play attempt is in flight.
	StateIdle PlayState = iota
	// StateSubmitting means a transaction is being built or signed.
	StateSubmitting
	// StateAwaitingConfirmation means the transaction executed and the
	// client is waiting for it to appear in indexed history.
	StateAwaitingConfirmation
)

func (s PlayState) String() string {
	switch s {
	case StateSubmitting:
		return "submitting"
	case StateAwaitingConfirmation:
		return "awaiting-confirmation"
	default:
		return "idle"
	}
}

// GameContract is the client for the play entry point. Construct one per
// composition root and inject it; there is no package-level instance.
type GameContract struct {
	config    Config
	chain     ChainReader
	builder   Builder
	signer    Signer
	confirmer Confirmer // optional

	mu    sync.Mutex
	state PlayState
}

// New creates a game contract client. confirmer may be nil, in which case
// Play returns as soon as the transaction executes.
func New(cfg Config, chain ChainReader, builder Builder, signer Signer, confirmer Confirmer) *GameContract {
	return &GameContract{
		config:    cfg.withDefaults(),
		chain:     chain,
		builder:   builder,
		signer:    signer,
		confirmer: confirmer,
	}
}

// State returns the current play-attempt state.
func (g *GameContract) State() PlayState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *GameContract) transition(from, to PlayState) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state != from {
		return false
	}
	g.state = to
	return true
}

func (g *GameContract) setState(s PlayState) {
	g.mu.Lock()
	g.state = s
	g.mu.Unlock()
}

// buildPlayIntent constructs the single atomic play transaction: split the
// stake off the gas coin, then call play with the bet arrays and the split
// result.
func (g *GameContract) buildPlayIntent(sender string, bets *baucua.PreparedBets, gasBudget uint64) *sui.TransactionIntent {
	return &sui.TransactionIntent{
		Sender:       sender,
		SplitFromGas: []uint64{bets.Total},
		GasBudget:    gasBudget,
		MoveCall: &sui.MoveCall{
			Package:  g.config.PackageID,
			Module:   ModuleName,
			Function: PlayFunction,
			Arguments: []sui.CallArg{
				sui.ObjectArg(g.config.BankID),
				sui.ObjectArg(g.config.RandomID),
				sui.U8VectorArg(bets.Symbols),
				sui.U64VectorArg(bets.Amounts),
				sui.SplitResultArg(0),
			},
		},
	}
}

// PlayOutcome is the settled result of one play attempt.
type PlayOutcome struct {
	AttemptID string             `json:"attemptId"`
	Digest    string             `json:"digest"`
	Result    *baucua.GameResult `json:"result,omitempty"`
	Gas       *GasEstimate       `json:"gas,omitempty"`

	// Confirmed reports whether the digest was observed in indexed history
	// before the await budget ran out. False only means the indexer is slow,
	// not that the transaction failed.
	Confirmed bool `json:"confirmed"`
}

// Play runs one complete play attempt: translate bets, estimate gas, check
// affordability, submit the atomic split-and-play transaction, parse the
// outcome event, and wait for the digest to surface in history.
//
// A second Play while one is in flight fails with ErrPlayInFlight. Signer
// rejections propagate unmodified and are never retried.
func (g *GameContract) Play(ctx context.Context, sender string, bets []baucua.Bet) (*PlayOutcome, error) {
	prepared, err := baucua.PrepareBets(bets)
	if err != nil {
		return nil, err
	}

	if !g.transition(StateIdle, StateSubmitting) {
		return nil, ErrPlayInFlight
	}
	defer g.setState(StateIdle)

	attemptID := uuid.New().String()
	logger := g.config.Logger
	logger.Printf("play_start attempt_id=%s sender=%s bets=%d total_mist=%d",
		attemptID, sender, len(bets), prepared.Total)

	estimate := g.EstimateGas(ctx, sender, prepared)

	required := prepared.TotalSui().Add(g.config.GasBufferSui)
	total, _, err := g.TotalBalance(ctx, sender)
	if err != nil {
		return nil, err
	}
	if total.LessThan(required) {
		return nil, &InsufficientBalanceError{Have: total, Need: required}
	}

	intent := g.buildPlayIntent(sender, prepared, estimate.RecommendedBudget)
	result, err := g.signer.SignAndExecute(ctx, intent)
	if err != nil {
		logger.Printf("play_failed attempt_id=%s err=%q", attemptID, err)
		return nil, err
	}

	outcome := &PlayOutcome{
		AttemptID: attemptID,
		Digest:    result.Digest,
		Result:    baucua.ParsePlayResult(result.Events),
		Gas:       estimate,
	}
	logger.Printf("play_executed attempt_id=%s digest=%s has_result=%t",
		attemptID, result.Digest, outcome.Result != nil)

	if g.confirmer != nil {
		g.setState(StateAwaitingConfirmation)
		found, err := g.confirmer.AwaitDigest(ctx, result.Digest)
		if err != nil {
			// The transaction already executed; confirmation trouble must not
			// surface as a play failure.
			logger.Printf("play_confirm_error attempt_id=%s digest=%s err=%q", attemptID, result.Digest, err)
		}
		outcome.Confirmed = found
	}

	return outcome, nil
}
