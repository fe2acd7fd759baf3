// Package history maintains an eventually-consistent view of past play
// transactions. The indexer lags transaction finality by several seconds, so
// a just-submitted digest is confirmed by bounded re-polling rather than a
// single query.
package history

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/baucualabs/baucua-go/internal/baucua"
	"github.com/baucualabs/baucua-go/internal/sui"
)

// ErrAwaitInFlight is returned when AwaitDigest is called while a previous
// await is still polling. Two interleaved confirmation loops against the
// same history would race each other's snapshots.
var ErrAwaitInFlight = errors.New("history: a digest await is already in flight")

// TransactionQuerier is the slice of the chain client the poller needs.
// *sui.Client satisfies it.
type TransactionQuerier interface {
	QueryTransactionBlocks(ctx context.Context, filter sui.MoveFunctionFilter, limit int) ([]sui.TransactionBlock, error)
}

// ActivitySink receives every refreshed snapshot for persistence.
// *store.Store satisfies it.
type ActivitySink interface {
	UpsertAll(ctx context.Context, activities []baucua.ContractActivity) error
}

// State is the poller lifecycle.
type State int32

const (
	// StateIdle means no query has run yet.
	StateIdle State = iota
	// StateLoading means a refresh is executing.
	StateLoading
	// StateAwaitingDigest means a bounded confirmation loop is polling.
	StateAwaitingDigest
	// StateSettled means the last refresh finished (with or without error).
	StateSettled
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAwaitingDigest:
		return "awaiting-digest"
	case StateSettled:
		return "settled"
	default:
		return "idle"
	}
}

// Config holds configuration for the poller.
type Config struct {
	// Filter selects the contract's play entry point.
	Filter sui.MoveFunctionFilter

	// Limit is the default page size for refreshes. Defaults to 20 if zero.
	Limit int

	// AwaitAttempts bounds the confirmation loop. Defaults to 12 if zero.
	// Together with AwaitInterval this gives the indexer ~18s to catch up,
	// which covers the propagation lag observed on public fullnodes.
	AwaitAttempts int

	// AwaitInterval is the spacing between confirmation polls.
	// Defaults to 1500ms if zero.
	AwaitInterval time.Duration

	// Logger receives key=value diagnostics. Defaults to log.Default().
	Logger *log.Logger
}

func (c Config) withDefaults() Config {
	if c.Limit == 0 {
		c.Limit = 20
	}
	if c.AwaitAttempts == 0 {
		c.AwaitAttempts = 12
	}
	if c.AwaitInterval == 0 {
		c.AwaitInterval = 1500 * time.Millisecond
	}
	if c.Logger == nil {
		c.Logger = log.Default()
	}
	return c
}

// Poller queries and caches play history. Safe for concurrent use.
type Poller struct {
	config Config
	client TransactionQuerier
	sink   ActivitySink // optional

	mu         sync.Mutex
	state      State
	awaiting   bool
	seq        uint64 // last issued refresh sequence number
	applied    uint64 // sequence number of the applied snapshot
	activities []baucua.ContractActivity
	lastErr    error
}

// New creates a poller. sink may be nil to disable persistence.
func New(cfg Config, client TransactionQuerier, sink ActivitySink) *Poller {
	return &Poller{
		config: cfg.withDefaults(),
		client: client,
		sink:   sink,
	}
}

// Snapshot returns the current activities, state, and last refresh error.
// A failed refresh never clears previously loaded history.
func (p *Poller) Snapshot() ([]baucua.ContractActivity, State, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]baucua.ContractActivity, len(p.activities))
	copy(out, p.activities)
	return out, p.state, p.lastErr
}

// Refresh queries the latest play transactions and swaps in the decoded
// snapshot. Overlapping refreshes are sequenced: a slow stale response is
// discarded instead of overwriting a newer one.
func (p *Poller) Refresh(ctx context.Context, limit int) ([]baucua.ContractActivity, error) {
	if limit <= 0 {
		limit = p.config.Limit
	}

	p.mu.Lock()
	p.seq++
	seq := p.seq
	if p.state != StateAwaitingDigest {
		p.state = StateLoading
	}
	p.mu.Unlock()

	activities, err := p.fetch(ctx, limit)
	return p.apply(ctx, seq, activities, err)
}

func (p *Poller) fetch(ctx context.Context, limit int) ([]baucua.ContractActivity, error) {
	txs, err := p.client.QueryTransactionBlocks(ctx, p.config.Filter, limit)
	if err != nil {
		return nil, err
	}
	return baucua.DecodeActivities(txs), nil
}

// apply installs a fetch result if it is still the freshest, and persists it.
func (p *Poller) apply(ctx context.Context, seq uint64, activities []baucua.ContractActivity, err error) ([]baucua.ContractActivity, error) {
	p.mu.Lock()
	applied := p.applied
	stale := seq < applied
	if !stale {
		p.applied = seq
		if err != nil {
			p.lastErr = err
		} else {
			p.activities = activities
			p.lastErr = nil
		}
		if p.state != StateAwaitingDigest {
			p.state = StateSettled
		}
	}
	p.mu.Unlock()

	if stale {
		p.config.Logger.Printf("history_refresh_stale seq=%d applied_seq=%d", seq, applied)
		return activities, err
	}
	if err != nil {
		p.config.Logger.Printf("history_refresh_failed seq=%d err=%q", seq, err)
		return nil, err
	}

	if p.sink != nil && len(activities) > 0 {
		if serr := p.sink.UpsertAll(ctx, activities); serr != nil {
			p.config.Logger.Printf("history_persist_failed count=%d err=%q", len(activities), serr)
		}
	}
	return activities, nil
}

// AwaitDigest polls until the digest shows up in the freshest page or the
// attempt budget runs out. Every attempt updates the shared snapshot, so
// readers see the newest data while the loop runs. Returns (false, nil) on
// exhaustion: an unseen digest usually just needs more time, it is not an
// error. Only one await may run at a time.
func (p *Poller) AwaitDigest(ctx context.Context, digest string) (bool, error) {
	p.mu.Lock()
	if p.awaiting {
		p.mu.Unlock()
		return false, ErrAwaitInFlight
	}
	p.awaiting = true
	p.state = StateAwaitingDigest
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.awaiting = false
		p.state = StateSettled
		p.mu.Unlock()
	}()

	for attempt := 1; attempt <= p.config.AwaitAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-time.After(p.config.AwaitInterval):
			case <-ctx.Done():
				return false, ctx.Err()
			}
		}

		p.mu.Lock()
		p.seq++
		seq := p.seq
		p.mu.Unlock()

		page, err := p.fetch(ctx, p.config.Limit)
		page, err = p.apply(ctx, seq, page, err)
		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}
			// Transient query failure burns the attempt but not the loop.
			continue
		}

		for i := range page {
			if page[i].Digest == digest {
				p.config.Logger.Printf("history_digest_found digest=%s attempt=%d", digest, attempt)
				return true, nil
			}
		}
	}

	p.config.Logger.Printf("history_digest_timeout digest=%s attempts=%d", digest, p.config.AwaitAttempts)
	return false, nil
}
