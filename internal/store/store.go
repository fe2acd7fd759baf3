// Package store persists decoded play activities in SQLite so history
// survives restarts and stays readable during the indexer's propagation lag.
// Rows are immutable once observed: an activity is derived from exactly one
// on-chain transaction, so a duplicate digest is simply ignored.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/baucualabs/baucua-go/internal/baucua"
	_ "modernc.org/sqlite" // pure-Go SQLite driver
)

// Store is a SQLite-backed activity cache.
type Store struct {
	db *sql.DB
}

// Open opens/creates a SQLite database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral store.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1) // SQLite is not concurrent for writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			digest TEXT PRIMARY KEY,
			observed_at TIMESTAMP NOT NULL,
			tx_timestamp TIMESTAMP NOT NULL,
			player TEXT NOT NULL,
			dice TEXT NOT NULL,
			total_bet_mist INTEGER NOT NULL,
			winnings_mist INTEGER NOT NULL,
			is_win INTEGER NOT NULL,
			computation_cost_mist INTEGER NOT NULL,
			storage_cost_mist INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_tx_timestamp ON activities(tx_timestamp DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_activities_player ON activities(player);`,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	for _, q := range stmts {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Upsert stores an activity. Idempotent on digest; re-observing a known
// transaction is a no-op.
func (s *Store) Upsert(ctx context.Context, a *baucua.ContractActivity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activities(
			digest, observed_at, tx_timestamp, player, dice,
			total_bet_mist, winnings_mist, is_win,
			computation_cost_mist, storage_cost_mist
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING`,
		a.Digest, time.Now().UTC(), a.Timestamp.UTC(), a.Player,
		strings.Join(a.Dice, ","),
		int64(baucua.SuiToMist(a.TotalBet)), int64(baucua.SuiToMist(a.Winnings)),
		boolToInt(a.IsWin),
		int64(a.RawGas.ComputationCost), int64(a.RawGas.StorageCost),
	)
	return err
}

// UpsertAll stores a batch of activities in one transaction.
func (s *Store) UpsertAll(ctx context.Context, activities []baucua.ContractActivity) error {
	if len(activities) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO activities(
			digest, observed_at, tx_timestamp, player, dice,
			total_bet_mist, winnings_mist, is_win,
			computation_cost_mist, storage_cost_mist
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(digest) DO NOTHING`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for i := range activities {
		a := &activities[i]
		if _, err := stmt.ExecContext(ctx,
			a.Digest, now, a.Timestamp.UTC(), a.Player,
			strings.Join(a.Dice, ","),
			int64(baucua.SuiToMist(a.TotalBet)), int64(baucua.SuiToMist(a.Winnings)),
			boolToInt(a.IsWin),
			int64(a.RawGas.ComputationCost), int64(a.RawGas.StorageCost),
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// List returns stored activities newest-first, capped at limit.
func (s *Store) List(ctx context.Context, limit int) ([]baucua.ContractActivity, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT digest, tx_timestamp, player, dice,
		       total_bet_mist, winnings_mist, is_win,
		       computation_cost_mist, storage_cost_mist
		FROM activities
		ORDER BY tx_timestamp DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []baucua.ContractActivity
	for rows.Next() {
		var a baucua.ContractActivity
		var dice string
		var totalBet, winnings, computation, storageC int64
		var isWin int
		if err := rows.Scan(&a.Digest, &a.Timestamp, &a.Player, &dice,
			&totalBet, &winnings, &isWin, &computation, &storageC); err != nil {
			return nil, err
		}
		if dice != "" {
			a.Dice = strings.Split(dice, ",")
		} else {
			a.Dice = []string{}
		}
		a.TotalBet = baucua.MistToSui(uint64(totalBet))
		a.Winnings = baucua.MistToSui(uint64(winnings))
		a.IsWin = isWin == 1
		a.RawGas = baucua.GasBreakdown{
			ComputationCost: uint64(computation),
			StorageCost:     uint64(storageC),
			TotalCost:       uint64(computation + storageC),
		}
		a.GasUsed = baucua.MistToSui(a.RawGas.TotalCost)
		out = append(out, a)
	}
	return out, rows.Err()
}

// HasDigest reports whether a transaction has been observed.
func (s *Store) HasDigest(ctx context.Context, digest string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activities WHERE digest = ?`, digest).Scan(&n)
	return n > 0, err
}

// Stats summarizes all stored plays.
type Stats struct {
	Plays        int64           `json:"plays"`
	Wins         int64           `json:"wins"`
	TotalWagered decimal.Decimal `json:"totalWagered"`
	TotalWon     decimal.Decimal `json:"totalWon"`
}

// Stats aggregates play counts and totals across the whole cache.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var plays, wins int64
	var wagered, won sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*), COALESCE(SUM(is_win), 0),
		       SUM(total_bet_mist), SUM(winnings_mist)
		FROM activities`).Scan(&plays, &wins, &wagered, &won)
	if err != nil {
		return nil, err
	}
	return &Stats{
		Plays:        plays,
		Wins:         wins,
		TotalWagered: baucua.MistToSui(uint64(wagered.Int64)),
		TotalWon:     baucua.MistToSui(uint64(won.Int64)),
	}, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
