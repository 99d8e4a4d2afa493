package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists history to SQLite.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore opens or creates a history database.
// The path should be a file path (e.g., "./rps.db") or ":memory:" for testing.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection to ":memory:" is a separate database.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS rounds (
			session_id TEXT NOT NULL,
			round INTEGER NOT NULL,
			player TEXT NOT NULL,
			computer TEXT NOT NULL,
			outcome TEXT NOT NULL,
			played_at TEXT NOT NULL,
			PRIMARY KEY (session_id, round)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_rounds_outcome
		ON rounds(outcome)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store. Appending a round number that the session
// already has replaces it.
func (s *SQLiteStore) Append(ctx context.Context, r Record) error {
	if err := validate(r); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if r.PlayedAt.IsZero() {
		r.PlayedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rounds (session_id, round, player, computer, outcome, played_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id, round) DO UPDATE SET
			player = excluded.player,
			computer = excluded.computer,
			outcome = excluded.outcome,
			played_at = excluded.played_at
	`, r.SessionID, r.Round, r.Player, r.Computer, r.Outcome, r.PlayedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("append round: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, sessionID string) ([]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT round, player, computer, outcome, played_at
		FROM rounds
		WHERE session_id = ?
		ORDER BY round
	`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r := Record{SessionID: sessionID}
		var playedAt string
		if err := rows.Scan(&r.Round, &r.Player, &r.Computer, &r.Outcome, &playedAt); err != nil {
			return nil, fmt.Errorf("scan round: %w", err)
		}
		at, err := time.Parse(time.RFC3339Nano, playedAt)
		if err != nil {
			return nil, fmt.Errorf("parse played_at: %w", err)
		}
		r.PlayedAt = at
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rounds: %w", err)
	}
	return records, nil
}

// Totals implements Store.
func (s *SQLiteStore) Totals(ctx context.Context, sessionID string) (Totals, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Totals{}, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT outcome, COUNT(*)
		FROM rounds
		WHERE ? = '' OR session_id = ?
		GROUP BY outcome
	`, sessionID, sessionID)
	if err != nil {
		return Totals{}, fmt.Errorf("count rounds: %w", err)
	}
	defer rows.Close()

	var t Totals
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return Totals{}, fmt.Errorf("scan count: %w", err)
		}
		t.Rounds += n
		switch outcome {
		case OutcomeTie:
			t.Ties += n
		case OutcomePlayerWin:
			t.PlayerWins += n
		case OutcomeComputerWin:
			t.ComputerWins += n
		}
	}
	if err := rows.Err(); err != nil {
		return Totals{}, fmt.Errorf("iterate counts: %w", err)
	}
	return t, nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}
