// Package history records played game rounds so that scores survive the
// process.
package history

import (
	"context"
	"errors"
	"time"
)

// Store persists game rounds.
// Implementations must be safe for concurrent use.
type Store interface {
	// Append records one round.
	Append(ctx context.Context, r Record) error

	// List returns the rounds of a session in the order they were played.
	// Returns nil (not an error) if the session has no rounds.
	List(ctx context.Context, sessionID string) ([]Record, error)

	// Totals summarizes the rounds of a session, or of every session if
	// sessionID is empty.
	Totals(ctx context.Context, sessionID string) (Totals, error)

	// Close releases any resources (connections, files).
	Close() error
}

// Record is one played round. Choices and outcomes are stored by name so
// that the history does not depend on the game's types.
type Record struct {
	SessionID string
	Round     int
	Player    string
	Computer  string
	// Outcome is one of OutcomeTie, OutcomePlayerWin, or OutcomeComputerWin.
	Outcome  string
	PlayedAt time.Time
}

// Outcome names as stored in records.
const (
	OutcomeTie         = "tie"
	OutcomePlayerWin   = "player_win"
	OutcomeComputerWin = "computer_win"
)

// Totals counts rounds by outcome.
type Totals struct {
	Rounds       int
	PlayerWins   int
	ComputerWins int
	Ties         int
}

func (t *Totals) add(outcome string) {
	t.Rounds++
	switch outcome {
	case OutcomeTie:
		t.Ties++
	case OutcomePlayerWin:
		t.PlayerWins++
	case OutcomeComputerWin:
		t.ComputerWins++
	}
}

// Sentinel errors for history operations.
var (
	// ErrStoreClosed indicates the store has been closed.
	ErrStoreClosed = errors.New("history store closed")

	// ErrInvalidRecord indicates a record without a session ID or with a
	// round number less than 1.
	ErrInvalidRecord = errors.New("invalid history record")
)

func validate(r Record) error {
	if r.SessionID == "" || r.Round < 1 {
		return ErrInvalidRecord
	}
	return nil
}
