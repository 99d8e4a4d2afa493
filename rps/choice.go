// Package rps plays Rock-Paper-Scissors against the computer.
package rps

import (
	"errors"
	"fmt"
	"strings"
)

// Choice is a hand shape. The zero value is not a valid choice.
type Choice int8

const (
	Rock Choice = 1 + iota
	Paper
	Scissors
)

// ErrInvalidChoice is wrapped by errors from ParseChoice.
var ErrInvalidChoice = errors.New("invalid choice")

// beats maps each choice to the one it defeats.
var beats = map[Choice]Choice{
	Rock:     Scissors,
	Paper:    Rock,
	Scissors: Paper,
}

// Choices returns the valid choices in order.
func Choices() []Choice {
	return []Choice{Rock, Paper, Scissors}
}

// Valid reports whether c is Rock, Paper, or Scissors.
func (c Choice) Valid() bool {
	return Rock <= c && c <= Scissors
}

// String returns the lowercase name of the choice, which is how players type
// it.
func (c Choice) String() string {
	switch c {
	case Rock:
		return "rock"
	case Paper:
		return "paper"
	case Scissors:
		return "scissors"
	default:
		return fmt.Sprintf("Choice(%d)", int8(c))
	}
}

// Title returns the capitalized name of the choice.
func (c Choice) Title() string {
	switch c {
	case Rock:
		return "Rock"
	case Paper:
		return "Paper"
	case Scissors:
		return "Scissors"
	default:
		return c.String()
	}
}

// Emoji returns the picture of the choice, or "?" for an invalid one.
func (c Choice) Emoji() string {
	switch c {
	case Rock:
		return "🪨"
	case Paper:
		return "📄"
	case Scissors:
		return "✂️"
	default:
		return "?"
	}
}

// ParseChoice parses a player's input. It accepts the name of a choice or
// its first letter, ignoring case and surrounding space.
func ParseChoice(s string) (Choice, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, nil
	case "paper", "p":
		return Paper, nil
	case "scissors", "s":
		return Scissors, nil
	default:
		return 0, fmt.Errorf("%w %q", ErrInvalidChoice, s)
	}
}
