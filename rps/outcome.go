package rps

import (
	"fmt"

	"github.com/zephyrtronium/calc/rps/history"
)

// Outcome is the result of a round.
type Outcome int8

const (
	Tie Outcome = iota
	PlayerWin
	ComputerWin
)

// String returns the name of the outcome as used in logs, metrics, and
// history records.
func (o Outcome) String() string {
	switch o {
	case Tie:
		return history.OutcomeTie
	case PlayerWin:
		return history.OutcomePlayerWin
	case ComputerWin:
		return history.OutcomeComputerWin
	default:
		return fmt.Sprintf("Outcome(%d)", int8(o))
	}
}

// Message returns the announcement of the outcome.
func (o Outcome) Message() string {
	switch o {
	case Tie:
		return "It's a tie!"
	case PlayerWin:
		return "You win!"
	case ComputerWin:
		return "Computer wins!"
	default:
		return o.String()
	}
}

// EmojiMessage returns the announcement of the outcome with a picture.
func (o Outcome) EmojiMessage() string {
	switch o {
	case Tie:
		return "It's a tie! 🤝"
	case PlayerWin:
		return "You win! 🎉"
	case ComputerWin:
		return "Computer wins! 🤖"
	default:
		return o.String()
	}
}

// Decide decides a round. The player wins only with a valid choice that
// beats the computer's; any other unequal pair is a win for the computer.
func Decide(player, computer Choice) Outcome {
	switch {
	case player == computer:
		return Tie
	case player.Valid() && beats[player] == computer:
		return PlayerWin
	default:
		return ComputerWin
	}
}
