package rps

// Round is one played round.
type Round struct {
	// Number counts rounds from 1 since the game was created or reset.
	Number   int
	Player   Choice
	Computer Choice
	Outcome  Outcome
}

// Score is the running tally of a game.
type Score struct {
	Player   int
	Computer int
	Ties     int
}

// Rounds returns the number of rounds the score covers.
func (s Score) Rounds() int {
	return s.Player + s.Computer + s.Ties
}

// Game keeps score across rounds. A Game is not safe for concurrent use.
type Game struct {
	picker Picker
	score  Score
}

// NewGame creates a game in which the computer's hands come from picker.
func NewGame(picker Picker) *Game {
	if picker == nil {
		picker = NewRandomPicker(nil)
	}
	return &Game{picker: picker}
}

// Play plays one round with the player's choice.
func (g *Game) Play(player Choice) Round {
	computer := g.picker.Pick()
	o := Decide(player, computer)
	switch o {
	case Tie:
		g.score.Ties++
	case PlayerWin:
		g.score.Player++
	case ComputerWin:
		g.score.Computer++
	}
	return Round{
		Number:   g.score.Rounds(),
		Player:   player,
		Computer: computer,
		Outcome:  o,
	}
}

// Score returns the current score.
func (g *Game) Score() Score {
	return g.score
}

// Reset zeroes the score.
func (g *Game) Reset() {
	g.score = Score{}
}
