package rps

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/zephyrtronium/calc/internal/observe"
	"github.com/zephyrtronium/calc/rps/history"
)

// Prompt is printed before reading each line of input.
const Prompt = "Enter rock (r), paper (p), scissors (s) or quit to exit: "

// Session is an interactive game on a text stream.
type Session struct {
	// ID identifies the session in logs, traces, and history.
	ID string

	game   *Game
	played int
	emoji  bool
	store  history.Store
	logger *slog.Logger
	rec    observe.Recorder
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithEmoji shows choices as pictures and announces outcomes with them.
func WithEmoji(emoji bool) SessionOption {
	return func(s *Session) {
		s.emoji = emoji
	}
}

// WithHistory appends every round to store.
func WithHistory(store history.Store) SessionOption {
	return func(s *Session) {
		s.store = store
	}
}

// WithLogger logs the session to logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithRecorder records round metrics to rec.
func WithRecorder(rec observe.Recorder) SessionOption {
	return func(s *Session) {
		s.rec = rec
	}
}

// WithSessionID sets the session ID instead of generating one.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.ID = id
	}
}

// NewSession creates a session in which the computer's hands come from
// picker.
func NewSession(picker Picker, opts ...SessionOption) *Session {
	s := &Session{
		game: NewGame(picker),
		rec:  observe.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return s
}

// Score returns the current score.
func (s *Session) Score() Score {
	return s.game.Score()
}

// Run plays rounds from lines of in until the player quits, in ends, or ctx
// is canceled. Besides a choice, the player may enter "quit", "reset" to
// zero the score, or "stats" to show totals across every recorded session.
// Failures to record history are logged and do not end the game. Run
// returns an error only if ctx is canceled or in or out fails.
func (s *Session) Run(ctx context.Context, in io.Reader, out io.Writer) (err error) {
	ctx, span := observe.StartSessionSpan(ctx, s.ID)
	defer func() { observe.EndSpanWithError(span, err) }()
	observe.LogSessionStart(s.logger, s.ID)
	defer func() {
		sc := s.game.Score()
		observe.LogSessionEnd(s.logger, s.ID, s.played, sc.Player, sc.Computer)
	}()

	w := bufio.NewWriter(out)
	defer func() {
		if ferr := w.Flush(); err == nil {
			err = ferr
		}
	}()
	lines := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(w, Prompt)
		if err := w.Flush(); err != nil {
			return err
		}
		if !lines.Scan() {
			if err := lines.Err(); err != nil {
				return fmt.Errorf("reading input: %w", err)
			}
			fmt.Fprintln(w)
			fmt.Fprintln(w, "Thanks for playing!")
			return nil
		}
		cmd := strings.ToLower(strings.TrimSpace(lines.Text()))
		switch cmd {
		case "quit":
			fmt.Fprintln(w, "Thanks for playing!")
			return nil
		case "reset":
			s.game.Reset()
			observe.AddSpanEvent(ctx, "reset")
			if s.emoji {
				fmt.Fprintln(w, "Game Reset! Good luck! 🍀")
			} else {
				fmt.Fprintln(w, "Game Reset! Good luck!")
			}
			s.printScore(w)
			continue
		case "stats":
			s.printStats(ctx, w)
			continue
		}
		c, perr := ParseChoice(cmd)
		if perr != nil {
			fmt.Fprintln(w, "Invalid choice. Please try again.")
			continue
		}
		r := s.play(ctx, c)
		fmt.Fprintf(w, "Computer chose: %v\n", r.Computer)
		if s.emoji {
			fmt.Fprintf(w, "%s VS %s\n", r.Player.Emoji(), r.Computer.Emoji())
			fmt.Fprintln(w, r.Outcome.EmojiMessage())
		} else {
			fmt.Fprintln(w, r.Outcome.Message())
		}
		s.printScore(w)
	}
}

// play plays and records one round.
func (s *Session) play(ctx context.Context, c Choice) Round {
	s.played++
	ctx, span := observe.StartRoundSpan(ctx, s.played)
	r := s.game.Play(c)
	span.SetAttributes(
		attribute.String("player", r.Player.String()),
		attribute.String("computer", r.Computer.String()),
		attribute.String("outcome", r.Outcome.String()),
	)
	s.rec.RecordRound(ctx, r.Outcome.String())
	observe.LogRound(s.logger, s.ID, s.played, r.Player.String(), r.Computer.String(), r.Outcome.String())

	var err error
	if s.store != nil {
		err = s.store.Append(ctx, history.Record{
			SessionID: s.ID,
			Round:     s.played,
			Player:    r.Player.String(),
			Computer:  r.Computer.String(),
			Outcome:   r.Outcome.String(),
			PlayedAt:  time.Now(),
		})
		if err != nil {
			observe.LogHistoryError(s.logger, s.ID, "append", err)
		}
	}
	observe.EndSpanWithError(span, err)
	return r
}

func (s *Session) printScore(w io.Writer) {
	sc := s.game.Score()
	fmt.Fprintf(w, "Score - You: %d, Computer: %d\n", sc.Player, sc.Computer)
	fmt.Fprintln(w, strings.Repeat("-", 20))
}

func (s *Session) printStats(ctx context.Context, w io.Writer) {
	if s.store == nil {
		fmt.Fprintln(w, "No history is being kept.")
		return
	}
	t, err := s.store.Totals(ctx, "")
	if err != nil {
		observe.LogHistoryError(s.logger, s.ID, "totals", err)
		fmt.Fprintln(w, "History is unavailable.")
		return
	}
	fmt.Fprintf(w, "All games - Rounds: %d, You: %d, Computer: %d, Ties: %d\n",
		t.Rounds, t.PlayerWins, t.ComputerWins, t.Ties)
}
