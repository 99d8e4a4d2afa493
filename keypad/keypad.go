// Package keypad models a calculator's button input. Keys accumulate into an
// expression that the = key evaluates, and the result becomes the start of
// the next expression.
package keypad

import (
	"context"
	"log/slog"
	"time"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/internal/observe"
)

// Special keys. Every other key is appended to the expression as-is.
const (
	// KeyEquals evaluates the expression.
	KeyEquals = "="
	// KeyClear discards the expression.
	KeyClear = "C"
)

// Layout is the button grid of the calculator, in rows.
var Layout = [4][4]string{
	{"7", "8", "9", "+"},
	{"4", "5", "6", "-"},
	{"1", "2", "3", "×"},
	{"0", KeyEquals, KeyClear, "÷"},
}

// Keypad is a calculator's input state. A Keypad is not safe for concurrent
// use.
type Keypad struct {
	expr   string
	logger *slog.Logger
	rec    observe.Recorder
	opts   []calc.ParseOption
}

// Option configures a Keypad.
type Option func(*Keypad)

// WithLogger logs key presses and evaluations to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(k *Keypad) {
		k.logger = logger
	}
}

// WithRecorder records evaluation metrics to rec.
func WithRecorder(rec observe.Recorder) Option {
	return func(k *Keypad) {
		k.rec = rec
	}
}

// WithParseOptions sets the options used to parse expressions.
func WithParseOptions(opts ...calc.ParseOption) Option {
	return func(k *Keypad) {
		k.opts = opts
	}
}

// New creates an empty keypad.
func New(opts ...Option) *Keypad {
	k := &Keypad{rec: observe.NoopRecorder{}}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// Press handles a key press and returns the new display text. If the key is
// KeyEquals and the expression fails to evaluate, the keypad is cleared and the
// error is returned; it is a calc error classified by calc.KindOf.
func (k *Keypad) Press(ctx context.Context, key string) (string, error) {
	switch key {
	case KeyEquals:
		r, err := k.eval(ctx)
		if err != nil {
			k.expr = ""
			return "", err
		}
		k.expr = calc.Format(r)
	case KeyClear:
		k.expr = ""
	default:
		k.expr += key
	}
	observe.LogKey(k.logger, key, k.expr)
	return k.expr, nil
}

// Display returns the current display text.
func (k *Keypad) Display() string {
	return k.expr
}

// Clear empties the keypad, as if by pressing KeyClear.
func (k *Keypad) Clear() {
	k.expr = ""
}

func (k *Keypad) eval(ctx context.Context) (float64, error) {
	elapsed := observe.TimedOperation()
	ctx, span := observe.StartEvalSpan(ctx, k.expr)
	r, err := calc.EvalString(k.expr, k.opts...)
	observe.EndSpanWithError(span, err)
	ms := elapsed()

	result := "ok"
	if err != nil {
		result = calc.KindOf(err).String()
	}
	k.rec.RecordEvaluation(ctx, result, time.Duration(ms*float64(time.Millisecond)))
	observe.LogEval(k.logger, k.expr, calc.Format(r), err, ms)
	return r, err
}
