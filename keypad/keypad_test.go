package keypad_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zephyrtronium/calc"
	"github.com/zephyrtronium/calc/keypad"
)

// press presses each key in turn and returns the last display and error.
func press(t *testing.T, k *keypad.Keypad, keys ...string) (string, error) {
	t.Helper()
	var (
		display string
		err     error
	)
	for _, key := range keys {
		display, err = k.Press(context.Background(), key)
	}
	return display, err
}

type recorded struct {
	results   []string
	durations []time.Duration
}

func (r *recorded) RecordEvaluation(_ context.Context, result string, d time.Duration) {
	r.results = append(r.results, result)
	r.durations = append(r.durations, d)
}

func (r *recorded) RecordRound(context.Context, string) {}

func TestPressAppends(t *testing.T) {
	k := keypad.New()
	display, err := press(t, k, "1", "2", "+", "3")
	require.NoError(t, err)
	assert.Equal(t, "12+3", display)
	assert.Equal(t, "12+3", k.Display())
}

func TestPressEquals(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"add", []string{"2", "+", "3", "="}, "5"},
		{"precedence", []string{"2", "+", "3", "×", "4", "="}, "14"},
		{"divide", []string{"7", "÷", "2", "="}, "3.5"},
		{"third", []string{"1", "÷", "3", "="}, "0.3333333333333333"},
		{"ascii ops", []string{"6", "*", "7", "="}, "42"},
		{"negative", []string{"2", "-", "9", "="}, "-7"},
		{"multidigit key", []string{"12", "×", "12", "="}, "144"},
		{"chain", []string{"2", "+", "3", "=", "×", "4", "="}, "20"},
		{"chain negative", []string{"1", "-", "4", "=", "-", "2", "="}, "-5"},
		{"large", []string{"9", "9", "9", "9", "9", "9", "9", "9", "×", "9", "9", "9", "9", "9", "9", "9", "9", "9", "="}, "9.99999989e+16"},
		{"chain large", []string{"1", "0", "**", "2", "0", "=", "+", "1", "="}, "1e+20"},
		{"repeat equals", []string{"4", "=", "="}, "4"},
		{"power of one", []string{"7", "**", "1", "="}, "7"},
		{"chain power of one", []string{"3", "**", "2", "=", "**", "1", "="}, "9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := keypad.New()
			display, err := press(t, k, tt.keys...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, display)
			assert.Equal(t, tt.want, k.Display())
		})
	}
}

func TestPressClear(t *testing.T) {
	k := keypad.New()
	display, err := press(t, k, "1", "+", keypad.KeyClear)
	require.NoError(t, err)
	assert.Empty(t, display)
	display, err = press(t, k, "8", keypad.KeyEquals)
	require.NoError(t, err)
	assert.Equal(t, "8", display)

	k.Clear()
	assert.Empty(t, k.Display())
}

func TestPressError(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		kind calc.Kind
	}{
		{"divide by zero", []string{"7", "÷", "0", "="}, calc.ArithmeticFault},
		{"trailing operator", []string{"7", "+", "="}, calc.SyntaxError},
		{"empty", []string{"="}, calc.SyntaxError},
		{"two operators", []string{"7", "×", "÷", "2", "="}, calc.SyntaxError},
		{"name", []string{"x", "="}, calc.UnsupportedConstruct},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := keypad.New()
			display, err := press(t, k, tt.keys...)
			require.Error(t, err)
			assert.Equal(t, tt.kind, calc.KindOf(err))
			assert.Empty(t, display)
			assert.Empty(t, k.Display(), "state should clear after an error")

			// The keypad keeps working.
			display, err = press(t, k, "1", "+", "1", "=")
			require.NoError(t, err)
			assert.Equal(t, "2", display)
		})
	}
}

func TestLayout(t *testing.T) {
	k := keypad.New()
	seen := map[string]bool{}
	for _, row := range keypad.Layout {
		for _, key := range row {
			seen[key] = true
		}
	}
	for _, key := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "+", "-", "×", "÷", keypad.KeyEquals, keypad.KeyClear} {
		assert.True(t, seen[key], "layout is missing %q", key)
	}
	// Every layout expression evaluates.
	display, err := press(t, k, "9", "÷", "3", "×", "2", "-", "1", "+", "0", keypad.KeyEquals)
	require.NoError(t, err)
	assert.Equal(t, "5", display)
}

func TestRecorder(t *testing.T) {
	rec := &recorded{}
	k := keypad.New(keypad.WithRecorder(rec))
	_, err := press(t, k, "1", "+", "1", "=")
	require.NoError(t, err)
	_, err = press(t, k, "÷", "0", "=")
	require.Error(t, err)
	_, err = press(t, k, "y", "=")
	require.Error(t, err)
	assert.Equal(t, []string{"ok", "ArithmeticFault", "UnsupportedConstruct"}, rec.results)
	require.Len(t, rec.durations, 3)
	for _, d := range rec.durations {
		assert.GreaterOrEqual(t, d, time.Duration(0))
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	k := keypad.New(keypad.WithLogger(logger))
	_, err := press(t, k, "6", "×", "7", "=")
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "key pressed")
	assert.Contains(t, out, `expr=6×7`)
	assert.Contains(t, out, "result=42")
	assert.Contains(t, out, "duration_ms=")
}

func TestParseOptions(t *testing.T) {
	k := keypad.New(keypad.WithParseOptions(calc.MaxDepth(2)))
	_, err := press(t, k, "-", "(", "1", ")", "=")
	var derr *calc.DepthError
	assert.True(t, errors.As(err, &derr), "want depth error, got %v", err)

	display, err := press(t, k, "1", "+", "2", "=")
	require.NoError(t, err)
	assert.Equal(t, "3", display)
	assert.False(t, strings.Contains(display, "("))
}
