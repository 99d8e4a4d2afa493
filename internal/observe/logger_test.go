package observe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testHandler captures log records as JSON lines.
type testHandler struct {
	buf   *bytes.Buffer
	level slog.Level
}

func newTestHandler() *testHandler {
	return &testHandler{
		buf:   &bytes.Buffer{},
		level: slog.LevelDebug,
	}
}

func (h *testHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *testHandler) Handle(_ context.Context, r slog.Record) error {
	data := map[string]any{
		"level": r.Level.String(),
		"msg":   r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		data[a.Key] = a.Value.Any()
		return true
	})
	return json.NewEncoder(h.buf).Encode(data)
}

func (h *testHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }
func (h *testHandler) WithGroup(_ string) slog.Handler      { return h }

// lastEntry decodes the last logged record.
func (h *testHandler) lastEntry(t *testing.T) map[string]any {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(h.buf.String()), "\n")
	require.NotEmpty(t, lines)
	var data map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &data))
	return data
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"info", slog.LevelInfo},
		{"DEBUG", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, c := range cases {
		got, err := ParseLevel(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, got, c.in)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "warn")
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown", slog.String("k", "v"))
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "k=v")

	_, err = NewLogger(&buf, "nope")
	assert.Error(t, err)
}

func TestLogEval(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogEval(logger, "1+1", "2", nil, 0.5)
	e := h.lastEntry(t)
	assert.Equal(t, "evaluated", e["msg"])
	assert.Equal(t, "1+1", e["expr"])
	assert.Equal(t, "2", e["result"])

	LogEval(logger, "7/0", "", errors.New("division by zero"), 0.1)
	e = h.lastEntry(t)
	assert.Equal(t, "evaluation failed", e["msg"])
	assert.Equal(t, "division by zero", e["error"])
}

func TestLogRoundAndSession(t *testing.T) {
	h := newTestHandler()
	logger := slog.New(h)

	LogSessionStart(logger, "s1")
	e := h.lastEntry(t)
	assert.Equal(t, "INFO", e["level"])
	assert.Equal(t, "s1", e["session_id"])

	LogRound(logger, "s1", 3, "rock", "paper", "computer_win")
	e = h.lastEntry(t)
	assert.Equal(t, "round played", e["msg"])
	assert.Equal(t, float64(3), e["round"])
	assert.Equal(t, "computer_win", e["outcome"])

	LogSessionEnd(logger, "s1", 3, 1, 2)
	e = h.lastEntry(t)
	assert.Equal(t, float64(2), e["computer_score"])

	LogHistoryError(logger, "s1", "append", errors.New("disk full"))
	e = h.lastEntry(t)
	assert.Equal(t, "WARN", e["level"])
	assert.Equal(t, "append", e["operation"])

	LogKey(logger, "7", "17")
	e = h.lastEntry(t)
	assert.Equal(t, "17", e["display"])
}

func TestNilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		LogEval(nil, "1", "1", nil, 0)
		LogKey(nil, "1", "1")
		LogSessionStart(nil, "s")
		LogSessionEnd(nil, "s", 0, 0, 0)
		LogRound(nil, "s", 1, "rock", "rock", "tie")
		LogHistoryError(nil, "s", "append", errors.New("x"))
	})
}

func TestTimedOperation(t *testing.T) {
	done := TimedOperation()
	assert.GreaterOrEqual(t, done(), 0.0)
}
