// Package observe provides the logging, metrics, and tracing shared by the
// calculator and game programs.
//
// Logging uses slog. Metrics and tracing use OpenTelemetry through the
// global providers, so they cost nothing until a program installs real
// ones. Every helper accepts a nil logger.
package observe

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// NewLogger creates a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// ParseLevel parses a level name: debug, info, warn, or error. The empty
// string is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// LogEval logs the outcome of evaluating an expression.
func LogEval(logger *slog.Logger, src string, result string, err error, durationMs float64) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Debug("evaluation failed",
			slog.String("expr", src),
			slog.String("error", err.Error()),
			slog.Float64("duration_ms", durationMs),
		)
		return
	}
	logger.Debug("evaluated",
		slog.String("expr", src),
		slog.String("result", result),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogKey logs a key press on a calculator keypad.
func LogKey(logger *slog.Logger, key, display string) {
	if logger == nil {
		return
	}
	logger.Debug("key pressed",
		slog.String("key", key),
		slog.String("display", display),
	)
}

// LogSessionStart logs the start of a game session.
func LogSessionStart(logger *slog.Logger, sessionID string) {
	if logger == nil {
		return
	}
	logger.Info("game session starting",
		slog.String("session_id", sessionID),
	)
}

// LogSessionEnd logs the end of a game session with the final score.
func LogSessionEnd(logger *slog.Logger, sessionID string, rounds, player, computer int) {
	if logger == nil {
		return
	}
	logger.Info("game session ended",
		slog.String("session_id", sessionID),
		slog.Int("rounds", rounds),
		slog.Int("player_score", player),
		slog.Int("computer_score", computer),
	)
}

// LogRound logs one round of a game.
func LogRound(logger *slog.Logger, sessionID string, round int, player, computer, outcome string) {
	if logger == nil {
		return
	}
	logger.Debug("round played",
		slog.String("session_id", sessionID),
		slog.Int("round", round),
		slog.String("player", player),
		slog.String("computer", computer),
		slog.String("outcome", outcome),
	)
}

// LogHistoryError logs a failure to record game history. It is not fatal to
// the game.
func LogHistoryError(logger *slog.Logger, sessionID string, op string, err error) {
	if logger == nil {
		return
	}
	logger.Warn("history failed",
		slog.String("session_id", sessionID),
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
