package observe

import (
	"context"
	"time"
)

// NoopRecorder is a Recorder that does nothing.
type NoopRecorder struct{}

var _ Recorder = NoopRecorder{}

// RecordEvaluation does nothing.
func (NoopRecorder) RecordEvaluation(_ context.Context, _ string, _ time.Duration) {}

// RecordRound does nothing.
func (NoopRecorder) RecordRound(_ context.Context, _ string) {}
