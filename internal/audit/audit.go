// Package audit emits optimization lifecycle events for traceability in
// manufacturing environments. Emission is fire-and-forget: a failing or
// panicking sink must never affect an optimization run.
package audit

import (
	"context"
	"log/slog"
)

// Event names emitted by the optimization engine.
const (
	EventOptimizationStarted   = "optimization_started"
	EventOptimizationCompleted = "optimization_completed"
	EventOptimizationFailed    = "optimization_failed"
	EventComparisonCompleted   = "comparison_completed"
	EventPlanExported          = "plan_exported"
)

// Sink receives lifecycle events.
type Sink interface {
	Event(ctx context.Context, name string, fields map[string]any)
}

// NopSink discards all events.
type NopSink struct{}

func (NopSink) Event(context.Context, string, map[string]any) {}

// LogSink writes events as structured log records.
type LogSink struct {
	Log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	if log == nil {
		log = slog.Default()
	}
	return &LogSink{Log: log}
}

func (s *LogSink) Event(ctx context.Context, name string, fields map[string]any) {
	attrs := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		attrs = append(attrs, k, v)
	}
	s.Log.InfoContext(ctx, name, attrs...)
}

// Emit sends an event through the sink, swallowing panics. A nil sink is a
// no-op.
func Emit(ctx context.Context, sink Sink, name string, fields map[string]any) {
	if sink == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	sink.Event(ctx, name, fields)
}
