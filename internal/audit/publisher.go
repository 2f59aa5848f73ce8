package audit

import (
	"context"
	"log/slog"
	"time"
)

// Publisher fans audit records out to the configured sinks. Audit is
// best-effort relative to the safety decision: a sink failure is logged to
// the fallback channel and never blocks or fails the governed invocation, so
// Emit returns nothing.
type Publisher struct {
	sinks    []Sink
	fallback *slog.Logger
}

// NewPublisher constructs a Publisher. A nil fallback logger defaults to the
// process logger.
func NewPublisher(fallback *slog.Logger, sinks ...Sink) *Publisher {
	if fallback == nil {
		fallback = slog.Default()
	}
	active := make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			active = append(active, s)
		}
	}
	return &Publisher{sinks: active, fallback: fallback}
}

// Emit appends one record to every sink.
func (p *Publisher) Emit(ctx context.Context, record Record) {
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}
	for _, sink := range p.sinks {
		if err := sink.Append(ctx, record); err != nil {
			p.fallback.ErrorContext(ctx, "audit sink append failed",
				"invocation_id", record.InvocationID,
				"action", record.Action,
				"state", string(record.State),
				"error", err,
				"log_type", "audit_fallback",
			)
		}
	}
}
