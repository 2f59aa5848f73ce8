package audit

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// Worker consumes audit records from a channel and persists them, keeping
// sink latency off the invocation path. Append failures are logged and
// skipped: the trail is best-effort, the decision already happened.
type Worker struct {
	sink   Sink
	inbox  <-chan Record
	logger *slog.Logger
}

func NewWorker(sink Sink, inbox <-chan Record, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{sink: sink, inbox: inbox, logger: logger}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case record := <-w.inbox:
			if err := w.sink.Append(ctx, record); err != nil {
				w.logger.ErrorContext(ctx, "audit worker append failed",
					"invocation_id", record.InvocationID, "error", err, "log_type", "audit_fallback")
			}
		}
	}
}

// ChannelSink enqueues records for a Worker without blocking the invocation
// path. When the buffer is full the record is dropped and counted; audit
// must never stall the governed action.
type ChannelSink struct {
	ch      chan Record
	dropped atomic.Int64
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1024
	}
	return &ChannelSink{ch: make(chan Record, buffer)}
}

// Inbox is the channel a Worker should drain.
func (s *ChannelSink) Inbox() <-chan Record {
	return s.ch
}

// Append enqueues the record, dropping it if the buffer is full.
func (s *ChannelSink) Append(_ context.Context, record Record) error {
	select {
	case s.ch <- record:
		return nil
	default:
		s.dropped.Add(1)
		return nil
	}
}

// Dropped reports how many records were discarded due to backpressure.
func (s *ChannelSink) Dropped() int64 {
	return s.dropped.Load()
}
