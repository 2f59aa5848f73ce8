package audit

import (
	"context"
	"time"

	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
)

// State is the terminal (or current) state of an invocation's lifecycle.
// Each invocation is a fresh instance of the state machine
// requested -> classified -> {executing -> executed | execution_failed} | blocked
// with no transitions back.
type State string

const (
	StateRequested       State = "requested"
	StateClassified      State = "classified"
	StateExecuting       State = "executing"
	StateExecuted        State = "executed"
	StateExecutionFailed State = "execution_failed"
	StateBlocked         State = "blocked"
)

// Record is one audit entry linking a descriptor, the verdict produced for
// it, and the execution outcome (or its absence). One record is emitted per
// invocation regardless of outcome.
type Record struct {
	Timestamp    time.Time     `json:"timestamp"`
	InvocationID string        `json:"invocation_id"`
	Actor        string        `json:"actor"`
	AppID        string        `json:"app_id"`
	Action       string        `json:"action"`
	Tier         domain.Tier   `json:"tier"`
	Execute      bool          `json:"execute"`
	Cause        domain.Cause  `json:"cause"`
	Reason       string        `json:"reason,omitempty"`
	PolicyID     string        `json:"policy_id,omitempty"`
	Digest       string        `json:"parameter_digest,omitempty"`
	Latency      time.Duration `json:"latency_ns"`
	State        State         `json:"state"`
	Error        string        `json:"error,omitempty"`
}

// Sink receives audit records. Implementations must be safe for concurrent
// use; the file, database, or log service behind them is an external
// collaborator.
type Sink interface {
	Append(ctx context.Context, record Record) error
}

// Store is a sink that can be queried back, used by operators and tests.
type Store interface {
	Sink
	ListByActor(ctx context.Context, actor string) ([]Record, error)
	ListRecent(ctx context.Context, limit int) ([]Record, error)
}
