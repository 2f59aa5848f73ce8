// Package intercept sits between the agent's action-invocation surface and
// the execution engine. Every invocation is classified, judged, and audited
// here; nothing reaches the engine without an execute verdict.
package intercept

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/theonlypal/browser-use-swiftapi/internal/attest"
	"github.com/theonlypal/browser-use-swiftapi/internal/audit"
	"github.com/theonlypal/browser-use-swiftapi/internal/classify"
	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
	"github.com/theonlypal/browser-use-swiftapi/internal/engine"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/metrics"
)

// Enforcer produces the verdict an invocation is acted on. Implemented by
// *enforce.Enforcer.
type Enforcer interface {
	Evaluate(ctx context.Context, descriptor domain.ActionDescriptor) domain.Verdict
}

// BlockedError is returned to the caller when an invocation was denied. It is
// an expected, recoverable condition: the orchestrator decides whether to
// halt, retry at a higher level, or request human approval.
type BlockedError struct {
	Action string
	Cause  domain.Cause
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("action %q blocked (%s): %s", e.Action, e.Cause, e.Reason)
	}
	return fmt.Sprintf("action %q blocked (%s)", e.Action, e.Cause)
}

// Interceptor wraps an execution engine with attestation enforcement. It
// implements engine.Engine so it can drop in wherever the engine is consumed.
// Stateless per call; one gateway instance serves concurrent invocations.
type Interceptor struct {
	engine     engine.Engine
	classifier *classify.Classifier
	enforcer   Enforcer
	publisher  *audit.Publisher
	logger     *slog.Logger
	metrics    *metrics.Metrics
	tracer     trace.Tracer

	actor string
	appID string
}

var _ engine.Engine = (*Interceptor)(nil)

// Option configures an Interceptor.
type Option func(*Interceptor)

// WithAudit wires the audit publisher emitting one record per invocation.
func WithAudit(publisher *audit.Publisher) Option {
	return func(i *Interceptor) {
		i.publisher = publisher
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Interceptor) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMetrics wires gateway metrics into the interceptor.
func WithMetrics(m *metrics.Metrics) Option {
	return func(i *Interceptor) {
		i.metrics = m
	}
}

// WithIdentity sets the actor and app id stamped on audit records.
func WithIdentity(actor, appID string) Option {
	return func(i *Interceptor) {
		i.actor = actor
		i.appID = appID
	}
}

// New constructs an Interceptor. Engine, classifier, and enforcer are
// required; a gateway without any of them cannot uphold the execute-iff-
// verdict invariant.
func New(eng engine.Engine, classifier *classify.Classifier, enforcer Enforcer, opts ...Option) (*Interceptor, error) {
	if eng == nil {
		return nil, fmt.Errorf("execution engine is required")
	}
	if classifier == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if enforcer == nil {
		return nil, fmt.Errorf("enforcer is required")
	}
	i := &Interceptor{
		engine:     eng,
		classifier: classifier,
		enforcer:   enforcer,
		logger:     slog.Default(),
		tracer:     otel.Tracer("browser-use-swiftapi/intercept"),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i, nil
}

// Invoke governs one action invocation. The lifecycle per call is
// requested -> classified -> {executing -> executed | execution_failed} | blocked;
// terminal states are executed, execution_failed, and blocked, and each call
// is a fresh instance of that machine.
func (i *Interceptor) Invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	start := time.Now()

	record := audit.Record{
		InvocationID: uuid.NewString(),
		Actor:        i.actor,
		AppID:        i.appID,
		Action:       name,
		State:        audit.StateRequested,
	}

	ctx, span := i.tracer.Start(ctx, "gateway.Invoke", trace.WithAttributes(
		attribute.String("swiftapi.action", name),
		attribute.String("swiftapi.invocation_id", record.InvocationID),
	))
	defer span.End()

	descriptor := i.classifier.Describe(name, params)
	record.Tier = descriptor.Tier
	record.Digest = attest.Digest(name, params)
	record.State = audit.StateClassified

	verdict := i.enforcer.Evaluate(ctx, descriptor)
	record.Execute = verdict.Execute
	record.Cause = verdict.Cause
	record.Reason = verdict.Reason
	record.PolicyID = verdict.PolicyID
	span.SetAttributes(
		attribute.String("swiftapi.tier", string(descriptor.Tier)),
		attribute.String("swiftapi.cause", string(verdict.Cause)),
	)

	if !verdict.Execute {
		record.State = audit.StateBlocked
		record.Latency = time.Since(start)
		i.emit(ctx, record)
		i.metrics.ObserveBlocked(string(verdict.Cause))
		i.metrics.ObserveInvocation(string(descriptor.Tier), record.Latency)
		i.logger.WarnContext(ctx, "action blocked",
			"action", name,
			"cause", string(verdict.Cause),
			"reason", verdict.Reason,
			"invocation_id", record.InvocationID,
			"log_type", "audit",
		)
		return nil, &BlockedError{Action: name, Cause: verdict.Cause, Reason: verdict.Reason}
	}

	if descriptor.Tier == domain.TierReadOnly {
		i.logger.DebugContext(ctx, "read-only passthrough", "action", name)
	}

	record.State = audit.StateExecuting
	result, err := i.engine.Invoke(ctx, name, params)
	record.Latency = time.Since(start)
	if err != nil {
		record.State = audit.StateExecutionFailed
		record.Error = err.Error()
	} else {
		record.State = audit.StateExecuted
	}
	i.emit(ctx, record)
	i.metrics.ObserveInvocation(string(descriptor.Tier), record.Latency)

	return result, err
}

// Actions enumerates the wrapped engine's registered action names.
func (i *Interceptor) Actions() []string {
	return i.engine.Actions()
}

func (i *Interceptor) emit(ctx context.Context, record audit.Record) {
	if i.publisher == nil {
		return
	}
	i.publisher.Emit(ctx, record)
}
