// Package enforce turns classifier output and authority decisions into a
// single execute/block verdict. This is the safety-critical decision point of
// the gateway: every input maps to exactly one verdict and client failures
// are absorbed here, never re-raised.
package enforce

//go:generate mockgen -source=enforcer.go -destination=mocks/mocks.go -package=mocks Verifier

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/theonlypal/browser-use-swiftapi/internal/attest"
	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/metrics"
)

// Verifier obtains an authorization decision for an attestable action.
// *attest.Client is the production implementation.
type Verifier interface {
	Verify(ctx context.Context, descriptor domain.ActionDescriptor) (attest.Decision, error)
}

// Enforcer derives verdicts. Stateless per call and safe for concurrent use.
type Enforcer struct {
	verifier Verifier
	failOpen bool
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// Option configures an Enforcer.
type Option func(*Enforcer)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Enforcer) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics wires gateway metrics into the enforcer.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Enforcer) {
		e.metrics = m
	}
}

// WithFailOpen makes client failures resolve as allow instead of block. This
// disables the gateway's safety guarantee and exists for development against
// unreliable authorities; it is never the default and every override is
// logged at warning severity.
func WithFailOpen() Option {
	return func(e *Enforcer) {
		e.failOpen = true
	}
}

// New constructs an Enforcer. The verifier is required.
func New(verifier Verifier, opts ...Option) (*Enforcer, error) {
	if verifier == nil {
		return nil, fmt.Errorf("verifier is required")
	}
	e := &Enforcer{
		verifier: verifier,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Evaluate maps a descriptor onto a verdict. It never returns an error:
// read-only actions pass immediately without touching the network, authority
// decisions are relayed, and client failures fail closed unless fail-open
// was explicitly configured.
func (e *Enforcer) Evaluate(ctx context.Context, descriptor domain.ActionDescriptor) domain.Verdict {
	verdict := e.evaluate(ctx, descriptor)
	e.metrics.ObserveVerdict(string(verdict.Cause), string(descriptor.Tier))
	return verdict
}

func (e *Enforcer) evaluate(ctx context.Context, descriptor domain.ActionDescriptor) domain.Verdict {
	if descriptor.Tier == domain.TierReadOnly {
		return domain.Verdict{Execute: true, Cause: domain.CauseApproved}
	}

	decision, err := e.verifier.Verify(ctx, descriptor)
	if err == nil {
		if decision.Allowed {
			return domain.Verdict{
				Execute:  true,
				Cause:    domain.CauseApproved,
				Reason:   decision.Reason,
				PolicyID: decision.PolicyID,
			}
		}
		return domain.Verdict{
			Execute:  false,
			Cause:    domain.CauseDeniedByPolicy,
			Reason:   decision.Reason,
			PolicyID: decision.PolicyID,
		}
	}

	cause := causeForError(err)

	if e.failOpen {
		e.metrics.ObserveFailOpenOverride()
		e.logger.WarnContext(ctx, "fail-open override: allowing action despite attestation failure",
			"action", descriptor.Name,
			"error", err.Error(),
			"original_cause", string(cause),
			"log_type", "audit",
			"event", "fail_open_override",
		)
		return domain.Verdict{
			Execute: true,
			Cause:   domain.CauseFailOpenOverride,
			Reason:  err.Error(),
		}
	}

	return domain.Verdict{Execute: false, Cause: cause, Reason: err.Error()}
}

// causeForError mirrors the client error taxonomy onto verdict causes. A
// non-2xx authority answer is grouped with unreachability: the service
// responded but did not serve a usable decision.
func causeForError(err error) domain.Cause {
	switch attest.KindOf(err) {
	case attest.KindTimeout:
		return domain.CauseTimeout
	case attest.KindMalformedResponse:
		return domain.CauseMalformedResponse
	case attest.KindUnreachable, attest.KindServiceError:
		return domain.CauseServiceUnreachable
	default:
		return domain.CauseServiceUnreachable
	}
}
