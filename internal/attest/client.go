// Package attest implements the HTTP client for the attestation authority.
// The client sends exactly one network request per verification call; retry
// policy, if any ever exists, belongs to a wrapping layer with its own
// idempotency-key design.
package attest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/semaphore"

	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/config"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/metrics"
)

const (
	verifyPath      = "/verify"
	revocationsPath = "/attestation/revocations"
	userAgent       = "browser-use-swiftapi/1.0"

	// responseBodyLimit caps how much of a response we read; decisions are
	// tiny and an unbounded read is a trivial DoS vector.
	responseBodyLimit = 1 << 20
)

// Client talks to the attestation authority. It is safe for concurrent use;
// in-flight verifications are bounded by the configured concurrency limit.
type Client struct {
	cfg     config.Config
	http    *http.Client
	logger  *slog.Logger
	metrics *metrics.Metrics
	sem     *semaphore.Weighted
	tracer  trace.Tracer
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLogger sets the structured logger used for the audit trail.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics wires gateway metrics into the client.
func WithMetrics(m *metrics.Metrics) ClientOption {
	return func(c *Client) {
		c.metrics = m
	}
}

// WithHTTPClient overrides the underlying HTTP client, mainly for tests.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// NewClient constructs an authority client from a validated configuration.
func NewClient(cfg config.Config, opts ...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("attestation client config: %w", err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if cfg.MaxInFlight > 0 {
		transport.MaxConnsPerHost = cfg.MaxInFlight
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Transport: transport},
		logger: slog.Default(),
		tracer: otel.Tracer("browser-use-swiftapi/attest"),
	}
	if cfg.MaxInFlight > 0 {
		c.sem = semaphore.NewWeighted(int64(cfg.MaxInFlight))
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewRequest derives the wire request for a descriptor. Parameters are
// reduced to a digest; raw values never reach the policy layer.
func (c *Client) NewRequest(descriptor domain.ActionDescriptor) Request {
	return Request{
		RequestID:       uuid.NewString(),
		Actor:           c.cfg.Actor,
		AppID:           c.cfg.AppID,
		Action:          descriptor.Name,
		ParameterDigest: Digest(descriptor.Name, descriptor.Parameters),
		Intent:          FormatIntent(c.cfg.Actor, descriptor.Name, descriptor.Parameters),
		Timestamp:       time.Now().UTC(),
	}
}

// Verify sends one verification request and returns the authority's decision.
// Any failure comes back as *Error with a kind the enforcer maps to a
// fail-closed cause. Every attempt, success or failure, lands in the audit
// log; that entry is append-only and emitted on all paths.
func (c *Client) Verify(ctx context.Context, descriptor domain.ActionDescriptor) (Decision, error) {
	req := c.NewRequest(descriptor)

	ctx, span := c.tracer.Start(ctx, "attest.Verify", trace.WithAttributes(
		attribute.String("swiftapi.action", descriptor.Name),
		attribute.String("swiftapi.request_id", req.RequestID),
	))
	defer span.End()

	start := time.Now()
	decision, err := c.verify(ctx, req)
	latency := time.Since(start)

	c.metrics.ObserveVerify(latency)
	c.auditAttempt(ctx, req, decision, err, latency)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return Decision{}, err
	}
	span.SetAttributes(attribute.Bool("swiftapi.allowed", decision.Allowed))
	return decision, nil
}

func (c *Client) verify(ctx context.Context, req Request) (Decision, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			// Cancelled while queued: resolves as timeout, never approval.
			return Decision{}, newError(KindTimeout, err)
		}
		defer c.sem.Release(1)
	}

	c.metrics.VerifyStarted()
	defer c.metrics.VerifyFinished()

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	body, err := json.Marshal(req)
	if err != nil {
		// Request-side defect, not an authority failure mode; left outside
		// the kind taxonomy. The enforcer fails closed on it regardless.
		return Decision{}, fmt.Errorf("encode verification request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+verifyPath, bytes.NewReader(body))
	if err != nil {
		return Decision{}, newError(KindUnreachable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Decision{}, classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return Decision{}, classifyTransportError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		svcErr := &Error{Kind: KindServiceError, Status: resp.StatusCode}
		var structured struct {
			Reason string `json:"reason"`
			Error  string `json:"error"`
		}
		if json.Unmarshal(raw, &structured) == nil {
			if structured.Reason != "" {
				svcErr.Reason = structured.Reason
			} else {
				svcErr.Reason = structured.Error
			}
		}
		return Decision{}, svcErr
	}

	var wire struct {
		Allowed              *bool  `json:"allowed"`
		Reason               string `json:"reason"`
		PolicyID             string `json:"policy_id"`
		VerificationID       string `json:"verification_id"`
		ExecutionAttestation string `json:"execution_attestation"`
	}
	if err := json.Unmarshal(raw, &wire); err != nil {
		return Decision{}, newError(KindMalformedResponse, err)
	}
	if wire.Allowed == nil {
		return Decision{}, newError(KindMalformedResponse, errors.New("response missing allowed field"))
	}

	return Decision{
		Allowed:              *wire.Allowed,
		Reason:               wire.Reason,
		PolicyID:             wire.PolicyID,
		VerificationID:       wire.VerificationID,
		ExecutionAttestation: wire.ExecutionAttestation,
	}, nil
}

// Revocations fetches the authority's current revoked jti list.
func (c *Client) Revocations(ctx context.Context) ([]string, error) {
	var wire struct {
		Revoked []string `json:"revoked"`
	}
	if err := c.get(ctx, revocationsPath, &wire); err != nil {
		return nil, err
	}
	return wire.Revoked, nil
}

// CheckRevocation reports whether an execution attestation has been revoked.
// Conservative semantics: if the list cannot be fetched the attestation is
// treated as revoked.
func (c *Client) CheckRevocation(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	revoked, err := c.Revocations(ctx)
	if err != nil {
		c.logger.WarnContext(ctx, "revocation check failed, treating as revoked",
			"jti", jti, "error", err, "log_type", "audit")
		return true
	}
	for _, r := range revoked {
		if r == jti {
			return true
		}
	}
	return false
}

// Info fetches authority metadata from its root endpoint.
func (c *Client) Info(ctx context.Context) (Info, error) {
	var info Info
	if err := c.get(ctx, "/", &info); err != nil {
		return Info{}, err
	}
	return info, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+path, nil)
	if err != nil {
		return newError(KindUnreachable, err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return classifyTransportError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return classifyTransportError(err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Error{Kind: KindServiceError, Status: resp.StatusCode}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return newError(KindMalformedResponse, err)
	}
	return nil
}

// auditAttempt writes one structured audit entry per verification attempt.
// This is the client-side audit trail required for enterprise deployments and
// is never skipped, even on failure paths.
func (c *Client) auditAttempt(ctx context.Context, req Request, decision Decision, err error, latency time.Duration) {
	args := []any{
		"log_type", "audit",
		"event", "attestation_attempt",
		"request_id", req.RequestID,
		"actor", req.Actor,
		"app_id", req.AppID,
		"action", req.Action,
		"parameter_digest", req.ParameterDigest,
		"latency_ms", latency.Milliseconds(),
	}
	if err != nil {
		args = append(args, "outcome", "error", "error_kind", string(KindOf(err)), "error", err.Error())
		c.logger.ErrorContext(ctx, "attestation attempt failed", args...)
		return
	}
	args = append(args, "outcome", "decision", "allowed", decision.Allowed)
	if decision.Reason != "" {
		args = append(args, "reason", decision.Reason)
	}
	if decision.PolicyID != "" {
		args = append(args, "policy_id", decision.PolicyID)
	}
	c.logger.InfoContext(ctx, "attestation attempt completed", args...)
}

// classifyTransportError maps transport failures onto the error taxonomy.
// Context expiry (ours or the caller's) is a timeout: a response that arrives
// after the deadline is discarded, and a cancelled task must never be
// interpreted as approval.
func classifyTransportError(err error) *Error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return newError(KindTimeout, err)
	}
	type timeouter interface{ Timeout() bool }
	var t timeouter
	if errors.As(err, &t) && t.Timeout() {
		return newError(KindTimeout, err)
	}
	return newError(KindUnreachable, err)
}
