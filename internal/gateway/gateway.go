// Package gateway assembles the attestation gateway: classifier, authority
// client, enforcer, and interceptor wired around an execution engine. One
// gateway is constructed per process or session and shared by every task
// context that invokes actions through it.
package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theonlypal/browser-use-swiftapi/internal/attest"
	"github.com/theonlypal/browser-use-swiftapi/internal/audit"
	"github.com/theonlypal/browser-use-swiftapi/internal/classify"
	"github.com/theonlypal/browser-use-swiftapi/internal/enforce"
	"github.com/theonlypal/browser-use-swiftapi/internal/engine"
	"github.com/theonlypal/browser-use-swiftapi/internal/intercept"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/config"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/logger"
	"github.com/theonlypal/browser-use-swiftapi/internal/platform/metrics"
	"github.com/theonlypal/browser-use-swiftapi/internal/revocation"
)

// Gateway governs every invocation against an execution engine. It is safe
// for concurrent use; configuration is immutable after construction.
type Gateway struct {
	cfg         config.Config
	client      *attest.Client
	interceptor *intercept.Interceptor
	revocations revocation.List
	logger      *slog.Logger
}

type options struct {
	explicit       config.Config
	failOpen       bool
	verifier       enforce.Verifier
	classifierOpts []classify.Option
	sinks          []audit.Sink
	logger         *slog.Logger
	metrics        *metrics.Metrics
	revocations    revocation.List
}

// Option configures gateway construction.
type Option func(*options)

// WithConfig overlays explicit configuration on top of environment intake.
// Explicit values win over environment variables.
func WithConfig(cfg config.Config) Option {
	return func(o *options) {
		o.explicit = cfg
	}
}

// WithAPIKey sets just the authority credential.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.explicit.APIKey = key
	}
}

// WithFailOpen disables fail-closed enforcement: client failures resolve as
// allow instead of block. This inverts the gateway's safety guarantee and is
// therefore an explicit, deliberately loud opt-in rather than a Config field
// default. Every override is logged at warning severity and counted.
func WithFailOpen() Option {
	return func(o *options) {
		o.failOpen = true
	}
}

// WithVerifier substitutes the authority client, e.g. attest.NewNullVerifier
// for development. When set, no HTTP client is constructed and the API key
// requirement is waived.
func WithVerifier(v enforce.Verifier) Option {
	return func(o *options) {
		o.verifier = v
	}
}

// WithClassifier forwards options to the risk classifier.
func WithClassifier(opts ...classify.Option) Option {
	return func(o *options) {
		o.classifierOpts = append(o.classifierOpts, opts...)
	}
}

// WithAuditSinks wires sinks receiving one record per invocation.
func WithAuditSinks(sinks ...audit.Sink) Option {
	return func(o *options) {
		o.sinks = append(o.sinks, sinks...)
	}
}

// WithLogger sets the structured logger for all components.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithMetrics wires Prometheus gateway metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

// WithRevocationList wires a local revocation cache consulted before the
// authority on CheckRevocation.
func WithRevocationList(l revocation.List) Option {
	return func(o *options) {
		o.revocations = l
	}
}

// New constructs a Gateway around an execution engine. Construction fails on
// invalid configuration (missing API key, bad base URL): the gateway never
// runs half-configured.
func New(eng engine.Engine, opts ...Option) (*Gateway, error) {
	if eng == nil {
		return nil, fmt.Errorf("execution engine is required")
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.FromEnv().Merge(o.explicit)
	if o.failOpen {
		cfg.FailOpen = true
	}

	log := o.logger
	if log == nil {
		log = logger.New(cfg.Verbose)
	}

	verifier := o.verifier
	var client *attest.Client
	if verifier == nil {
		var err error
		client, err = attest.NewClient(cfg,
			attest.WithLogger(log),
			attest.WithMetrics(o.metrics),
		)
		if err != nil {
			return nil, fmt.Errorf("construct gateway: %w", err)
		}
		verifier = client
	}

	enforcerOpts := []enforce.Option{
		enforce.WithLogger(log),
		enforce.WithMetrics(o.metrics),
	}
	if cfg.FailOpen {
		enforcerOpts = append(enforcerOpts, enforce.WithFailOpen())
		log.Warn("gateway constructed with fail-open enabled; attestation failures will NOT block actions",
			"log_type", "audit")
	}
	enforcer, err := enforce.New(verifier, enforcerOpts...)
	if err != nil {
		return nil, fmt.Errorf("construct gateway: %w", err)
	}

	interceptorOpts := []intercept.Option{
		intercept.WithLogger(log),
		intercept.WithMetrics(o.metrics),
		intercept.WithIdentity(cfg.Actor, cfg.AppID),
	}
	if len(o.sinks) > 0 {
		interceptorOpts = append(interceptorOpts, intercept.WithAudit(audit.NewPublisher(log, o.sinks...)))
	}
	interceptor, err := intercept.New(eng, classify.New(o.classifierOpts...), enforcer, interceptorOpts...)
	if err != nil {
		return nil, fmt.Errorf("construct gateway: %w", err)
	}

	return &Gateway{
		cfg:         cfg,
		client:      client,
		interceptor: interceptor,
		revocations: o.revocations,
		logger:      log,
	}, nil
}

// Invoke runs one governed action. Approved actions are forwarded to the
// engine unchanged; denied ones return *intercept.BlockedError without the
// engine ever being called.
func (g *Gateway) Invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	return g.interceptor.Invoke(ctx, name, params)
}

// Actions enumerates the governed engine's registered actions.
func (g *Gateway) Actions() []string {
	return g.interceptor.Actions()
}

// Config returns the immutable configuration the gateway was built with.
func (g *Gateway) Config() config.Config {
	return g.cfg
}

// CheckRevocation reports whether an execution attestation jti is revoked,
// consulting the local cache first and falling back to the authority.
// Conservative on failure: unknown means revoked.
func (g *Gateway) CheckRevocation(ctx context.Context, jti string) bool {
	if jti == "" {
		return false
	}
	var localErr error
	if g.revocations != nil {
		revoked, err := g.revocations.IsRevoked(ctx, jti)
		if err == nil && revoked {
			return true
		}
		if err != nil {
			localErr = err
			g.logger.WarnContext(ctx, "local revocation lookup failed",
				"jti", jti, "error", err, "log_type", "audit")
		}
	}
	if g.client == nil {
		if localErr != nil {
			// No authority to fall back to and the cache could not answer.
			// A check that cannot complete reads as revoked.
			return true
		}
		return false
	}
	return g.client.CheckRevocation(ctx, jti)
}

// CacheRevocation records a revoked jti in the local cache until ttl expires.
func (g *Gateway) CacheRevocation(ctx context.Context, jti string, ttl time.Duration) error {
	if g.revocations == nil {
		return fmt.Errorf("no revocation list configured")
	}
	return g.revocations.Revoke(ctx, jti, ttl)
}

// Info fetches authority metadata. Requires the HTTP client, i.e. no custom
// verifier substitution.
func (g *Gateway) Info(ctx context.Context) (attest.Info, error) {
	if g.client == nil {
		return attest.Info{}, fmt.Errorf("no authority client configured")
	}
	return g.client.Info(ctx)
}
