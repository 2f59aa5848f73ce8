package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the attestation gateway. All methods are
// nil-receiver safe so components can run without metrics wired.
type Metrics struct {
	// Verdicts by cause and tier.
	VerdictTotal *prometheus.CounterVec

	// Blocked invocations by cause.
	BlockedTotal *prometheus.CounterVec

	// Latency of /verify exchanges, including failures.
	VerifyLatency prometheus.Histogram

	// Attestation requests currently in flight.
	VerifyInFlight prometheus.Gauge

	// Full invocation latency by tier, classification through execution.
	InvocationLatency *prometheus.HistogramVec

	// Fail-open overrides. Any nonzero value deserves an alert.
	FailOpenOverrides prometheus.Counter
}

// New creates a Metrics instance with all gateway metrics registered on the
// default registry.
func New() *Metrics {
	return &Metrics{
		VerdictTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swiftapi_gateway_verdicts_total",
			Help: "Total verdicts produced by the policy enforcer",
		}, []string{"cause", "tier"}),

		BlockedTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "swiftapi_gateway_blocked_total",
			Help: "Total invocations blocked before reaching the execution engine",
		}, []string{"cause"}),

		VerifyLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "swiftapi_gateway_verify_duration_seconds",
			Help:    "Duration of attestation verify exchanges including failures",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		VerifyInFlight: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "swiftapi_gateway_verify_in_flight",
			Help: "Attestation requests currently awaiting an authority decision",
		}),

		InvocationLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swiftapi_gateway_invocation_duration_seconds",
			Help:    "Duration of governed invocations from classification to completion",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"tier"}),

		FailOpenOverrides: promauto.NewCounter(prometheus.CounterOpts{
			Name: "swiftapi_gateway_fail_open_overrides_total",
			Help: "Actions allowed through because fail-open mode overrode a client failure",
		}),
	}
}

func (m *Metrics) ObserveVerdict(cause, tier string) {
	if m == nil {
		return
	}
	m.VerdictTotal.WithLabelValues(cause, tier).Inc()
}

func (m *Metrics) ObserveBlocked(cause string) {
	if m == nil {
		return
	}
	m.BlockedTotal.WithLabelValues(cause).Inc()
}

func (m *Metrics) ObserveVerify(d time.Duration) {
	if m == nil {
		return
	}
	m.VerifyLatency.Observe(d.Seconds())
}

func (m *Metrics) VerifyStarted() {
	if m == nil {
		return
	}
	m.VerifyInFlight.Inc()
}

func (m *Metrics) VerifyFinished() {
	if m == nil {
		return
	}
	m.VerifyInFlight.Dec()
}

func (m *Metrics) ObserveInvocation(tier string, d time.Duration) {
	if m == nil {
		return
	}
	m.InvocationLatency.WithLabelValues(tier).Observe(d.Seconds())
}

func (m *Metrics) ObserveFailOpenOverride() {
	if m == nil {
		return
	}
	m.FailOpenOverrides.Inc()
}
