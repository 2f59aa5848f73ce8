package domain

// Cause classifies how a verdict was reached. It is not an error: blocked
// outcomes are expected, recoverable conditions for the orchestrating layer.
type Cause string

const (
	CauseApproved           Cause = "approved"
	CauseDeniedByPolicy     Cause = "denied_by_policy"
	CauseServiceUnreachable Cause = "service_unreachable"
	CauseTimeout            Cause = "timeout"
	CauseMalformedResponse  Cause = "malformed_response"
	CauseFailOpenOverride   Cause = "fail_open_override"
)

// Verdict is the single decision the interceptor acts on. An attestable
// action executes if and only if a Verdict with Execute=true was produced for
// its descriptor; there is no other path to execution.
type Verdict struct {
	Execute bool
	Cause   Cause

	// Reason and PolicyID relay the authority's explanation for denials so
	// the orchestrator can surface it or request a human override.
	Reason   string
	PolicyID string
}
