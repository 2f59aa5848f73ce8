package domain

// Tier is the risk class assigned to an action.
type Tier string

const (
	// TierReadOnly actions observe state without mutating it and bypass
	// the attestation round-trip entirely.
	TierReadOnly Tier = "read_only"

	// TierAttestable actions can mutate state and require an authorization
	// decision before execution.
	TierAttestable Tier = "attestable"
)

// ActionDescriptor describes a single requested invocation. One is built per
// call, treated as immutable, and discarded once the invocation completes.
type ActionDescriptor struct {
	Name       string
	Parameters map[string]any
	Tier       Tier
}
