package attest

import (
	"time"
)

// Request is the payload sent to the authority's /verify endpoint. It carries
// a digest of the action parameters rather than the parameters themselves so
// sensitive payloads never leave the process while decisions stay
// reproducible. A request is sent at most once and never retried with
// mutated content.
type Request struct {
	RequestID       string    `json:"request_id"`
	Actor           string    `json:"actor"`
	AppID           string    `json:"app_id"`
	Action          string    `json:"action"`
	ParameterDigest string    `json:"parameter_digest"`
	Intent          string    `json:"intent,omitempty"`
	Timestamp       time.Time `json:"timestamp"`
}

// Decision is the authority's answer. It is treated as authoritative only
// when the HTTP exchange completed with a 2xx status and a well-formed body.
type Decision struct {
	Allowed        bool   `json:"allowed"`
	Reason         string `json:"reason,omitempty"`
	PolicyID       string `json:"policy_id,omitempty"`
	VerificationID string `json:"verification_id,omitempty"`

	// ExecutionAttestation is an optional signed token (EdDSA JWT) proving
	// the decision; its jti feeds the revocation cache.
	ExecutionAttestation string `json:"execution_attestation,omitempty"`
}

// Info describes the authority, fetched from its root endpoint.
type Info struct {
	Name      string `json:"name,omitempty"`
	Version   string `json:"version,omitempty"`
	PublicKey string `json:"public_key,omitempty"`
}
