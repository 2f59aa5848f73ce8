package attest

import (
	"errors"
	"fmt"
)

// ErrorKind distinguishes the failure modes of a verification attempt. The
// enforcer maps each kind onto a fail-closed verdict cause.
type ErrorKind string

const (
	// KindUnreachable means the connection could not be established.
	KindUnreachable ErrorKind = "unreachable"

	// KindTimeout means the configured duration elapsed before a usable
	// response arrived. Cancellation of the surrounding task maps here too:
	// an abandoned in-flight call must never read as approval.
	KindTimeout ErrorKind = "timeout"

	// KindMalformedResponse means the exchange completed but the status or
	// body violates the expected schema.
	KindMalformedResponse ErrorKind = "malformed_response"

	// KindServiceError means the authority answered with a non-2xx status.
	KindServiceError ErrorKind = "service_error"
)

// Error is the single error type returned by the client. Callers branch on
// Kind via errors.As.
type Error struct {
	Kind   ErrorKind
	Status int    // HTTP status for service errors, zero otherwise
	Reason string // authority-supplied reason when the body carried one
	err    error
}

func (e *Error) Error() string {
	switch {
	case e.err != nil:
		return fmt.Sprintf("attestation %s: %v", e.Kind, e.err)
	case e.Status != 0:
		return fmt.Sprintf("attestation %s: status %d", e.Kind, e.Status)
	default:
		return fmt.Sprintf("attestation %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.err
}

// KindOf extracts the error kind, or empty string for non-client errors.
func KindOf(err error) ErrorKind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return ""
}

func newError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, err: err}
}
