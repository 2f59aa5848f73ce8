// Package revocation caches revoked execution-attestation jtis so replayed
// attestations can be rejected without a round-trip to the authority.
package revocation

import (
	"context"
	"time"
)

// List tracks revoked jtis. Entries expire with the attestation they revoke.
type List interface {
	// Revoke marks a jti revoked for the given ttl.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether a jti is currently revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
