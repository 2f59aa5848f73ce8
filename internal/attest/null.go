package attest

import (
	"context"
	"log/slog"
	"sync"

	"github.com/theonlypal/browser-use-swiftapi/internal/domain"
)

// NullVerifier approves every action without contacting an authority.
//
// WARNING: development and testing only. It keeps an in-memory log of what it
// waved through so tests can assert on traffic, but it provides no governance.
type NullVerifier struct {
	logger *slog.Logger

	mu  sync.Mutex
	log []domain.ActionDescriptor
}

// NewNullVerifier constructs a NullVerifier. A nil logger disables logging.
func NewNullVerifier(logger *slog.Logger) *NullVerifier {
	return &NullVerifier{logger: logger}
}

// Verify always approves.
func (n *NullVerifier) Verify(ctx context.Context, descriptor domain.ActionDescriptor) (Decision, error) {
	n.mu.Lock()
	n.log = append(n.log, descriptor)
	n.mu.Unlock()

	if n.logger != nil {
		n.logger.InfoContext(ctx, "null verifier approving action without attestation",
			"action", descriptor.Name, "log_type", "audit")
	}
	return Decision{Allowed: true, Reason: "null verifier: no attestation (development mode)"}, nil
}

// Seen returns a copy of every descriptor the verifier approved.
func (n *NullVerifier) Seen() []domain.ActionDescriptor {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.ActionDescriptor{}, n.log...)
}
