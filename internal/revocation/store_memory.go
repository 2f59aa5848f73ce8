package revocation

import (
	"context"
	"sync"
	"time"
)

// Clock abstracts time for testability.
type Clock func() time.Time

// InMemoryList is a process-local revocation list for single-instance
// deployments and tests. Expired entries are pruned lazily on lookup.
type InMemoryList struct {
	mu      sync.RWMutex
	expires map[string]time.Time
	clock   Clock
}

// InMemoryOption configures an InMemoryList.
type InMemoryOption func(*InMemoryList)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) InMemoryOption {
	return func(l *InMemoryList) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// NewInMemoryList constructs an empty in-memory revocation list.
func NewInMemoryList(opts ...InMemoryOption) *InMemoryList {
	l := &InMemoryList{
		expires: make(map[string]time.Time),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *InMemoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expires[jti] = l.clock().Add(ttl)
	return nil
}

func (l *InMemoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	l.mu.RLock()
	expiry, ok := l.expires[jti]
	l.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if l.clock().After(expiry) {
		l.mu.Lock()
		delete(l.expires, jti)
		l.mu.Unlock()
		return false, nil
	}
	return true, nil
}
