package memory

import (
	"context"
	"sync"

	"github.com/theonlypal/browser-use-swiftapi/internal/audit"
)

// InMemoryStore keeps audit records in process memory. Used in tests and in
// deployments that ship the trail elsewhere via a second sink.
type InMemoryStore struct {
	mu      sync.RWMutex
	records []audit.Record
	byActor map[string][]audit.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byActor: make(map[string][]audit.Record)}
}

func (s *InMemoryStore) Append(_ context.Context, record audit.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	s.byActor[record.Actor] = append(s.byActor[record.Actor], record)
	return nil
}

func (s *InMemoryStore) ListByActor(_ context.Context, actor string) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Record{}, s.byActor[actor]...), nil
}

// ListRecent returns the most recent N records in insertion order.
func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.records) {
		limit = len(s.records)
	}
	start := len(s.records) - limit
	return append([]audit.Record{}, s.records[start:]...), nil
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = nil
	s.byActor = make(map[string][]audit.Record)
}
