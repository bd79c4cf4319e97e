package records

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore keeps snapshots in process memory for tests and local dev.
type InMemoryStore struct {
	mu   sync.RWMutex
	rows []StoredRecord
	next int64
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{next: 1}
}

func (s *InMemoryStore) Append(_ context.Context, data map[string]string) error {
	copied := make(map[string]string, len(data))
	for k, v := range data {
		copied[k] = v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, StoredRecord{
		ID:        s.next,
		Data:      copied,
		CreatedAt: time.Now().UTC(),
	})
	s.next++
	return nil
}

func (s *InMemoryStore) List(_ context.Context) ([]StoredRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StoredRecord, len(s.rows))
	copy(out, s.rows)
	return out, nil
}

func (s *InMemoryStore) Close() error { return nil }
