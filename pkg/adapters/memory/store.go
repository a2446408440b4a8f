package memory

import (
	"context"
	"sync"
)

// ImpressionStore implements ports.ImpressionStore in memory.
// Safe for concurrent use.
type ImpressionStore struct {
	data map[string]map[string]struct{}
	mu   sync.RWMutex
}

// NewImpressionStore creates an empty in-memory store.
func NewImpressionStore() *ImpressionStore {
	return &ImpressionStore{
		data: make(map[string]map[string]struct{}),
	}
}

// MarkImpressed records key for section and reports whether it was new.
func (s *ImpressionStore) MarkImpressed(ctx context.Context, section, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.data[section]
	if !ok {
		set = make(map[string]struct{})
		s.data[section] = set
	}
	if _, seen := set[key]; seen {
		return false, nil
	}
	set[key] = struct{}{}
	return true, nil
}

// Impressed returns a copy of the keys recorded for section.
func (s *ImpressionStore) Impressed(ctx context.Context, section string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.data[section]))
	for k := range s.data[section] {
		keys = append(keys, k)
	}
	return keys, nil
}

// Reset forgets every record.
func (s *ImpressionStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]map[string]struct{})
	return nil
}
