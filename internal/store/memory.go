package store

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
)

// MemoryRecordStore keeps records in process memory. Values are copied on the
// way in and out so callers never alias stored bytes.
type MemoryRecordStore struct {
	mu      sync.RWMutex
	records map[string][]byte
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{records: make(map[string][]byte)}
}

func (s *MemoryRecordStore) Read(_ context.Context, key string) (json.RawMessage, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.records[key]
	if !ok {
		return nil, false, nil
	}
	return json.RawMessage(slices.Clone(value)), true, nil
}

func (s *MemoryRecordStore) Write(_ context.Context, key string, value json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key] = slices.Clone([]byte(value))
	return nil
}
