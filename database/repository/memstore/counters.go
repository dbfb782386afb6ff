package memstore

import (
	"context"
	"sync"
)

type SequenceStore struct {
	mu     sync.Mutex
	values map[string]int64
}

func NewSequenceStore() *SequenceStore {
	return &SequenceStore{values: make(map[string]int64)}
}

func (s *SequenceStore) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.values[key]
	return ok, nil
}

func (s *SequenceStore) SeedIfAbsent(_ context.Context, key string, value int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.values[key]; !ok {
		s.values[key] = value
	}
	return nil
}

func (s *SequenceStore) Increment(_ context.Context, key string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key]++
	return s.values[key], nil
}
