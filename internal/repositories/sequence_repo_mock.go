package repositories

import "sync"

// MockSequenceRepository is an in-memory implementation of SequenceRepository.
type MockSequenceRepository struct {
	counters map[string]uint64
	mu       sync.Mutex
}

// NewMockSequenceRepository creates a new instance of MockSequenceRepository.
func NewMockSequenceRepository() *MockSequenceRepository {
	return &MockSequenceRepository{counters: make(map[string]uint64)}
}

// Next increments and returns the named counter.
func (r *MockSequenceRepository) Next(name string) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.counters[name]++
	return r.counters[name], nil
}
