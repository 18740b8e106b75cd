package webcache

import (
	"context"
	"sync"
)

// MemoryStore keeps partitions in process memory. It is the default
// store for a single gateway instance and for tests.
type MemoryStore struct {
	mu         sync.RWMutex
	partitions map[string]map[string]*Entry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{partitions: make(map[string]map[string]*Entry)}
}

func (m *MemoryStore) Get(_ context.Context, partition, key string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.partitions[partition]
	if !ok {
		return nil, ErrNotFound
	}
	e, ok := p[key]
	if !ok {
		return nil, ErrNotFound
	}
	return e, nil
}

func (m *MemoryStore) Put(_ context.Context, partition, key string, e *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partitions[partition]
	if !ok {
		p = make(map[string]*Entry)
		m.partitions[partition] = p
	}
	p[key] = e
	return nil
}

func (m *MemoryStore) Partitions(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.partitions))
	for name := range m.partitions {
		names = append(names, name)
	}
	return names, nil
}

func (m *MemoryStore) Drop(_ context.Context, partition string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.partitions, partition)
	return nil
}
