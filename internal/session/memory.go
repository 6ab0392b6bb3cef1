package session

import (
	"context"
	"sync"
)

// MemoryStorage keeps sessions in process memory.  It backs tests and the
// degraded mode used when Redis is unreachable at startup.
type MemoryStorage struct {
	mu   sync.Mutex
	data map[string]map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{data: make(map[string]map[string]string)}
}

func (m *MemoryStorage) Name() string { return "memory" }

func (m *MemoryStorage) Put(_ context.Context, sid string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.data[sid]
	if ns == nil {
		ns = make(map[string]string, len(values))
		m.data[sid] = ns
	}
	for k, v := range values {
		ns[k] = v
	}
	return nil
}

func (m *MemoryStorage) Get(_ context.Context, sid, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[sid][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStorage) Take(_ context.Context, sid, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[sid][key]
	if !ok {
		return "", ErrNotFound
	}
	delete(m.data[sid], key)
	return v, nil
}

func (m *MemoryStorage) Delete(_ context.Context, sid string, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ns := m.data[sid]
	for _, k := range keys {
		delete(ns, k)
	}
	if len(ns) == 0 {
		delete(m.data, sid)
	}
	return nil
}
