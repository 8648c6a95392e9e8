package memstore

import "sync"

// Map is an in-process key-value store. Nothing survives the process; it
// backs tests and the "memory" backend.
type Map struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Map {
	return &Map{data: make(map[string][]byte)}
}

func (m *Map) Get(key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), b...), true, nil
}

func (m *Map) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
