package store

// MemoryBackend is a Backend kept in a map. Nothing survives the process.
type MemoryBackend struct {
	items  map[string]string
	writes int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

// GetItem implements Backend
func (m *MemoryBackend) GetItem(key string) (string, bool, error) {
	v, ok := m.items[key]
	return v, ok, nil
}

// SetItem implements Backend
func (m *MemoryBackend) SetItem(key, value string) error {
	m.items[key] = value
	m.writes++
	return nil
}

// Writes returns how many SetItem calls have been made
func (m *MemoryBackend) Writes() int {
	return m.writes
}
