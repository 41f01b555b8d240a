// Package env implements the persistent boot environment: the
// key=value store holding the board's serial number, boot commands and
// whatever settings earlier stages saved for later ones.
package env

import "sort"

// Store is the key=value view of a boot environment.
type Store interface {
	// Get returns the value for key and whether it is set.
	Get(key string) (string, bool)
	// Set stores value under key, replacing any previous value.
	Set(key, value string)
	// Keys returns all set keys, sorted.
	Keys() []string
}

// Map is the in-memory Store implementation.
type Map struct {
	vals map[string]string
}

// NewMap returns an empty environment.
func NewMap() *Map {
	return &Map{vals: make(map[string]string)}
}

// Get returns the value for key and whether it is set.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Set stores value under key, replacing any previous value.
func (m *Map) Set(key, value string) {
	m.vals[key] = value
}

// Delete removes key from the environment.
func (m *Map) Delete(key string) {
	delete(m.vals, key)
}

// Keys returns all set keys, sorted.
func (m *Map) Keys() []string {
	keys := make([]string, 0, len(m.vals))
	for k := range m.vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of set keys.
func (m *Map) Len() int {
	return len(m.vals)
}
