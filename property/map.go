package property

import (
	"fmt"
	"sort"
	"sync"
)

// Map is the per-node collection of properties, keyed by fully-qualified
// name. It is safe for concurrent use; node activation and the worker that
// executes a node's run() may both touch state: properties.
type Map struct {
	mu    sync.RWMutex
	props map[string]*Property
}

// NewMap returns an empty property map.
func NewMap() *Map {
	return &Map{props: make(map[string]*Property)}
}

// Add creates and registers a new property under name (auto-qualified) with
// the given kind. Re-adding an existing name is a topology error and fatal.
func (m *Map) Add(name string, kind Kind) *Property {
	qualified := Qualify(name)
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.props[qualified]; exists {
		panic(fmt.Sprintf("property: duplicate property %q", qualified))
	}
	p := &Property{name: qualified, kind: kind}
	m.props[qualified] = p
	return p
}

// Get returns the named property. An unknown name is fatal (spec §6: unknown
// property access is a programmer error with no recovery path).
func (m *Map) Get(name string) *Property {
	qualified := Qualify(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.props[qualified]
	if !ok {
		panic(fmt.Sprintf("property: unknown property %q", qualified))
	}
	return p
}

// Lookup is the non-fatal form of Get, for callers that need to probe for
// an optional property.
func (m *Map) Lookup(name string) (*Property, bool) {
	qualified := Qualify(name)
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.props[qualified]
	return p, ok
}

// Peek stringifies the named property's current value.
func (m *Map) Peek(name string) string {
	return m.Get(name).String()
}

// Poke parses value into the named property according to its kind.
func (m *Map) Poke(name, value string) {
	m.Get(name).SetString(value)
}

// Names returns every registered property's fully-qualified name, sorted.
func (m *Map) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.props))
	for n := range m.props {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
