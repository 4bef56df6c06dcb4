package types

// List is a growable ordered sequence of values.
type List struct {
	items []Value
}

// NewList creates a list holding items.
func NewList(items ...Value) *List {
	return &List{items: items}
}

// Len returns the number of items.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the item at index i, or undefined when out of range.
func (l *List) At(i int) Value {
	if l == nil || i < 0 || i >= len(l.items) {
		return Undefined()
	}
	return l.items[i]
}

// MaxGrowth is how far past its end a list may be extended by one Set.
const MaxGrowth = 1 << 20

// Set stores v at index i, extending the list with undefined items as
// needed. It reports false, leaving the list unchanged, when i is negative
// or more than MaxGrowth past the end.
func (l *List) Set(i int, v Value) bool {
	if i < 0 || i-len(l.items) >= MaxGrowth {
		return false
	}
	for len(l.items) <= i {
		l.items = append(l.items, Undefined())
	}
	l.items[i] = v
	return true
}

// Append adds items to the end of the list.
func (l *List) Append(items ...Value) {
	l.items = append(l.items, items...)
}

// Items returns the list contents. The slice is shared with the list.
func (l *List) Items() []Value {
	if l == nil {
		return nil
	}
	return l.items
}

// Map is a string-keyed map that remembers insertion order.
type Map struct {
	keys  []string
	vals  []Value
	index map[string]int
}

// NewMap creates an empty map.
func NewMap() *Map {
	return &Map{index: make(map[string]int)}
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Value, bool) {
	if m == nil {
		return Undefined(), false
	}
	i, ok := m.index[key]
	if !ok {
		return Undefined(), false
	}
	return m.vals[i], true
}

// Set stores v under key. New keys are appended to the iteration order.
func (m *Map) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[key]; ok {
		m.vals[i] = v
		return
	}
	m.index[key] = len(m.keys)
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, v)
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.keys...)
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map) Range(fn func(key string, v Value) bool) {
	if m == nil {
		return
	}
	for i, k := range m.keys {
		if !fn(k, m.vals[i]) {
			return
		}
	}
}
