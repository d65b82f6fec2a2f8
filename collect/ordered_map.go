package collect

import "reflect"

// OrderedMap is a map that iterates in insertion order.
// Setting an existing key keeps its original position.
type OrderedMap[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewOrderedMap creates an empty OrderedMap.
func NewOrderedMap[K comparable, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{}
}

// Set stores value under key.
func (m *OrderedMap[K, V]) Set(key K, value V) {
	if m.values == nil {
		m.values = make(map[K]V)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value stored under key.
func (m *OrderedMap[K, V]) Get(key K) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Has reports whether key is present.
func (m *OrderedMap[K, V]) Has(key K) bool {
	_, ok := m.values[key]
	return ok
}

// Delete removes key and reports whether it was present.
func (m *OrderedMap[K, V]) Delete(key K) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)

	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}

	return true
}

// Len returns the number of keys.
func (m *OrderedMap[K, V]) Len() int {
	if m == nil {
		return 0
	}

	return len(m.keys)
}

// Keys returns a copy of the keys in insertion order.
func (m *OrderedMap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Range calls fn for each entry in order until fn returns false.
func (m *OrderedMap[K, V]) Range(fn func(key K, value V) bool) {
	if m == nil {
		return
	}

	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

// Equal reports whether both maps hold deeply equal entries in the same order.
func (m *OrderedMap[K, V]) Equal(other *OrderedMap[K, V]) bool {
	if m.Len() != other.Len() {
		return false
	}

	if m.Len() == 0 {
		return true
	}

	for i, k := range m.keys {
		if other.keys[i] != k || !reflect.DeepEqual(m.values[k], other.values[k]) {
			return false
		}
	}

	return true
}

// MetaType implements Collection.
func (m *OrderedMap[K, V]) MetaType() string { return MetaTypeOrderedMap }

// ElemTypes implements Collection.
func (m *OrderedMap[K, V]) ElemTypes() (key, column, value reflect.Type) {
	return reflect.TypeFor[K](), nil, reflect.TypeFor[V]()
}

// Entries implements Collection.
func (m *OrderedMap[K, V]) Entries(yield func(key, column, value any) bool) {
	m.Range(func(k K, v V) bool { return yield(k, nil, v) })
}

// AddEntry implements Collection. The column is ignored.
func (m *OrderedMap[K, V]) AddEntry(key, _, value any) error {
	k, err := cast[K]("key", key)
	if err != nil {
		return err
	}

	v, err := cast[V]("value", value)
	if err != nil {
		return err
	}

	m.Set(k, v)

	return nil
}
