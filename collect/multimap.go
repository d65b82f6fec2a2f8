package collect

import "reflect"

// ListMultimap maps each key to an ordered list of values.
// Keys iterate in first-insertion order, values in insertion order.
type ListMultimap[K comparable, V any] struct {
	keys   []K
	values map[K][]V
	size   int
}

// NewListMultimap creates an empty ListMultimap.
func NewListMultimap[K comparable, V any]() *ListMultimap[K, V] {
	return &ListMultimap[K, V]{}
}

// Put appends values under key.
func (m *ListMultimap[K, V]) Put(key K, values ...V) {
	if len(values) == 0 {
		return
	}

	if m.values == nil {
		m.values = make(map[K][]V)
	}

	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}

	m.values[key] = append(m.values[key], values...)
	m.size += len(values)
}

// Get returns a copy of the values stored under key.
func (m *ListMultimap[K, V]) Get(key K) []V {
	return append([]V(nil), m.values[key]...)
}

// Remove drops key and all of its values, reporting whether it was present.
func (m *ListMultimap[K, V]) Remove(key K) bool {
	vs, ok := m.values[key]
	if !ok {
		return false
	}

	delete(m.values, key)
	m.size -= len(vs)

	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}

	return true
}

// Keys returns a copy of the distinct keys in first-insertion order.
func (m *ListMultimap[K, V]) Keys() []K {
	return append([]K(nil), m.keys...)
}

// Len returns the total number of values.
func (m *ListMultimap[K, V]) Len() int {
	if m == nil {
		return 0
	}

	return m.size
}

// Range calls fn for every key/value pair until fn returns false.
func (m *ListMultimap[K, V]) Range(fn func(key K, value V) bool) {
	if m == nil {
		return
	}

	for _, k := range m.keys {
		for _, v := range m.values[k] {
			if !fn(k, v) {
				return
			}
		}
	}
}

// Equal reports whether both multimaps hold deeply equal values in the same order.
func (m *ListMultimap[K, V]) Equal(other *ListMultimap[K, V]) bool {
	if m.Len() != other.Len() {
		return false
	}

	if m.Len() == 0 {
		return true
	}

	if len(m.keys) != len(other.keys) {
		return false
	}

	for i, k := range m.keys {
		if other.keys[i] != k || !reflect.DeepEqual(m.values[k], other.values[k]) {
			return false
		}
	}

	return true
}

// MetaType implements Collection.
func (m *ListMultimap[K, V]) MetaType() string { return MetaTypeListMultimap }

// ElemTypes implements Collection.
func (m *ListMultimap[K, V]) ElemTypes() (key, column, value reflect.Type) {
	return reflect.TypeFor[K](), nil, reflect.TypeFor[V]()
}

// Entries implements Collection.
func (m *ListMultimap[K, V]) Entries(yield func(key, column, value any) bool) {
	m.Range(func(k K, v V) bool { return yield(k, nil, v) })
}

// AddEntry implements Collection. The column is ignored.
func (m *ListMultimap[K, V]) AddEntry(key, _, value any) error {
	k, err := cast[K]("key", key)
	if err != nil {
		return err
	}

	v, err := cast[V]("value", value)
	if err != nil {
		return err
	}

	m.Put(k, v)

	return nil
}
