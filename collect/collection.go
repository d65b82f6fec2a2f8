package collect

import (
	"fmt"
	"reflect"
)

// Metatype names of the collections in this package.
const (
	MetaTypeOrderedMap   = "OrderedMap"
	MetaTypeListMultimap = "ListMultimap"
	MetaTypeTable        = "Table"
)

// Collection is the untyped view of a generic collection.
type Collection interface {
	// MetaType names the structural kind of the collection.
	MetaType() string
	// ElemTypes returns the key, column and value types. Column is nil except for tables.
	ElemTypes() (key, column, value reflect.Type)
	// Len returns the number of entries Entries yields.
	Len() int
	// Entries yields every entry in iteration order. Column is nil except for tables.
	Entries(yield func(key, column, value any) bool)
	// AddEntry adds one entry, failing when an argument has the wrong type.
	AddEntry(key, column, value any) error
}

// cast converts an untyped argument to T, treating nil as the zero value.
func cast[T any](what string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}

	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("collect: %s has type %T, want %s", what, v, reflect.TypeFor[T]())
	}

	return t, nil
}
