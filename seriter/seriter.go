package seriter

import (
	"errors"
	"reflect"

	"beanser/collect"
)

// Metatypes written to the wire.
const (
	MetaTypeList         = "List"
	MetaTypeArray        = "Array"
	MetaTypeSet          = "Set"
	MetaTypeMap          = "Map"
	MetaTypeOrderedMap   = collect.MetaTypeOrderedMap
	MetaTypeListMultimap = collect.MetaTypeListMultimap
	MetaTypeTable        = collect.MetaTypeTable
)

var (
	// ErrAlreadyBuilt is returned by a second call to SerIterable.Build.
	ErrAlreadyBuilt = errors.New("seriter: collection already built")
	// ErrUnknownMetaType is returned by Factory.IterableOf for unrecognised metatypes.
	ErrUnknownMetaType = errors.New("seriter: unknown metatype")
	// ErrBadCount is returned by Add for counts below one, or above one on unordered shapes.
	ErrBadCount = errors.New("seriter: invalid repeat count")
)

// SerIterable accumulates the entries of one collection being read.
type SerIterable interface {
	MetaType() string
	// KeyType is nil for shapes without keys.
	KeyType() reflect.Type
	// ColumnType is nil except for tables.
	ColumnType() reflect.Type
	ValueType() reflect.Type
	// Add appends count copies of the entry. Key and column are ignored by
	// shapes that do not use them.
	Add(key, column, value any, count int) error
	// Build returns the finished collection. It may be called once.
	Build() (any, error)
}

// SerIterator walks the entries of one collection being written.
//
//	for it.Next() {
//		use(it.Key(), it.Value(), it.Count())
//	}
type SerIterator interface {
	MetaType() string
	KeyType() reflect.Type
	ColumnType() reflect.Type
	ValueType() reflect.Type
	// RunLength reports whether consecutive equal entries are merged.
	RunLength() bool
	// Size is the number of elements, counting repeats individually.
	Size() int
	Next() bool
	Key() any
	Column() any
	Value() any
	// Count is the number of consecutive equal elements the current entry stands for.
	Count() int
}

// IsRunLength reports whether the metatype is an ordered shape whose equal
// neighbours are merged on the wire.
func IsRunLength(metatype string) bool {
	switch metatype {
	case MetaTypeList, MetaTypeArray, MetaTypeListMultimap:
		return true
	default:
		return false
	}
}

// HasKeys reports whether entries of the metatype carry a key.
func HasKeys(metatype string) bool {
	switch metatype {
	case MetaTypeMap, MetaTypeOrderedMap, MetaTypeListMultimap, MetaTypeTable:
		return true
	default:
		return false
	}
}

// HasColumns reports whether entries of the metatype carry a column.
func HasColumns(metatype string) bool {
	return metatype == MetaTypeTable
}
