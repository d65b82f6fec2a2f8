package seriter

import (
	"fmt"
	"reflect"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"beanser/collect"
	"beanser/meta"
)

// Factory selects the SerIterable or SerIterator for a collection. It is safe
// for concurrent use.
type Factory struct {
	sets  sync.Map // reflect.Type of mapset.Set[T] -> func() any
	colls sync.Map // instance -> reflect.Type of a collect pointer type
}

type instance struct {
	metatype           string
	key, column, value reflect.Type
}

// Default is the factory used when settings do not name one.
var Default = NewFactory()

// NewFactory creates a factory that knows mapset sets of the common leaf types.
func NewFactory() *Factory {
	f := &Factory{}

	RegisterSet[string](f)
	RegisterSet[int](f)
	RegisterSet[int64](f)
	RegisterSet[float64](f)
	RegisterSet[bool](f)

	return f
}

// RegisterSet teaches f to build mapset.Set[T] values, which cannot be
// instantiated through reflection alone.
func RegisterSet[T comparable](f *Factory) {
	f.sets.Store(reflect.TypeFor[mapset.Set[T]](), func() any { return mapset.NewSet[T]() })
}

// Register makes IterableOf build the instantiation of prototype, which may be
// a nil pointer, when the wire element types match it.
func (f *Factory) Register(prototype collect.Collection) {
	k, c, v := prototype.ElemTypes()
	f.colls.Store(instance{prototype.MetaType(), k, c, v}, reflect.TypeOf(prototype))
}

// Iterable returns an empty SerIterable for the declared type, or nil when the
// type is not a collection.
func (f *Factory) Iterable(declared reflect.Type) SerIterable {
	if declared == nil {
		return nil
	}

	if ctor, ok := f.sets.Load(declared); ok {
		return newSet(setElem(declared), ctor.(func() any))
	}

	if isCollection(declared) {
		return newCollect(declared)
	}

	switch declared.Kind() {
	case reflect.Slice:
		if declared.Elem().Kind() == reflect.Uint8 {
			return nil
		}

		return newList(MetaTypeList, declared, declared.Elem())
	case reflect.Array:
		return newList(MetaTypeArray, declared, declared.Elem())
	case reflect.Map:
		return newMap(declared)
	default:
		return nil
	}
}

// IterableOf rebuilds a SerIterable from a wire metatype when no declared type
// is available. Missing element types default to any.
func (f *Factory) IterableOf(metatype string, key, column, value reflect.Type) (SerIterable, error) {
	key, column, value = orAny(key), orAny(column), orAny(value)

	switch metatype {
	case MetaTypeList:
		return newList(MetaTypeList, nil, value), nil
	case MetaTypeArray:
		return newList(MetaTypeArray, nil, value), nil
	case MetaTypeSet:
		if !value.Comparable() {
			return nil, fmt.Errorf("seriter: set element type %s is not comparable", value)
		}

		return newMap(reflect.MapOf(value, emptyType)), nil
	case MetaTypeMap:
		if !key.Comparable() {
			return nil, fmt.Errorf("seriter: map key type %s is not comparable", key)
		}

		return newMap(reflect.MapOf(key, value)), nil
	case MetaTypeOrderedMap, MetaTypeListMultimap:
		column = nil
	case MetaTypeTable:
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownMetaType, metatype)
	}

	if t, ok := f.colls.Load(instance{metatype, key, column, value}); ok {
		return newCollect(t.(reflect.Type)), nil
	}

	switch metatype {
	case MetaTypeOrderedMap:
		return newCollect(reflect.TypeFor[*collect.OrderedMap[any, any]]()), nil
	case MetaTypeListMultimap:
		return newCollect(reflect.TypeFor[*collect.ListMultimap[any, any]]()), nil
	default:
		return newCollect(reflect.TypeFor[*collect.Table[any, any, any]]()), nil
	}
}

// Iterator returns a SerIterator over value. The declared type is consulted
// for mapset sets, whose runtime types are unexported.
func (f *Factory) Iterator(value any, declared reflect.Type) (SerIterator, bool) {
	if value == nil {
		return nil, false
	}

	v := reflect.ValueOf(value)
	t := v.Type()

	if iface, ok := f.setInterface(declared, t); ok {
		elems := v.MethodByName("ToSlice").Call(nil)[0]
		it := &iterator{metatype: MetaTypeSet, value: setElem(iface)}
		for i := range elems.Len() {
			it.entries = append(it.entries, entry{value: elems.Index(i).Interface(), count: 1})
		}

		sortEntries(it.entries, func(e entry) any { return e.value })

		return it.compact(), true
	}

	if isCollection(t) {
		if t.Kind() == reflect.Struct {
			p := reflect.New(t)
			p.Elem().Set(v)
			v = p
		}

		c := v.Interface().(collect.Collection)
		k, col, val := c.ElemTypes()
		it := &iterator{metatype: c.MetaType(), key: k, column: col, value: val}
		c.Entries(func(key, column, value any) bool {
			it.entries = append(it.entries, entry{key: key, column: column, value: nilIfNil(value), count: 1})
			return true
		})

		return it.compact(), true
	}

	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8 {
			return nil, false
		}

		metatype := MetaTypeList
		if t.Kind() == reflect.Array {
			metatype = MetaTypeArray
		}

		it := &iterator{metatype: metatype, value: t.Elem()}
		for i := range v.Len() {
			it.entries = append(it.entries, entry{value: elem(v.Index(i)), count: 1})
		}

		return it.compact(), true

	case reflect.Map:
		if t.Elem() == emptyType {
			it := &iterator{metatype: MetaTypeSet, value: t.Key()}
			for _, k := range v.MapKeys() {
				it.entries = append(it.entries, entry{value: k.Interface(), count: 1})
			}

			sortEntries(it.entries, func(e entry) any { return e.value })

			return it.compact(), true
		}

		it := &iterator{metatype: MetaTypeMap, key: t.Key(), value: t.Elem()}
		iter := v.MapRange()
		for iter.Next() {
			it.entries = append(it.entries, entry{key: iter.Key().Interface(), value: elem(iter.Value()), count: 1})
		}

		sortEntries(it.entries, func(e entry) any { return e.key })

		return it.compact(), true
	}

	return nil, false
}

// setInterface finds the registered mapset interface describing t.
func (f *Factory) setInterface(declared, t reflect.Type) (reflect.Type, bool) {
	if declared != nil {
		if _, ok := f.sets.Load(declared); ok && t.Implements(declared) {
			return declared, true
		}
	}

	var found reflect.Type

	f.sets.Range(func(key, _ any) bool {
		iface := key.(reflect.Type)
		if t.Implements(iface) {
			found = iface
			return false
		}

		return true
	})

	return found, found != nil
}

// setElem extracts T from mapset.Set[T] through the result of ToSlice.
func setElem(iface reflect.Type) reflect.Type {
	m, _ := iface.MethodByName("ToSlice")
	return m.Type.Out(0).Elem()
}

// elem unwraps v, turning nil pointers, maps, slices and interfaces into an untyped nil.
func elem(v reflect.Value) any {
	return nilIfNil(v.Interface())
}

func nilIfNil(value any) any {
	if meta.IsNil(value) {
		return nil
	}

	return value
}

func orAny(t reflect.Type) reflect.Type {
	if t == nil {
		return anyType
	}

	return t
}
