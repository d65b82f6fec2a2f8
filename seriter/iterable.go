package seriter

import (
	"fmt"
	"reflect"

	"beanser/collect"
	"beanser/meta"
)

var (
	anyType        = reflect.TypeFor[any]()
	emptyType      = reflect.TypeFor[struct{}]()
	collectionType = reflect.TypeFor[collect.Collection]()
)

// shape holds the element types shared by all iterables.
type shape struct {
	metatype           string
	key, column, value reflect.Type
	built              bool
}

func (s *shape) MetaType() string         { return s.metatype }
func (s *shape) KeyType() reflect.Type    { return s.key }
func (s *shape) ColumnType() reflect.Type { return s.column }
func (s *shape) ValueType() reflect.Type  { return s.value }

func (s *shape) finish() error {
	if s.built {
		return ErrAlreadyBuilt
	}

	s.built = true

	return nil
}

func (s *shape) checkCount(count int) error {
	if count < 1 || (count > 1 && !IsRunLength(s.metatype)) {
		return fmt.Errorf("%w: %d for %s", ErrBadCount, count, s.metatype)
	}

	return nil
}

func coerce(what string, value any, t reflect.Type) (reflect.Value, error) {
	v, err := meta.Coerce(value, t)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("%s: %w", what, err)
	}

	return v, nil
}

// listIterable backs slices and arrays. Arrays are accumulated in a slice and
// copied on Build.
type listIterable struct {
	shape
	target reflect.Type // nil for an array of unknown length
	items  reflect.Value
}

func newList(metatype string, target, elem reflect.Type) *listIterable {
	sliceType := reflect.SliceOf(elem)
	if target != nil && target.Kind() == reflect.Slice {
		sliceType = target
	}

	return &listIterable{
		shape:  shape{metatype: metatype, value: elem},
		target: target,
		items:  reflect.MakeSlice(sliceType, 0, 0),
	}
}

func (l *listIterable) Add(_, _ any, value any, count int) error {
	if err := l.checkCount(count); err != nil {
		return err
	}

	v, err := coerce("value", value, l.value)
	if err != nil {
		return err
	}

	for range count {
		l.items = reflect.Append(l.items, v)
	}

	return nil
}

func (l *listIterable) Build() (any, error) {
	if err := l.finish(); err != nil {
		return nil, err
	}

	if l.metatype != MetaTypeArray {
		return l.items.Interface(), nil
	}

	arrayType := l.target
	if arrayType == nil {
		arrayType = reflect.ArrayOf(l.items.Len(), l.value)
	} else if arrayType.Len() != l.items.Len() {
		return nil, fmt.Errorf("seriter: array %s expects %d elements, got %d", arrayType, arrayType.Len(), l.items.Len())
	}

	arr := reflect.New(arrayType).Elem()
	reflect.Copy(arr, l.items)

	return arr.Interface(), nil
}

// mapIterable backs Go maps and map[T]struct{} sets.
type mapIterable struct {
	shape
	m reflect.Value
}

func newMap(target reflect.Type) *mapIterable {
	s := shape{metatype: MetaTypeMap, key: target.Key(), value: target.Elem()}
	if target.Elem() == emptyType {
		s = shape{metatype: MetaTypeSet, value: target.Key()}
	}

	return &mapIterable{shape: s, m: reflect.MakeMap(target)}
}

func (m *mapIterable) Add(key, _ any, value any, count int) error {
	if err := m.checkCount(count); err != nil {
		return err
	}

	if m.metatype == MetaTypeSet {
		v, err := coerce("element", value, m.value)
		if err != nil {
			return err
		}

		m.m.SetMapIndex(v, reflect.Zero(emptyType))

		return nil
	}

	k, err := coerce("key", key, m.key)
	if err != nil {
		return err
	}

	v, err := coerce("value", value, m.value)
	if err != nil {
		return err
	}

	// a repeated key overwrites the earlier value
	m.m.SetMapIndex(k, v)

	return nil
}

func (m *mapIterable) Build() (any, error) {
	if err := m.finish(); err != nil {
		return nil, err
	}

	return m.m.Interface(), nil
}

// setIterable backs mapset.Set[T], driven through its method set.
type setIterable struct {
	shape
	set reflect.Value
}

func newSet(elem reflect.Type, ctor func() any) *setIterable {
	return &setIterable{
		shape: shape{metatype: MetaTypeSet, value: elem},
		set:   reflect.ValueOf(ctor()),
	}
}

func (s *setIterable) Add(_, _ any, value any, count int) error {
	if err := s.checkCount(count); err != nil {
		return err
	}

	v, err := coerce("element", value, s.value)
	if err != nil {
		return err
	}

	s.set.MethodByName("Add").Call([]reflect.Value{v})

	return nil
}

func (s *setIterable) Build() (any, error) {
	if err := s.finish(); err != nil {
		return nil, err
	}

	return s.set.Interface(), nil
}

// collectIterable backs the generic collections of package collect.
type collectIterable struct {
	shape
	c       collect.Collection
	byValue bool // Build returns the struct rather than the pointer
}

func newCollect(target reflect.Type) *collectIterable {
	structType := target
	if target.Kind() == reflect.Pointer {
		structType = target.Elem()
	}

	c := reflect.New(structType).Interface().(collect.Collection)
	k, col, v := c.ElemTypes()

	return &collectIterable{
		shape:   shape{metatype: c.MetaType(), key: k, column: col, value: v},
		c:       c,
		byValue: target.Kind() != reflect.Pointer,
	}
}

func (c *collectIterable) Add(key, column, value any, count int) error {
	if err := c.checkCount(count); err != nil {
		return err
	}

	k, err := coerce("key", key, c.key)
	if err != nil {
		return err
	}

	var col reflect.Value
	if c.column != nil {
		if col, err = coerce("column", column, c.column); err != nil {
			return err
		}
	}

	v, err := coerce("value", value, c.value)
	if err != nil {
		return err
	}

	for range count {
		if err := c.c.AddEntry(k.Interface(), valueOrNil(col), v.Interface()); err != nil {
			return err
		}
	}

	return nil
}

func (c *collectIterable) Build() (any, error) {
	if err := c.finish(); err != nil {
		return nil, err
	}

	if c.byValue {
		return reflect.ValueOf(c.c).Elem().Interface(), nil
	}

	return c.c, nil
}

func valueOrNil(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	return v.Interface()
}

func isCollection(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer:
		return t.Elem().Kind() == reflect.Struct && t.Implements(collectionType)
	case reflect.Struct:
		return reflect.PointerTo(t).Implements(collectionType)
	default:
		return false
	}
}
