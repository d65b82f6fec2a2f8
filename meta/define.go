package meta

import (
	"fmt"
	"reflect"
)

// PropertyDef declares one property of a defined bean.
type PropertyDef[T any] struct {
	Name string
	Type reflect.Type
	Get  func(T) any
}

// Prop declares a property whose declared type is V.
func Prop[T, V any](name string, get func(T) V) PropertyDef[T] {
	return PropertyDef[T]{
		Name: name,
		Type: reflect.TypeFor[V](),
		Get:  func(b T) any { return get(b) },
	}
}

// DefinedMetaBean is a MetaBean declared explicitly, typically for immutable types.
type DefinedMetaBean[T any] struct {
	name  string
	props []PropertyDef[T]
	index map[string]int
	build func(*PropertyMap) (T, error)
}

// Define declares a bean of type T. The build function receives every value
// set on the builder and creates the instance; absent properties are simply
// missing from the map.
func Define[T any](name string, build func(*PropertyMap) (T, error), props ...PropertyDef[T]) *DefinedMetaBean[T] {
	if name == "" {
		name = DefaultName(Indirect(reflect.TypeFor[T]()))
	}

	index := make(map[string]int, len(props))
	for i, p := range props {
		index[p.Name] = i
	}

	return &DefinedMetaBean[T]{name: name, props: props, index: index, build: build}
}

// Name implements MetaBean.
func (m *DefinedMetaBean[T]) Name() string { return m.name }

// Type implements MetaBean.
func (m *DefinedMetaBean[T]) Type() reflect.Type { return Indirect(reflect.TypeFor[T]()) }

// Properties implements MetaBean.
func (m *DefinedMetaBean[T]) Properties() []MetaProperty {
	out := make([]MetaProperty, len(m.props))
	for i := range m.props {
		out[i] = definedProperty[T]{def: m.props[i]}
	}

	return out
}

// Property implements MetaBean.
func (m *DefinedMetaBean[T]) Property(name string) (MetaProperty, bool) {
	i, ok := m.index[name]
	if !ok {
		return nil, false
	}

	return definedProperty[T]{def: m.props[i]}, true
}

// NewBuilder implements MetaBean.
func (m *DefinedMetaBean[T]) NewBuilder() Builder {
	return NewMapBuilder(m, func(props *PropertyMap) (any, error) {
		return m.build(props)
	})
}

type definedProperty[T any] struct {
	def PropertyDef[T]
}

func (p definedProperty[T]) Name() string       { return p.def.Name }
func (p definedProperty[T]) Type() reflect.Type { return p.def.Type }

func (p definedProperty[T]) Get(bean any) (any, error) {
	if b, ok := bean.(T); ok {
		return p.def.Get(b), nil
	}

	// Accept *T for value beans and T for pointer beans.
	v, err := Coerce(bean, reflect.TypeFor[T]())
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", p.def.Name, err)
	}

	return p.def.Get(v.Interface().(T)), nil
}

// Value reads a typed value from a PropertyMap, returning fallback when the
// property is absent or nil.
func Value[V any](props *PropertyMap, name string, fallback V) (V, error) {
	raw, ok := props.Get(name)
	if !ok || raw == nil {
		return fallback, nil
	}

	v, err := Coerce(raw, reflect.TypeFor[V]())
	if err != nil {
		return fallback, fmt.Errorf("property %q: %w", name, err)
	}

	return v.Interface().(V), nil
}
