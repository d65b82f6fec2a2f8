package meta

import (
	"reflect"

	"beanser/collect"
)

// MetaProperty describes one property of a bean type.
type MetaProperty interface {
	// Name is the property name used on the wire.
	Name() string
	// Type is the declared type; the runtime value may be a subtype.
	Type() reflect.Type
	// Get reads the property from a bean instance (value or pointer).
	Get(bean any) (any, error)
}

// MetaBean describes a bean type.
type MetaBean interface {
	// Name is the canonical type name.
	Name() string
	// Type is the bean type with pointers stripped.
	Type() reflect.Type
	// Properties returns the properties in declaration order.
	Properties() []MetaProperty
	// Property looks up a property by name.
	Property(name string) (MetaProperty, bool)
	// NewBuilder starts the staged construction of an instance.
	NewBuilder() Builder
}

// Builder accumulates property values and creates the bean in one step.
type Builder interface {
	// Set stores the pending value of a property.
	Set(name string, value any) error
	// Build creates the bean. It may be called at most once.
	Build() (any, error)
}

// Validator is implemented by beans that check their own invariants once built.
type Validator interface {
	Validate() error
}

// PropertyMap is an ordered accumulator of pending property values.
type PropertyMap struct {
	entries collect.OrderedMap[string, any]
}

// NewPropertyMap creates an empty PropertyMap.
func NewPropertyMap() *PropertyMap {
	return &PropertyMap{}
}

// Set stores value under name.
func (p *PropertyMap) Set(name string, value any) {
	p.entries.Set(name, value)
}

// Get returns the value stored under name.
func (p *PropertyMap) Get(name string) (any, bool) {
	return p.entries.Get(name)
}

// Has reports whether name is present, even with a nil value.
func (p *PropertyMap) Has(name string) bool {
	return p.entries.Has(name)
}

// Delete removes name and reports whether it was present.
func (p *PropertyMap) Delete(name string) bool {
	return p.entries.Delete(name)
}

// Rename moves the value stored under from to to. It reports false when from is absent.
// An existing value under to is replaced.
func (p *PropertyMap) Rename(from, to string) bool {
	v, ok := p.entries.Get(from)
	if !ok {
		return false
	}

	p.entries.Delete(from)
	p.entries.Delete(to)
	p.entries.Set(to, v)

	return true
}

// Names returns the property names in insertion order.
func (p *PropertyMap) Names() []string {
	return p.entries.Keys()
}

// Len returns the number of properties.
func (p *PropertyMap) Len() int {
	return p.entries.Len()
}

// Range calls fn for each property in order until fn returns false.
func (p *PropertyMap) Range(fn func(name string, value any) bool) {
	p.entries.Range(fn)
}
