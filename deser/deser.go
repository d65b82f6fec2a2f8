package deser

import (
	"errors"
	"reflect"

	"beanser/meta"
)

// ErrWireOnly is returned by Get on properties that exist only in the document.
var ErrWireOnly = errors.New("deser: property exists only on the wire")

// Deserializer adapts serialized data of one type to the current schema.
type Deserializer interface {
	// DecodeType returns the type to build for data written as t.
	DecodeType(t reflect.Type) reflect.Type
	// FindProperty maps a wire property name to the property whose declared
	// type drives parsing. Returning a Discard property skips the value;
	// returning false reports the name as unknown.
	FindProperty(mb meta.MetaBean, name string) (meta.MetaProperty, bool)
	// Migrate rewrites the parsed values before they are passed to the builder.
	Migrate(mb meta.MetaBean, props *meta.PropertyMap) error
}

// Base implements Deserializer without changing anything. Embed it to
// override only the operations a migration needs.
type Base struct{}

func (Base) DecodeType(t reflect.Type) reflect.Type { return t }

func (Base) FindProperty(mb meta.MetaBean, name string) (meta.MetaProperty, bool) {
	return mb.Property(name)
}

func (Base) Migrate(meta.MetaBean, *meta.PropertyMap) error { return nil }

// DefaultDeserializer is returned by Find for types nothing else matches.
var DefaultDeserializer Deserializer = Base{}

// wireProperty is a property known to a deserializer but not to the bean.
type wireProperty struct {
	name    string
	typ     reflect.Type
	discard bool
}

func (p *wireProperty) Name() string       { return p.name }
func (p *wireProperty) Type() reflect.Type { return p.typ }

func (p *wireProperty) Get(any) (any, error) { return nil, ErrWireOnly }

// Discard returns a property telling the reader to skip the named element.
func Discard(name string) meta.MetaProperty {
	return &wireProperty{name: name, typ: reflect.TypeFor[any](), discard: true}
}

// IsDiscard reports whether p was created by Discard.
func IsDiscard(p meta.MetaProperty) bool {
	wp, ok := p.(*wireProperty)
	return ok && wp.discard
}

// Extra returns a property that is parsed as t and kept in the property map
// under name, so that Migrate can consume it. Migrate must remove or rename
// it, since the builder rejects names the bean does not declare.
func Extra(name string, t reflect.Type) meta.MetaProperty {
	return &wireProperty{name: name, typ: t}
}
