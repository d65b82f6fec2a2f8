package meta

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

const beanTagKey = "bean"

// ErrNotStruct indicates the provided type is not a struct.
var ErrNotStruct = errors.New("meta: type is not a struct")

// StructMetaBean derives a MetaBean from the exported fields of a struct.
type StructMetaBean struct {
	name  string
	typ   reflect.Type
	props []*fieldProperty
	index map[string]*fieldProperty
}

type fieldProperty struct {
	name  string
	index []int
	typ   reflect.Type
}

// NewStructMetaBean inspects t (a struct or pointer to struct). An empty name
// selects DefaultName.
func NewStructMetaBean(t reflect.Type, name string) (*StructMetaBean, error) {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %v", ErrNotStruct, t)
	}

	if name == "" {
		name = DefaultName(t)
	}

	mb := &StructMetaBean{
		name:  name,
		typ:   t,
		index: make(map[string]*fieldProperty),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		tag := field.Tag.Get(beanTagKey)
		if tag == "-" || !field.IsExported() {
			continue
		}

		// Embedded structs are not flattened; only tagged ones become properties.
		if field.Anonymous && tag == "" {
			continue
		}

		propName := field.Name
		if tagName, _, _ := strings.Cut(tag, ","); tagName != "" {
			propName = tagName
		}

		if _, dup := mb.index[propName]; dup {
			return nil, fmt.Errorf("meta: %s declares property %q twice", name, propName)
		}

		prop := &fieldProperty{name: propName, index: field.Index, typ: field.Type}
		mb.props = append(mb.props, prop)
		mb.index[propName] = prop
	}

	return mb, nil
}

// Name implements MetaBean.
func (m *StructMetaBean) Name() string { return m.name }

// Type implements MetaBean.
func (m *StructMetaBean) Type() reflect.Type { return m.typ }

// Properties implements MetaBean.
func (m *StructMetaBean) Properties() []MetaProperty {
	out := make([]MetaProperty, len(m.props))
	for i, p := range m.props {
		out[i] = p
	}

	return out
}

// Property implements MetaBean.
func (m *StructMetaBean) Property(name string) (MetaProperty, bool) {
	p, ok := m.index[name]
	if !ok {
		return nil, false
	}

	return p, true
}

// NewBuilder implements MetaBean. The built value is a pointer to the struct.
func (m *StructMetaBean) NewBuilder() Builder {
	return NewMapBuilder(m, m.build)
}

func (m *StructMetaBean) build(props *PropertyMap) (any, error) {
	ptr := reflect.New(m.typ)

	var err error

	props.Range(func(name string, value any) bool {
		prop := m.index[name]

		var v reflect.Value

		v, err = Coerce(value, prop.typ)
		if err != nil {
			err = fmt.Errorf("property %q: %w", name, err)
			return false
		}

		ptr.Elem().FieldByIndex(prop.index).Set(v)

		return true
	})

	if err != nil {
		return nil, err
	}

	return ptr.Interface(), nil
}

func (p *fieldProperty) Name() string       { return p.name }
func (p *fieldProperty) Type() reflect.Type { return p.typ }

func (p *fieldProperty) Get(bean any) (any, error) {
	v := reflect.ValueOf(bean)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("cannot read %q from a nil bean", p.name)
		}

		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("cannot read %q from %s", p.name, v.Type())
	}

	return v.FieldByIndex(p.index).Interface(), nil
}
