package meta

import (
	"errors"
	"fmt"
)

// ErrAlreadyBuilt is returned by a Builder whose Build has already been called.
var ErrAlreadyBuilt = errors.New("builder already used")

// MapBuilder is a Builder that accumulates values in a PropertyMap and hands
// the map to a build function.
type MapBuilder struct {
	bean  MetaBean
	props *PropertyMap
	build func(*PropertyMap) (any, error)
	done  bool
}

// NewMapBuilder creates a MapBuilder for bean. Set rejects names bean does not declare.
func NewMapBuilder(bean MetaBean, build func(*PropertyMap) (any, error)) *MapBuilder {
	return &MapBuilder{bean: bean, props: NewPropertyMap(), build: build}
}

// Set implements Builder.
func (b *MapBuilder) Set(name string, value any) error {
	if b.done {
		return ErrAlreadyBuilt
	}

	if _, ok := b.bean.Property(name); !ok {
		return fmt.Errorf("%s has no property %q", b.bean.Name(), name)
	}

	b.props.Set(name, value)

	return nil
}

// Build implements Builder. A Validator result is checked before returning.
func (b *MapBuilder) Build() (any, error) {
	if b.done {
		return nil, ErrAlreadyBuilt
	}

	b.done = true

	bean, err := b.build(b.props)
	if err != nil {
		return nil, err
	}

	if v, ok := bean.(Validator); ok {
		if err := v.Validate(); err != nil {
			return nil, fmt.Errorf("%s failed validation: %w", b.bean.Name(), err)
		}
	}

	return bean, nil
}
