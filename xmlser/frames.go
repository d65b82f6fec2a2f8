package xmlser

import (
	"encoding/xml"
	"reflect"
	"strconv"
	"strings"

	"beanser/deser"
	"beanser/diagnostic"
	"beanser/internal/match"
	"beanser/meta"
	"beanser/seriter"
)

// beanFrame collects the property elements of one bean.
type beanFrame struct {
	mb    meta.MetaBean
	d     deser.Deserializer
	props *meta.PropertyMap
	// value is set when the element names a non-pointer type, so the bean
	// is delivered as a struct value rather than a pointer.
	value bool
}

func (f *beanFrame) start(r *Reader, e *entry, el xml.StartElement) error {
	name := el.Name.Local

	p, ok := f.d.FindProperty(f.mb, name)
	if !ok {
		return &diagnostic.UnknownPropertyError{
			BeanType:    f.mb.Name(),
			Property:    name,
			Suggestions: match.Closest(name, propertyNames(f.mb), 3),
		}
	}

	if deser.IsDiscard(p) {
		r.settings.Logger.Debugw("skipping property", "type", f.mb.Name(), "property", name)
		r.push(&entry{frame: skipFrame{}, owner: f, at: e.at.Property(name), elem: name, deliver: discard})

		return nil
	}

	target := p.Name()
	if f.props.Has(target) {
		return diagnostic.Formatf(name, "duplicate property %q", target)
	}

	return r.open(el, p.Type(), false, e.at.Property(name), f, func(value any) error {
		f.props.Set(target, value)
		return nil
	})
}

func (f *beanFrame) text(_ *Reader, e *entry, data []byte) error {
	return noText(e.elem, data)
}

func (f *beanFrame) end(r *Reader, _ *entry) (any, error) {
	before := f.props.Len()

	if err := f.d.Migrate(f.mb, f.props); err != nil {
		return nil, err
	}

	if f.props.Len() != before {
		r.settings.Logger.Debugw("migrated properties", "type", f.mb.Name(), "before", before, "after", f.props.Len())
	}

	b := f.mb.NewBuilder()

	var err error

	f.props.Range(func(name string, value any) bool {
		err = b.Set(name, value)
		return err == nil
	})

	if err != nil {
		return nil, err
	}

	bean, err := b.Build()
	if err != nil || !f.value {
		return bean, err
	}

	if v := reflect.ValueOf(bean); v.Kind() == reflect.Pointer && !v.IsNil() {
		return v.Elem().Interface(), nil
	}

	return bean, nil
}

func propertyNames(mb meta.MetaBean) []string {
	props := mb.Properties()

	names := make([]string, 0, len(props))
	for _, p := range props {
		names = append(names, p.Name())
	}

	return names
}

// iterFrame collects the item elements of one collection.
type iterFrame struct {
	it    seriter.SerIterable
	index int
}

func (f *iterFrame) start(r *Reader, e *entry, el xml.StartElement) error {
	if el.Name.Local != elemItem {
		return diagnostic.Formatf(el.Name.Local, "expected <%s>", elemItem)
	}

	attrs, _ := attributes(el)
	at := e.at.Index(f.index)

	var key, col any

	if _, ok := attrs[attrKey]; !ok && seriter.HasKeys(f.it.MetaType()) {
		return diagnostic.Formatf(elemItem, "missing %s attribute", attrKey)
	}

	if _, ok := attrs[attrCol]; !ok && seriter.HasColumns(f.it.MetaType()) {
		return diagnostic.Formatf(elemItem, "missing %s attribute", attrCol)
	}

	if text, ok := attrs[attrKey]; ok {
		v, err := r.keyValue(text, f.it.KeyType())
		if err != nil {
			return err
		}

		key, at = v, e.at.Key(text)
	}

	if text, ok := attrs[attrCol]; ok {
		v, err := r.keyValue(text, f.it.ColumnType())
		if err != nil {
			return err
		}

		col, at = v, at.Key(text)
	}

	count := 1

	if text, ok := attrs[attrCount]; ok {
		n, err := strconv.Atoi(text)
		if err != nil || n < 1 {
			return diagnostic.Formatf(elemItem, "invalid %s %q", attrCount, text)
		}

		count = n
	}

	if limit := r.settings.MaxCount; count > limit-f.index {
		return diagnostic.Formatf(elemItem, "collection exceeds %d elements", limit)
	}

	f.index += count

	return r.open(el, f.it.ValueType(), true, at, e.owner, func(value any) error {
		return f.it.Add(key, col, value, count)
	})
}

func (f *iterFrame) text(_ *Reader, e *entry, data []byte) error {
	return noText(e.elem, data)
}

func (f *iterFrame) end(*Reader, *entry) (any, error) {
	return f.it.Build()
}

// leafFrame accumulates the text of a leaf value.
type leafFrame struct {
	typ reflect.Type
	buf strings.Builder
}

func (f *leafFrame) start(_ *Reader, e *entry, el xml.StartElement) error {
	return diagnostic.Formatf(e.elem, "unexpected element <%s> in a %s value", el.Name.Local, f.typ)
}

func (f *leafFrame) text(_ *Reader, _ *entry, data []byte) error {
	f.buf.Write(data)
	return nil
}

func (f *leafFrame) end(r *Reader, _ *entry) (any, error) {
	return r.settings.Converter.FromText(f.buf.String(), f.typ)
}

// nullFrame checks that a null element is empty.
type nullFrame struct{}

func (nullFrame) start(_ *Reader, e *entry, el xml.StartElement) error {
	return diagnostic.Formatf(e.elem, "unexpected element <%s> in a null value", el.Name.Local)
}

func (nullFrame) text(_ *Reader, e *entry, data []byte) error {
	return noText(e.elem, data)
}

func (nullFrame) end(*Reader, *entry) (any, error) { return nil, nil }

// skipFrame consumes a discarded element and everything inside it.
type skipFrame struct{}

func (skipFrame) start(r *Reader, e *entry, el xml.StartElement) error {
	r.push(&entry{frame: skipFrame{}, owner: e.owner, at: e.at, elem: el.Name.Local, deliver: discard})
	return nil
}

func (skipFrame) text(*Reader, *entry, []byte) error { return nil }

func (skipFrame) end(*Reader, *entry) (any, error) { return nil, nil }

func discard(any) error { return nil }
