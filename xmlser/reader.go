package xmlser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"reflect"
	"slices"
	"strings"

	"beanser/deser"
	"beanser/diagnostic"
	"beanser/meta"
	"beanser/seriter"
)

var stringType = reflect.TypeFor[string]()

// TokenSource supplies XML tokens. *xml.Decoder implements it; any other
// producer of start, end and character tokens can drive the reader too.
type TokenSource interface {
	Token() (xml.Token, error)
}

// Reader rebuilds beans from XML documents. It keeps an explicit stack of
// frames instead of recursing, so the token source may be pulled from any
// producer, one token at a time.
type Reader struct {
	settings Settings
	src      TokenSource
	pkg      string
	stack    []*entry
	result   any
}

// entry is one open element: the frame consuming its content and the
// callback receiving its value once the element closes.
type entry struct {
	frame   frame
	owner   *beanFrame
	at      diagnostic.Path
	elem    string
	deliver func(value any) error
}

type frame interface {
	start(r *Reader, e *entry, el xml.StartElement) error
	text(r *Reader, e *entry, data []byte) error
	end(r *Reader, e *entry) (any, error)
}

// NewReader creates a reader using settings.
func NewReader(settings Settings) *Reader {
	return &Reader{settings: settings.normalized()}
}

// Read parses one document from in.
func (r *Reader) Read(in io.Reader) (any, error) {
	return r.ReadTokens(xml.NewDecoder(in))
}

// ReadString parses one document held in a string.
func (r *Reader) ReadString(doc string) (any, error) {
	return r.Read(strings.NewReader(doc))
}

// ReadAs parses one document and converts the root bean to T, which may be
// the bean struct, a pointer to it or an interface it implements.
func ReadAs[T any](r *Reader, in io.Reader) (T, error) {
	var zero T

	bean, err := r.Read(in)
	if err != nil {
		return zero, err
	}

	v, err := meta.Coerce(bean, reflect.TypeFor[T]())
	if err != nil {
		return zero, err
	}

	return v.Interface().(T), nil
}

// ReadTokens parses one document from src. Reading stops at the end of the
// root element; anything after it is left in src.
func (r *Reader) ReadTokens(src TokenSource) (any, error) {
	r.src, r.pkg, r.stack, r.result = src, "", nil, nil

	defer func() { r.src, r.stack = nil, nil }()

	started := false

	for {
		tok, err := src.Token()
		if err != nil {
			return nil, r.tokenError(err, started)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if !started {
				started = true
				if err := r.openRoot(t); err != nil {
					return nil, r.locate(err)
				}

				continue
			}

			top := r.top()
			if err := top.frame.start(r, top, t); err != nil {
				return nil, r.fail(top, err)
			}

		case xml.EndElement:
			if len(r.stack) == 0 {
				return nil, r.locate(diagnostic.Formatf(t.Name.Local, "unexpected end element"))
			}

			top := r.pop()

			value, err := top.frame.end(r, top)
			if err != nil {
				return nil, r.fail(top, err)
			}

			if err := top.deliver(value); err != nil {
				return nil, r.fail(top, err)
			}

			if len(r.stack) == 0 {
				return r.result, nil
			}

		case xml.CharData:
			if len(r.stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, r.locate(diagnostic.Formatf("", "unexpected text outside of the root element"))
				}

				continue
			}

			top := r.top()
			if err := top.frame.text(r, top, t); err != nil {
				return nil, r.fail(top, err)
			}
		}
	}
}

func (r *Reader) tokenError(err error, started bool) error {
	var syntax *xml.SyntaxError

	switch {
	case errors.Is(err, io.EOF) && !started:
		return &diagnostic.DocumentFormatError{Message: "no root element", Err: diagnostic.ErrUnterminated}
	case errors.Is(err, io.EOF), errors.As(err, &syntax) && syntax.Msg == "unexpected EOF":
		e := &diagnostic.DocumentFormatError{Message: "document ended early", Err: diagnostic.ErrUnterminated}
		if len(r.stack) > 0 {
			e.Element = r.top().elem
			return r.fail(r.top(), e)
		}

		return e
	}

	e := &diagnostic.DocumentFormatError{Message: "malformed XML", Err: err}
	if len(r.stack) > 0 {
		return r.fail(r.top(), e)
	}

	return r.locate(e)
}

func (r *Reader) top() *entry { return r.stack[len(r.stack)-1] }

func (r *Reader) pop() *entry {
	e := r.top()
	r.stack = r.stack[:len(r.stack)-1]

	return e
}

func (r *Reader) push(e *entry) { r.stack = append(r.stack, e) }

// fail attaches the enclosing bean and the path of e to err.
func (r *Reader) fail(e *entry, err error) error {
	var be *diagnostic.BeanError
	if errors.As(err, &be) {
		return err
	}

	err = r.locate(err)

	var ce *diagnostic.ConversionError
	if errors.As(err, &ce) && ce.Path == "" {
		ce.Path = e.at.String()
	}

	if e.owner == nil {
		return err
	}

	return diagnostic.WrapBean(e.owner.mb.Name(), e.at.String(), err)
}

// locate fills in the input line of format errors when the source knows it.
func (r *Reader) locate(err error) error {
	var dfe *diagnostic.DocumentFormatError
	if !errors.As(err, &dfe) || dfe.Line > 0 {
		return err
	}

	if pos, ok := r.src.(interface{ InputPos() (int, int) }); ok {
		dfe.Line, _ = pos.InputPos()
	}

	return err
}

func (r *Reader) openRoot(el xml.StartElement) error {
	if el.Name.Local != elemBean {
		return diagnostic.Formatf(el.Name.Local, "root element must be <%s>", elemBean)
	}

	attrs, err := attributes(el, attrType)
	if err != nil {
		return err
	}

	name, ok := attrs[attrType]
	if !ok {
		return diagnostic.Formatf(elemBean, "root element must have a %s attribute", attrType)
	}

	t, err := r.settings.Types.Resolve(name, "")
	if err != nil {
		return err
	}

	r.pkg = meta.PackageOf(name)

	mb, d, ok := r.metaBean(t)
	if !ok {
		return &diagnostic.DocumentFormatError{Element: elemBean, Message: name, Err: diagnostic.ErrNotBean}
	}

	root := &beanFrame{mb: mb, d: d, props: meta.NewPropertyMap()}
	r.push(&entry{
		frame: root,
		owner: root,
		at:    diagnostic.NewPath(mb.Name()),
		elem:  elemBean,
		deliver: func(value any) error {
			r.result = value
			return nil
		},
	})

	return nil
}

// open pushes the frame for a property or item element whose declared type
// is declared. Item elements may also carry key, col and count.
func (r *Reader) open(el xml.StartElement, declared reflect.Type, item bool, at diagnostic.Path, owner *beanFrame, deliver func(any) error) error {
	e := &entry{owner: owner, at: at, elem: el.Name.Local, deliver: deliver}
	if err := r.openFrame(e, el, declared, item); err != nil {
		return r.fail(e, err)
	}

	return nil
}

func (r *Reader) openFrame(e *entry, el xml.StartElement, declared reflect.Type, item bool) error {
	attrs, _ := attributes(el)

	if null, ok := attrs[attrNull]; ok {
		if null != "true" {
			return diagnostic.Formatf(e.elem, "invalid %s attribute %q", attrNull, null)
		}

		e.frame = nullFrame{}
		r.push(e)

		return nil
	}

	if metatype, ok := attrs[attrMetaType]; ok {
		it, err := r.iterableOf(metatype, declared, attrs)
		if err != nil {
			return err
		}

		e.frame = &iterFrame{it: it}
		r.push(e)

		return nil
	}

	typ := declared
	named := false

	if name, ok := attrs[attrType]; ok {
		t, err := r.resolve(name)
		if err != nil {
			return err
		}

		typ, named = t, true
	}

	if mb, d, ok := r.metaBean(typ); ok {
		allowed := []string{attrType}
		if item {
			allowed = append(allowed, attrKey, attrCol, attrCount)
		}

		if _, err := attributes(el, allowed...); err != nil {
			return err
		}

		child := &beanFrame{mb: mb, d: d, props: meta.NewPropertyMap(), value: named && typ.Kind() != reflect.Pointer}
		e.frame, e.owner = child, child
		r.push(e)

		return nil
	}

	if typ != nil {
		if it := r.settings.Iterables.Iterable(typ); it != nil {
			e.frame = &iterFrame{it: it}
			r.push(e)

			return nil
		}
	}

	if typ == nil || typ.Kind() == reflect.Interface {
		typ = stringType
	}

	e.frame = &leafFrame{typ: typ}
	r.push(e)

	return nil
}

// metaBean finds the meta bean to build for data written as t, consulting
// the deserializer of t first.
func (r *Reader) metaBean(t reflect.Type) (meta.MetaBean, deser.Deserializer, bool) {
	t = meta.Indirect(t)
	if t == nil || t.Kind() == reflect.Interface {
		return nil, nil, false
	}

	d := r.settings.Deserializers.Find(t)

	target := d.DecodeType(t)
	if target != t {
		r.settings.Logger.Debugw("redirecting type", "from", r.settings.Types.NameOf(t), "to", r.settings.Types.NameOf(target))
	}

	mb, ok := r.settings.Types.MetaBean(target)

	return mb, d, ok
}

func (r *Reader) resolve(name string) (reflect.Type, error) {
	return r.settings.Types.Resolve(name, r.pkg)
}

// iterableOf picks the SerIterable for an element carrying a metatype. The
// declared type wins when it has the same shape; otherwise the element types
// come from the keytype, coltype and type attributes.
func (r *Reader) iterableOf(metatype string, declared reflect.Type, attrs map[string]string) (seriter.SerIterable, error) {
	if declared != nil {
		if it := r.settings.Iterables.Iterable(declared); it != nil && it.MetaType() == metatype {
			return it, nil
		}
	}

	var types [3]reflect.Type

	for i, name := range [3]string{attrKeyType, attrColType, attrType} {
		if s, ok := attrs[name]; ok {
			t, err := r.resolve(s)
			if err != nil {
				return nil, err
			}

			types[i] = t
		}
	}

	return r.settings.Iterables.IterableOf(metatype, types[0], types[1], types[2])
}

// keyValue parses a key or column attribute. Keys of interface type stay text.
func (r *Reader) keyValue(text string, t reflect.Type) (any, error) {
	if t == nil || t.Kind() == reflect.Interface {
		return text, nil
	}

	return r.settings.Converter.FromText(text, t)
}

// attributes collects the attributes of el by local name. When allowed is
// not empty, any other attribute is an error.
func attributes(el xml.StartElement, allowed ...string) (map[string]string, error) {
	attrs := make(map[string]string, len(el.Attr))

	for _, a := range el.Attr {
		if len(allowed) > 0 && !slices.Contains(allowed, a.Name.Local) {
			return nil, diagnostic.Formatf(el.Name.Local, "unexpected attribute %q", a.Name.Local)
		}

		attrs[a.Name.Local] = a.Value
	}

	return attrs, nil
}

func noText(elem string, data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 {
		return diagnostic.Formatf(elem, "unexpected text %q", truncate(string(trimmed), 32))
	}

	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}

	return s[:n] + "..."
}
