package xmlser

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"unicode/utf8"

	"beanser/diagnostic"
	"beanser/meta"
	"beanser/seriter"
)

// Writer renders beans as XML documents.
type Writer struct {
	settings Settings
	enc      *xml.Encoder
	pkg      string
}

// NewWriter creates a writer using settings.
func NewWriter(settings Settings) *Writer {
	return &Writer{settings: settings.normalized()}
}

// Write renders bean as a string.
func (w *Writer) Write(bean any) (string, error) {
	var buf bytes.Buffer
	if err := w.WriteTo(&buf, bean); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// WriteTo renders bean to out.
func (w *Writer) WriteTo(out io.Writer, bean any) error {
	if meta.IsNil(bean) {
		return fmt.Errorf("%w: nil", diagnostic.ErrNotBean)
	}

	mb, ok := w.settings.Types.MetaBean(reflect.TypeOf(bean))
	if !ok {
		return fmt.Errorf("%w: %T", diagnostic.ErrNotBean, bean)
	}

	rootName := w.settings.Types.NameOf(mb.Type())
	w.pkg = meta.PackageOf(rootName)

	if _, err := io.WriteString(out, xml.Header); err != nil {
		return err
	}

	w.enc = xml.NewEncoder(out)
	w.enc.Indent("", w.settings.Indent)

	defer func() { w.enc = nil }()

	start := xml.StartElement{Name: xml.Name{Local: elemBean}, Attr: []xml.Attr{attr(attrType, rootName)}}
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	if err := w.writeProperties(mb, bean, diagnostic.NewPath(mb.Name())); err != nil {
		return err
	}

	if err := w.enc.EncodeToken(start.End()); err != nil {
		return err
	}

	if err := w.enc.Flush(); err != nil {
		return err
	}

	_, err := io.WriteString(out, "\n")

	return err
}

func (w *Writer) writeProperties(mb meta.MetaBean, bean any, path diagnostic.Path) error {
	for _, p := range mb.Properties() {
		value, err := p.Get(bean)
		if err != nil {
			return fmt.Errorf("%s: %w", path.Property(p.Name()), err)
		}

		if err := w.writeValue(p.Name(), p.Type(), value, nil, path.Property(p.Name())); err != nil {
			return err
		}
	}

	return nil
}

// writeValue emits one property or item element holding value.
func (w *Writer) writeValue(tag string, declared reflect.Type, value any, attrs []xml.Attr, path diagnostic.Path) error {
	start := xml.StartElement{Name: xml.Name{Local: tag}, Attr: attrs}

	if meta.IsNil(value) {
		start.Attr = append(start.Attr, attr(attrNull, "true"))
		return w.empty(start)
	}

	runtime := reflect.TypeOf(value)

	if mb, ok := w.settings.Types.MetaBean(runtime); ok {
		switch {
		case declared == nil || declared.Kind() == reflect.Interface:
			// the exact dynamic type, so pointer and value beans read back alike
			start.Attr = append(start.Attr, attr(attrType, w.typeName(runtime)))
		case mb.Type() != meta.Indirect(declared):
			start.Attr = append(start.Attr, attr(attrType, w.typeName(mb.Type())))
		}

		if err := w.enc.EncodeToken(start); err != nil {
			return err
		}

		if err := w.writeProperties(mb, value, path); err != nil {
			return err
		}

		return w.enc.EncodeToken(start.End())
	}

	if it, ok := w.settings.Iterables.Iterator(value, declared); ok {
		return w.writeIterable(start, declared, it, path)
	}

	if declared == nil || declared.Kind() == reflect.Interface {
		start.Attr = append(start.Attr, attr(attrType, w.typeName(runtime)))
		declared = runtime
	}

	text, err := w.settings.Converter.ToText(value, declared)
	if err != nil {
		var ce *diagnostic.ConversionError
		if errors.As(err, &ce) {
			ce.Path = path.String()
			return ce
		}

		return &diagnostic.ConversionError{Type: runtime.String(), Path: path.String(), Err: err}
	}

	if err := checkText(text, runtime, path); err != nil {
		return err
	}

	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	if text != "" {
		if err := w.enc.EncodeToken(xml.CharData(text)); err != nil {
			return err
		}
	}

	return w.enc.EncodeToken(start.End())
}

func (w *Writer) writeIterable(start xml.StartElement, declared reflect.Type, it seriter.SerIterator, path diagnostic.Path) error {
	start.Attr = append(start.Attr, attr(attrMetaType, it.MetaType()))

	if !w.deducible(declared, it) {
		if seriter.HasKeys(it.MetaType()) {
			start.Attr = append(start.Attr, attr(attrKeyType, w.typeName(it.KeyType())))
		}

		if seriter.HasColumns(it.MetaType()) {
			start.Attr = append(start.Attr, attr(attrColType, w.typeName(it.ColumnType())))
		}

		start.Attr = append(start.Attr, attr(attrType, w.typeName(it.ValueType())))
	}

	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	index := 0

	for it.Next() {
		var attrs []xml.Attr

		itemPath := path.Index(index)

		if seriter.HasKeys(it.MetaType()) {
			key, err := w.keyText(it.Key(), it.KeyType(), path.Index(index))
			if err != nil {
				return err
			}

			attrs = append(attrs, attr(attrKey, key))
			itemPath = path.Key(key)
		}

		if seriter.HasColumns(it.MetaType()) {
			col, err := w.keyText(it.Column(), it.ColumnType(), itemPath)
			if err != nil {
				return err
			}

			attrs = append(attrs, attr(attrCol, col))
			itemPath = itemPath.Key(col)
		}

		if it.Count() > 1 {
			attrs = append(attrs, attr(attrCount, strconv.Itoa(it.Count())))
		}

		if err := w.writeValue(elemItem, it.ValueType(), it.Value(), attrs, itemPath); err != nil {
			return err
		}

		index += it.Count()
	}

	return w.enc.EncodeToken(start.End())
}

// deducible reports whether the reader can rebuild the collection from the
// declared type alone.
func (w *Writer) deducible(declared reflect.Type, it seriter.SerIterator) bool {
	want := w.settings.Iterables.Iterable(declared)
	if want == nil || want.MetaType() != it.MetaType() {
		return false
	}

	return want.KeyType() == it.KeyType() && want.ColumnType() == it.ColumnType() && want.ValueType() == it.ValueType()
}

func (w *Writer) keyText(key any, t reflect.Type, path diagnostic.Path) (string, error) {
	if t == nil || t.Kind() == reflect.Interface {
		t = reflect.TypeOf(key)
	}

	text, err := w.settings.Converter.ToText(key, t)
	if err != nil {
		var ce *diagnostic.ConversionError
		if errors.As(err, &ce) {
			ce.Path = path.String()
		}

		return "", err
	}

	if err := checkText(text, t, path); err != nil {
		return "", err
	}

	return text, nil
}

// checkText rejects text the encoder would silently replace with U+FFFD.
func checkText(text string, t reflect.Type, path diagnostic.Path) error {
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])

		var err error

		switch {
		case r == utf8.RuneError && size == 1:
			err = fmt.Errorf("%w: invalid UTF-8 at byte %d", diagnostic.ErrInvalidText, i)
		case !isXMLChar(r):
			err = fmt.Errorf("%w: %U at byte %d", diagnostic.ErrInvalidText, r, i)
		}

		if err != nil {
			return &diagnostic.ConversionError{Type: t.String(), Path: path.String(), Err: err}
		}

		i += size
	}

	return nil
}

func isXMLChar(r rune) bool {
	return r == '\t' || r == '\n' || r == '\r' ||
		r >= 0x20 && r <= 0xD7FF ||
		r >= 0xE000 && r <= 0xFFFD ||
		r >= 0x10000 && r <= utf8.MaxRune
}

func (w *Writer) empty(start xml.StartElement) error {
	if err := w.enc.EncodeToken(start); err != nil {
		return err
	}

	return w.enc.EncodeToken(start.End())
}

func (w *Writer) typeName(t reflect.Type) string {
	if t.Kind() == reflect.Pointer && t.Name() == "" {
		return "*" + w.typeName(t.Elem())
	}

	name := w.settings.Types.NameOf(t)
	if w.settings.ShortTypes {
		return meta.Relativize(name, w.pkg)
	}

	return name
}

func attr(name, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Local: name}, Value: value}
}
