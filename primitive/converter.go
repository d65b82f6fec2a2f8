package primitive

import (
	"encoding"
	"encoding/base64"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"time"

	"beanser/diagnostic"
)

// ErrNotLeaf is wrapped by conversion errors for types the converter does not handle.
var ErrNotLeaf = errors.New("not a convertible leaf type")

// Codec converts values of one type to and from text.
type Codec struct {
	ToText   func(value any) (string, error)
	FromText func(text string) (any, error)
}

// Converter maps leaf values to text and back. It is safe for concurrent use.
type Converter struct {
	custom sync.Map // reflect.Type -> Codec
}

// NewConverter creates a converter for the builtin leaf kinds.
func NewConverter() *Converter {
	return &Converter{}
}

// Register installs a codec for T, taking precedence over the builtin kinds.
func Register[T any](c *Converter, toText func(T) (string, error), fromText func(string) (T, error)) {
	c.custom.Store(reflect.TypeFor[T](), Codec{
		ToText: func(v any) (string, error) { return toText(v.(T)) },
		FromText: func(s string) (any, error) {
			return fromText(s)
		},
	})
}

func (c *Converter) codec(t reflect.Type) (Codec, bool) {
	v, ok := c.custom.Load(t)
	if !ok {
		return Codec{}, false
	}

	return v.(Codec), true
}

// IsConvertible reports whether values of t (or of the type t points to) are leaves.
func (c *Converter) IsConvertible(t reflect.Type) bool {
	if t == nil {
		return false
	}

	if _, ok := c.codec(t); ok {
		return true
	}

	if t.Kind() == reflect.Pointer {
		t = t.Elem()
		if _, ok := c.codec(t); ok {
			return true
		}
	}

	return FromReflectType(t) != 0
}

// ToText renders value, whose declared type is t, as text. When t is nil or an
// interface the runtime type of value is used.
func (c *Converter) ToText(value any, t reflect.Type) (string, error) {
	if value == nil {
		return "", &diagnostic.ConversionError{Type: typeName(t), Err: errors.New("nil value")}
	}

	v := reflect.ValueOf(value)
	if t == nil || t.Kind() == reflect.Interface || !v.Type().AssignableTo(t) {
		t = v.Type()
	}

	if codec, ok := c.codec(t); ok {
		s, err := codec.ToText(value)
		if err != nil {
			return "", &diagnostic.ConversionError{Type: t.String(), Err: err}
		}

		return s, nil
	}

	if t.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", &diagnostic.ConversionError{Type: t.String(), Err: errors.New("nil pointer")}
		}

		return c.ToText(v.Elem().Interface(), t.Elem())
	}

	s, err := format(v, FromReflectType(t))
	if err != nil {
		return "", &diagnostic.ConversionError{Type: t.String(), Err: err}
	}

	return s, nil
}

// FromText parses text into a value of type t.
func (c *Converter) FromText(text string, t reflect.Type) (any, error) {
	if t == nil {
		return nil, &diagnostic.ConversionError{Type: "<nil>", Text: text, Err: ErrNotLeaf}
	}

	if codec, ok := c.codec(t); ok {
		v, err := codec.FromText(text)
		if err != nil {
			return nil, &diagnostic.ConversionError{Type: t.String(), Text: text, Err: err}
		}

		return v, nil
	}

	if t.Kind() == reflect.Pointer {
		elem, err := c.FromText(text, t.Elem())
		if err != nil {
			return nil, err
		}

		p := reflect.New(t.Elem())
		p.Elem().Set(reflect.ValueOf(elem))

		return p.Interface(), nil
	}

	v, err := parse(text, t, FromReflectType(t))
	if err != nil {
		return nil, &diagnostic.ConversionError{Type: t.String(), Text: text, Err: err}
	}

	return v, nil
}

func format(v reflect.Value, kind KindEnum) (string, error) {
	switch kind {
	case 0:
		return "", ErrNotLeaf
	case KindTime:
		return v.Interface().(time.Time).Format(time.RFC3339Nano), nil
	case KindDuration:
		return time.Duration(v.Int()).String(), nil
	case KindText:
		b, err := v.Interface().(encoding.TextMarshaler).MarshalText()
		return string(b), err
	case KindBytes:
		return base64.StdEncoding.EncodeToString(v.Bytes()), nil
	case KindNamed:
		return format(v, FromReflectKind(v.Kind()))
	}

	switch {
	case kind.IsSigned():
		return strconv.FormatInt(v.Int(), 10), nil
	case kind.IsUnsigned():
		return strconv.FormatUint(v.Uint(), 10), nil
	case kind.IsFloat():
		return strconv.FormatFloat(v.Float(), 'g', -1, kind.Bits()), nil
	case kind == KindBool:
		return strconv.FormatBool(v.Bool()), nil
	default:
		return v.String(), nil
	}
}

func parse(text string, t reflect.Type, kind KindEnum) (any, error) {
	out := reflect.New(t).Elem()

	switch kind {
	case 0:
		return nil, ErrNotLeaf

	case KindTime:
		ts, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, err
		}

		out.Set(reflect.ValueOf(ts))

	case KindDuration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return nil, err
		}

		out.SetInt(int64(d))

	case KindText:
		p := reflect.New(t)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(text)); err != nil {
			return nil, err
		}

		out = p.Elem()

	case KindBytes:
		b, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			return nil, err
		}

		out.SetBytes(b)

	case KindNamed:
		return parse(text, t, FromReflectKind(t.Kind()))

	default:
		if err := parseBasic(text, out, kind); err != nil {
			return nil, err
		}
	}

	return out.Interface(), nil
}

func parseBasic(text string, out reflect.Value, kind KindEnum) error {
	switch {
	case kind.IsSigned():
		n, err := strconv.ParseInt(text, 10, kind.Bits())
		if err != nil {
			return err
		}

		out.SetInt(n)

	case kind.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, kind.Bits())
		if err != nil {
			return err
		}

		out.SetUint(n)

	case kind.IsFloat():
		f, err := strconv.ParseFloat(text, kind.Bits())
		if err != nil {
			return err
		}

		out.SetFloat(f)

	case kind == KindBool:
		b, err := strconv.ParseBool(text)
		if err != nil {
			return err
		}

		out.SetBool(b)

	default:
		out.SetString(text)
	}

	return nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}

	return t.String()
}
