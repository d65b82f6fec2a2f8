package meta

import (
	"fmt"
	"reflect"
)

// Coerce adapts an untyped value so that it can be stored in a slot of type t.
//
// Accepted shapes, in order:
//   - nil becomes the zero value of t
//   - values assignable to t are used as they are
//   - *T is dereferenced when t is T
//   - T is copied into a new *T when t is *T, or when t is an interface
//     that only *T implements
//   - basic values are converted between named and unnamed types of the same kind
func Coerce(value any, t reflect.Type) (reflect.Value, error) {
	if value == nil {
		return reflect.Zero(t), nil
	}

	v := reflect.ValueOf(value)
	vt := v.Type()

	switch {
	case vt.AssignableTo(t):
		return v, nil

	case vt.Kind() == reflect.Pointer && vt.Elem().AssignableTo(t):
		if v.IsNil() {
			return reflect.Zero(t), nil
		}

		return v.Elem(), nil

	case t.Kind() == reflect.Pointer && vt.AssignableTo(t.Elem()):
		p := reflect.New(t.Elem())
		p.Elem().Set(v)

		return p, nil

	case vt.Kind() == t.Kind() && isBasicKind(t.Kind()):
		return v.Convert(t), nil

	case t.Kind() == reflect.Interface && reflect.PointerTo(vt).Implements(t):
		p := reflect.New(vt)
		p.Elem().Set(v)

		return p, nil
	}

	return reflect.Value{}, fmt.Errorf("cannot use value of type %s as %s", vt, t)
}

func isBasicKind(k reflect.Kind) bool {
	switch k {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// Indirect strips all pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t
}

// IsNil reports whether value is nil or a nil pointer, map, slice or interface.
func IsNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
