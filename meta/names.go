package meta

import (
	"reflect"
	"strings"
	"time"
)

// DefaultName returns "pkgpath.Name" for named types and the Go spelling otherwise.
func DefaultName(t reflect.Type) string {
	if t.Name() == "" || t.PkgPath() == "" {
		return t.String()
	}

	return t.PkgPath() + "." + t.Name()
}

// PackageOf returns the package prefix of a type name: everything before the
// last dot that is outside of type-argument brackets.
// "example.com/shapes.Circle" -> "example.com/shapes".
func PackageOf(name string) string {
	base, _, _ := strings.Cut(name, "[")

	i := strings.LastIndex(base, ".")
	if i < 0 {
		return ""
	}

	return base[:i]
}

// Relativize shortens name to ".Simple" when it belongs to pkg.
func Relativize(name, pkg string) string {
	if pkg == "" || PackageOf(name) != pkg {
		return name
	}

	return name[len(pkg):]
}

// IsRelative reports whether name is a relative type name.
func IsRelative(name string) bool {
	return strings.HasPrefix(name, ".")
}

// builtins maps the Go spelling of predeclared and common standard library
// types to their reflect.Type. Aliases map to the same type.
var builtins = map[string]reflect.Type{
	"bool":          reflect.TypeFor[bool](),
	"string":        reflect.TypeFor[string](),
	"int":           reflect.TypeFor[int](),
	"int8":          reflect.TypeFor[int8](),
	"int16":         reflect.TypeFor[int16](),
	"int32":         reflect.TypeFor[int32](),
	"int64":         reflect.TypeFor[int64](),
	"uint":          reflect.TypeFor[uint](),
	"uint8":         reflect.TypeFor[uint8](),
	"uint16":        reflect.TypeFor[uint16](),
	"uint32":        reflect.TypeFor[uint32](),
	"uint64":        reflect.TypeFor[uint64](),
	"float32":       reflect.TypeFor[float32](),
	"float64":       reflect.TypeFor[float64](),
	"byte":          reflect.TypeFor[byte](),
	"rune":          reflect.TypeFor[rune](),
	"any":           reflect.TypeFor[any](),
	"interface {}":  reflect.TypeFor[any](),
	"struct {}":     reflect.TypeFor[struct{}](),
	"time.Time":     reflect.TypeFor[time.Time](),
	"time.Duration": reflect.TypeFor[time.Duration](),
}

// canonical picks the preferred spelling of builtin types.
var canonical = map[reflect.Type]string{
	reflect.TypeFor[any]():      "any",
	reflect.TypeFor[struct{}](): "struct {}",
}
