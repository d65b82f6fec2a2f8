package meta

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"beanser/diagnostic"
)

// Registry holds the meta beans and type names known to the serializer.
// It is safe for concurrent use; registration is expected to be rare and
// lookups frequent.
type Registry struct {
	beans sync.Map // reflect.Type -> MetaBean
	names sync.Map // string -> reflect.Type
	spell sync.Map // reflect.Type -> string
}

// Default is a process-wide registry for applications that do not need isolation.
var Default = NewRegistry()

// NewRegistry creates a registry that already knows the builtin leaf types.
func NewRegistry() *Registry {
	r := &Registry{}
	for name, t := range builtins {
		r.names.Store(name, t)
	}

	return r
}

// Register adds a meta bean under its name and any aliases.
// Aliases typically keep old type names resolvable after a rename.
func (r *Registry) Register(mb MetaBean, aliases ...string) {
	r.beans.Store(mb.Type(), mb)
	r.RegisterType(mb.Type(), mb.Name(), aliases...)
}

// RegisterStruct derives a StructMetaBean from prototype, which may be a
// value, a pointer or a reflect.Type, and registers it under its default name.
func (r *Registry) RegisterStruct(prototype any, aliases ...string) (MetaBean, error) {
	t, ok := prototype.(reflect.Type)
	if !ok {
		t = reflect.TypeOf(prototype)
	}

	mb, err := NewStructMetaBean(t, "")
	if err != nil {
		return nil, err
	}

	r.Register(mb, aliases...)

	return mb, nil
}

// MustRegisterStruct is RegisterStruct that panics on error, for package init.
func (r *Registry) MustRegisterStruct(prototypes ...any) {
	for _, p := range prototypes {
		if _, err := r.RegisterStruct(p); err != nil {
			panic(err)
		}
	}
}

// RegisterType names a non-bean type, such as an interface used as a declared
// element type or a custom leaf type.
func (r *Registry) RegisterType(t reflect.Type, name string, aliases ...string) {
	if name == "" {
		name = DefaultName(t)
	}

	r.spell.Store(t, name)
	r.names.Store(name, t)

	for _, a := range aliases {
		r.names.Store(a, t)
	}
}

// RegisterAlias makes name resolve to t without changing how t is written.
func (r *Registry) RegisterAlias(name string, t reflect.Type) {
	r.names.Store(name, t)
}

// MetaBean returns the meta bean of t, pointers stripped.
func (r *Registry) MetaBean(t reflect.Type) (MetaBean, bool) {
	t = Indirect(t)
	if t == nil {
		return nil, false
	}

	mb, ok := r.beans.Load(t)
	if !ok {
		return nil, false
	}

	return mb.(MetaBean), true
}

// IsBean reports whether t, pointers stripped, is a registered bean type.
func (r *Registry) IsBean(t reflect.Type) bool {
	_, ok := r.MetaBean(t)
	return ok
}

// NameOf returns the wire name of t. Unnamed composite types are spelled the
// way Go spells them, with registered names substituted for their parts.
func (r *Registry) NameOf(t reflect.Type) string {
	if name, ok := r.spell.Load(t); ok {
		return name.(string)
	}

	if name, ok := canonical[t]; ok {
		return name
	}

	if t.Name() != "" {
		return DefaultName(t)
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + r.NameOf(t.Elem())
	case reflect.Slice:
		return "[]" + r.NameOf(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + r.NameOf(t.Elem())
	case reflect.Map:
		return "map[" + r.NameOf(t.Key()) + "]" + r.NameOf(t.Elem())
	default:
		return t.String()
	}
}

// Resolve maps a wire name to a type. Names starting with "." are relative to
// pkg, the package prefix of the root bean. Composite spellings produced by
// NameOf ("[]T", "*T", "[N]T", "map[K]V") are resolved recursively.
func (r *Registry) Resolve(name, pkg string) (reflect.Type, error) {
	full := name
	if IsRelative(name) {
		if pkg == "" {
			return nil, &diagnostic.TypeResolutionError{Name: name}
		}

		full = pkg + name
	}

	if t, ok := r.names.Load(full); ok {
		return t.(reflect.Type), nil
	}

	t, err := r.resolveComposite(full, pkg)
	if err != nil {
		return nil, err
	}

	if t == nil {
		return nil, &diagnostic.TypeResolutionError{Name: name, Context: pkg}
	}

	return t, nil
}

func (r *Registry) resolveComposite(name, pkg string) (reflect.Type, error) {
	switch {
	case strings.HasPrefix(name, "*"):
		elem, err := r.Resolve(name[1:], pkg)
		if err != nil {
			return nil, err
		}

		return reflect.PointerTo(elem), nil

	case strings.HasPrefix(name, "[]"):
		elem, err := r.Resolve(name[2:], pkg)
		if err != nil {
			return nil, err
		}

		return reflect.SliceOf(elem), nil

	case strings.HasPrefix(name, "["):
		end := strings.Index(name, "]")
		if end < 0 {
			return nil, nil
		}

		n, err := strconv.Atoi(name[1:end])
		if err != nil || n < 0 {
			return nil, nil
		}

		elem, err := r.Resolve(name[end+1:], pkg)
		if err != nil {
			return nil, err
		}

		return reflect.ArrayOf(n, elem), nil

	case strings.HasPrefix(name, "map["):
		end := matchingBracket(name, len("map"))
		if end < 0 {
			return nil, nil
		}

		key, err := r.Resolve(name[len("map["):end], pkg)
		if err != nil {
			return nil, err
		}

		elem, err := r.Resolve(name[end+1:], pkg)
		if err != nil {
			return nil, err
		}

		if !key.Comparable() {
			return nil, fmt.Errorf("map key type %s is not comparable", key)
		}

		return reflect.MapOf(key, elem), nil
	}

	return nil, nil
}

// matchingBracket returns the index of the ']' closing the '[' at open.
func matchingBracket(s string, open int) int {
	depth := 0

	for i := open; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
