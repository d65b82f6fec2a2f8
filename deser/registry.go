package deser

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Registry resolves the deserializer of a type. Lookups are lock-free:
// exact registrations live in a sync.Map and providers in an immutable slice
// replaced on every change. Writers are serialised only against each other.
type Registry struct {
	exact     sync.Map // reflect.Type -> Deserializer
	providers atomic.Pointer[[]Provider]
	mu        sync.Mutex
}

// Default is the process-wide registry used when settings do not name one.
var Default = NewRegistry()

// NewRegistry creates a registry whose fallback chain starts with providers.
func NewRegistry(providers ...Provider) *Registry {
	r := &Registry{}
	r.providers.Store(&[]Provider{})

	for _, p := range providers {
		r.RegisterProvider(p)
	}

	return r
}

// Register installs d for exactly t. A later registration replaces an earlier one.
func (r *Registry) Register(t reflect.Type, d Deserializer) {
	r.exact.Store(t, d)
}

// Unregister removes the exact registration of t.
func (r *Registry) Unregister(t reflect.Type) {
	r.exact.Delete(t)
}

// RegisterProvider appends p to the fallback chain.
func (r *Registry) RegisterProvider(p Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.providers.Load()
	next := make([]Provider, len(old), len(old)+1)
	copy(next, old)
	next = append(next, p)

	r.providers.Store(&next)
}

// RemoveProvider removes the first provider equal to p, reporting whether
// one was found. ProviderFunc values are compared by function pointer.
func (r *Registry) RemoveProvider(p Provider) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	old := *r.providers.Load()

	i := slices.IndexFunc(old, func(q Provider) bool { return sameProvider(p, q) })
	if i < 0 {
		return false
	}

	next := slices.Concat(old[:i], old[i+1:])
	r.providers.Store(&next)

	return true
}

// Find returns the deserializer for t: the exact registration, else the
// first provider answering for t, else DefaultDeserializer. It never fails.
func (r *Registry) Find(t reflect.Type) Deserializer {
	if d, ok := r.exact.Load(t); ok {
		return d.(Deserializer)
	}

	for _, p := range *r.providers.Load() {
		if d := p.Find(t); d != nil {
			return d
		}
	}

	return DefaultDeserializer
}

func sameProvider(a, b Provider) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	if va.Kind() == reflect.Func {
		return va.Pointer() == vb.Pointer()
	}

	return va.Comparable() && va.Equal(vb)
}
