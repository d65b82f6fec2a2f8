package seriter

import (
	"cmp"
	"fmt"
	"reflect"
	"slices"
)

type entry struct {
	key, column, value any
	count              int
}

// iterator walks a snapshot of the collection taken when it was created.
type iterator struct {
	metatype           string
	key, column, value reflect.Type
	entries            []entry
	size               int
	pos                int
}

func (it *iterator) MetaType() string         { return it.metatype }
func (it *iterator) KeyType() reflect.Type    { return it.key }
func (it *iterator) ColumnType() reflect.Type { return it.column }
func (it *iterator) ValueType() reflect.Type  { return it.value }
func (it *iterator) RunLength() bool          { return IsRunLength(it.metatype) }
func (it *iterator) Size() int                { return it.size }

func (it *iterator) Next() bool {
	if it.pos >= len(it.entries) {
		return false
	}

	it.pos++

	return it.pos < len(it.entries)
}

func (it *iterator) Key() any    { return it.entries[it.pos].key }
func (it *iterator) Column() any { return it.entries[it.pos].column }
func (it *iterator) Value() any  { return it.entries[it.pos].value }
func (it *iterator) Count() int  { return it.entries[it.pos].count }

// compact merges runs of equal entries for ordered shapes and rewinds the iterator.
func (it *iterator) compact() *iterator {
	it.size = len(it.entries)
	it.pos = -1

	if !it.RunLength() || len(it.entries) < 2 {
		return it
	}

	out := it.entries[:1]
	for _, e := range it.entries[1:] {
		last := &out[len(out)-1]
		if same(last.key, e.key) && same(last.value, e.value) {
			last.count++
			continue
		}

		out = append(out, e)
	}

	it.entries = out

	return it
}

// same reports whether two elements may share one run-length entry. Pointers
// and other reference kinds never merge, so a reader never aliases what the
// writer saw as distinct values.
func same(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Type() != vb.Type() {
		return false
	}

	switch va.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	}

	return va.Comparable() && va.Equal(vb)
}

// sortEntries orders entries of unordered shapes so that output is stable.
func sortEntries(entries []entry, by func(entry) any) {
	slices.SortStableFunc(entries, func(a, b entry) int {
		return compareKeys(reflect.ValueOf(by(a)), reflect.ValueOf(by(b)))
	})
}

func compareKeys(a, b reflect.Value) int {
	a, b = unwrap(a), unwrap(b)

	if a.IsValid() && b.IsValid() && a.Kind() == b.Kind() {
		switch {
		case a.CanInt():
			return cmp.Compare(a.Int(), b.Int())
		case a.CanUint():
			return cmp.Compare(a.Uint(), b.Uint())
		case a.CanFloat():
			return cmp.Compare(a.Float(), b.Float())
		case a.Kind() == reflect.String:
			return cmp.Compare(a.String(), b.String())
		case a.Kind() == reflect.Bool:
			return cmp.Compare(boolRank(a.Bool()), boolRank(b.Bool()))
		}
	}

	return cmp.Compare(text(a), text(b))
}

func unwrap(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Interface || v.Kind() == reflect.Pointer) {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func text(v reflect.Value) string {
	if !v.IsValid() {
		return ""
	}

	return fmt.Sprintf("%T:%+v", v.Interface(), v.Interface())
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}
