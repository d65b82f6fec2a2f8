package collect

import "reflect"

type cell[R, C comparable] struct {
	row R
	col C
}

// Table is a two-dimensional map addressed by (row, column).
// Rows iterate in first-insertion order, columns within a row likewise.
type Table[R, C comparable, V any] struct {
	rows  []R
	cols  map[R][]C
	cells map[cell[R, C]]V
}

// NewTable creates an empty Table.
func NewTable[R, C comparable, V any]() *Table[R, C, V] {
	return &Table[R, C, V]{}
}

// Put stores value at (row, col), replacing any previous value.
func (t *Table[R, C, V]) Put(row R, col C, value V) {
	if t.cells == nil {
		t.cells = make(map[cell[R, C]]V)
		t.cols = make(map[R][]C)
	}

	key := cell[R, C]{row, col}
	if _, ok := t.cells[key]; !ok {
		if _, seen := t.cols[row]; !seen {
			t.rows = append(t.rows, row)
		}

		t.cols[row] = append(t.cols[row], col)
	}

	t.cells[key] = value
}

// Get returns the value at (row, col).
func (t *Table[R, C, V]) Get(row R, col C) (V, bool) {
	v, ok := t.cells[cell[R, C]{row, col}]
	return v, ok
}

// Rows returns a copy of the row keys in first-insertion order.
func (t *Table[R, C, V]) Rows() []R {
	return append([]R(nil), t.rows...)
}

// Columns returns a copy of the column keys used by row.
func (t *Table[R, C, V]) Columns(row R) []C {
	return append([]C(nil), t.cols[row]...)
}

// Len returns the number of cells.
func (t *Table[R, C, V]) Len() int {
	if t == nil {
		return 0
	}

	return len(t.cells)
}

// Range calls fn for every cell until fn returns false.
func (t *Table[R, C, V]) Range(fn func(row R, col C, value V) bool) {
	if t == nil {
		return
	}

	for _, r := range t.rows {
		for _, c := range t.cols[r] {
			if !fn(r, c, t.cells[cell[R, C]{r, c}]) {
				return
			}
		}
	}
}

// Equal reports whether both tables hold deeply equal cells in the same order.
func (t *Table[R, C, V]) Equal(other *Table[R, C, V]) bool {
	if t.Len() != other.Len() {
		return false
	}

	if t.Len() == 0 {
		return true
	}

	return reflect.DeepEqual(t.rows, other.rows) &&
		reflect.DeepEqual(t.cols, other.cols) &&
		reflect.DeepEqual(t.cells, other.cells)
}

// MetaType implements Collection.
func (t *Table[R, C, V]) MetaType() string { return MetaTypeTable }

// ElemTypes implements Collection.
func (t *Table[R, C, V]) ElemTypes() (key, column, value reflect.Type) {
	return reflect.TypeFor[R](), reflect.TypeFor[C](), reflect.TypeFor[V]()
}

// Entries implements Collection.
func (t *Table[R, C, V]) Entries(yield func(key, column, value any) bool) {
	t.Range(func(r R, c C, v V) bool { return yield(r, c, v) })
}

// AddEntry implements Collection.
func (t *Table[R, C, V]) AddEntry(key, column, value any) error {
	r, err := cast[R]("row", key)
	if err != nil {
		return err
	}

	c, err := cast[C]("column", column)
	if err != nil {
		return err
	}

	v, err := cast[V]("value", value)
	if err != nil {
		return err
	}

	t.Put(r, c, v)

	return nil
}
