package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedMap(t *testing.T) {
	m := NewOrderedMap[string, int]()
	m.Set("b", 2)
	m.Set("a", 1)
	m.Set("b", 3)

	assert.Equal(t, []string{"b", "a"}, m.Keys())
	assert.Equal(t, 2, m.Len())

	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	assert.True(t, m.Delete("b"))
	assert.False(t, m.Delete("b"))
	assert.Equal(t, []string{"a"}, m.Keys())
}

func TestOrderedMap_Equal(t *testing.T) {
	a := NewOrderedMap[string, int]()
	a.Set("x", 1)
	a.Set("y", 2)

	b := &OrderedMap[string, int]{}
	b.Set("x", 1)
	b.Set("y", 2)

	c := NewOrderedMap[string, int]()
	c.Set("y", 2)
	c.Set("x", 1)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c), "order matters")
	assert.True(t, NewOrderedMap[string, int]().Equal(&OrderedMap[string, int]{}))
}

func TestListMultimap(t *testing.T) {
	m := NewListMultimap[string, int]()
	m.Put("a", 1, 1)
	m.Put("b", 2)
	m.Put("a", 3)

	assert.Equal(t, []string{"a", "b"}, m.Keys())
	assert.Equal(t, []int{1, 1, 3}, m.Get("a"))
	assert.Equal(t, 4, m.Len())

	var pairs []string
	m.Range(func(k string, v int) bool {
		pairs = append(pairs, k)
		return true
	})
	assert.Equal(t, []string{"a", "a", "a", "b"}, pairs)

	assert.True(t, m.Remove("a"))
	assert.Equal(t, 1, m.Len())
}

func TestTable(t *testing.T) {
	tbl := NewTable[string, int, float64]()
	tbl.Put("r1", 1, 1.5)
	tbl.Put("r2", 1, 2.5)
	tbl.Put("r1", 2, 3.5)
	tbl.Put("r1", 1, 4.5)

	assert.Equal(t, 3, tbl.Len())
	assert.Equal(t, []string{"r1", "r2"}, tbl.Rows())
	assert.Equal(t, []int{1, 2}, tbl.Columns("r1"))

	v, ok := tbl.Get("r1", 1)
	assert.True(t, ok)
	assert.InDelta(t, 4.5, v, 0.0001)
}

func TestCollection_AddEntry(t *testing.T) {
	var c Collection = NewTable[string, int, *string]()

	require.NoError(t, c.AddEntry("r", 1, nil))
	err := c.AddEntry("r", "not-an-int", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column has type string")

	key, col, val := c.ElemTypes()
	assert.Equal(t, "string", key.String())
	assert.Equal(t, "int", col.String())
	assert.Equal(t, "*string", val.String())
	assert.Equal(t, MetaTypeTable, c.MetaType())
}
