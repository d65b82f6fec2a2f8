package primitive_test

import (
	"errors"
	"fmt"
	"math"
	"net/netip"
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanser/diagnostic"
	"beanser/primitive"
)

type colour string

func TestConverter_RoundTrip(t *testing.T) {
	c := primitive.NewConverter()
	stamp := time.Date(2024, 3, 1, 12, 30, 0, 500, time.UTC)

	tests := []struct {
		name  string
		value any
		text  string
	}{
		{"int", 42, "42"},
		{"negative int8", int8(-128), "-128"},
		{"uint16", uint16(65535), "65535"},
		{"uint64", uint64(math.MaxUint64), "18446744073709551615"},
		{"float32", float32(1.5), "1.5"},
		{"float64", 0.1, "0.1"},
		{"bool", true, "true"},
		{"string", "a < b & c", "a < b & c"},
		{"empty string", "", ""},
		{"named", colour("red"), "red"},
		{"time", stamp, "2024-03-01T12:30:00.0000005Z"},
		{"duration", 90 * time.Second, "1m30s"},
		{"bytes", []byte{0, 1, 2, 255}, "AAEC/w=="},
		{"text marshaler", netip.MustParseAddr("10.0.0.1"), "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ := reflect.TypeOf(tt.value)
			require.True(t, c.IsConvertible(typ))

			text, err := c.ToText(tt.value, typ)
			require.NoError(t, err)
			assert.Equal(t, tt.text, text)

			back, err := c.FromText(text, typ)
			require.NoError(t, err)
			assert.Equal(t, tt.value, back)
		})
	}
}

func TestConverter_Pointers(t *testing.T) {
	c := primitive.NewConverter()
	n := 7
	typ := reflect.TypeFor[*int]()

	require.True(t, c.IsConvertible(typ))

	text, err := c.ToText(&n, typ)
	require.NoError(t, err)
	assert.Equal(t, "7", text)

	back, err := c.FromText("7", typ)
	require.NoError(t, err)
	require.IsType(t, &n, back)
	assert.Equal(t, 7, *back.(*int))

	_, err = c.ToText((*int)(nil), typ)
	assert.Error(t, err)
}

func TestConverter_InterfaceUsesRuntimeType(t *testing.T) {
	c := primitive.NewConverter()

	text, err := c.ToText(int64(12), reflect.TypeFor[any]())
	require.NoError(t, err)
	assert.Equal(t, "12", text)
}

func TestConverter_NotConvertible(t *testing.T) {
	c := primitive.NewConverter()

	assert.False(t, c.IsConvertible(reflect.TypeFor[struct{ A int }]()))
	assert.False(t, c.IsConvertible(reflect.TypeFor[[]int]()))
	assert.False(t, c.IsConvertible(reflect.TypeFor[map[string]int]()))
	assert.False(t, c.IsConvertible(nil))

	_, err := c.FromText("x", reflect.TypeFor[[]int]())
	assert.ErrorIs(t, err, primitive.ErrNotLeaf)
}

func TestConverter_ParseErrors(t *testing.T) {
	c := primitive.NewConverter()

	tests := []struct {
		text string
		typ  reflect.Type
	}{
		{"abc", reflect.TypeFor[int]()},
		{"300", reflect.TypeFor[uint8]()},
		{"-1", reflect.TypeFor[uint]()},
		{"yes please", reflect.TypeFor[bool]()},
		{"1.2.3", reflect.TypeFor[float64]()},
		{"yesterday", reflect.TypeFor[time.Time]()},
		{"forever", reflect.TypeFor[time.Duration]()},
		{"!!", reflect.TypeFor[[]byte]()},
		{"not-an-ip", reflect.TypeFor[netip.Addr]()},
	}

	for _, tt := range tests {
		t.Run(tt.typ.String()+"/"+tt.text, func(t *testing.T) {
			_, err := c.FromText(tt.text, tt.typ)
			require.Error(t, err)

			var convErr *diagnostic.ConversionError
			require.ErrorAs(t, err, &convErr)
			assert.Equal(t, tt.text, convErr.Text)
			assert.Equal(t, tt.typ.String(), convErr.Type)
		})
	}
}

type point struct{ X, Y int }

func TestConverter_Register(t *testing.T) {
	c := primitive.NewConverter()
	errBad := errors.New("bad point")

	primitive.Register(c,
		func(p point) (string, error) {
			return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y), nil
		},
		func(s string) (point, error) {
			var p point
			if _, err := fmt.Sscanf(s, "%d,%d", &p.X, &p.Y); err != nil {
				return point{}, errBad
			}

			return p, nil
		},
	)

	typ := reflect.TypeFor[point]()
	require.True(t, c.IsConvertible(typ))
	require.True(t, c.IsConvertible(reflect.PointerTo(typ)))

	text, err := c.ToText(point{3, 4}, typ)
	require.NoError(t, err)
	assert.Equal(t, "3,4", text)

	back, err := c.FromText("3,4", typ)
	require.NoError(t, err)
	assert.Equal(t, point{3, 4}, back)

	_, err = c.FromText("3;4", typ)
	assert.ErrorIs(t, err, errBad)
}
