package meta

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanser/diagnostic"
)

type address struct {
	Street string `bean:"street"`
	City   string `bean:"city"`
}

type person struct {
	Name    string   `bean:"name"`
	Age     int      `bean:"age"`
	Home    *address `bean:"home"`
	Work    address  `bean:"work"`
	Tags    []string
	secret  string
	Ignored string `bean:"-"`
}

type money struct {
	amount   int64
	currency string
}

func (m money) Validate() error {
	if m.currency == "" {
		return errors.New("currency required")
	}

	return nil
}

func moneyMetaBean() *DefinedMetaBean[money] {
	return Define("test.Money",
		func(p *PropertyMap) (money, error) {
			amount, err := Value[int64](p, "amount", 0)
			if err != nil {
				return money{}, err
			}

			currency, err := Value[string](p, "currency", "")
			if err != nil {
				return money{}, err
			}

			return money{amount: amount, currency: currency}, nil
		},
		Prop("amount", func(m money) int64 { return m.amount }),
		Prop("currency", func(m money) string { return m.currency }),
	)
}

func TestStructMetaBean_Properties(t *testing.T) {
	mb, err := NewStructMetaBean(reflect.TypeFor[person](), "")
	require.NoError(t, err)

	var names []string
	for _, p := range mb.Properties() {
		names = append(names, p.Name())
	}

	assert.Equal(t, []string{"name", "age", "home", "work", "Tags"}, names)
	assert.Equal(t, "beanser/meta.person", mb.Name())

	prop, ok := mb.Property("home")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[*address](), prop.Type())

	_, ok = mb.Property("secret")
	assert.False(t, ok)
}

func TestStructMetaBean_NotStruct(t *testing.T) {
	_, err := NewStructMetaBean(reflect.TypeFor[int](), "")
	assert.ErrorIs(t, err, ErrNotStruct)
}

func TestStructMetaBean_BuildAndGet(t *testing.T) {
	mb, err := NewStructMetaBean(reflect.TypeFor[*person](), "")
	require.NoError(t, err)

	b := mb.NewBuilder()
	require.NoError(t, b.Set("name", "Ada"))
	require.NoError(t, b.Set("age", 36))
	require.NoError(t, b.Set("home", &address{City: "London"}))
	require.NoError(t, b.Set("work", &address{City: "Cambridge"}))
	require.NoError(t, b.Set("Tags", nil))
	assert.Error(t, b.Set("nope", 1))

	got, err := b.Build()
	require.NoError(t, err)

	want := &person{Name: "Ada", Age: 36, Home: &address{City: "London"}, Work: address{City: "Cambridge"}}
	assert.Equal(t, want, got)

	_, err = b.Build()
	assert.ErrorIs(t, err, ErrAlreadyBuilt)

	name, _ := mb.Property("name")
	v, err := name.Get(*want)
	require.NoError(t, err)
	assert.Equal(t, "Ada", v)
}

func TestStructMetaBean_BuildTypeMismatch(t *testing.T) {
	mb, err := NewStructMetaBean(reflect.TypeFor[person](), "")
	require.NoError(t, err)

	b := mb.NewBuilder()
	require.NoError(t, b.Set("age", "old"))

	_, err = b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `property "age"`)
}

func TestDefinedMetaBean(t *testing.T) {
	mb := moneyMetaBean()
	assert.Equal(t, reflect.TypeFor[money](), mb.Type())

	b := mb.NewBuilder()
	require.NoError(t, b.Set("amount", int64(250)))
	require.NoError(t, b.Set("currency", "GBP"))

	got, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, money{amount: 250, currency: "GBP"}, got)

	amount, _ := mb.Property("amount")
	v, err := amount.Get(&money{amount: 7, currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), v)
}

func TestDefinedMetaBean_Validation(t *testing.T) {
	b := moneyMetaBean().NewBuilder()
	require.NoError(t, b.Set("amount", int64(1)))

	_, err := b.Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "currency required")
}

func TestPropertyMap(t *testing.T) {
	p := NewPropertyMap()
	p.Set("a", 1)
	p.Set("b", nil)
	p.Set("c", 3)

	assert.True(t, p.Has("b"))
	assert.True(t, p.Rename("a", "z"))
	assert.False(t, p.Rename("missing", "y"))
	assert.Equal(t, []string{"b", "c", "z"}, p.Names())
	assert.True(t, p.Delete("c"))
	assert.Equal(t, 2, p.Len())
}

type tagger interface{ tag() string }

type tagged struct{ Tag string }

func (t *tagged) tag() string { return t.Tag }

func TestCoerce(t *testing.T) {
	type level int

	tests := []struct {
		name  string
		value any
		typ   reflect.Type
		want  any
	}{
		{"nil", nil, reflect.TypeFor[*int](), (*int)(nil)},
		{"assignable", 3, reflect.TypeFor[int](), 3},
		{"deref", &address{City: "x"}, reflect.TypeFor[address](), address{City: "x"}},
		{"address of", address{City: "x"}, reflect.TypeFor[*address](), &address{City: "x"}},
		{"named", 2, reflect.TypeFor[level](), level(2)},
		{"interface", 2, reflect.TypeFor[any](), 2},
		{"interface via pointer", tagged{Tag: "x"}, reflect.TypeFor[tagger](), &tagged{Tag: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Coerce(tt.value, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, v.Interface())
		})
	}

	_, err := Coerce("x", reflect.TypeFor[int]())
	assert.Error(t, err)
}

func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	mb, err := r.RegisterStruct(address{}, "legacy.Address")
	require.NoError(t, err)

	typ, err := r.Resolve("beanser/meta.address", "")
	require.NoError(t, err)
	assert.Equal(t, mb.Type(), typ)

	typ, err = r.Resolve(".address", "beanser/meta")
	require.NoError(t, err)
	assert.Equal(t, mb.Type(), typ)

	typ, err = r.Resolve("legacy.Address", "")
	require.NoError(t, err)
	assert.Equal(t, mb.Type(), typ)

	typ, err = r.Resolve("map[string][]*beanser/meta.address", "")
	require.NoError(t, err)
	assert.Equal(t, reflect.TypeFor[map[string][]*address](), typ)

	typ, err = r.Resolve("[3]time.Duration", "")
	require.NoError(t, err)
	assert.Equal(t, "[3]time.Duration", typ.String())

	_, err = r.Resolve(".Missing", "beanser/meta")
	var tre *diagnostic.TypeResolutionError
	require.ErrorAs(t, err, &tre)
	assert.Equal(t, ".Missing", tre.Name)
	assert.Equal(t, "beanser/meta", tre.Context)
}

func TestRegistry_NameOf(t *testing.T) {
	r := NewRegistry()
	r.MustRegisterStruct(address{})

	assert.Equal(t, "beanser/meta.address", r.NameOf(reflect.TypeFor[address]()))
	assert.Equal(t, "[]*beanser/meta.address", r.NameOf(reflect.TypeFor[[]*address]()))
	assert.Equal(t, "map[string]int", r.NameOf(reflect.TypeFor[map[string]int]()))
	assert.Equal(t, "any", r.NameOf(reflect.TypeFor[any]()))
	assert.Equal(t, "time.Time", r.NameOf(reflect.TypeFor[time.Time]()))
}

func TestRegistry_MetaBean(t *testing.T) {
	r := NewRegistry()
	r.Register(moneyMetaBean())

	_, ok := r.MetaBean(reflect.TypeFor[*money]())
	assert.True(t, ok)
	assert.True(t, r.IsBean(reflect.TypeFor[money]()))
	assert.False(t, r.IsBean(reflect.TypeFor[string]()))
}

func TestNames(t *testing.T) {
	assert.Equal(t, "example.com/shapes", PackageOf("example.com/shapes.Circle"))
	assert.Equal(t, "example.com/x", PackageOf("example.com/x.Pair[example.com/y.A]"))
	assert.Equal(t, "", PackageOf("int"))
	assert.Equal(t, ".Circle", Relativize("example.com/shapes.Circle", "example.com/shapes"))
	assert.Equal(t, "other.Circle", Relativize("other.Circle", "example.com/shapes"))
}
