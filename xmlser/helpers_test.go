package xmlser_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"beanser/deser"
	"beanser/examples/shapes"
	"beanser/meta"
	"beanser/seriter"
	"beanser/xmlser"
)

const (
	circleName  = "beanser/examples/shapes.Circle"
	squareName  = "beanser/examples/shapes.Square"
	drawingName = "beanser/examples/shapes.Drawing"
)

type address struct {
	Street string `bean:"street"`
	Number int    `bean:"number"`
}

type counter struct {
	Counts map[string]int `bean:"counts"`
}

type inner struct {
	Label string `bean:"label"`
}

type sample struct {
	Fixed   [3]int              `bean:"fixed"`
	Set     map[string]struct{} `bean:"set"`
	Scores  map[string]float64  `bean:"scores"`
	Count   *int                `bean:"count"`
	Raw     []byte              `bean:"raw"`
	Matrix  [][]int             `bean:"matrix"`
	Timeout time.Duration       `bean:"timeout"`
	Value   inner               `bean:"value"`
	Ptr     *inner              `bean:"ptr"`
	Any     any                 `bean:"any"`
	Items   []inner             `bean:"items"`
	Empty   []string            `bean:"empty"`
}

type holder struct {
	Circle *shapes.Circle `bean:"circle"`
	Shape  shapes.Shape   `bean:"shape"`
}

// person is registered under the short name "Person" so error paths are easy to read.
type person struct {
	Tags []any `bean:"tags"`
}

type fixture struct {
	types    *meta.Registry
	deser    *deser.Registry
	settings xmlser.Settings
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	types := meta.NewRegistry()
	require.NoError(t, shapes.Register(types))

	for _, prototype := range []any{address{}, counter{}, inner{}, sample{}, holder{}} {
		_, err := types.RegisterStruct(prototype)
		require.NoError(t, err)
	}

	mb, err := meta.NewStructMetaBean(reflect.TypeFor[person](), "Person")
	require.NoError(t, err)
	types.Register(mb)

	reg := deser.NewRegistry()

	return &fixture{
		types: types,
		deser: reg,
		settings: xmlser.NewSettings().
			WithTypes(types).
			WithDeserializers(reg).
			WithIterables(seriter.NewFactory()).
			WithLogger(zaptest.NewLogger(t).Sugar()),
	}
}

func (f *fixture) write(t *testing.T, bean any) string {
	t.Helper()

	doc, err := xmlser.NewWriter(f.settings).Write(bean)
	require.NoError(t, err)

	return doc
}

func (f *fixture) read(t *testing.T, doc string) any {
	t.Helper()

	bean, err := xmlser.NewReader(f.settings).ReadString(doc)
	require.NoError(t, err)

	return bean
}

func (f *fixture) readErr(doc string) error {
	_, err := xmlser.NewReader(f.settings).ReadString(doc)
	return err
}

func ptr[T any](v T) *T { return &v }
