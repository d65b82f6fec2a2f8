package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shapesPkg = "beanser/examples/shapes"

func loadShapes(t *testing.T) *BeanGraph {
	t.Helper()

	graph, err := NewAnalyzer().LoadPackages(shapesPkg)
	require.NoError(t, err)
	require.NotNil(t, graph)

	return graph
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	graph := loadShapes(t)

	require.Contains(t, graph.Packages, shapesPkg)
	assert.Equal(t, "shapes", graph.Packages[shapesPkg].Name)

	for _, name := range []string{"Circle", "Square", "Drawing", "Point"} {
		assert.Contains(t, graph.Beans, TypeID{PkgPath: shapesPkg, Name: name})
	}

	assert.NotContains(t, graph.Beans, TypeID{PkgPath: shapesPkg, Name: "Shape"}, "interfaces are not beans")
}

func TestAnalyzer_Properties(t *testing.T) {
	analyzer := NewAnalyzer()
	_, err := analyzer.LoadPackages(shapesPkg)
	require.NoError(t, err)

	circle, err := analyzer.GetBean(shapesPkg, "Circle")
	require.NoError(t, err)
	assert.Equal(t, []string{"radius", "colour"}, circle.PropertyNames())

	radius, ok := circle.Property("radius")
	require.True(t, ok)
	assert.Equal(t, "Radius", radius.Field)
	assert.Equal(t, "float64", radius.TypeString())
	assert.Equal(t, "radius", radius.Tag.Get(beanTagKey))

	point, err := analyzer.GetBean(shapesPkg, "Point")
	require.NoError(t, err)
	assert.Empty(t, point.Properties, "unexported fields are not properties")

	drawing, err := analyzer.GetBean(shapesPkg, "Drawing")
	require.NoError(t, err)

	layers, ok := drawing.Property("layers")
	require.True(t, ok)
	assert.Equal(t, "*collect.OrderedMap[string, []shapes.Shape]", layers.TypeString())

	_, err = analyzer.GetBean(shapesPkg, "Triangle")
	assert.Error(t, err)
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	_, err := NewAnalyzer().LoadPackages("beanser/does/not/exist")
	assert.Error(t, err)
}

func TestBeanGraph_Lookup(t *testing.T) {
	graph := loadShapes(t)

	b, ok := graph.Lookup(shapesPkg + ".Square")
	require.True(t, ok)
	assert.Equal(t, "Square", b.ID.Name)

	_, ok = graph.Lookup(shapesPkg + ".Triangle")
	assert.False(t, ok)
	assert.True(t, graph.Loaded(shapesPkg+".Triangle"))
	assert.False(t, graph.Loaded("example.com/other.Thing"))

	assert.Equal(t, []string{shapesPkg + ".Circle"}, graph.Match(shapesPkg+".C*"))
	assert.Empty(t, graph.Match("example.com/*"))
}

func TestParseTypeID(t *testing.T) {
	tests := []struct {
		name string
		want TypeID
	}{
		{"example.com/shapes.Circle", TypeID{PkgPath: "example.com/shapes", Name: "Circle"}},
		{"Person", TypeID{Name: "Person"}},
		{"a.b/c.Box[a.b/c.Item]", TypeID{PkgPath: "a.b/c", Name: "Box[a.b/c.Item]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseTypeID(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.name, got.String())
		})
	}
}
