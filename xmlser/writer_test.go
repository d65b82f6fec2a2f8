package xmlser_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanser/diagnostic"
	"beanser/examples/shapes"
	"beanser/xmlser"
)

func TestWriter_StableOutput(t *testing.T) {
	f := newFixture(t)

	doc := f.write(t, &address{Street: "High & Low", Number: 12})

	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<bean type="beanser/xmlser_test.address">
 <street>High &amp; Low</street>
 <number>12</number>
</bean>
`, doc)

	assert.Equal(t, doc, f.write(t, address{Street: "High & Low", Number: 12}), "value and pointer render alike")
}

func TestWriter_SingleLine(t *testing.T) {
	f := newFixture(t)

	doc, err := xmlser.NewWriter(f.settings.WithIndent("")).Write(&address{Street: "x", Number: 1})
	require.NoError(t, err)

	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>
<bean type="beanser/xmlser_test.address"><street>x</street><number>1</number></bean>
`, doc)
}

func TestWriter_WriteTo(t *testing.T) {
	f := newFixture(t)

	var buf bytes.Buffer
	require.NoError(t, xmlser.NewWriter(f.settings).WriteTo(&buf, &shapes.Circle{Radius: 2}))

	assert.Equal(t, f.write(t, &shapes.Circle{Radius: 2}), buf.String())
}

func TestWriter_RunLength(t *testing.T) {
	f := newFixture(t)

	doc := f.write(t, &person{Tags: []any{"a", "a", "a", "b"}})

	assert.Equal(t, 2, strings.Count(doc, "<item"))
	assert.Contains(t, doc, `<item count="3" type="string">a</item>`)
	assert.Contains(t, doc, `<item type="string">b</item>`)
}

func TestWriter_NullKeepsPosition(t *testing.T) {
	f := newFixture(t)

	doc := f.write(t, &shapes.Drawing{Shapes: []shapes.Shape{&shapes.Square{Side: 1}, nil, &shapes.Circle{Radius: 1}}})

	assert.Contains(t, doc, `<item null="true"></item>`)
	assert.Less(t, strings.Index(doc, squareName), strings.Index(doc, `<item null="true">`))
	assert.Less(t, strings.Index(doc, `<item null="true">`), strings.Index(doc, circleName))

	got := f.read(t, f.write(t, &sample{Matrix: [][]int{{1}, nil, {2}}}))
	assert.Equal(t, [][]int{{1}, nil, {2}}, got.(*sample).Matrix)
}

func TestWriter_TypeAttributes(t *testing.T) {
	f := newFixture(t)

	doc := f.write(t, &shapes.Drawing{Main: &shapes.Circle{Radius: 1}})
	assert.Contains(t, doc, `<main type="*`+circleName+`">`)

	doc = f.write(t, &holder{Circle: &shapes.Circle{Radius: 1}, Shape: &shapes.Square{Side: 1}})
	assert.Contains(t, doc, "<circle>\n")
	assert.Contains(t, doc, `<shape type="*`+squareName+`">`)

	doc, err := xmlser.NewWriter(f.settings.WithShortTypes(true)).Write(&shapes.Drawing{Main: &shapes.Circle{Radius: 1}})
	require.NoError(t, err)
	assert.Contains(t, doc, `<bean type="`+drawingName+`">`)
	assert.Contains(t, doc, `<main type="*.Circle">`)
}

func TestWriter_NotBean(t *testing.T) {
	f := newFixture(t)
	w := xmlser.NewWriter(f.settings)

	for _, value := range []any{nil, (*shapes.Circle)(nil), 42, []string{"a"}} {
		_, err := w.Write(value)
		assert.ErrorIs(t, err, diagnostic.ErrNotBean, "%#v", value)
	}
}

func TestWriter_ConversionErrorPath(t *testing.T) {
	f := newFixture(t)

	_, err := xmlser.NewWriter(f.settings).Write(&person{Tags: []any{"a", 1, func() {}}})

	var ce *diagnostic.ConversionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Person.tags[2]", ce.Path)
}

func TestWriter_RejectsUnencodableText(t *testing.T) {
	f := newFixture(t)
	w := xmlser.NewWriter(f.settings)

	for _, text := range []string{"a\x00b", "bad\xffutf8", "\x01ctrl", "\ufffe"} {
		_, err := w.Write(&address{Street: text})

		var ce *diagnostic.ConversionError
		require.ErrorAs(t, err, &ce, "%q", text)
		assert.ErrorIs(t, err, diagnostic.ErrInvalidText)
		assert.Equal(t, "beanser/xmlser_test.address.street", ce.Path)
	}

	_, err := w.Write(&counter{Counts: map[string]int{"k\x00": 1}})
	assert.ErrorIs(t, err, diagnostic.ErrInvalidText)

	want := &address{Street: "tab\there\r\nend \ufffd"}
	assert.Equal(t, want, f.read(t, f.write(t, want)))
}
