package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"beanser/deser"
	"beanser/diagnostic"
)

func codes(ds []diagnostic.Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}

	return out
}

func TestCheckRules(t *testing.T) {
	graph := loadShapes(t)

	rf, err := deser.ParseRules([]byte(`
version: "1"
migrations:
  - type: beanser/examples/shapes.Circle
    rename: {rad: radius, col: color}
    defaults: {colour: red}
    ignore: [legacyFlag, colour]
  - type: beanser/examples/shapes.Circel
  - type: example.com/legacy.Blob
    target: beanser/examples/shapes.Square
    split:
      dims: {separator: x, into: [side, colour]}
  - type: example.com/legacy.Other
    target: beanser/examples/shapes.Sqare
  - type: example.com/elsewhere.Thing
  - pattern: "example.com/nothing/*"
`))
	require.NoError(t, err)

	res := CheckRules(rf, graph)

	assert.Equal(t, []string{"unknown_property", "unknown_type", "unknown_target"}, codes(res.Errors))
	assert.Equal(t, []string{"ignored_property_exists", "unknown_type", "pattern_matches_nothing"}, codes(res.Warnings))

	assert.Equal(t, "color", res.Errors[0].Property)
	assert.Equal(t, []string{"colour"}, res.Errors[0].Suggestions)
	assert.Equal(t, []string{shapesPkg + ".Circle"}, res.Errors[1].Suggestions)
	assert.Equal(t, []string{shapesPkg + ".Square"}, res.Errors[2].Suggestions)
	assert.Equal(t, "colour", res.Warnings[0].Property)
	assert.Error(t, res.Err())
}

func TestCheckRules_Clean(t *testing.T) {
	graph := loadShapes(t)

	rf := &deser.RulesFile{Version: "1", Migrations: []deser.Migration{
		{Type: shapesPkg + ".Drawing", Rename: map[string]string{"name": "title"}},
		{Pattern: shapesPkg + ".*", Ignore: deser.StringOrArray{"legacy"}},
	}}

	res := CheckRules(rf, graph)
	assert.True(t, res.IsValid())
	assert.Empty(t, res.Warnings)
}

func TestCheckRules_InvalidRulesStopEarly(t *testing.T) {
	res := CheckRules(nil, NewBeanGraph())
	assert.Equal(t, []string{"rules_is_nil"}, codes(res.Errors))

	res = CheckRules(&deser.RulesFile{Version: "9"}, NewBeanGraph())
	assert.Equal(t, []string{"unsupported_version"}, codes(res.Errors))
}
