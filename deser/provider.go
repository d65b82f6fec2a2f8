package deser

import (
	"path"
	"reflect"

	"beanser/meta"
)

// Provider supplies deserializers for types it recognises, returning nil otherwise.
type Provider interface {
	Find(t reflect.Type) Deserializer
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(t reflect.Type) Deserializer

func (f ProviderFunc) Find(t reflect.Type) Deserializer { return f(t) }

// Namer spells type names for pattern matching.
type Namer interface {
	NameOf(t reflect.Type) string
}

// PatternProvider answers for every type whose name matches a path.Match
// pattern, such as "example.com/legacy.*".
type PatternProvider struct {
	Pattern      string
	Deserializer Deserializer
	// Names spells the type names; meta.DefaultName when nil.
	Names Namer
}

// NewPatternProvider creates a provider returning d for types matching pattern.
func NewPatternProvider(pattern string, d Deserializer, names Namer) (*PatternProvider, error) {
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, err
	}

	return &PatternProvider{Pattern: pattern, Deserializer: d, Names: names}, nil
}

// Find implements Provider.
func (p *PatternProvider) Find(t reflect.Type) Deserializer {
	name := meta.DefaultName(meta.Indirect(t))
	if p.Names != nil {
		name = p.Names.NameOf(t)
	}

	if ok, _ := path.Match(p.Pattern, name); ok {
		return p.Deserializer
	}

	return nil
}
