package xmlser

import (
	"reflect"

	"go.uber.org/zap"

	"beanser/deser"
	"beanser/meta"
	"beanser/primitive"
	"beanser/seriter"
)

// Types is the meta-model and type resolver consumed by the writer and the
// reader. *meta.Registry implements it.
type Types interface {
	MetaBean(t reflect.Type) (meta.MetaBean, bool)
	NameOf(t reflect.Type) string
	Resolve(name, pkg string) (reflect.Type, error)
}

// ValueConverter renders leaf values as text and parses them back.
// *primitive.Converter implements it.
type ValueConverter interface {
	IsConvertible(t reflect.Type) bool
	ToText(value any, t reflect.Type) (string, error)
	FromText(text string, t reflect.Type) (any, error)
}

// DefaultMaxCount bounds the elements the reader builds for one collection.
const DefaultMaxCount = 1 << 20

// Settings configures a Writer or a Reader.
type Settings struct {
	Types         Types
	Converter     ValueConverter
	Iterables     *seriter.Factory
	Deserializers *deser.Registry
	// Indent is repeated once per nesting level; empty writes a single line.
	Indent string
	// ShortTypes writes type names of the root bean's package in relative form.
	ShortTypes bool
	// MaxCount caps the elements of one collection read back, run-length
	// counts included.
	MaxCount int
	Logger   *zap.SugaredLogger
}

// NewSettings returns settings backed by the process-wide registries.
func NewSettings() Settings {
	return Settings{
		Types:         meta.Default,
		Converter:     primitive.NewConverter(),
		Iterables:     seriter.Default,
		Deserializers: deser.Default,
		Indent:        " ",
		MaxCount:      DefaultMaxCount,
		Logger:        zap.NewNop().Sugar(),
	}
}

func (s Settings) WithTypes(types Types) Settings {
	s.Types = types
	return s
}

func (s Settings) WithConverter(c ValueConverter) Settings {
	s.Converter = c
	return s
}

func (s Settings) WithIterables(f *seriter.Factory) Settings {
	s.Iterables = f
	return s
}

func (s Settings) WithDeserializers(r *deser.Registry) Settings {
	s.Deserializers = r
	return s
}

func (s Settings) WithIndent(indent string) Settings {
	s.Indent = indent
	return s
}

func (s Settings) WithShortTypes(short bool) Settings {
	s.ShortTypes = short
	return s
}

func (s Settings) WithMaxCount(n int) Settings {
	s.MaxCount = n
	return s
}

func (s Settings) WithLogger(l *zap.SugaredLogger) Settings {
	s.Logger = l
	return s
}

// normalized fills unset fields with the defaults of NewSettings.
func (s Settings) normalized() Settings {
	def := NewSettings()

	if s.Types == nil {
		s.Types = def.Types
	}

	if s.Converter == nil {
		s.Converter = def.Converter
	}

	if s.Iterables == nil {
		s.Iterables = def.Iterables
	}

	if s.Deserializers == nil {
		s.Deserializers = def.Deserializers
	}

	if s.MaxCount <= 0 {
		s.MaxCount = def.MaxCount
	}

	if s.Logger == nil {
		s.Logger = def.Logger
	}

	return s
}
