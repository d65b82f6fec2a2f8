package deser

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"beanser/diagnostic"
	"beanser/meta"
)

var stringType = reflect.TypeFor[string]()

// TextConverter parses default and split values into property types.
type TextConverter interface {
	FromText(text string, t reflect.Type) (any, error)
}

// Types resolves the type names used by rules. *meta.Registry implements it.
type Types interface {
	Namer
	Resolve(name, pkg string) (reflect.Type, error)
	RegisterAlias(name string, t reflect.Type)
}

// RuleDeserializer applies one Migration.
type RuleDeserializer struct {
	target    reflect.Type
	rule      Migration
	converter TextConverter
}

// NewRuleDeserializer creates the deserializer of m. Target, when not nil,
// replaces the decoded type.
func NewRuleDeserializer(m Migration, target reflect.Type, converter TextConverter) *RuleDeserializer {
	return &RuleDeserializer{target: target, rule: m, converter: converter}
}

// DecodeType implements Deserializer.
func (d *RuleDeserializer) DecodeType(t reflect.Type) reflect.Type {
	if d.target != nil {
		return d.target
	}

	return t
}

// FindProperty implements Deserializer.
func (d *RuleDeserializer) FindProperty(mb meta.MetaBean, name string) (meta.MetaProperty, bool) {
	if d.rule.Ignore.Contains(name) {
		return Discard(name), true
	}

	if _, ok := d.rule.Split[name]; ok {
		return Extra(name, stringType), true
	}

	if to, ok := d.rule.Rename[name]; ok {
		return mb.Property(to)
	}

	return mb.Property(name)
}

// Migrate implements Deserializer.
func (d *RuleDeserializer) Migrate(mb meta.MetaBean, props *meta.PropertyMap) error {
	for from, rule := range d.rule.Split {
		v, ok := props.Get(from)
		if !ok {
			continue
		}

		props.Delete(from)

		s, _ := v.(string)
		parts := strings.SplitN(s, rule.Separator, len(rule.Into))

		for i, into := range rule.Into {
			if i >= len(parts) {
				break
			}

			if err := d.setText(mb, props, into, parts[i]); err != nil {
				return err
			}
		}
	}

	for name, text := range d.rule.Defaults {
		if props.Has(name) {
			continue
		}

		if err := d.setText(mb, props, name, text); err != nil {
			return err
		}
	}

	return nil
}

func (d *RuleDeserializer) setText(mb meta.MetaBean, props *meta.PropertyMap, name, text string) error {
	p, ok := mb.Property(name)
	if !ok {
		return &diagnostic.UnknownPropertyError{BeanType: mb.Name(), Property: name}
	}

	v, err := d.converter.FromText(text, p.Type())
	if err != nil {
		return fmt.Errorf("migration of %s: %w", name, err)
	}

	props.Set(name, v)

	return nil
}

// Apply validates rf and installs its migrations into reg. Type names are
// resolved with types; default and split values are parsed with converter.
func Apply(rf *RulesFile, reg *Registry, types Types, converter TextConverter) error {
	if err := Validate(rf).Err(); err != nil {
		return err
	}

	for _, m := range rf.Migrations {
		if err := applyOne(m, reg, types, converter); err != nil {
			return fmt.Errorf("migration %s: %w", m.Subject(), err)
		}
	}

	return nil
}

func applyOne(m Migration, reg *Registry, types Types, converter TextConverter) error {
	var target reflect.Type

	if m.Target != "" {
		t, err := types.Resolve(m.Target, "")
		if err != nil {
			return err
		}

		target = t
	}

	if m.Pattern != "" {
		p, err := NewPatternProvider(m.Pattern, NewRuleDeserializer(m, target, converter), types)
		if err != nil {
			return err
		}

		reg.RegisterProvider(p)

		return nil
	}

	t, err := types.Resolve(m.Type, "")

	var unresolved *diagnostic.TypeResolutionError

	switch {
	case err == nil:
		reg.Register(t, NewRuleDeserializer(m, target, converter))
	case errors.As(err, &unresolved) && target != nil:
		// the old type is gone: its name now reads as the target
		types.RegisterAlias(m.Type, target)
		reg.Register(target, NewRuleDeserializer(m, nil, converter))
	default:
		return err
	}

	return nil
}
