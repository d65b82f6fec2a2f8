// Package meta provides the bean meta-model consumed by the serializer.
//
// A bean is any value whose type is registered in a Registry. The registry
// answers two questions for the serializer:
//   - introspection: which properties does a bean type have, in which order,
//     with which declared types, and how is an instance built from them;
//   - naming: which type does a textual name denote, and the reverse.
//
// Two kinds of MetaBean are provided. Struct beans are derived by reflection
// from exported struct fields, optionally renamed with a `bean:"name"` tag
// (`bean:"-"` skips a field). Defined beans are declared explicitly with
// Define and Prop, which suits immutable types whose fields are unexported.
//
// Construction is always staged: a Builder accumulates values in a
// PropertyMap and Build creates the instance in one step, running Validate
// when the built value implements Validator.
package meta
