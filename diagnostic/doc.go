// Package diagnostic provides the error taxonomy of the bean serializer
// and the structured findings reported by the rules checker.
//
// Key types:
//   - DocumentFormatError: malformed or unexpected token structure
//   - TypeResolutionError: a named type cannot be resolved
//   - UnknownPropertyError: a wire property is absent from the current schema
//   - ConversionError: a leaf value cannot be converted to or from text
//   - BeanError: wraps any of the above with the enclosing bean type and path
//   - Diagnostics: warnings and errors collected by "beanser check"
package diagnostic
