// Package collect provides the collection kinds the serializer supports
// beyond Go's built-in slices and maps:
//   - OrderedMap: a map remembering insertion order
//   - ListMultimap: a map from a key to an ordered list of values, keys may repeat
//   - Table: a two-dimensional map addressed by (row, column)
//
// The zero value of every collection is ready to use. Each collection also
// implements Collection, an untyped view used by reflection-driven code that
// cannot name the type parameters.
package collect
