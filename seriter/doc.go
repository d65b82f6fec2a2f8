// Package seriter gives the writer and the reader one view over every
// supported collection shape.
//
// On the read side a SerIterable accumulates entries with Add and produces
// the finished collection with Build. On the write side a SerIterator walks an
// existing collection, optionally merging consecutive equal elements into a
// single entry with a repeat count. A Factory picks the implementation from a
// declared Go type, from a runtime value, or from a wire metatype alone.
//
// Supported shapes:
//
//	List          []T
//	Array         [N]T
//	Set           map[T]struct{}, mapset.Set[T]
//	Map           map[K]V
//	OrderedMap    *collect.OrderedMap[K, V]
//	ListMultimap  *collect.ListMultimap[K, V]
//	Table         *collect.Table[R, C, V]
//
// []byte is not a collection; it is converted as a single leaf.
package seriter
