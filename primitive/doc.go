// Package primitive converts leaf values to and from their textual form.
//
// A leaf is any value that is neither a bean nor a collection: numbers,
// booleans, strings, time.Time, time.Duration, []byte, named types over
// those, and types implementing encoding.TextMarshaler together with
// encoding.TextUnmarshaler. Pointers to leaves are leaves as well.
// Further types can be registered on a Converter with Register.
package primitive
