// Package match ranks candidate names against a misspelled or stale one.
//
// It is used to attach "did you mean" hints to unknown wire properties and to
// migration rules that point at properties a bean no longer declares.
//
// Key functions:
//   - Normalize: case-folds and strips separators
//   - Distance: edit distance between two strings
//   - Closest: best candidates above a similarity threshold
package match
