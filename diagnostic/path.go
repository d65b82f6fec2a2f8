package diagnostic

import (
	"strconv"
	"strings"
)

// Path builds a readable location inside a bean graph.
// Examples:
//   - "Person"
//   - "Person.address.street"
//   - "Person.tags[2]"
//   - "Person.scores[maths]"
//
// Paths are immutable, every step returns a new value.
type Path struct {
	parts []string
}

// NewPath creates a path rooted at a bean type name.
func NewPath(root string) Path {
	return Path{parts: []string{root}}
}

// Property appends a property name.
func (p Path) Property(name string) Path {
	return Path{parts: append(append([]string{}, p.parts...), name)}
}

// Index appends a positional index to the last segment.
func (p Path) Index(i int) Path {
	return p.suffix("[" + strconv.Itoa(i) + "]")
}

// Key appends a map key to the last segment.
func (p Path) Key(key string) Path {
	return p.suffix("[" + key + "]")
}

func (p Path) suffix(s string) Path {
	if len(p.parts) == 0 {
		return Path{parts: []string{s}}
	}

	parts := make([]string, len(p.parts))
	copy(parts, p.parts)
	parts[len(parts)-1] += s

	return Path{parts: parts}
}

// String returns the full path string.
func (p Path) String() string {
	return strings.Join(p.parts, ".")
}
