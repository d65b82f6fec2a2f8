package deser

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"beanser/internal/common"
)

// RulesVersion is the only rules schema version understood.
const RulesVersion = "1"

// RulesFile is the root of a YAML migration rules document.
type RulesFile struct {
	// Version of the rules schema.
	Version string `yaml:"version,omitempty"`

	// Migrations lists one entry per migrated type or type pattern.
	Migrations []Migration `yaml:"migrations"`
}

// Migration describes how data written for one type, or for every type
// matching a pattern, is adapted when read.
type Migration struct {
	// Type is the wire name of the migrated type. Exactly one of Type and
	// Pattern must be set.
	Type string `yaml:"type,omitempty"`

	// Pattern is a path.Match pattern over type names.
	Pattern string `yaml:"pattern,omitempty"`

	// Target redirects the data to another type. When Type no longer
	// resolves, Target makes the old name an alias of the new type.
	Target string `yaml:"target,omitempty"`

	// Rename maps old property names to current ones.
	Rename map[string]string `yaml:"rename,omitempty"`

	// Defaults gives the text of values for properties absent from the data.
	Defaults map[string]string `yaml:"defaults,omitempty"`

	// Ignore lists wire properties that are dropped.
	Ignore StringOrArray `yaml:"ignore,omitempty"`

	// Split breaks one textual wire property into several properties.
	Split map[string]SplitRule `yaml:"split,omitempty"`
}

// SplitRule breaks a text value at Separator, assigning the parts to Into in order.
// The last property receives the unsplit remainder.
type SplitRule struct {
	Separator string        `yaml:"separator"`
	Into      StringOrArray `yaml:"into"`
}

// Subject returns the type name or the pattern, whichever is set.
func (m *Migration) Subject() string {
	if m.Type != "" {
		return m.Type
	}

	return m.Pattern
}

// StringOrArray accepts either a single string or a list of strings.
type StringOrArray []string

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *StringOrArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var str string
		if err := node.Decode(&str); err != nil {
			return err
		}

		if str != "" {
			*s = StringOrArray{str}
		} else {
			*s = StringOrArray{}
		}

		return nil

	case yaml.SequenceNode:
		var arr []string
		if err := node.Decode(&arr); err != nil {
			return err
		}

		*s = arr

		return nil

	default:
		return fmt.Errorf("expected string or array, got %v", node.Kind)
	}
}

// MarshalYAML outputs a single string when there is exactly one element.
func (s StringOrArray) MarshalYAML() (any, error) {
	if common.IsSingle(s) {
		return s[0], nil
	}

	return []string(s), nil
}

// First returns the first element or the empty string.
func (s StringOrArray) First() string {
	if v, ok := common.First(s); ok {
		return v
	}

	return ""
}

// IsEmpty returns true if the array is empty.
func (s StringOrArray) IsEmpty() bool {
	return common.IsEmpty(s)
}

// Contains returns true if the array contains str.
func (s StringOrArray) Contains(str string) bool {
	return slices.Contains(s, str)
}

// LoadRules reads and parses a rules file.
func LoadRules(path string) (*RulesFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file %s: %w", path, err)
	}

	return ParseRules(data)
}

// ParseRules parses YAML data into a RulesFile.
func ParseRules(data []byte) (*RulesFile, error) {
	var rf RulesFile

	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
	}

	if rf.Version == "" {
		rf.Version = RulesVersion
	}

	return &rf, nil
}

// MarshalRules serializes a RulesFile to YAML.
func MarshalRules(rf *RulesFile) ([]byte, error) {
	return yaml.Marshal(rf)
}
