package overrides

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// File is the root of an override file.
type File struct {
	Version string         `yaml:"version,omitempty"`
	Types   []TypeOverride `yaml:"types"`
}

// TypeOverride supplies synthetic values for one type.
type TypeOverride struct {
	// Type is the type identifier, either "pkg/path.Name" or "alias.Name".
	Type string `yaml:"type"`
	// Value is the raw value the type accepts as its single value.
	Value any `yaml:"value,omitempty"`
	// HasValue reports whether Value was given, since nil is a valid value.
	HasValue bool `yaml:"-"`
	// Fields maps field keys to values the type accepts for them.
	Fields map[string]any `yaml:"fields,omitempty"`
}

// UnmarshalYAML records whether a value key was present.
func (t *TypeOverride) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected a mapping for a type override, got %v", node.Line, kindName(node.Kind))
	}

	type plain TypeOverride

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == "value" {
			p.HasValue = true
		}
	}

	*t = TypeOverride(p)

	return nil
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", k)
	}
}
