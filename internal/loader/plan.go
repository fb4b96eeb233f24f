package loader

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Plan is an edit described in a YAML file. Flags given on the command line
// take precedence over plan values.
type Plan struct {
	Inputs     Tokens `yaml:"inputs,omitempty"`
	Outputs    Tokens `yaml:"outputs,omitempty"`
	SkipVerify bool   `yaml:"skip_verify,omitempty"`
	Output     string `yaml:"output,omitempty"`
}

// Tokens is a boundary list written either as one string or a list of strings
type Tokens []string

// UnmarshalYAML accepts a scalar or a sequence
func (t *Tokens) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := node.Decode(&s); err != nil {
			return err
		}
		if s == "" {
			*t = nil
			return nil
		}
		*t = Tokens{s}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*t = list
		return nil
	default:
		return fmt.Errorf("line %d: expected a string or a list of strings", node.Line)
	}
}

// LoadPlan reads an edit plan from a YAML file
func LoadPlan(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	return ParsePlan(data)
}

// ParsePlan parses an edit plan from YAML bytes
func ParsePlan(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse plan: %w", err)
	}
	return &p, nil
}
