package gpiokeys

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Tree is a key configuration loaded from YAML: the node tree plus the
// line levels to report. It stands in for the platform's device
// description on development machines.
type Tree struct {
	Nodes []*Node        `yaml:"nodes"`
	Lines map[uint32]int `yaml:"lines"`
}

// LoadTree parses a key configuration.
func LoadTree(r io.Reader) (*Tree, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("gpiokeys: read key configuration: %w", err)
	}
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("gpiokeys: parse key configuration: %w", err)
	}
	return &tree, nil
}

// Value implements LineReader from the configured line levels.
func (t *Tree) Value(line uint32) (int, error) {
	v, ok := t.Lines[line]
	if !ok {
		return 0, fmt.Errorf("gpiokeys: line %d not configured", line)
	}
	return v, nil
}
