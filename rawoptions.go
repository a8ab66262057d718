package evilclient

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RawOptionsFromYAML parses a YAML document into a raw option map suitable
// for Schema.New. The document must be a mapping at the top level.
func RawOptionsFromYAML(data []byte) (map[string]any, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse raw options: %w", err)
	}
	return raw, nil
}

// LoadRawOptions reads a YAML file into a raw option map.
func LoadRawOptions(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read raw options: %w", err)
	}
	return RawOptionsFromYAML(data)
}
