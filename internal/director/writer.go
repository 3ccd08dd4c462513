package director

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WriteRegions writes a region set to a YAML file
func WriteRegions(set *RegionSet, path string) error {
	data, err := yaml.Marshal(set)
	if err != nil {
		return fmt.Errorf("marshal regions: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write regions %s: %w", path, err)
	}
	return nil
}

// ReadRegions reads a region set from a YAML file
func ReadRegions(path string) (*RegionSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read regions %s: %w", path, err)
	}

	var set RegionSet
	if err := yaml.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("parse regions %s: %w", path, err)
	}

	return &set, nil
}
