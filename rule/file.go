package rule

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// File is the on-disk layout of a rule file:
//
//	rules:
//	  - pattern: [{TEXT: Frisco}]
//	    attrs: {LEMMA: San Francisco}
type File struct {
	Rules []Rule `yaml:"rules"`
}

// LoadFile reads and validates the rules of a YAML rule file.
func LoadFile(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("IO error: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("YAML decoding error in %s: %w", path, err)
	}

	for i, r := range f.Rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("%s: rule %d: %w", path, i, err)
		}
	}

	return f.Rules, nil
}

// WriteFile writes rules to path, replacing its content.
func WriteFile(path string, rules []Rule) error {
	data, err := yaml.Marshal(File{Rules: rules})
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
