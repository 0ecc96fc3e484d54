package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Entry is one component record from a manifest.
type Entry struct {
	ID     string         `yaml:"id" json:"id"`
	Kind   string         `yaml:"kind" json:"kind"`
	Config map[string]any `yaml:"config,omitempty" json:"config,omitempty"`
}

// document is the top-level manifest shape.
type document struct {
	Components []Entry `yaml:"components" json:"components"`
}

// Error reports a malformed manifest entry. Index is the zero-based
// position of the offending entry; ID is empty when the id itself is the
// missing field.
type Error struct {
	Index   int
	ID      string
	Field   string
	Message string
}

func (e *Error) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("manifest entry %d (%s): %s: %s", e.Index, e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("manifest entry %d: %s: %s", e.Index, e.Field, e.Message)
}

// Load reads a manifest file and returns its validated entries in document
// order. Files ending in .yml or .yaml are parsed as YAML, everything else
// as JSON. Config defaults to an empty mapping.
func Load(path string) ([]Entry, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var doc document
	if strings.HasSuffix(path, ".yml") || strings.HasSuffix(path, ".yaml") {
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	} else {
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	}

	for i := range doc.Components {
		if doc.Components[i].Config == nil {
			doc.Components[i].Config = map[string]any{}
		}
	}

	if err := Validate(doc.Components); err != nil {
		return nil, err
	}
	return doc.Components, nil
}
