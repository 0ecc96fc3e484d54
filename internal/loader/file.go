package loader

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/ankh/internal/registry"
)

// File loads a component's payload from a YAML document on disk.
//
// Expected config:
//
//	path: path to the YAML file (required)
type File struct{}

// Build reads and parses the file named by config.path.
func (File) Build(_ context.Context, c registry.Component) registry.Result {
	path := stringConfig(c.Config, "path")
	if path == "" {
		return registry.Failure(c, "missing required config 'path'")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return registry.Failure(c, fmt.Sprintf("file not found: %v", err))
	}

	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return registry.Failure(c, fmt.Sprintf("yaml parse error: %v", err))
	}

	return registry.Success(c, map[string]any{
		"source": path,
		"data":   data,
	})
}
