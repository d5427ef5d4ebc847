// Package description loads accelerator build descriptions and resolves their mode.
package description

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kameshwarc/SDAccel-Examples/pkg/core"
	"gopkg.in/yaml.v3"
)

// Format is the encoding of a description file.
type Format string

// Supported description formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension. Anything that is
// not .yaml or .yml is treated as JSON.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load reads, decodes and validates the description at path.
func Load(path string) (*core.Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	d, err := Parse(data, FormatFromPath(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a description.
func Parse(data []byte, format Format) (*core.Description, error) {
	d, err := Decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := Validate(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Decode decodes a description and resolves its mode without validating it.
func Decode(data []byte, format Format) (*core.Description, error) {
	var d core.Description
	var raw map[string]any

	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse YAML description: %w", err)
		}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML description: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("failed to parse JSON description: %w", err)
		}
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON description: %w", err)
		}
	}

	applyPresence(&d, raw)
	d.Mode = resolveMode(&d)
	return &d, nil
}

// applyPresence records the keys whose presence, not value, carries meaning.
func applyPresence(d *core.Description, raw map[string]any) {
	_, d.HasContainers = raw["containers"]
	_, d.HasAccelerators = raw["accelerators"]

	if containers, ok := raw["containers"].([]any); ok {
		for i, rc := range containers {
			if i >= len(d.Containers) {
				break
			}
			cm, ok := rc.(map[string]any)
			if !ok {
				continue
			}
			markMemoryPorts(d.Containers[i].Accelerators, cm["accelerators"])
		}
	}
	markMemoryPorts(d.Accelerators, raw["accelerators"])
}

func markMemoryPorts(accs []core.Accelerator, raw any) {
	list, ok := raw.([]any)
	if !ok {
		return
	}
	for i, ra := range list {
		if i >= len(accs) {
			return
		}
		if am, ok := ra.(map[string]any); ok {
			_, accs[i].MaxMemoryPorts = am["max_memory_ports"]
		}
	}
}

func resolveMode(d *core.Description) core.Mode {
	switch {
	case d.HasContainers:
		return core.ModeContainers
	case d.HasAccelerators:
		return core.ModeFlat
	default:
		return core.ModeEmpty
	}
}
