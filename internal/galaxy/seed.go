package galaxy

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// PresetSpec is one entry of the presets file. Parameters omitted from the
// file keep their defaults.
type PresetSpec struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Parameters  Parameters `yaml:"parameters"`
}

func (s *PresetSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain PresetSpec
	out := plain{Parameters: DefaultParameters()}
	if err := value.Decode(&out); err != nil {
		return err
	}
	*s = PresetSpec(out)
	return nil
}

type presetFile struct {
	Presets []PresetSpec `yaml:"presets"`
}

// ParsePresets decodes and validates a presets document.
func ParsePresets(data []byte) ([]PresetSpec, error) {
	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets: %w", err)
	}

	seen := make(map[string]bool, len(file.Presets))
	for i, spec := range file.Presets {
		if spec.Name == "" {
			return nil, fmt.Errorf("preset #%d has no name", i+1)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("preset %q is defined twice", spec.Name)
		}
		seen[spec.Name] = true
		if err := spec.Parameters.Validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", spec.Name, err)
		}
	}
	return file.Presets, nil
}

// LoadPresetFile reads presets from path. A missing file yields no presets.
func LoadPresetFile(path string) ([]PresetSpec, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}
	return ParsePresets(data)
}
