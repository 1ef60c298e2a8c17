package toolchain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest records the outcome of a build for the bundler configuration.
type Manifest struct {
	BuildID      string            `yaml:"build_id" json:"build_id"`
	BuildDir     string            `yaml:"build_dir" json:"build_dir"`
	ExportModule string            `yaml:"export_module" json:"export_module"`
	Aliases      map[string]string `yaml:"aliases" json:"aliases"`
	Targets      map[string]string `yaml:"targets" json:"targets"`
	Exports      []string          `yaml:"exports" json:"exports"`
	Loaders      []string          `yaml:"loaders,omitempty" json:"loaders,omitempty"`
}

// WriteManifest writes m to path as YAML.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("failed to encode manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // build output is world readable
		return fmt.Errorf("failed to write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from configuration
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode manifest %s: %w", path, err)
	}
	return &m, nil
}
