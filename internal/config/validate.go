package config

import (
	"fmt"
	"os"
	"strings"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BuildDir == "" {
		return fmt.Errorf("build_dir is required")
	}
	if c.ExportModule == "" {
		return fmt.Errorf("export_module is required")
	}
	if c.Manifest == "" {
		return fmt.Errorf("manifest is required")
	}
	if c.ExportModule == c.Manifest {
		return fmt.Errorf("export_module and manifest must differ (both %q)", c.Manifest)
	}

	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output format %q: must be auto, text, markdown or json", c.OutputFormat)
	}

	for _, name := range c.Loaders {
		if name == "" || strings.ContainsAny(name, "!?") {
			return fmt.Errorf("invalid loader name %q: must be non-empty and contain no '!' or '?'", name)
		}
	}

	seen := make(map[string]int, len(c.Modules))
	for i, m := range c.Modules {
		if m.Name == "" {
			return fmt.Errorf("modules[%d]: name is required", i)
		}
		if m.Source == "" {
			return fmt.Errorf("modules[%d] (%s): source is required", i, m.Name)
		}
		if prev, ok := seen[m.Name]; ok {
			return fmt.Errorf("modules[%d]: duplicate module %q (first declared at modules[%d])", i, m.Name, prev)
		}
		seen[m.Name] = i
	}
	return nil
}

// ValidateSources checks that every module source exists and is a file.
func (c *Config) ValidateSources() error {
	for _, m := range c.Modules {
		info, err := os.Stat(m.Source)
		if os.IsNotExist(err) {
			return fmt.Errorf("source for module %s does not exist: %s\nHint: Check the modules section of %s or source_dir", m.Name, m.Source, ConfigFileName)
		}
		if err != nil {
			return fmt.Errorf("failed to stat source for module %s: %w", m.Name, err)
		}
		if info.IsDir() {
			return fmt.Errorf("source for module %s is a directory: %s", m.Name, m.Source)
		}
	}
	return nil
}
