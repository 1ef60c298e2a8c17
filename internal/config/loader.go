package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "LEAPPACK_"

// maxUpwardSearchLevels limits how far up the directory tree to search for config files.
const maxUpwardSearchLevels = 10

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// configExistsIn returns the config file in dir, or "" if there is none.
func configExistsIn(dir string) string {
	for _, name := range []string{ConfigFileName, ConfigFileNameAlt} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// FindProjectRoot searches upward from startDir for a leappack config file.
// Returns empty string if not found within maxUpwardSearchLevels.
func FindProjectRoot(startDir string) string {
	dir := startDir
	for i := 0; i < maxUpwardSearchLevels; i++ {
		if configExistsIn(dir) != "" {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}
	return ""
}

// inferProjectRoot determines the project root.
// Priority:
//  1. Directory of an explicit config file
//  2. Search upward from CWD for leappack.yaml
//  3. Current working directory
func inferProjectRoot(cfgFile string) string {
	if cfgFile != "" {
		if abs, err := filepath.Abs(cfgFile); err == nil {
			return filepath.Dir(abs)
		}
		return filepath.Dir(cfgFile)
	}

	cwd, err := os.Getwd()
	if err != nil || cwd == "" {
		return "."
	}
	if root := FindProjectRoot(cwd); root != "" {
		return root
	}
	return cwd
}

// resolvePathRelativeTo resolves a path relative to baseDir if it's not absolute.
// Returns the path unchanged if it's empty or already absolute.
func resolvePathRelativeTo(path, baseDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(baseDir, path)
}

// Load loads configuration from defaults, the config file, environment
// variables and flags.
// Precedence (highest to lowest): flags > env vars > config file > defaults
//
// An empty cfgFile searches the project root for leappack.yaml. flags may
// be nil; only flags that were explicitly set are applied.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")
	projectRoot := inferProjectRoot(cfgFile)

	// Paths given as flags are relative to CWD, not the project root.
	var flagBuildDir, flagSourceDir string
	if flags != nil {
		flagBuildDir = absFlag(flags, "build-dir")
		flagSourceDir = absFlag(flags, "source-dir")
	}

	// 1. Load defaults
	defaults := Default()
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"build_dir":     defaults.BuildDir,
		"source_dir":    defaults.SourceDir,
		"export_module": defaults.ExportModule,
		"manifest":      defaults.Manifest,
		"minify":        defaults.Minify,
		"autogen":       defaults.Autogen,
		"verbose":       false,
		"output":        defaults.OutputFormat,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Find and load config file
	configFile := cfgFile
	if configFile == "" {
		configFile = configExistsIn(projectRoot)
	}
	if configFile != "" {
		if err := k.Load(file.Provider(configFile), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
		}
	}

	// 3. Load environment variables (LEAPPACK_ prefix)
	// Transform: LEAPPACK_BUILD_DIR -> build_dir
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Load flags (highest priority - overrides env vars and config file)
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
				return "", nil
			}
			// Transform kebab-case to snake_case for config keys
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ProjectRoot = projectRoot
	cfg.ConfigFile = configFile

	// 6. Expand ${VAR} references and resolve relative paths
	cfg.BuildDir = expandEnvVars(cfg.BuildDir)
	cfg.SourceDir = expandEnvVars(cfg.SourceDir)
	if flagBuildDir != "" {
		cfg.BuildDir = flagBuildDir
	} else {
		cfg.BuildDir = resolvePathRelativeTo(cfg.BuildDir, projectRoot)
	}
	if flagSourceDir != "" {
		cfg.SourceDir = flagSourceDir
	} else {
		cfg.SourceDir = resolvePathRelativeTo(cfg.SourceDir, projectRoot)
	}
	for i := range cfg.Modules {
		m := &cfg.Modules[i]
		m.Source = resolvePathRelativeTo(expandEnvVars(m.Source), cfg.SourceDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// absFlag returns the absolute value of a path flag if it was explicitly set.
func absFlag(flags *pflag.FlagSet, name string) string {
	if flags.Lookup(name) == nil || !flags.Changed(name) {
		return ""
	}
	v, _ := flags.GetString(name)
	if v == "" {
		return ""
	}
	abs, err := filepath.Abs(v)
	if err != nil {
		return filepath.Clean(v)
	}
	return abs
}

// expandEnvVars expands ${VAR} patterns in a string with environment variable values.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		return match // Return original if not found
	})
}
