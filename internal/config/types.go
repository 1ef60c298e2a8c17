// Package config loads leappack project configuration.
//
// Values are layered with koanf: built-in defaults, then leappack.yaml (or
// leappack.yml), then LEAPPACK_ environment variables, then explicitly set
// command-line flags.
package config

// Config holds all project configuration options.
type Config struct {
	BuildDir     string         `koanf:"build_dir"`
	SourceDir    string         `koanf:"source_dir"`
	ExportModule string         `koanf:"export_module"` // relative to BuildDir
	Manifest     string         `koanf:"manifest"`      // relative to BuildDir
	Minify       bool           `koanf:"minify"`
	Autogen      bool           `koanf:"autogen"`
	Verbose      bool           `koanf:"verbose"`
	OutputFormat string         `koanf:"output"`
	Loaders      []string       `koanf:"loaders"`
	Modules      []ModuleConfig `koanf:"modules"`

	// ProjectRoot is the directory relative paths were resolved against.
	ProjectRoot string `koanf:"-"`
	// ConfigFile is the config file that was loaded, if any.
	ConfigFile string `koanf:"-"`
}

// ModuleConfig describes one module to resolve and stage into the build
// directory.
type ModuleConfig struct {
	// Name is the module name, possibly loader-chained ("json!./data.json").
	Name string `koanf:"name"`
	// Source is the file to copy. Relative paths resolve against SourceDir.
	Source string `koanf:"source"`
	// Target is the destination relative to BuildDir. Defaults to the bare
	// module name.
	Target string `koanf:"target"`
	// Path is the module path recorded in the aliases. Defaults to Target.
	Path string `koanf:"path"`
}

// Default configuration values.
const (
	DefaultBuildDir     = "build"
	DefaultSourceDir    = "."
	DefaultExportModule = "leappack-modules.js"
	DefaultManifest     = "leappack-manifest.yaml"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ConfigFileName is the name of the config file.
const ConfigFileName = "leappack.yaml"

// ConfigFileNameAlt is the alternate name of the config file.
const ConfigFileNameAlt = "leappack.yml"

// Default returns a Config populated with default values and no modules.
func Default() *Config {
	return &Config{
		BuildDir:     DefaultBuildDir,
		SourceDir:    DefaultSourceDir,
		ExportModule: DefaultExportModule,
		Manifest:     DefaultManifest,
		Autogen:      true,
		OutputFormat: DefaultOutput,
	}
}
