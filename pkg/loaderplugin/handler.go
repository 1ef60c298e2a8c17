package loaderplugin

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// ErrNoBuildDir is returned when a handler needs to write an artifact but the
// spec has no build directory.
var ErrNoBuildDir = errors.New("build directory is not configured")

// Spec is the build specification shared by every handler in one build.
type Spec struct {
	// BuildDir is the directory artifacts are copied into.
	BuildDir string
}

// Result is what a handler produces for one module name.
type Result struct {
	// ModulePaths maps the (possibly prefix qualified) module name to the
	// module path the bundler should use.
	ModulePaths map[string]string
	// Targets maps the stripped module name and its "./" alias to the
	// build-relative artifact path.
	Targets map[string]string
	// ExportNames lists, in order, the names surfaced by the generated
	// export module.
	ExportNames []string
}

// SortedModulePaths returns the module path keys in lexical order.
func (r Result) SortedModulePaths() []string {
	return sortedKeys(r.ModulePaths)
}

// SortedTargets returns the target keys in lexical order.
func (r Result) SortedTargets() []string {
	return sortedKeys(r.Targets)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Handler resolves module names carrying its loader prefix.
type Handler interface {
	// Name is the loader prefix this handler answers to.
	Name() string
	// Resolve materializes modname and returns its mappings. source is the
	// file to consume, target the build-relative destination and modpath
	// the module path to record for modname.
	Resolve(ctx context.Context, spec *Spec, modname, source, target, modpath string) (Result, error)
}

// Lookup finds the handler responsible for a module name.
type Lookup interface {
	GetRecord(modname string) (Handler, error)
}

// UnknownHandlerError is returned when no handler is registered for a loader
// prefix and the registry does not synthesize one.
type UnknownHandlerError struct {
	Name      string
	Registry  string
	Available []string
}

func (e *UnknownHandlerError) Error() string {
	return fmt.Sprintf("no loader handler %q in registry %q\nAvailable loaders: %v\nHint: add it to loaders in leappack.yaml or enable autogen",
		e.Name, e.Registry, e.Available)
}
