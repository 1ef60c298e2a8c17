package toolchain

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/leappack/pkg/loaderplugin"
)

// Collision kinds.
const (
	KindAlias  = "alias"
	KindTarget = "target"
)

// CollisionError is returned when two modules map the same alias or target
// key to different values.
type CollisionError struct {
	Kind     string // KindAlias or KindTarget
	Key      string
	Existing string
	Incoming string
	Module   string // module whose result collided
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("%s %q from module %s maps to %q, already mapped to %q\nHint: give the modules distinct targets in leappack.yaml",
		e.Kind, e.Key, e.Module, e.Incoming, e.Existing)
}

// Artifacts accumulates resolver results across the modules of one build.
type Artifacts struct {
	Aliases map[string]string
	Targets map[string]string
	Exports []string
	// Loaders are the npm packages of the loaders involved, sorted.
	Loaders []string

	exported map[string]struct{}
	loaders  map[string]struct{}
}

// NewArtifacts creates an empty accumulator.
func NewArtifacts() *Artifacts {
	return &Artifacts{
		Aliases:  make(map[string]string),
		Targets:  make(map[string]string),
		exported: make(map[string]struct{}),
		loaders:  make(map[string]struct{}),
	}
}

// Add folds the result for module into the accumulator. A key already mapped
// to the same value is accepted; a key mapped to a different value fails
// with *CollisionError and leaves the accumulator unchanged.
func (a *Artifacts) Add(module string, r loaderplugin.Result) error {
	for _, key := range r.SortedModulePaths() {
		if err := checkCollision(a.Aliases, KindAlias, module, key, r.ModulePaths[key]); err != nil {
			return err
		}
	}
	for _, key := range r.SortedTargets() {
		if err := checkCollision(a.Targets, KindTarget, module, key, r.Targets[key]); err != nil {
			return err
		}
	}

	for k, v := range r.ModulePaths {
		a.Aliases[k] = v
	}
	for k, v := range r.Targets {
		a.Targets[k] = v
	}
	for _, name := range r.ExportNames {
		if _, ok := a.exported[name]; ok {
			continue
		}
		a.exported[name] = struct{}{}
		a.Exports = append(a.Exports, name)
	}
	return nil
}

// AddLoader records an npm loader package.
func (a *Artifacts) AddLoader(pkg string) {
	if _, ok := a.loaders[pkg]; ok {
		return
	}
	a.loaders[pkg] = struct{}{}
	a.Loaders = append(a.Loaders, pkg)
	sort.Strings(a.Loaders)
}

func checkCollision(existing map[string]string, kind, module, key, value string) error {
	if prev, ok := existing[key]; ok && prev != value {
		return &CollisionError{
			Kind:     kind,
			Key:      key,
			Existing: prev,
			Incoming: value,
			Module:   module,
		}
	}
	return nil
}
