package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/leapstack-labs/leappack/pkg/jsast"
	"github.com/leapstack-labs/leappack/pkg/loaderplugin"
)

// Probe is a loader-chained require found in JavaScript source.
type Probe struct {
	Name   string // full module name, e.g. "json!./data.json"
	Plugin string // registry key of the outermost loader
	Line   int

	// Set by Toolchain.Probe.
	Handler string // "registered" or "autogen" when resolvable
	Err     error  // why the loader cannot be resolved
}

// Handler kinds reported by Toolchain.Probe.
const (
	HandlerRegistered = "registered"
	HandlerAutogen    = "autogen"
)

// ProbeSource finds the require("a!b") calls in src whose argument is a
// string literal carrying at least one loader prefix.
func ProbeSource(ctx context.Context, src []byte) ([]Probe, error) {
	prog, err := jsast.Parse(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse source: %w", err)
	}

	var probes []Probe
	for _, n := range jsast.Filter(prog, isRequire) {
		call := n.(*jsast.Call)
		name := call.Args[0].(*jsast.String).Unquote()
		if !loaderplugin.IsChained(name) {
			continue
		}
		probes = append(probes, Probe{
			Name:   name,
			Plugin: loaderplugin.PluginName(name),
			Line:   call.Line,
		})
	}
	return probes, nil
}

// Probe reports the loader-chained requires in src and how the toolchain
// resolves the loader of each. Unresolvable loaders are reported per probe
// in Err; only parse failures return an error.
func (t *Toolchain) Probe(ctx context.Context, src []byte) ([]Probe, error) {
	probes, err := ProbeSource(ctx, src)
	if err != nil {
		return nil, err
	}
	for i := range probes {
		p := &probes[i]
		h, err := t.checkChain(p.Name)
		if err != nil {
			p.Err = err
			continue
		}
		p.Handler = HandlerRegistered
		if a, ok := h.(interface{ Autogenerated() bool }); ok && a.Autogenerated() {
			p.Handler = HandlerAutogen
		}
	}
	return probes, nil
}

// checkChain looks up every loader of modname and returns the outermost.
// Handlers autogen would synthesize are reported but not registered.
func (t *Toolchain) checkChain(modname string) (loaderplugin.Handler, error) {
	if err := validateModname(modname); err != nil {
		return nil, err
	}
	segments := strings.Split(modname, loaderplugin.Separator)
	var outer loaderplugin.Handler
	for i, seg := range segments[:len(segments)-1] {
		h, err := t.registry.Peek(seg)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			outer = h
		}
	}
	return outer, nil
}

func isRequire(n jsast.Node) bool {
	call, ok := n.(*jsast.Call)
	if !ok || len(call.Args) != 1 {
		return false
	}
	callee, ok := call.Callee.(*jsast.Identifier)
	if !ok || callee.Name != "require" {
		return false
	}
	_, ok = call.Args[0].(*jsast.String)
	return ok
}
