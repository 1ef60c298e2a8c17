// Package loaderplugin resolves loader chain module names ("json!raw!./data.json")
// into nested handler invocations and the artifact mappings they produce.
package loaderplugin

import "strings"

// Separator splits loader prefixes from the module they apply to.
const Separator = "!"

// querySeparator introduces loader options on a prefix ("text?raw=1!x").
const querySeparator = "?"

// PluginName returns the registry key for a module name: its first segment
// without any query options.
func PluginName(modname string) string {
	name, _, _ := strings.Cut(modname, Separator)
	name, _, _ = strings.Cut(name, querySeparator)
	return name
}

// Unwrap removes the handlerName prefix from modname. Names that are not
// prefixed by handlerName are returned unchanged.
func Unwrap(handlerName, modname string) string {
	head, rest, found := strings.Cut(modname, Separator)
	if !found {
		return modname
	}
	head, _, _ = strings.Cut(head, querySeparator)
	if head != handlerName {
		return modname
	}
	return rest
}

// Bare returns the module name with every loader prefix removed.
func Bare(modname string) string {
	if i := strings.LastIndex(modname, Separator); i >= 0 {
		return modname[i+len(Separator):]
	}
	return modname
}

// IsChained reports whether name still carries a loader prefix.
func IsChained(name string) bool {
	return strings.Contains(name, Separator)
}

// Qualify prefixes name with a loader prefix. An empty prefix leaves name as is.
func Qualify(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + Separator + name
}

// relativeAlias is the "./" form of a stripped name, kept equal to the bare
// form so relative and bare imports resolve to the same artifact.
func relativeAlias(name string) string {
	return "./" + name
}
