package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/evanw/esbuild/pkg/api"

	"github.com/leapstack-labs/leappack/pkg/jsast"
	"github.com/leapstack-labs/leappack/pkg/replace"
)

// modulesPlaceholder is the identifier in exportTemplate replaced by the
// object literal of exported modules.
const modulesPlaceholder = "__leappack_modules__"

const exportHeader = "// Generated by leappack. Do not edit.\n"

const exportTemplate = `"use strict";
var modules = __leappack_modules__;
module.exports = modules;
`

// GenerateExportModule renders the CommonJS module exporting every name in
// exports as {name: require(name)}, in order.
func (t *Toolchain) GenerateExportModule(ctx context.Context, exports []string) (string, error) {
	prog, err := jsast.Parse(ctx, []byte(exportTemplate))
	if err != nil {
		return "", fmt.Errorf("failed to parse export template: %w", err)
	}

	placeholder := jsast.Extract(prog, func(n jsast.Node) bool {
		id, ok := n.(*jsast.Identifier)
		return ok && id.Name == modulesPlaceholder
	}, 0)
	if placeholder == nil {
		return "", fmt.Errorf("export template has no %s placeholder", modulesPlaceholder)
	}

	props := make([]*jsast.Tuple, 0, len(exports))
	for _, name := range exports {
		props = append(props, jsast.NewTuple(
			jsast.Quote(name),
			jsast.NewCall(jsast.NewIdentifier("require"), jsast.Quote(name)),
		))
	}

	n := replace.NewReplacer(t.logger).Replace(prog, replace.Map{
		placeholder: jsast.NewObject(props...),
	})
	if n != 1 {
		return "", fmt.Errorf("expected one %s substitution, made %d", modulesPlaceholder, n)
	}
	return exportHeader + prog.String() + "\n", nil
}

// transform validates code with esbuild and minifies it when requested.
// Without minification the input is returned unchanged.
func transform(code, sourcefile string, minify bool) (string, error) {
	opts := api.TransformOptions{
		Loader:     api.LoaderJS,
		Sourcefile: sourcefile,
		Target:     api.ES2015,
		LogLevel:   api.LogLevelSilent,
	}
	if minify {
		opts.MinifyWhitespace = true
		opts.MinifyIdentifiers = true
		opts.MinifySyntax = true
	}

	result := api.Transform(code, opts)
	if len(result.Errors) > 0 {
		var errMsg strings.Builder
		for _, msg := range result.Errors {
			if msg.Location != nil {
				fmt.Fprintf(&errMsg, "%s:%d:%d: %s\n",
					msg.Location.File,
					msg.Location.Line,
					msg.Location.Column,
					msg.Text)
			} else {
				fmt.Fprintf(&errMsg, "%s\n", msg.Text)
			}
		}
		return "", fmt.Errorf("esbuild errors:\n%s", errMsg.String())
	}

	if minify {
		return string(result.Code), nil
	}
	return code, nil
}
