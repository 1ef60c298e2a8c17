package loaderplugin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
)

// ExportNamer shapes the export module names surfaced by a handler. prefix is
// empty at the base level and the handler name when unwinding a chain.
type ExportNamer func(names []string, prefix string) []string

// GenerateExportModuleNames is the default ExportNamer: it qualifies every
// name with prefix, preserving order.
func GenerateExportModuleNames(names []string, prefix string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = Qualify(prefix, name)
	}
	return out
}

// HandlerOption configures a BaseHandler.
type HandlerOption func(*BaseHandler)

// WithFS sets the filesystem artifacts are written through.
func WithFS(fsys FS) HandlerOption {
	return func(h *BaseHandler) {
		h.fs = fsys
	}
}

// WithExportNamer replaces the export name shaping strategy.
func WithExportNamer(namer ExportNamer) HandlerOption {
	return func(h *BaseHandler) {
		h.exportNamer = namer
	}
}

// WithLogger sets the handler logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(h *BaseHandler) {
		h.logger = logger
	}
}

// BaseHandler copies the final data file into the build directory, and
// delegates to the registry when the name it unwraps is itself a chain.
type BaseHandler struct {
	name        string
	lookup      Lookup
	fs          FS
	exportNamer ExportNamer
	logger      *slog.Logger
}

// NewBaseHandler creates a handler for the loader prefix name. lookup is
// consulted for inner chain segments and may be nil for handlers that never
// see chained names.
func NewBaseHandler(lookup Lookup, name string, opts ...HandlerOption) *BaseHandler {
	h := &BaseHandler{
		name:        name,
		lookup:      lookup,
		fs:          OSFS{},
		exportNamer: GenerateExportModuleNames,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger = slog.New(slog.DiscardHandler)
	}
	return h
}

// Name implements Handler.
func (h *BaseHandler) Name() string {
	return h.name
}

// Resolve implements Handler.
func (h *BaseHandler) Resolve(ctx context.Context, spec *Spec, modname, source, target, modpath string) (Result, error) {
	stripped := Unwrap(h.name, modname)
	if IsChained(stripped) && h.lookup != nil {
		chained, err := h.lookup.GetRecord(stripped)
		if err != nil {
			return Result{}, err
		}
		if chained != nil {
			return h.chainedCall(ctx, chained, spec, stripped, source, target, modpath)
		}
	}
	return h.run(spec, modname, stripped, source, target, modpath)
}

// FinalizeExportModuleNames produces the names that end up in the generated
// export module. Every code path of the handler goes through here.
func (h *BaseHandler) FinalizeExportModuleNames(names []string, prefix string) []string {
	return h.exportNamer(names, prefix)
}

func (h *BaseHandler) run(spec *Spec, modname, stripped, source, target, modpath string) (Result, error) {
	if spec == nil || spec.BuildDir == "" {
		return Result{}, ErrNoBuildDir
	}

	copyTarget := filepath.Join(spec.BuildDir, filepath.FromSlash(target))
	dir := filepath.Dir(copyTarget)
	if _, err := h.fs.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		if err := h.fs.MkdirAll(dir, 0o750); err != nil {
			return Result{}, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := h.fs.Copy(source, copyTarget); err != nil {
		return Result{}, fmt.Errorf("failed to copy %s to %s: %w", source, copyTarget, err)
	}
	h.logger.Debug("copied loader artifact",
		slog.String("loader", h.name),
		slog.String("modname", modname),
		slog.String("target", copyTarget))

	return Result{
		ModulePaths: map[string]string{modname: modpath},
		Targets: map[string]string{
			stripped:                target,
			relativeAlias(stripped): target,
		},
		ExportNames: h.FinalizeExportModuleNames([]string{modname}, ""),
	}, nil
}

func (h *BaseHandler) chainedCall(ctx context.Context, chained Handler, spec *Spec, stripped, source, target, modpath string) (Result, error) {
	inner, err := chained.Resolve(ctx, spec, stripped, source, target, modpath)
	if err != nil {
		return Result{}, err
	}

	// Only one artifact exists, so targets pass through; module paths are
	// namespaced under this handler.
	modulePaths := make(map[string]string, len(inner.ModulePaths))
	for k, v := range inner.ModulePaths {
		modulePaths[Qualify(h.name, k)] = v
	}
	h.logger.Debug("resolved chained loader",
		slog.String("loader", h.name),
		slog.String("inner", chained.Name()),
		slog.String("modname", stripped))

	return Result{
		ModulePaths: modulePaths,
		Targets:     inner.Targets,
		ExportNames: h.FinalizeExportModuleNames(inner.ExportNames, h.name),
	}, nil
}
