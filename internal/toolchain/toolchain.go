// Package toolchain resolves configured modules through the loader handler
// registry, stages them into the build directory and emits the export module
// and manifest a bundler consumes.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leapstack-labs/leappack/internal/config"
	"github.com/leapstack-labs/leappack/pkg/loaderplugin"
)

// RegistryName names the loader handler registry of a toolchain.
const RegistryName = "leappack.loaderplugins"

// ErrNoModules is returned by Build when no modules are configured.
var ErrNoModules = errors.New("no modules configured")

// Toolchain builds the module artifacts of one project.
type Toolchain struct {
	cfg      *config.Config
	registry *loaderplugin.Registry
	plain    *loaderplugin.BaseHandler
	fs       loaderplugin.FS
	logger   *slog.Logger
}

// Option configures a Toolchain.
type Option func(*Toolchain)

// WithLogger sets the toolchain logger. Handlers log through it too.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Toolchain) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithFS sets the filesystem handlers stage artifacts through.
func WithFS(fsys loaderplugin.FS) Option {
	return func(t *Toolchain) {
		if fsys != nil {
			t.fs = fsys
		}
	}
}

// New creates a toolchain for cfg. The loaders listed in cfg are registered
// as LoaderHandlers; with Autogen set, any other loader name resolves to a
// synthesized handler.
func New(cfg *config.Config, opts ...Option) (*Toolchain, error) {
	if cfg == nil {
		return nil, errors.New("toolchain requires a configuration")
	}
	t := &Toolchain{
		cfg:    cfg,
		fs:     loaderplugin.OSFS{},
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}

	handlerOpts := []loaderplugin.HandlerOption{
		loaderplugin.WithFS(t.fs),
		loaderplugin.WithLogger(t.logger),
	}
	registryOpts := []loaderplugin.RegistryOption{
		loaderplugin.WithRegistryLogger(t.logger),
		loaderplugin.WithHandlerOptions(handlerOpts...),
	}
	if cfg.Autogen {
		registryOpts = append(registryOpts, loaderplugin.WithSynthesizer(loaderplugin.AutogenLoaders))
	}
	t.registry = loaderplugin.NewRegistry(RegistryName, registryOpts...)

	for _, name := range cfg.Loaders {
		if name == "" || strings.ContainsAny(name, loaderplugin.Separator+"?") {
			return nil, fmt.Errorf("invalid loader name %q", name)
		}
		t.registry.Register(loaderplugin.NewLoaderHandler(t.registry, name, handlerOpts...))
	}

	// Names without a loader prefix are staged by an unnamed handler.
	t.plain = loaderplugin.NewBaseHandler(t.registry, "", handlerOpts...)

	t.logger.Debug("toolchain ready",
		slog.String("registry", RegistryName),
		slog.Any("loaders", t.registry.Names()),
		slog.Bool("autogen", cfg.Autogen))
	return t, nil
}

// Registry returns the loader handler registry.
func (t *Toolchain) Registry() *loaderplugin.Registry {
	return t.registry
}

// Spec returns the build specification handed to handlers.
func (t *Toolchain) Spec() *loaderplugin.Spec {
	return &loaderplugin.Spec{BuildDir: t.cfg.BuildDir}
}

// Resolve resolves one module name through its handler. An empty target
// defaults to the bare module name and an empty modpath to the target.
func (t *Toolchain) Resolve(ctx context.Context, modname, source, target, modpath string) (loaderplugin.Result, error) {
	if err := validateModname(modname); err != nil {
		return loaderplugin.Result{}, err
	}
	target, err := normalizeTarget(modname, target)
	if err != nil {
		return loaderplugin.Result{}, err
	}
	if modpath == "" {
		modpath = target
	}

	handler, err := t.handlerFor(modname)
	if err != nil {
		return loaderplugin.Result{}, err
	}
	result, err := handler.Resolve(ctx, t.Spec(), modname, source, target, modpath)
	if err != nil {
		return loaderplugin.Result{}, fmt.Errorf("failed to resolve module %s: %w", modname, err)
	}
	return result, nil
}

func (t *Toolchain) handlerFor(modname string) (loaderplugin.Handler, error) {
	if !loaderplugin.IsChained(modname) {
		return t.plain, nil
	}
	handler, err := t.registry.GetRecord(modname)
	if err != nil {
		return nil, err
	}
	if handler == nil {
		return t.plain, nil
	}
	return handler, nil
}

// validateModname rejects empty names and chains with an empty loader or
// module segment.
func validateModname(modname string) error {
	if modname == "" {
		return errors.New("module name is required")
	}
	segments := strings.Split(modname, loaderplugin.Separator)
	for _, seg := range segments[:len(segments)-1] {
		if loaderplugin.PluginName(seg) == "" {
			return fmt.Errorf("module name %q has an empty loader", modname)
		}
	}
	if segments[len(segments)-1] == "" {
		return fmt.Errorf("module name %q has no module after its loaders", modname)
	}
	return nil
}

// normalizeTarget cleans target, defaulting it to the bare module name, and
// rejects targets escaping the build directory.
func normalizeTarget(modname, target string) (string, error) {
	if target == "" {
		target = loaderplugin.Bare(modname)
	}
	cleaned := path.Clean(filepath.ToSlash(target))
	if cleaned == "." || path.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("target %q for module %s must be a path inside the build directory", target, modname)
	}
	return cleaned, nil
}

// loadersOf returns the npm packages of the loaders in modname's chain.
func (t *Toolchain) loadersOf(modname string) []string {
	segments := strings.Split(modname, loaderplugin.Separator)
	var pkgs []string
	for _, seg := range segments[:len(segments)-1] {
		h, ok := t.registry.Get(loaderplugin.PluginName(seg))
		if !ok {
			continue
		}
		if np, ok := h.(loaderplugin.NodePackager); ok {
			pkgs = append(pkgs, np.NodeModulePkgName())
		}
	}
	return pkgs
}

// BuildResult describes a completed build.
type BuildResult struct {
	BuildID          string
	ExportModulePath string
	ManifestPath     string
	Artifacts        *Artifacts
	Duration         time.Duration
}

// Build resolves every configured module in order, then writes the export
// module and the manifest into the build directory.
func (t *Toolchain) Build(ctx context.Context) (*BuildResult, error) {
	start := time.Now()
	if len(t.cfg.Modules) == 0 {
		return nil, ErrNoModules
	}
	if err := os.MkdirAll(t.cfg.BuildDir, 0o750); err != nil {
		return nil, fmt.Errorf("failed to create build directory %s: %w", t.cfg.BuildDir, err)
	}

	buildID := uuid.New().String()
	logger := t.logger.With(slog.String("build_id", buildID))
	logger.Info("build started", slog.Int("modules", len(t.cfg.Modules)), slog.String("build_dir", t.cfg.BuildDir))

	artifacts := NewArtifacts()
	for _, m := range t.cfg.Modules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result, err := t.Resolve(ctx, m.Name, m.Source, m.Target, m.Path)
		if err != nil {
			return nil, err
		}
		if err := artifacts.Add(m.Name, result); err != nil {
			return nil, err
		}
		for _, pkg := range t.loadersOf(m.Name) {
			artifacts.AddLoader(pkg)
		}
		logger.Debug("module resolved", slog.String("module", m.Name), slog.Any("exports", result.ExportNames))
	}

	code, err := t.GenerateExportModule(ctx, artifacts.Exports)
	if err != nil {
		return nil, err
	}
	code, err = transform(code, t.cfg.ExportModule, t.cfg.Minify)
	if err != nil {
		return nil, fmt.Errorf("invalid export module: %w", err)
	}

	exportPath := filepath.Join(t.cfg.BuildDir, filepath.FromSlash(t.cfg.ExportModule))
	if err := writeFile(exportPath, []byte(code)); err != nil {
		return nil, err
	}

	manifestPath := filepath.Join(t.cfg.BuildDir, filepath.FromSlash(t.cfg.Manifest))
	if err := os.MkdirAll(filepath.Dir(manifestPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", manifestPath, err)
	}
	if err := WriteManifest(manifestPath, &Manifest{
		BuildID:      buildID,
		BuildDir:     t.cfg.BuildDir,
		ExportModule: filepath.ToSlash(t.cfg.ExportModule),
		Aliases:      artifacts.Aliases,
		Targets:      artifacts.Targets,
		Exports:      artifacts.Exports,
		Loaders:      artifacts.Loaders,
	}); err != nil {
		return nil, err
	}

	res := &BuildResult{
		BuildID:          buildID,
		ExportModulePath: exportPath,
		ManifestPath:     manifestPath,
		Artifacts:        artifacts,
		Duration:         time.Since(start),
	}
	logger.Info("build finished",
		slog.Int("exports", len(artifacts.Exports)),
		slog.Duration("duration", res.Duration))
	return res, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // build output is world readable
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
