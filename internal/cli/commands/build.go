package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/internal/config"
	"github.com/leapstack-labs/leappack/internal/toolchain"
	"github.com/leapstack-labs/leappack/internal/watch"
)

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	var watchFlag bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Stage all configured modules",
		Long: `Resolve every module in the config through its loader chain, copy the
sources into the build directory and write the export module and manifest.`,
		Example: `  # Build once
  leappack build

  # Rebuild whenever a source changes
  leappack build --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			if !watchFlag {
				return runBuild(cmd.Context(), cmdCtx)
			}
			return runWatch(cmd.Context(), cmdCtx)
		},
	}

	cmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "Rebuild when module sources change")
	return cmd
}

func runBuild(ctx context.Context, cmdCtx *CommandContext) error {
	if err := cmdCtx.Cfg.ValidateSources(); err != nil {
		return err
	}
	res, err := cmdCtx.Toolchain.Build(ctx)
	if err != nil {
		if errors.Is(err, toolchain.ErrNoModules) {
			return fmt.Errorf("%w\n\nHint: add a modules list to %s", err, config.ConfigFileName)
		}
		return err
	}
	return renderBuild(cmdCtx.Renderer, res)
}

func runWatch(ctx context.Context, cmdCtx *CommandContext) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runBuild(ctx, cmdCtx); err != nil {
		cmdCtx.Logger.Error("initial build failed", "error", err)
	}

	w := &watch.Watcher{
		Paths:   watchPaths(cmdCtx.Cfg),
		Ignore:  []string{cmdCtx.Cfg.BuildDir},
		Logger:  cmdCtx.Logger,
		Rebuild: func(ctx context.Context) error { return runBuild(ctx, cmdCtx) },
	}
	return w.Run(ctx)
}

// watchPaths returns the source directory, the config file and every
// module source outside the source directory.
func watchPaths(cfg *config.Config) []string {
	paths := []string{cfg.SourceDir}
	if cfg.ConfigFile != "" && !within(cfg.ConfigFile, cfg.SourceDir) {
		paths = append(paths, cfg.ConfigFile)
	}
	for _, m := range cfg.Modules {
		if within(m.Source, cfg.SourceDir) {
			continue
		}
		if _, err := os.Stat(m.Source); err != nil {
			continue
		}
		paths = append(paths, m.Source)
	}
	return paths
}

func within(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// buildOutput is the JSON form of a build result.
type buildOutput struct {
	BuildID      string            `json:"build_id"`
	ExportModule string            `json:"export_module"`
	Manifest     string            `json:"manifest"`
	Exports      []string          `json:"exports"`
	Aliases      map[string]string `json:"aliases"`
	Targets      map[string]string `json:"targets"`
	Loaders      []string          `json:"loaders,omitempty"`
	DurationMS   int64             `json:"duration_ms"`
}

func renderBuild(r *output.Renderer, res *toolchain.BuildResult) error {
	a := res.Artifacts
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(buildOutput{
			BuildID:      res.BuildID,
			ExportModule: res.ExportModulePath,
			Manifest:     res.ManifestPath,
			Exports:      a.Exports,
			Aliases:      a.Aliases,
			Targets:      a.Targets,
			Loaders:      a.Loaders,
			DurationMS:   res.Duration.Milliseconds(),
		})
	}

	r.Header(1, fmt.Sprintf("Build %s", res.BuildID))
	r.KeyValue("Export module", res.ExportModulePath)
	r.KeyValue("Manifest", res.ManifestPath)
	r.KeyValue("Duration", res.Duration.Round(time.Millisecond).String())
	if len(a.Loaders) > 0 {
		r.KeyValue("Loaders", strings.Join(a.Loaders, ", "))
	}
	r.Println("")

	names := make([]string, 0, len(a.Aliases))
	for name := range a.Aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, a.Aliases[name]})
	}
	r.Table([]string{"Module", "Path"}, rows)
	return nil
}
