package commands

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/internal/config"
	"github.com/leapstack-labs/leappack/internal/toolchain"
)

// NewManifestCommand creates the manifest command.
func NewManifestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Show the manifest of the last build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.FromContext(cmd.Context())
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat))

			m, err := toolchain.ReadManifest(filepath.Join(cfg.BuildDir, filepath.FromSlash(cfg.Manifest)))
			if err != nil {
				return err
			}
			if m.BuildDir != cfg.BuildDir {
				r.Warning(fmt.Sprintf("manifest was written for build dir %s", m.BuildDir))
			}
			return renderManifest(r, m)
		},
	}
	return cmd
}

func renderManifest(r *output.Renderer, m *toolchain.Manifest) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(m)
	}

	r.Header(1, "Build "+m.BuildID)
	r.KeyValue("Build dir", m.BuildDir)
	r.KeyValue("Export module", m.ExportModule)
	r.KeyValue("Exports", strings.Join(m.Exports, ", "))
	if len(m.Loaders) > 0 {
		r.KeyValue("Loaders", strings.Join(m.Loaders, ", "))
	}
	r.Println("")

	keys := make([]string, 0, len(m.Targets))
	for k := range m.Targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, m.Targets[k]})
	}
	r.Table([]string{"Target", "Artifact"}, rows)
	return nil
}
