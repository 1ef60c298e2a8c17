package commands

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/internal/toolchain"
)

// NewProbeCommand creates the probe command.
func NewProbeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe <file>...",
		Short: "List loader-chained requires in JavaScript files",
		Long: `Parse JavaScript files, list every require("loader!module") call and
report whether the toolchain can resolve its loaders. Exits with an error if
any loader is unknown.`,
		Example: `  leappack probe src/index.js src/app.js`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}

			var found []fileProbe
			for _, file := range args {
				src, err := os.ReadFile(file) //nolint:gosec // user supplied input file
				if err != nil {
					return fmt.Errorf("failed to read %s: %w", file, err)
				}
				probes, err := cmdCtx.Toolchain.Probe(cmd.Context(), src)
				if err != nil {
					return fmt.Errorf("%s: %w", file, err)
				}
				for _, p := range probes {
					found = append(found, fileProbe{File: file, Probe: p})
				}
			}

			if err := renderProbes(cmdCtx.Renderer, found); err != nil {
				return err
			}
			unresolved := 0
			for _, fp := range found {
				if fp.Err != nil {
					unresolved++
				}
			}
			if unresolved > 0 {
				return fmt.Errorf("%d of %d loader-chained requires cannot be resolved", unresolved, len(found))
			}
			return nil
		},
	}
	return cmd
}

type fileProbe struct {
	File string
	toolchain.Probe
}

// probeOutput is the JSON form of one probe.
type probeOutput struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Module  string `json:"module"`
	Loader  string `json:"loader"`
	Handler string `json:"handler,omitempty"`
	Error   string `json:"error,omitempty"`
}

func renderProbes(r *output.Renderer, found []fileProbe) error {
	if r.EffectiveMode() == output.ModeJSON {
		out := make([]probeOutput, 0, len(found))
		for _, fp := range found {
			po := probeOutput{
				File:    fp.File,
				Line:    fp.Line,
				Module:  fp.Name,
				Loader:  fp.Plugin,
				Handler: fp.Handler,
			}
			if fp.Err != nil {
				po.Error = fp.Err.Error()
			}
			out = append(out, po)
		}
		return r.JSON(out)
	}

	if len(found) == 0 {
		r.Println("No loader-chained requires found.")
		return nil
	}
	rows := make([][]string, 0, len(found))
	for _, fp := range found {
		status := fp.Handler
		if fp.Err != nil {
			status = "error: " + fp.Err.Error()
		}
		rows = append(rows, []string{fp.File, strconv.Itoa(fp.Line), fp.Name, fp.Plugin, status})
	}
	r.Table([]string{"File", "Line", "Module", "Loader", "Handler"}, rows)
	return nil
}
