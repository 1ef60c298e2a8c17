package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/pkg/loaderplugin"
)

// NewResolveCommand creates the resolve command.
func NewResolveCommand() *cobra.Command {
	var target, modpath string

	cmd := &cobra.Command{
		Use:   "resolve <module> <source>",
		Short: "Resolve and stage a single module",
		Long: `Resolve one module name through its loader chain and stage its source
into the build directory, printing the module path and target mappings.`,
		Example: `  leappack resolve 'json!./data.json' src/data.json
  leappack resolve lodash vendor/lodash.js --target vendor/lodash.js`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			result, err := cmdCtx.Toolchain.Resolve(cmd.Context(), args[0], args[1], target, modpath)
			if err != nil {
				return err
			}
			return renderResolve(cmdCtx.Renderer, args[0], result)
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "Build-relative artifact path (default: the bare module name)")
	cmd.Flags().StringVar(&modpath, "path", "", "Module path for the bundler (default: the target)")
	return cmd
}

// resolveOutput is the JSON form of a resolve result.
type resolveOutput struct {
	Module      string            `json:"module"`
	ModulePaths map[string]string `json:"module_paths"`
	Targets     map[string]string `json:"targets"`
	Exports     []string          `json:"exports"`
}

func renderResolve(r *output.Renderer, module string, result loaderplugin.Result) error {
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(resolveOutput{
			Module:      module,
			ModulePaths: result.ModulePaths,
			Targets:     result.Targets,
			Exports:     result.ExportNames,
		})
	}

	r.Header(1, module)
	r.KeyValue("Exports", strings.Join(result.ExportNames, ", "))
	r.Println("")

	var rows [][]string
	for _, name := range result.SortedModulePaths() {
		rows = append(rows, []string{"module", name, result.ModulePaths[name]})
	}
	for _, name := range result.SortedTargets() {
		rows = append(rows, []string{"target", name, result.Targets[name]})
	}
	r.Table([]string{"Kind", "Name", "Path"}, rows)
	return nil
}
