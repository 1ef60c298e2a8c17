package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leappack/internal/cli/output"
	"github.com/leapstack-labs/leappack/internal/config"
	"github.com/leapstack-labs/leappack/internal/toolchain"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg       *config.Config
	Logger    *slog.Logger
	Toolchain *toolchain.Toolchain
	Renderer  *output.Renderer
}

// NewCommandContext creates a CommandContext with a toolchain and renderer
// built from the config stored on the command context.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	cfg := config.FromContext(cmd.Context())
	logger := config.GetLogger(cmd.Context())

	tc, err := toolchain.New(cfg, toolchain.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	return &CommandContext{
		Cfg:       cfg,
		Logger:    logger,
		Toolchain: tc,
		Renderer:  output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.OutputFormat)),
	}, nil
}
