package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/modelseal/internal/config"
)

// NewVerifyCommand creates a new cobra command for the verify subcommand.
func NewVerifyCommand(v *viper.Viper, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:     "verify [flags] [paths...]",
		Aliases: []string{"ver"},
		Short:   "Check that sealed files are intact and match the passphrase",
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(v, cfg, config.ModeVerify),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}
}
