package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/modelseal/internal/config"
	"github.com/idelchi/modelseal/internal/logic"
)

// NewCheckCommand creates a new cobra command for the check subcommand.
func NewCheckCommand(v *viper.Viper, cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check [flags] [paths...]",
		Short: "Validate that include/exclude patterns match files",
		Args:  cobra.ArbitraryArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if err := load(v, cmd, cfg); err != nil {
				return err
			}

			cfg.Files = args
			if len(args) == 0 {
				cfg.Files = []string{"."}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return logic.RunCheck(cfg, cmd.ErrOrStderr())
		},
	}
}
