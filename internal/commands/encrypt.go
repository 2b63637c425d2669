package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/modelseal/internal/config"
)

// NewEncryptCommand creates a new cobra command for the encrypt subcommand.
func NewEncryptCommand(v *viper.Viper, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "encrypt [flags] paths...",
		Aliases: []string{"enc"},
		Short:   "Seal model files",
		Long: `Seals each file into a sibling whose extension is replaced by --ext,
for example model.pt -> model.secret.`,
		Args:    cobra.MinimumNArgs(1),
		PreRunE: preRun(v, cfg, config.ModeEncrypt),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}

	cmd.Flags().BoolP("delete", "d", false, "Delete the original file after successful encryption")
	cmd.Flags().Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")

	return cmd
}
