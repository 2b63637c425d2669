package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/modelseal/internal/config"
)

// NewDecryptCommand creates a new cobra command for the decrypt subcommand.
func NewDecryptCommand(v *viper.Viper, cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "decrypt [flags] [paths...]",
		Aliases: []string{"dec"},
		Short:   "Open sealed model files",
		Long: `Verifies and decrypts sealed files. Without --output, the sealed extension is
stripped and --restore-ext appended. Nothing is written when verification fails.`,
		Args:    cobra.ArbitraryArgs,
		PreRunE: preRun(v, cfg, config.ModeDecrypt),
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, cfg)
		},
	}

	cmd.Flags().StringP("output", "o", "", "Output path, only with a single input file")
	cmd.Flags().String("restore-ext", "", "Extension appended to decrypted files after stripping --ext")
	cmd.Flags().BoolP("delete", "d", false, "Delete the sealed file after successful decryption")
	cmd.Flags().Bool("preserve-timestamps", false, "Copy the modification time of the input to the output")

	return cmd
}
