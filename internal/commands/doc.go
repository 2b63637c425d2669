// Package commands provides the command-line interface for modelseal.
//
// It implements commands for:
//   - sealing model artifacts
//   - opening sealed artifacts
//   - verifying sealed artifacts without decrypting them
//   - checking include/exclude patterns
//
// Flags and MODELSEAL_* environment variables are merged through viper
// and validated before any file is touched.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/modelseal/internal/config"
)

// preRun returns a PreRunE handler that loads flags and environment into cfg,
// resolves positional args into cfg.Files and validates the configuration.
func preRun(v *viper.Viper, cfg *config.Config, mode config.Mode) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := load(v, cmd, cfg); err != nil {
			return err
		}

		cfg.Mode = mode

		if len(args) == 0 {
			cfg.Files = []string{"."}
		} else {
			cfg.Files = args
		}

		if cfg.Show {
			return nil
		}

		return cfg.Validate()
	}
}

// load binds the command's flags and unmarshals the merged settings into cfg.
func load(v *viper.Viper, cmd *cobra.Command, cfg *config.Config) error {
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	return nil
}
