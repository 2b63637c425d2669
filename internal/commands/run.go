package commands

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/idelchi/modelseal/internal/config"
	"github.com/idelchi/modelseal/internal/logic"
)

// run shows the configuration when requested, otherwise processes the files.
func run(cmd *cobra.Command, cfg *config.Config) error {
	if cfg.Show {
		out, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return fmt.Errorf("marshalling configuration: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(out)

		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}

	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	return logic.Run(cfg, logger)
}

// newLogger builds a console logger writing to stderr.
// Only warnings are shown by default, --verbose enables debug output and --quiet keeps errors only.
func newLogger(cfg *config.Config) (*zap.SugaredLogger, error) {
	level := zapcore.WarnLevel

	switch {
	case cfg.Verbose:
		level = zapcore.DebugLevel
	case cfg.Quiet:
		level = zapcore.ErrorLevel
	}

	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.DisableStacktrace = true
	zcfg.DisableCaller = true
	zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return logger.Sugar(), nil
}
