package commands

import (
	"runtime"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/idelchi/modelseal/internal/config"
)

// EnvPrefix is the prefix of environment variables mapped onto flags.
const EnvPrefix = "MODELSEAL"

// NewRootCommand creates the root command with common configuration.
// It sets up environment variable binding and the flags shared by all subcommands.
func NewRootCommand(version string) *cobra.Command {
	cfg := &config.Config{}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:   "modelseal [flags] command [flags]",
		Short: "Seal machine-learning model artifacts",
		Long: `Encrypts model files with AES-128 CBC and authenticates them with HMAC-SHA256.
The key is derived from a passphrase. Sealed files are IV || ciphertext || tag.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
	}

	flags := root.PersistentFlags()

	flags.StringP("key", "k", "", "Passphrase the key is derived from")
	flags.StringP("key-file", "f", "", "Path to a file containing the passphrase")
	flags.String("ext", ".secret", "Extension of sealed files")

	flags.IntP("parallel", "j", runtime.NumCPU(), "Number of parallel workers, defaults to number of CPUs")
	flags.BoolP("quiet", "q", false, "Suppress non-error output")
	flags.BoolP("verbose", "v", false, "Log diagnostics to stderr")
	flags.BoolP("show", "s", false, "Show the configuration and exit")
	flags.Bool("stats", false, "Print statistics when done")
	flags.Bool("dry", false, "Show what would be processed without touching any file")

	flags.StringSliceP("include", "i", nil, "Patterns selecting files when walking directories")
	flags.StringSliceP("exclude", "e", nil, "Patterns excluding files when walking directories")
	flags.String("include-from", "", "JSONC file with an array of include patterns")
	flags.String("exclude-from", "", "JSONC file with an array of exclude patterns")

	root.AddCommand(
		NewEncryptCommand(v, cfg),
		NewDecryptCommand(v, cfg),
		NewVerifyCommand(v, cfg),
		NewCheckCommand(v, cfg),
	)

	return root
}
